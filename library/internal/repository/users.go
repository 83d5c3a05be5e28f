package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/model"
)

var userColumns = []string{
	"id::text as id", "name", "email", "phone", "password_hash", "role", "department",
	"batch", "roll_number", "created_by::text as created_by", "created_at", "updated_at",
}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("id", "name", "email", "phone", "password_hash", "role", "department", "batch", "roll_number", "created_by", "created_at", "updated_at").
		Values(user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Role, user.Department, user.Batch, user.RollNumber, user.CreatedBy, user.CreatedAt, user.UpdatedAt).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	if _, err = r.db.Exec(ctx, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errors.Wrap(errs.ErrDuplicate, "email or roll number already registered")
		}
		r.log.Error("CreateUser", zap.String("q", q), zap.Error(err))
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) UpdateUser(ctx context.Context, user model.User) (model.User, error) {
	q, args, err := qb.Update(usersTableName).
		SetMap(map[string]interface{}{
			"name":       user.Name,
			"phone":      user.Phone,
			"department": user.Department,
			"batch":      user.Batch,
			"updated_at": user.UpdatedAt,
		}).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return model.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.User{}, errs.ErrUserNotFound
	}
	return r.GetUser(ctx, user.ID)
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return errs.ErrUserNotFound
	}
	q, args, err := qb.Update(usersTableName).
		Set("password_hash", passwordHash).
		Set("updated_at", at).
		Where(sq.Eq{"id": uid.String()}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrUserNotFound
	}
	return nil
}

func (r *repository) getUser(ctx context.Context, where sq.Sqlizer) (model.User, error) {
	q, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.User{}, err
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrUserNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUser(ctx context.Context, id string) (model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.User{}, errs.ErrUserNotFound
	}
	return r.getUser(ctx, sq.Eq{"id": uid.String()})
}

func (r *repository) GetStudentByRoll(ctx context.Context, rollNumber string) (model.User, error) {
	user, err := r.getUser(ctx, sq.Eq{"roll_number": rollNumber, "role": model.RoleStudent})
	if errors.Is(err, errs.ErrUserNotFound) {
		return model.User{}, errs.ErrStudentNotFound
	}
	return user, err
}

func (r *repository) GetUsers(ctx context.Context, ids []string) ([]model.User, error) {
	uids := make([]string, 0, len(ids))
	for _, id := range ids {
		if uid, err := uuid.Parse(id); err == nil {
			uids = append(uids, uid.String())
		}
	}
	if len(uids) == 0 {
		return nil, nil
	}
	q, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(sq.Eq{"id": uids}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
}

func (r *repository) ListStudents(ctx context.Context, search string, page, size int) (model.ListStudents, error) {
	page, size = normalizePage(page, size)
	where := sq.And{sq.Eq{"role": model.RoleStudent}}
	if search != "" {
		pattern := likePattern(search)
		where = append(where, sq.Or{
			iLike("name", pattern),
			iLike("email", pattern),
			iLike("roll_number", pattern),
			iLike("department", pattern),
			iLike("batch", pattern),
		})
	}

	countQ, countArgs, err := qb.Select("count(*)").From(usersTableName).Where(where).ToSql()
	if err != nil {
		return model.ListStudents{}, err
	}
	var total int
	if err = r.db.QueryRow(ctx, countQ, countArgs...).Scan(&total); err != nil {
		return model.ListStudents{}, err
	}

	sel := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		OrderBy("roll_number")
	limit, off := offset(page, size)
	sel = sel.Limit(limit).Offset(off)
	q, args, err := sel.ToSql()
	if err != nil {
		return model.ListStudents{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.ListStudents{}, err
	}
	defer rows.Close()
	users, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		return model.ListStudents{}, errors.Wrap(err, "pgx.CollectRows")
	}

	return model.ListStudents{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: users,
	}, nil
}
