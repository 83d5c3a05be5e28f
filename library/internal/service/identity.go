package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/model"
)

// getStudent resolves id to a user with the student role.
func (s *Service) getStudent(ctx context.Context, id string) (model.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return model.User{}, errs.ErrStudentNotFound
		}
		return model.User{}, err
	}
	if !u.IsStudent() {
		return model.User{}, errs.ErrStudentNotFound
	}
	return u, nil
}

const minPasswordLen = 6

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hash password")
	}
	return string(hash), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *Service) CreateStudent(ctx context.Context, req model.CreateStudentRequest) (model.User, error) {
	if strings.TrimSpace(req.RollNumber) == "" {
		return model.User{}, errs.Validation("rollNumber is required")
	}
	return s.createUser(ctx, model.RoleStudent, req.Name, req.Email, req.Phone, req.Password, req.Department,
		optional(req.Batch), optional(req.RollNumber), optional(req.CreatedBy))
}

func (s *Service) CreateLibrarian(ctx context.Context, req model.CreateLibrarianRequest) (model.User, error) {
	return s.createUser(ctx, model.RoleLibrarian, req.Name, req.Email, req.Phone, req.Password, req.Department,
		nil, nil, optional(req.CreatedBy))
}

// RegisterLibrarian is the public self-registration path.
func (s *Service) RegisterLibrarian(ctx context.Context, req model.CreateLibrarianRequest) (model.User, error) {
	req.CreatedBy = ""
	return s.CreateLibrarian(ctx, req)
}

func (s *Service) createUser(
	ctx context.Context,
	role model.Role,
	name, email, phone, password, department string,
	batch, roll, createdBy *string,
) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return model.User{}, errs.Validation("email is required")
	}
	if password == "" {
		return model.User{}, errs.Validation("password is required")
	}
	if len(password) < minPasswordLen {
		return model.User{}, errs.ErrWeakPassword
	}
	hash, err := hashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	now := s.clock.Now()
	return s.repo.CreateUser(ctx, model.User{
		ID:           s.newID(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(department),
		Batch:        batch,
		RollNumber:   roll,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *Service) GetStudent(ctx context.Context, id string) (model.User, error) {
	return s.getStudent(ctx, id)
}

func (s *Service) GetStudentByRoll(ctx context.Context, rollNumber string) (model.User, error) {
	return s.repo.GetStudentByRoll(ctx, strings.TrimSpace(rollNumber))
}

func (s *Service) ListStudents(ctx context.Context, search string, page, size int) (model.ListStudents, error) {
	return s.repo.ListStudents(ctx, strings.TrimSpace(search), page, size)
}

func (s *Service) UpdateStudent(ctx context.Context, req model.UpdateStudentRequest) (model.User, error) {
	if req.Role != "" && model.Role(req.Role) != model.RoleStudent {
		return model.User{}, errs.ErrImmutableRole
	}
	cur, err := s.getStudent(ctx, req.ID)
	if err != nil {
		return model.User{}, err
	}
	cur.Name = strings.TrimSpace(req.Name)
	cur.Phone = strings.TrimSpace(req.Phone)
	cur.Department = strings.TrimSpace(req.Department)
	cur.Batch = optional(req.Batch)
	cur.UpdatedAt = s.clock.Now()
	return s.repo.UpdateUser(ctx, cur)
}

// GetProfile returns the caller's own record, whatever the role.
func (s *Service) GetProfile(ctx context.Context, id string) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (model.User, error) {
	cur, err := s.repo.GetUser(ctx, req.ID)
	if err != nil {
		return model.User{}, err
	}
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&cur.Phone, req.Phone)
	if !cur.IsStudent() {
		set(&cur.Name, req.Name)
		set(&cur.Department, req.Department)
	}
	cur.UpdatedAt = s.clock.Now()
	return s.repo.UpdateUser(ctx, cur)
}

func (s *Service) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLen {
		return errs.ErrWeakPassword
	}
	if req.NewPassword == req.CurrentPassword {
		return errs.ErrSamePassword
	}
	cur, err := s.repo.GetUser(ctx, req.ID)
	if err != nil {
		return err
	}
	if err = bcrypt.CompareHashAndPassword([]byte(cur.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return errs.ErrWrongPassword
	}
	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, cur.ID, hash, s.clock.Now())
}
