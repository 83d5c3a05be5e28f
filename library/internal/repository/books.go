package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/model"
)

var bookColumns = []string{
	"accession_number", "title", "author", "category", "publisher",
	"year", "pages", "supplier", "price", "added_by::text as added_by", "created_at",
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("accession_number", "title", "author", "category", "publisher", "year", "pages", "supplier", "price", "added_by", "created_at").
		Values(book.AccessionNumber, book.Title, book.Author, book.Category, book.Publisher, book.Year, book.Pages, book.Supplier, book.Price, book.AddedBy, book.CreatedAt).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	if _, err = r.db.Exec(ctx, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errors.Wrapf(errs.ErrDuplicate, "accession number %s", book.AccessionNumber)
		}
		r.log.Error("CreateBook", zap.String("q", q), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	q, args, err := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"title":     book.Title,
			"author":    book.Author,
			"category":  book.Category,
			"publisher": book.Publisher,
			"year":      book.Year,
			"pages":     book.Pages,
			"supplier":  book.Supplier,
			"price":     book.Price,
		}).
		Where(sq.Eq{"accession_number": book.AccessionNumber}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return model.Book{}, err
	}
	if tag.RowsAffected() == 0 {
		return model.Book{}, errs.ErrBookNotFound
	}
	return r.GetBook(ctx, book.AccessionNumber)
}

func (r *repository) GetBook(ctx context.Context, accessionNumber string) (model.Book, error) {
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"accession_number": accessionNumber}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.Book{}, err
	}
	defer rows.Close()

	book, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBooks(ctx context.Context, accessionNumbers []string) ([]model.Book, error) {
	if len(accessionNumbers) == 0 {
		return nil, nil
	}
	q, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"accession_number": accessionNumbers}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
}

func bookSearch(search string) sq.Sqlizer {
	if search == "" {
		return sq.Expr("true")
	}
	pattern := likePattern(search)
	return sq.Or{
		iLike("title", pattern),
		iLike("author", pattern),
		iLike("category", pattern),
		iLike("publisher", pattern),
		iLike("accession_number", pattern),
		iLike("supplier", pattern),
	}
}

func (r *repository) ListBooks(ctx context.Context, search string, page, size int) (model.ListBooks, error) {
	page, size = normalizePage(page, size)
	where := bookSearch(search)

	countQ, countArgs, err := qb.Select("count(*)").From(booksTableName).Where(where).ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	var total int
	if err = r.db.QueryRow(ctx, countQ, countArgs...).Scan(&total); err != nil {
		return model.ListBooks{}, err
	}

	sel := qb.Select(bookColumns...).
		From(booksTableName).
		Where(where).
		OrderBy("accession_number")
	limit, off := offset(page, size)
	sel = sel.Limit(limit).Offset(off)
	q, args, err := sel.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", q), zap.Any("args", args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return model.ListBooks{}, err
	}
	defer rows.Close()
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return model.ListBooks{}, errors.Wrap(err, "pgx.CollectRows")
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          page,
			PageSize:      size,
			TotalElements: total,
		},
		Items: books,
	}, nil
}
