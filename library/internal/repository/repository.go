package repository

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/ledger"
	"github.com/Astemirdum/college-library/library/internal/model"
)

type BookRepository interface {
	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	GetBook(ctx context.Context, accessionNumber string) (model.Book, error)
	// GetBooks returns the books that exist among accessionNumbers, in no particular order.
	GetBooks(ctx context.Context, accessionNumbers []string) ([]model.Book, error)
	ListBooks(ctx context.Context, search string, page, size int) (model.ListBooks, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	UpdateUser(ctx context.Context, user model.User) (model.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
	GetUser(ctx context.Context, id string) (model.User, error)
	GetUsers(ctx context.Context, ids []string) ([]model.User, error)
	GetStudentByRoll(ctx context.Context, rollNumber string) (model.User, error)
	ListStudents(ctx context.Context, search string, page, size int) (model.ListStudents, error)
}

type LedgerRepository interface {
	// IssueBooks claims every entry's copy in the open-issuance index and
	// appends the claimed entries to the student's ledger, creating it if
	// needed, in one atomic step. Copies that are already out are skipped.
	// When nothing can be claimed nothing is written.
	IssueBooks(ctx context.Context, studentID string, entries []ledger.Issuance, now time.Time) (issued []ledger.Issuance, skipped []string, err error)
	// ReturnBook closes one entry of the student's ledger and releases its copy.
	ReturnBook(ctx context.Context, studentID, entryID string, at time.Time) (ledger.Return, ledger.Issuance, error)
	GetLedger(ctx context.Context, studentID string) (*ledger.Ledger, error)
	OpenIssuance(ctx context.Context, accessionNumber string) (ledger.OpenIssuance, bool, error)
	// LedgersDueOn returns the ledgers holding an open entry due on day,
	// most recently updated first.
	LedgersDueOn(ctx context.Context, day time.Time) ([]*ledger.Ledger, error)
}

type Repository interface {
	BookRepository
	UserRepository
	LedgerRepository
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	if db == nil {
		return nil, errors.New("nil pool")
	}
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName = `books`
	usersTableName = `users`
)

var (
	qb   = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// normalizePage fills in the default page and page size.
func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = model.DefaultPage
	}
	if size <= 0 {
		size = model.DefaultPageSize
	}
	return page, size
}

func offset(page, size int) (limit, off uint64) {
	return uint64(size), uint64((page - 1) * size)
}

// likePattern builds a substring ILIKE pattern matching search literally.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// iLike matches column against pattern with backslash as the escape character.
func iLike(column, pattern string) sq.Sqlizer {
	return sq.Expr(column+` ILIKE ? ESCAPE '\'`, pattern)
}
