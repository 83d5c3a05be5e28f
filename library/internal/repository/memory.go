package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/ledger"
	"github.com/Astemirdum/college-library/library/internal/model"
)

// Memory keeps the catalog, identities and ledgers in-process. One mutex
// guards ledgers and the open-issuance index together.
type Memory struct {
	mu      sync.RWMutex
	books   map[string]model.Book
	users   map[string]model.User
	emails  map[string]string // email -> user id
	rolls   map[string]string // roll number -> user id
	ledgers map[string]*ledger.Ledger
	open    map[string]ledger.OpenIssuance
}

var _ Repository = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		books:   make(map[string]model.Book),
		users:   make(map[string]model.User),
		emails:  make(map[string]string),
		rolls:   make(map[string]string),
		ledgers: make(map[string]*ledger.Ledger),
		open:    make(map[string]ledger.OpenIssuance),
	}
}

func (m *Memory) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[book.AccessionNumber]; ok {
		return model.Book{}, errors.Wrapf(errs.ErrDuplicate, "accession number %s", book.AccessionNumber)
	}
	m.books[book.AccessionNumber] = book
	return book, nil
}

func (m *Memory) UpdateBook(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.books[book.AccessionNumber]
	if !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	book.AddedBy = cur.AddedBy
	book.CreatedAt = cur.CreatedAt
	m.books[book.AccessionNumber] = book
	return book, nil
}

func (m *Memory) GetBook(_ context.Context, accessionNumber string) (model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[accessionNumber]
	if !ok {
		return model.Book{}, errs.ErrBookNotFound
	}
	return book, nil
}

func (m *Memory) GetBooks(_ context.Context, accessionNumbers []string) ([]model.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Book
	seen := make(map[string]struct{}, len(accessionNumbers))
	for _, acc := range accessionNumbers {
		if _, dup := seen[acc]; dup {
			continue
		}
		seen[acc] = struct{}{}
		if b, ok := m.books[acc]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func pageOf[T any](items []T, page, size int) []T {
	limit, off := offset(page, size)
	if off >= uint64(len(items)) {
		return []T{}
	}
	end := off + limit
	if end > uint64(len(items)) {
		end = uint64(len(items))
	}
	return items[off:end]
}

func (m *Memory) ListBooks(_ context.Context, search string, page, size int) (model.ListBooks, error) {
	page, size = normalizePage(page, size)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []model.Book
	for _, b := range m.books {
		if search == "" ||
			containsFold(b.Title, search) || containsFold(b.Author, search) ||
			containsFold(b.Category, search) || containsFold(b.Publisher, search) ||
			containsFold(b.AccessionNumber, search) || containsFold(b.Supplier, search) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].AccessionNumber < matched[j].AccessionNumber })
	return model.ListBooks{
		Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(matched)},
		Items:  pageOf(matched, page, size),
	}, nil
}

func (m *Memory) CreateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emails[user.Email]; ok {
		return model.User{}, errors.Wrap(errs.ErrDuplicate, "email or roll number already registered")
	}
	if user.IsStudent() && user.RollNumber != nil {
		if _, ok := m.rolls[*user.RollNumber]; ok {
			return model.User{}, errors.Wrap(errs.ErrDuplicate, "email or roll number already registered")
		}
		m.rolls[*user.RollNumber] = user.ID
	}
	m.users[user.ID] = user
	m.emails[user.Email] = user.ID
	return user, nil
}

func (m *Memory) UpdateUser(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[user.ID]
	if !ok {
		return model.User{}, errs.ErrUserNotFound
	}
	cur.Name = user.Name
	cur.Phone = user.Phone
	cur.Department = user.Department
	cur.Batch = user.Batch
	cur.UpdatedAt = user.UpdatedAt
	m.users[user.ID] = cur
	return cur, nil
}

func (m *Memory) UpdatePassword(_ context.Context, id, passwordHash string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[id]
	if !ok {
		return errs.ErrUserNotFound
	}
	cur.PasswordHash = passwordHash
	cur.UpdatedAt = at
	m.users[id] = cur
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, errs.ErrUserNotFound
	}
	return u, nil
}

func (m *Memory) GetUsers(_ context.Context, ids []string) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *Memory) GetStudentByRoll(_ context.Context, rollNumber string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.rolls[rollNumber]
	if !ok {
		return model.User{}, errs.ErrStudentNotFound
	}
	return m.users[id], nil
}

func (m *Memory) ListStudents(_ context.Context, search string, page, size int) (model.ListStudents, error) {
	page, size = normalizePage(page, size)
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []model.User
	for _, u := range m.users {
		if !u.IsStudent() {
			continue
		}
		roll, batch := deref(u.RollNumber), deref(u.Batch)
		if search == "" ||
			containsFold(u.Name, search) || containsFold(u.Email, search) ||
			containsFold(roll, search) || containsFold(u.Department, search) || containsFold(batch, search) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return deref(matched[i].RollNumber) < deref(matched[j].RollNumber) })
	return model.ListStudents{
		Paging: model.Paging{Page: page, PageSize: size, TotalElements: len(matched)},
		Items:  pageOf(matched, page, size),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (m *Memory) IssueBooks(_ context.Context, studentID string, entries []ledger.Issuance, now time.Time) ([]ledger.Issuance, []string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var issued []ledger.Issuance
	var skipped []string
	for _, e := range entries {
		if _, taken := m.open[e.AccessionNumber]; taken {
			skipped = append(skipped, e.AccessionNumber)
			continue
		}
		m.open[e.AccessionNumber] = ledger.OpenIssuance{
			AccessionNumber: e.AccessionNumber,
			EntryID:         e.ID,
			StudentID:       studentID,
			DueDate:         e.DueDate,
		}
		issued = append(issued, e)
	}
	if len(issued) == 0 {
		return nil, skipped, nil
	}

	l, ok := m.ledgers[studentID]
	if !ok {
		l = ledger.New(uuid.NewString(), studentID, now)
		m.ledgers[studentID] = l
	}
	l.Append(now, issued...)
	return issued, skipped, nil
}

func (m *Memory) ReturnBook(_ context.Context, studentID, entryID string, at time.Time) (ledger.Return, ledger.Issuance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.ledgers[studentID]
	if !ok {
		return ledger.Return{}, ledger.Issuance{}, errs.ErrLedgerNotFound
	}
	entry, _ := l.Entry(entryID)
	ret, err := l.Return(entryID, at)
	if err != nil {
		return ledger.Return{}, ledger.Issuance{}, err
	}
	if o, held := m.open[ret.AccessionNumber]; held && o.EntryID == entryID {
		delete(m.open, ret.AccessionNumber)
	}
	return ret, entry, nil
}

func (m *Memory) GetLedger(_ context.Context, studentID string) (*ledger.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.ledgers[studentID]
	if !ok {
		return nil, errs.ErrLedgerNotFound
	}
	return l.Clone(), nil
}

func (m *Memory) OpenIssuance(_ context.Context, accessionNumber string) (ledger.OpenIssuance, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.open[accessionNumber]
	return o, ok, nil
}

func (m *Memory) LedgersDueOn(_ context.Context, day time.Time) ([]*ledger.Ledger, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	students := make(map[string]struct{})
	for _, o := range m.open {
		if ledger.SameDay(o.DueDate, day) {
			students[o.StudentID] = struct{}{}
		}
	}
	out := make([]*ledger.Ledger, 0, len(students))
	for id := range students {
		out = append(out, m.ledgers[id].Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
