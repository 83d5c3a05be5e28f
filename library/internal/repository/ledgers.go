package repository

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/ledger"
)

var errNothingClaimed = errors.New("nothing claimed")

func (r *repository) IssueBooks(ctx context.Context, studentID string, entries []ledger.Issuance, now time.Time) ([]ledger.Issuance, []string, error) {
	var issued []ledger.Issuance
	var skipped []string

	// claim in a fixed order so overlapping batches cannot deadlock
	entries = append([]ledger.Issuance(nil), entries...)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AccessionNumber < entries[j].AccessionNumber
	})

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		issued, skipped = nil, nil

		l, err := r.lockOrCreateLedger(ctx, tx, studentID, now)
		if err != nil {
			return err
		}

		const claim = `
insert into open_issuances (accession_number, entry_id, student_id, due_date)
values (@accession_number, @entry_id, @student_id, @due_date)
on conflict (accession_number) do nothing`
		for _, e := range entries {
			tag, err := tx.Exec(ctx, claim, pgx.NamedArgs{
				"accession_number": e.AccessionNumber,
				"entry_id":         e.ID,
				"student_id":       studentID,
				"due_date":         e.DueDate,
			})
			if err != nil {
				return errors.Wrap(err, "claim copy")
			}
			if tag.RowsAffected() == 1 {
				issued = append(issued, e)
			} else {
				skipped = append(skipped, e.AccessionNumber)
			}
		}
		if len(issued) == 0 {
			return errNothingClaimed
		}

		l.Append(now, issued...)
		return r.saveLedger(ctx, tx, l)
	})
	if errors.Is(err, errNothingClaimed) {
		return nil, skipped, nil
	}
	if err != nil {
		r.log.Error("IssueBooks", zap.String("student_id", studentID), zap.Error(err))
		return nil, nil, err
	}
	return issued, skipped, nil
}

func (r *repository) ReturnBook(ctx context.Context, studentID, entryID string, at time.Time) (ledger.Return, ledger.Issuance, error) {
	var (
		ret   ledger.Return
		entry ledger.Issuance
	)
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		l, err := r.selectLedger(ctx, tx, studentID, true)
		if err != nil {
			return err
		}
		entry, _ = l.Entry(entryID)
		if ret, err = l.Return(entryID, at); err != nil {
			return err
		}
		if err = r.saveLedger(ctx, tx, l); err != nil {
			return err
		}
		const release = `delete from open_issuances where entry_id = @entry_id`
		_, err = tx.Exec(ctx, release, pgx.NamedArgs{"entry_id": entryID})
		return err
	})
	if err != nil {
		return ledger.Return{}, ledger.Issuance{}, err
	}
	return ret, entry, nil
}

func (r *repository) GetLedger(ctx context.Context, studentID string) (*ledger.Ledger, error) {
	return r.selectLedger(ctx, r.db, studentID, false)
}

func (r *repository) OpenIssuance(ctx context.Context, accessionNumber string) (ledger.OpenIssuance, bool, error) {
	const q = `
select accession_number, entry_id::text, student_id::text, due_date
from open_issuances
where accession_number = $1`
	var o ledger.OpenIssuance
	err := r.db.QueryRow(ctx, q, accessionNumber).Scan(&o.AccessionNumber, &o.EntryID, &o.StudentID, &o.DueDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.OpenIssuance{}, false, nil
		}
		return ledger.OpenIssuance{}, false, err
	}
	return o, true, nil
}

func (r *repository) LedgersDueOn(ctx context.Context, day time.Time) ([]*ledger.Ledger, error) {
	const q = `
select l.document
from ledgers l
where l.student_id in (select student_id from open_issuances where due_date = $1)
order by l.updated_at desc`
	rows, err := r.db.Query(ctx, q, ledger.Day(day))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs, err := pgx.CollectRows(rows, pgx.RowTo[[]byte])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	out := make([]*ledger.Ledger, 0, len(docs))
	for _, doc := range docs {
		var l ledger.Ledger
		if err = json.Unmarshal(doc, &l); err != nil {
			return nil, errors.Wrap(err, "decode ledger")
		}
		out = append(out, &l)
	}
	return out, nil
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *repository) selectLedger(ctx context.Context, db querier, studentID string, forUpdate bool) (*ledger.Ledger, error) {
	uid, err := uuid.Parse(studentID)
	if err != nil {
		return nil, errs.ErrLedgerNotFound
	}
	q := `select document from ledgers where student_id = $1`
	if forUpdate {
		q += ` for update`
	}
	var doc []byte
	if err := db.QueryRow(ctx, q, uid.String()).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrLedgerNotFound
		}
		return nil, err
	}
	var l ledger.Ledger
	if err := json.Unmarshal(doc, &l); err != nil {
		return nil, errors.Wrap(err, "decode ledger")
	}
	return &l, nil
}

// lockOrCreateLedger inserts an empty ledger if the student has none and
// locks the row. Concurrent first issuances for one student serialize on the
// primary key. The empty ledger disappears again if the transaction rolls back.
func (r *repository) lockOrCreateLedger(ctx context.Context, tx pgx.Tx, studentID string, now time.Time) (*ledger.Ledger, error) {
	empty := ledger.New(uuid.NewString(), studentID, now)
	doc, err := json.Marshal(empty)
	if err != nil {
		return nil, err
	}
	const insert = `
insert into ledgers (student_id, id, document, created_at, updated_at)
values (@student_id, @id, @document, @now, @now)
on conflict (student_id) do nothing`
	if _, err = tx.Exec(ctx, insert, pgx.NamedArgs{
		"student_id": studentID,
		"id":         empty.ID,
		"document":   doc,
		"now":        now,
	}); err != nil {
		return nil, errors.Wrap(err, "create ledger")
	}
	return r.selectLedger(ctx, tx, studentID, true)
}

func (r *repository) saveLedger(ctx context.Context, tx pgx.Tx, l *ledger.Ledger) error {
	doc, err := json.Marshal(l)
	if err != nil {
		return err
	}
	const update = `
update ledgers
    set document = @document, updated_at = @updated_at
where student_id = @student_id`
	_, err = tx.Exec(ctx, update, pgx.NamedArgs{
		"document":   doc,
		"updated_at": l.UpdatedAt,
		"student_id": l.StudentID,
	})
	return errors.Wrap(err, "save ledger")
}
