package ledger_test

import (
	"testing"
	"time"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/ledger"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	now := date(2024, 1, 1)
	l := ledger.New("ledger-1", "student-1", now)
	l.Append(now,
		ledger.Issuance{ID: "e1", AccessionNumber: "ACC001", IssueDate: now, DueDate: date(2024, 1, 15)},
		ledger.Issuance{ID: "e2", AccessionNumber: "ACC002", IssueDate: now, DueDate: date(2024, 1, 16)},
	)
	return l
}

func TestLedger_Return(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	at := date(2024, 1, 10).Add(3 * time.Hour)

	r, err := l.Return("e1", at)
	require.NoError(t, err)
	require.Equal(t, ledger.Return{IssuanceID: "e1", AccessionNumber: "ACC001", ReturnedAt: at}, r)
	require.False(t, l.IsOpen("e1"))
	require.True(t, l.IsOpen("e2"))
	require.Equal(t, at, l.UpdatedAt)

	_, err = l.Return("e1", at)
	require.ErrorIs(t, err, errs.ErrAlreadyReturned)
	require.ErrorIs(t, err, errs.ErrConflict)
	require.Len(t, l.Returns, 1)

	_, err = l.Return("missing", at)
	require.ErrorIs(t, err, errs.ErrEntryNotFound)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestLedger_OpenAndHistory(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	at := date(2024, 1, 12)
	_, err := l.Return("e1", at)
	require.NoError(t, err)

	open := l.Open()
	require.Len(t, open, 1)
	require.Equal(t, "ACC002", open[0].AccessionNumber)

	_, ok := l.OpenFor("ACC001")
	require.False(t, ok)
	e, ok := l.OpenFor("ACC002")
	require.True(t, ok)
	require.Equal(t, "e2", e.ID)

	h := l.History()
	require.Len(t, h, 2)
	require.Equal(t, "e1", h[0].ID)
	require.True(t, h[0].Returned)
	require.Equal(t, at, *h[0].ReturnedAt)
	require.False(t, h[1].Returned)
	require.Nil(t, h[1].ReturnedAt)
}

func TestLedger_ReissueAfterReturn(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	_, err := l.Return("e1", date(2024, 1, 5))
	require.NoError(t, err)

	l.Append(date(2024, 1, 6), ledger.Issuance{ID: "e3", AccessionNumber: "ACC001", IssueDate: date(2024, 1, 6), DueDate: date(2024, 1, 20)})
	e, ok := l.OpenFor("ACC001")
	require.True(t, ok)
	require.Equal(t, "e3", e.ID)
	require.Len(t, l.History(), 3)
}

func TestLedger_DueOn(t *testing.T) {
	t.Parallel()
	l := newLedger(t)

	due := l.DueOn(date(2024, 1, 15).Add(17 * time.Hour))
	require.Len(t, due, 1)
	require.Equal(t, "e1", due[0].ID)

	_, err := l.Return("e1", date(2024, 1, 14))
	require.NoError(t, err)
	require.Empty(t, l.DueOn(date(2024, 1, 15)))
}

func TestLedger_Clone(t *testing.T) {
	t.Parallel()
	l := newLedger(t)
	c := l.Clone()
	_, err := c.Return("e1", date(2024, 1, 2))
	require.NoError(t, err)
	require.True(t, l.IsOpen("e1"))
	require.False(t, c.IsOpen("e1"))
}

func TestTomorrow(t *testing.T) {
	t.Parallel()
	kolkata := time.FixedZone("IST", 5*3600+1800)

	// 20:00 UTC on Jan 1 is already Jan 2 in IST.
	now := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	require.Equal(t, date(2024, 1, 2), ledger.Tomorrow(now, time.UTC))
	require.Equal(t, date(2024, 1, 3), ledger.Tomorrow(now, kolkata))
	require.True(t, ledger.SameDay(date(2024, 2, 29), time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)))
}
