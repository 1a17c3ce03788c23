package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"tally/internal/cache"
	"tally/internal/checkin"
	"tally/internal/core"
	"tally/internal/export"
	"tally/internal/feedback"
	"tally/internal/storage"
	"tally/internal/store"
)

// LedgerService orchestrates ledger mutations across the in-memory store and
// the persisted slots. Every mutation is synchronous: the affected slot is
// overwritten with one complete serialized value, and a failed write restores
// the previous in-memory state so the caller can re-attempt. Derived month
// overviews are memoized and dropped on any mutation.
type LedgerService struct {
	ledger *store.Ledger
	repo   *storage.SlotRepository
	stats  *cache.Cache[core.Stats]

	mu       sync.Mutex
	checkins []checkin.Record
	feedback []feedback.Feedback
}

type ledgerSlot struct {
	Accounts     []core.Account     `json:"accounts"`
	Categories   []core.Category    `json:"categories"`
	Transactions []core.Transaction `json:"transactions"`
}

// NewLedgerService loads all slots from the repository. Empty slots fall
// back to seeded defaults; a malformed or version-mismatched slot aborts
// startup so bad state is never silently replaced.
func NewLedgerService(ctx context.Context, repo *storage.SlotRepository) (*LedgerService, error) {
	var ls ledgerSlot
	err := repo.ReadSlot(ctx, storage.SlotLedger, &ls)
	switch {
	case errors.Is(err, storage.ErrSlotEmpty):
		ls = ledgerSlot{Categories: core.DefaultCategories()}
		slog.InfoContext(ctx, "Ledger slot empty, seeding defaults")
	case err != nil:
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	var records []checkin.Record
	if err := repo.ReadSlot(ctx, storage.SlotCheckInRecords, &records); err != nil && !errors.Is(err, storage.ErrSlotEmpty) {
		return nil, fmt.Errorf("load check-in records: %w", err)
	}

	var fbs []feedback.Feedback
	if err := repo.ReadSlot(ctx, storage.SlotFeedback, &fbs); err != nil && !errors.Is(err, storage.ErrSlotEmpty) {
		return nil, fmt.Errorf("load feedback: %w", err)
	}

	var dark bool
	if err := repo.ReadSlot(ctx, storage.SlotDarkMode, &dark); err != nil && !errors.Is(err, storage.ErrSlotEmpty) {
		return nil, fmt.Errorf("load dark mode flag: %w", err)
	}

	s := &LedgerService{
		ledger:   store.New(ls.Accounts, ls.Categories, ls.Transactions),
		repo:     repo,
		stats:    cache.New[core.Stats](16, 5*time.Minute),
		checkins: records,
		feedback: fbs,
	}
	s.ledger.SetDarkMode(dark)

	// Any mutation invalidates every memoized overview.
	s.ledger.Subscribe(s.stats.Purge)

	return s, nil
}

func (s *LedgerService) Ledger() *store.Ledger {
	return s.ledger
}

// mutateLedger applies fn to the store and persists the result. When the
// write fails the pre-mutation collections are restored, so a failed
// operation leaves no trace and the caller can re-attempt.
func (s *LedgerService) mutateLedger(ctx context.Context, fn func() error) error {
	accounts := s.ledger.Accounts()
	categories := s.ledger.Categories()
	transactions := s.ledger.Transactions()
	if err := fn(); err != nil {
		return err
	}
	if err := s.persistLedger(ctx); err != nil {
		s.ledger.Replace(accounts, categories, transactions)
		return err
	}
	return nil
}

// AddTransaction validates and appends a transaction, then persists the
// ledger slot. The store is left unchanged when validation or the write
// fails.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	var id string
	err := s.mutateLedger(ctx, func() error {
		var err error
		id, err = s.ledger.AddTransaction(tx)
		return err
	})
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", string(tx.Type),
		"amount_cents", tx.Amount.Cents,
		"category_id", tx.CategoryID)
	return id, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	err := s.mutateLedger(ctx, func() error {
		return s.ledger.DeleteTransaction(id)
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func (s *LedgerService) AddAccount(ctx context.Context, a core.Account) (string, error) {
	var id string
	err := s.mutateLedger(ctx, func() error {
		var err error
		id, err = s.ledger.AddAccount(a)
		return err
	})
	if err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "Account created", "id", id, "name", a.Name, "type", string(a.Type))
	return id, nil
}

func (s *LedgerService) PatchAccount(ctx context.Context, id string, p store.AccountPatch) error {
	return s.mutateLedger(ctx, func() error {
		return s.ledger.PatchAccount(id, p)
	})
}

func (s *LedgerService) SetDarkMode(ctx context.Context, on bool) error {
	prev := s.ledger.DarkMode()
	s.ledger.SetDarkMode(on)
	if err := s.repo.WriteSlot(ctx, storage.SlotDarkMode, on); err != nil {
		s.ledger.SetDarkMode(prev)
		return fmt.Errorf("persist dark mode: %w", err)
	}
	return nil
}

// WindowStats computes totals for a window preset, memoized until the next
// mutation.
func (s *LedgerService) WindowStats(w core.Window, now time.Time) core.Stats {
	key := string(w) + "|" + now.Format("2006-01-02")
	if st, ok := s.stats.Get(key); ok {
		return st
	}
	start, end := w.Range(now)
	st := core.ComputeStats(s.ledger.Transactions(), start, end)
	s.stats.Set(key, st)
	return st
}

// Breakdown returns the top-N category slices for a window preset.
func (s *LedgerService) Breakdown(w core.Window, entryType core.EntryType, now time.Time, topN int) []core.CategorySlice {
	start, end := w.Range(now)
	return core.CategoryBreakdown(s.ledger.Transactions(), s.ledger.Categories(), entryType, start, end, topN)
}

// CheckIn records today's check-in if absent and persists the record list.
// It reports whether today was already checked in. The record is committed
// to memory only after the write succeeds, so a failed check-in can be
// re-attempted.
func (s *LedgerService) CheckIn(ctx context.Context, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, already := checkin.CheckIn(s.checkins, now)
	if already {
		return true, nil
	}
	if err := s.repo.WriteSlot(ctx, storage.SlotCheckInRecords, updated); err != nil {
		return false, fmt.Errorf("persist check-in: %w", err)
	}
	s.checkins = updated

	last := updated[len(updated)-1]
	slog.InfoContext(ctx, "Checked in", "date", last.Date, "streak", last.ConsecutiveDays)
	return false, nil
}

func (s *LedgerService) CheckInStats(now time.Time) (checkin.Stats, error) {
	s.mu.Lock()
	records := append([]checkin.Record(nil), s.checkins...)
	s.mu.Unlock()
	return checkin.ComputeStats(records, now)
}

// SubmitFeedback stores a new feedback record and persists the list. The
// record is committed to memory only after the write succeeds.
func (s *LedgerService) SubmitFeedback(ctx context.Context, kind, content, contact string, now time.Time) (feedback.Feedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, fb, err := feedback.Submit(s.feedback, kind, content, contact, now)
	if err != nil {
		return feedback.Feedback{}, err
	}
	if err := s.repo.WriteSlot(ctx, storage.SlotFeedback, updated); err != nil {
		return feedback.Feedback{}, fmt.Errorf("persist feedback: %w", err)
	}
	s.feedback = updated
	return fb, nil
}

// UpdateFeedbackStatus moves a feedback record to a new status and persists
// the list.
func (s *LedgerService) UpdateFeedbackStatus(ctx context.Context, id string, status feedback.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := feedback.UpdateStatus(s.feedback, id, status)
	if err != nil {
		return err
	}
	if err := s.repo.WriteSlot(ctx, storage.SlotFeedback, updated); err != nil {
		return fmt.Errorf("persist feedback: %w", err)
	}
	s.feedback = updated
	return nil
}

// DeleteFeedback removes a feedback record and persists the list.
func (s *LedgerService) DeleteFeedback(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := feedback.Delete(s.feedback, id)
	if err != nil {
		return err
	}
	if err := s.repo.WriteSlot(ctx, storage.SlotFeedback, updated); err != nil {
		return fmt.Errorf("persist feedback: %w", err)
	}
	s.feedback = updated
	return nil
}

// Feedback returns a defensive copy of the feedback list, newest first.
func (s *LedgerService) Feedback() []feedback.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]feedback.Feedback(nil), s.feedback...)
}

func (s *LedgerService) FeedbackStats() feedback.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return feedback.ComputeStats(s.feedback)
}

// ExportJSON renders the ledger, narrowed to the date range, as a JSON
// document.
func (s *LedgerService) ExportJSON(r export.DateRange, now time.Time) (string, error) {
	txs := export.FilterTransactions(s.ledger.Transactions(), r, now)
	return export.ToJSON(s.ledger.Accounts(), txs, s.ledger.Categories(), now)
}

// ExportCSV renders the windowed transactions as CSV text.
func (s *LedgerService) ExportCSV(r export.DateRange, now time.Time) (string, error) {
	txs := export.FilterTransactions(s.ledger.Transactions(), r, now)
	return export.ToCSV(txs, s.ledger.Categories(), s.ledger.Accounts())
}

// Import replaces the three collections with a parsed export document and
// persists the result. A document that fails to parse or persist leaves all
// state unchanged; confirming the destructive overwrite is the caller's
// concern.
func (s *LedgerService) Import(ctx context.Context, text string) error {
	doc, err := export.FromJSON(text)
	if err != nil {
		return err
	}
	err = s.mutateLedger(ctx, func() error {
		s.ledger.Replace(doc.Accounts, doc.Categories, doc.Transactions)
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "Ledger imported",
		"accounts", len(doc.Accounts),
		"transactions", len(doc.Transactions),
		"categories", len(doc.Categories))
	return nil
}

func (s *LedgerService) persistLedger(ctx context.Context) error {
	slot := ledgerSlot{
		Accounts:     s.ledger.Accounts(),
		Categories:   s.ledger.Categories(),
		Transactions: s.ledger.Transactions(),
	}
	if err := s.repo.WriteSlot(ctx, storage.SlotLedger, slot); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// Close releases the underlying repository.
func (s *LedgerService) Close() error {
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			return fmt.Errorf("close slot repository: %w", err)
		}
	}
	return nil
}
