// Package records owns the in-memory list of expense records and mirrors it
// to the durable key-value medium under kv.ExpensesKey.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"spesa/internal/core"
	"spesa/internal/kv"
	"spesa/internal/log"
)

// Fields lists the editable fields of a record. Nil fields are left unchanged
// by Update.
type Fields struct {
	Name     *string
	Amount   *core.Money
	Category *string
	Date     *core.Date
	Notes    *string
}

// FieldsOf returns Fields that set every editable field from e.
func FieldsOf(e core.Expense) Fields {
	return Fields{
		Name:     &e.Name,
		Amount:   &e.Amount,
		Category: &e.Category,
		Date:     &e.Date,
		Notes:    &e.Notes,
	}
}

func (f Fields) apply(e core.Expense) core.Expense {
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Amount != nil {
		e.Amount = *f.Amount
	}
	if f.Category != nil {
		e.Category = *f.Category
	}
	if f.Date != nil {
		e.Date = *f.Date
	}
	if f.Notes != nil {
		e.Notes = *f.Notes
	}
	return e
}

// Store is owned by a single session; it is not safe for concurrent use.
type Store struct {
	kv     kv.Store
	logger *log.Logger
	now    func() time.Time
	items  []core.Expense
	lastID int64
	rev    uint64
}

type Option func(*Store)

// WithClock overrides the clock used for ids and default dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(store kv.Store, logger *log.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Store{
		kv:     store,
		logger: logger.WithComponent(log.ComponentRecords),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// nextID derives an id from the clock, bumped past the largest id seen so
// ids stay unique and increasing even within one millisecond.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) touch() { s.rev++ }

// Add validates e, assigns it a fresh id and appends it.
func (s *Store) Add(e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	if e.Category == "" {
		e.Category = core.DefaultCategory
	}
	if !e.Date.Valid() && e.Date.Raw == "" {
		e.Date = core.DateOf(s.now())
	}
	e.ID = s.nextID()
	s.items = append(s.items, e)
	s.touch()
	return e, nil
}

// Update applies f to the record with the given id. It reports false, with no
// error, when the id is unknown. The id is always preserved.
func (s *Store) Update(id int64, f Fields) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	updated := f.apply(s.items[i])
	if err := updated.Validate(); err != nil {
		return false, err
	}
	if updated.Category == "" {
		updated.Category = core.DefaultCategory
	}
	updated.ID = id
	s.items[i] = updated
	s.touch()
	return true, nil
}

// Remove deletes the record with the given id, reporting whether it existed.
func (s *Store) Remove(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	s.touch()
	return true
}

// Clear empties the store.
func (s *Store) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = nil
	s.touch()
}

// Get returns the record with the given id.
func (s *Store) Get(id int64) (core.Expense, bool) {
	i := s.index(id)
	if i < 0 {
		return core.Expense{}, false
	}
	return s.items[i], true
}

// All returns a copy of the records in insertion order.
func (s *Store) All() []core.Expense {
	return slices.Clone(s.items)
}

func (s *Store) Len() int { return len(s.items) }

// Revision changes on every mutation, including Load.
func (s *Store) Revision() uint64 { return s.rev }

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.items, func(e core.Expense) bool { return e.ID == id })
}

// Load replaces the in-memory records with the stored ones and returns them.
// It never fails: unreadable or corrupt storage yields an empty list and
// malformed records are coerced field by field.
func (s *Store) Load(ctx context.Context) []core.Expense {
	s.items = s.decode(ctx)
	s.lastID = 0
	for _, e := range s.items {
		s.lastID = max(s.lastID, e.ID)
	}
	s.touch()
	s.logger.DebugContext(ctx, "Records loaded", log.FieldOperation, log.OpLoad, log.FieldCount, len(s.items))
	return s.All()
}

func (s *Store) decode(ctx context.Context) []core.Expense {
	raw, ok, err := s.kv.Get(ctx, kv.ExpensesKey)
	if err != nil {
		s.logger.WarnContext(ctx, "Cannot read records, starting empty",
			log.FieldKey, kv.ExpensesKey,
			log.FieldErrorType, log.ErrorTypeStorage,
			log.FieldError, err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.logger.WarnContext(ctx, "Stored records are not a JSON list, starting empty",
			log.FieldKey, kv.ExpensesKey,
			log.FieldErrorType, log.ErrorTypeCorruption,
			log.FieldError, err)
		return nil
	}

	now := s.now()
	out := make([]core.Expense, 0, len(list))
	for _, item := range list {
		out = append(out, core.DecodeExpense(item, now))
	}
	return out
}

// Save overwrites the stored document with the current records.
func (s *Store) Save(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []core.Expense{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Set(ctx, kv.ExpensesKey, string(b)); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	s.logger.DebugContext(ctx, "Records saved", log.FieldOperation, log.OpSave, log.FieldCount, len(s.items))
	return nil
}
