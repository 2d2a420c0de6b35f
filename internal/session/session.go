// Package session owns the running tracker: both stores, the view memo and
// the dispatcher that turns user commands into store mutations.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"spesa/internal/aggregate"
	"spesa/internal/cache"
	"spesa/internal/core"
	"spesa/internal/export"
	"spesa/internal/log"
	"spesa/internal/prefs"
	"spesa/internal/query"
	"spesa/internal/records"
)

// User facing messages.
const (
	MsgInvalidExpense = "Please provide a valid name and amount greater than 0."
	MsgAdded          = "Expense added."
	MsgUpdated        = "Expense updated."
	MsgDeleted        = "Expense deleted."
	MsgCleared        = "All expenses cleared."
	MsgNothingExport  = "Nothing to export."
	MsgExported       = "Exported TXT."
	MsgSaveFailed     = "Could not save your changes."
	MsgExportFailed   = "Could not export."

	PromptClearAll = "This will delete all expenses. Continue?"
)

type Options struct {
	Renderer   Renderer
	Notifier   Notifier
	Confirmer  Confirmer
	Downloader Downloader
	Logger     *log.Logger

	// Clock defaults to time.Now.
	Clock func() time.Time
	// Location is used for period filters and export dates. Defaults to time.Local.
	Location *time.Location
	// Language drives name collation.
	Language language.Tag

	// ViewCacheSize bounds the number of memoised views; 0 disables memoisation.
	ViewCacheSize int
	ViewCacheTTL  time.Duration
}

// Session is single-threaded: every command runs to completion before the
// next one starts.
type Session struct {
	records *records.Store
	prefs   *prefs.Store

	renderer   Renderer
	notifier   Notifier
	confirmer  Confirmer
	downloader Downloader
	logger     *log.Logger

	clock    func() time.Time
	location *time.Location
	language language.Tag
	views    cache.Cache[View]
}

func New(rs *records.Store, ps *prefs.Store, opts Options) *Session {
	s := &Session{
		records:    rs,
		prefs:      ps,
		renderer:   opts.Renderer,
		notifier:   opts.Notifier,
		confirmer:  opts.Confirmer,
		downloader: opts.Downloader,
		logger:     opts.Logger,
		clock:      opts.Clock,
		location:   opts.Location,
		language:   opts.Language,
	}
	if s.renderer == nil {
		s.renderer = nopRenderer{}
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.confirmer == nil {
		s.confirmer = alwaysConfirm{}
	}
	if s.downloader == nil {
		s.downloader = nopDownloader{}
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentSession)
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.location == nil {
		s.location = time.Local
	}
	if opts.ViewCacheSize > 0 {
		s.views = cache.NewLRUCache[View](opts.ViewCacheSize, opts.ViewCacheTTL)
	}
	return s
}

func (s *Session) Records() *records.Store { return s.records }
func (s *Session) Prefs() *prefs.Store { return s.prefs }

func (s *Session) now() time.Time { return s.clock().In(s.location) }

// Start loads both stores and draws the first view. The two documents are
// independent, so they are read concurrently.
func (s *Session) Start(ctx context.Context) View {
	var g errgroup.Group
	g.Go(func() error {
		s.records.Load(ctx)
		return nil
	})
	g.Go(func() error {
		s.prefs.Load(ctx)
		return nil
	})
	_ = g.Wait()
	s.purgeViews()

	s.logger.InfoContext(ctx, "Session started",
		log.FieldCount, s.records.Len(),
		"theme", s.prefs.Get().Theme)
	return s.render()
}

// Close releases the view memo and logs how well it served.
func (s *Session) Close(ctx context.Context) {
	if s.views == nil {
		return
	}
	hits, misses := s.views.Stats()
	s.logger.DebugContext(ctx, "View cache stats",
		"hits", hits,
		"misses", misses,
		"entries", s.views.Size())
	s.views.Purge()
}

func (s *Session) purgeViews() {
	if s.views != nil {
		s.views.Purge()
	}
}

// View runs the query pipeline and the aggregator over the current state.
// Every call returns fresh slices; mutating them does not affect later views.
func (s *Session) View() View {
	now := s.now()
	p := s.prefs.Get()

	key := ""
	if s.views != nil {
		// Period filters depend on the clock, so the minute is part of the key.
		key = fmt.Sprintf("%d|%q|%q|%s|%s|%s|%d",
			s.records.Revision(), p.Search, p.FilterCategory, p.FilterPeriod, p.SortBy, p.Theme,
			now.Truncate(time.Minute).Unix())
		if v, ok := s.views.Get(key); ok {
			return v.clone()
		}
	}

	items := query.Run(s.records.All(), p, query.Options{Now: now, Language: s.language})
	v := View{Items: items, Totals: aggregate.Compute(items), Prefs: p}
	if s.views != nil {
		s.views.Set(key, v.clone())
	}
	return v
}

func (s *Session) render() View {
	v := s.View()
	s.renderer.Render(v)
	return v
}

// EditForm pre-fills the entry form for the record with the given id.
func (s *Session) EditForm(id int64) (Form, bool) {
	e, ok := s.records.Get(id)
	if !ok {
		return Form{}, false
	}
	return FormOf(e), true
}

// Dispatch executes one command. Validation failures and storage errors are
// returned after the user has been notified; lookup misses and declined
// confirmations return nil and change nothing.
func (s *Session) Dispatch(ctx context.Context, cmd Command) error {
	s.logger.DebugContext(ctx, "Dispatching command", log.FieldCommand, cmd.Name())

	var err error
	switch c := cmd.(type) {
	case SubmitAdd:
		err = s.add(ctx, c)
	case SubmitEdit:
		err = s.edit(ctx, c)
	case Delete:
		err = s.delete(ctx, c)
	case ClearAll:
		err = s.clearAll(ctx)
	case ChangeFilter:
		err = s.changeFilter(ctx, c)
	case ToggleTheme:
		err = s.toggleTheme(ctx)
	case Export:
		err = s.export(ctx)
	default:
		err = fmt.Errorf("unsupported command %T", cmd)
	}

	if err != nil && !errors.Is(err, core.ErrInvalidExpense) && !errors.Is(err, export.ErrNothingToExport) {
		s.logger.ErrorContext(ctx, "Command failed",
			log.FieldCommand, cmd.Name(),
			log.FieldError, err)
	}
	if s.views != nil {
		if n := s.views.CleanExpired(); n > 0 {
			s.logger.DebugContext(ctx, "Expired views dropped", log.FieldCount, n)
		}
	}
	return err
}

func (s *Session) rejectInvalid(ctx context.Context, err error) error {
	s.logger.DebugContext(ctx, "Rejected invalid expense", log.NewFields().
		WithErrorType(log.ErrorTypeValidation).
		WithError(err).
		ToSlice()...)
	s.notifier.Notify(LevelError, MsgInvalidExpense)
	return err
}

func (s *Session) saveRecords(ctx context.Context) error {
	if err := s.records.Save(ctx); err != nil {
		s.notifier.Notify(LevelError, MsgSaveFailed)
		return err
	}
	return nil
}

func (s *Session) savePrefs(ctx context.Context) error {
	if err := s.prefs.Save(ctx); err != nil {
		s.notifier.Notify(LevelError, MsgSaveFailed)
		return err
	}
	return nil
}

func (s *Session) add(ctx context.Context, c SubmitAdd) error {
	e, err := ParseForm(c.Form, s.now())
	if err != nil {
		return s.rejectInvalid(ctx, err)
	}
	e, err = s.records.Add(e)
	if err != nil {
		return s.rejectInvalid(ctx, err)
	}
	if err := s.saveRecords(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense added", log.NewFields().
		WithOperation(log.OpCreate).
		WithExpense(e.ID, e.Name, e.Amount.Fixed2(), e.Category).
		ToSlice()...)
	s.notifier.Notify(LevelSuccess, MsgAdded)
	s.render()
	return nil
}

func (s *Session) edit(ctx context.Context, c SubmitEdit) error {
	e, err := ParseForm(c.Form, s.now())
	if err != nil {
		return s.rejectInvalid(ctx, err)
	}
	ok, err := s.records.Update(c.ID, records.FieldsOf(e))
	if err != nil {
		return s.rejectInvalid(ctx, err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "Edit of unknown expense ignored", log.FieldExpenseID, c.ID)
		return nil
	}
	if err := s.saveRecords(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense updated", log.NewFields().
		WithOperation(log.OpUpdate).
		WithExpense(c.ID, e.Name, e.Amount.Fixed2(), e.Category).
		ToSlice()...)
	s.notifier.Notify(LevelSuccess, MsgUpdated)
	s.render()
	return nil
}

func (s *Session) delete(ctx context.Context, c Delete) error {
	e, ok := s.records.Get(c.ID)
	if !ok {
		return nil
	}
	if !s.confirmer.Confirm(fmt.Sprintf("Delete \"%s\" for %s?", e.Name, e.Amount.Fixed2())) {
		return nil
	}
	s.records.Remove(c.ID)
	if err := s.saveRecords(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, c.ID)
	s.render()
	s.notifier.Notify(LevelSuccess, MsgDeleted)
	return nil
}

func (s *Session) clearAll(ctx context.Context) error {
	if s.records.Len() == 0 {
		return nil
	}
	if !s.confirmer.Confirm(PromptClearAll) {
		return nil
	}
	n := s.records.Len()
	s.records.Clear()
	s.purgeViews()
	if err := s.saveRecords(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "All expenses cleared",
		log.FieldOperation, log.OpClear,
		log.FieldCount, n)
	s.render()
	s.notifier.Notify(LevelSuccess, MsgCleared)
	return nil
}

func (s *Session) changeFilter(ctx context.Context, c ChangeFilter) error {
	if err := s.prefs.Set(c.Field, c.Value); err != nil {
		return err
	}
	if err := s.savePrefs(ctx); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Preference changed",
		log.FieldOperation, log.OpFilter,
		log.FieldPrefField, c.Field,
		log.FieldPrefValue, c.Value)
	s.render()
	return nil
}

func (s *Session) toggleTheme(ctx context.Context) error {
	theme := s.prefs.ToggleTheme()
	if err := s.savePrefs(ctx); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Theme toggled", log.FieldOperation, log.OpTheme, "theme", theme)
	s.render()
	return nil
}

func (s *Session) export(ctx context.Context) error {
	now := s.now()
	content, err := export.Build(s.records.All(), now, s.location)
	if errors.Is(err, export.ErrNothingToExport) {
		s.notifier.Notify(LevelError, MsgNothingExport)
		return err
	}
	if err != nil {
		s.notifier.Notify(LevelError, MsgExportFailed)
		return err
	}

	name := export.FileName(now)
	if err := s.downloader.Download(name, []byte(content)); err != nil {
		s.notifier.Notify(LevelError, MsgExportFailed)
		return fmt.Errorf("download %s: %w", name, err)
	}
	s.logger.InfoContext(ctx, "Expenses exported",
		log.FieldOperation, log.OpExport,
		log.FieldFileName, name,
		log.FieldCount, s.records.Len())
	s.notifier.Notify(LevelSuccess, MsgExported)
	return nil
}
