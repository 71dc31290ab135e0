// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/model1"
)

const (
	// DefaultRefreshRate is the watch interval used when none is configured.
	DefaultRefreshRate = 5 * time.Second

	// DefaultFilterDebounce delays filter input before refetching.
	DefaultFilterDebounce = 300 * time.Millisecond
)

type invalidator interface {
	Invalidate()
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithPageSize sets the initial page limit.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		e.page = NewPagination(n)
	}
}

// WithMaxPinned caps pinned columns per side.
func WithMaxPinned(n int) Option {
	return func(e *Engine) {
		e.maxPinned = n
	}
}

// WithFetchTimeout bounds each data source call.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.fetchTimeout = d
	}
}

// WithFilterDebounce sets the filter input delay. Zero applies at once.
func WithFilterDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.debounce = d
	}
}

// WithRefreshRate sets the watch interval.
func WithRefreshRate(d time.Duration) Option {
	return func(e *Engine) {
		e.refreshRate = d
	}
}

// WithActions sets the bulk and row actions.
func WithActions(aa ...Action) Option {
	return func(e *Engine) {
		e.actions = append(e.actions, aa...)
	}
}

// WithErrorFunc sets the asynchronous error collaborator.
func WithErrorFunc(f ErrorFunc) Option {
	return func(e *Engine) {
		e.onError = f
	}
}

// WithReadOnly disables inline editing on every column.
func WithReadOnly(b bool) Option {
	return func(e *Engine) {
		e.readOnly = b
	}
}

// WithSort sets the initial sort.
func WithSort(col string, desc bool) Option {
	return func(e *Engine) {
		e.sort = dao.SortOrder{Column: col, Desc: desc}
	}
}

// WithContext sets the context background fetches and commits run under.
func WithContext(ctx context.Context) Option {
	return func(e *Engine) {
		e.ctx = ctx
	}
}

// Engine binds column, pagination, selection and edit state to pages
// fetched from a data source. Every event handler runs under one lock;
// fetches and commits run on goroutines and re-enter it to apply.
type Engine struct {
	name   string
	source dao.Source
	log    *zap.Logger
	ctx    context.Context

	columns     *ColumnModel
	page        Pagination
	sort        dao.SortOrder
	filter      dao.Filter
	applied     dao.Query
	appliedPage Pagination
	cache       *model1.RowEvents
	selection   *Selection
	editor      *Editor
	actions     []Action
	listeners   []TableListener
	onError     ErrorFunc
	lastErr     error

	gen    uint64
	flight singleflight.Group

	debounce      time.Duration
	debounceTimer *time.Timer
	debounceSeq   uint64
	refreshRate   time.Duration
	fetchTimeout  time.Duration
	maxPinned     int
	readOnly      bool
	watchCancel   context.CancelFunc

	wg     sync.WaitGroup
	closed bool
	mx     sync.Mutex
}

// NewEngine returns an engine over the declared header. Nothing is fetched
// until Refresh or Watch is called.
func NewEngine(name string, h model1.Header, src dao.Source, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil data source", ErrInvalidArgument)
	}

	e := Engine{
		name:        name,
		source:      src,
		log:         zap.NewNop(),
		ctx:         context.Background(),
		page:        NewPagination(DefaultPageSize),
		cache:       model1.NewRowEvents(0),
		selection:   NewSelection(),
		editor:      NewEditor(),
		debounce:    DefaultFilterDebounce,
		refreshRate: DefaultRefreshRate,
		maxPinned:   DefaultMaxPinned,
	}
	for _, opt := range opts {
		opt(&e)
	}

	if e.readOnly {
		h = h.Clone()
		for i := range h {
			h[i].Editable = false
		}
	}
	cm, err := NewColumnModel(h, e.maxPinned)
	if err != nil {
		return nil, err
	}
	e.columns = cm
	if e.sort.Column != "" {
		if col, _, ok := cm.Column(e.sort.Column); !ok || !col.Sortable {
			return nil, fmt.Errorf("%w: cannot sort on %q", ErrInvalidColumn, e.sort.Column)
		}
	}
	e.appliedPage = e.page
	e.applied = e.queryLocked()
	e.log = e.log.With(zap.String("table", name))

	return &e, nil
}

// Name returns the table name.
func (e *Engine) Name() string {
	return e.name
}

// ----------------------------------------------------------------------------
// Listeners...

// AddListener registers a table listener.
func (e *Engine) AddListener(l TableListener) {
	e.mx.Lock()
	defer e.mx.Unlock()
	e.listeners = append(e.listeners, l)
}

// RemoveListener unregisters a table listener.
func (e *Engine) RemoveListener(l TableListener) {
	e.mx.Lock()
	defer e.mx.Unlock()

	for i, listener := range e.listeners {
		if listener == l {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

func (e *Engine) snapListeners() []TableListener {
	e.mx.Lock()
	defer e.mx.Unlock()

	ll := make([]TableListener, len(e.listeners))
	copy(ll, e.listeners)
	return ll
}

func (e *Engine) notifyNoData(data *model1.TableData) {
	for _, l := range e.snapListeners() {
		l.TableNoData(data)
	}
}

func (e *Engine) notifyDataChanged(data *model1.TableData) {
	for _, l := range e.snapListeners() {
		l.TableDataChanged(data)
	}
}

func (e *Engine) notifyLoadFailed(err error) {
	for _, l := range e.snapListeners() {
		l.TableLoadFailed(err)
	}
}

// update runs f under the lock and notifies listeners when it succeeds.
func (e *Engine) update(f func() error) error {
	e.mx.Lock()
	if e.closed {
		e.mx.Unlock()
		return ErrClosed
	}
	err := f()
	var data *model1.TableData
	if err == nil {
		data = e.snapshotLocked()
	}
	e.mx.Unlock()

	if data != nil {
		e.notifyDataChanged(data)
	}
	return err
}

// ----------------------------------------------------------------------------
// Fetching...

func (e *Engine) queryLocked() dao.Query {
	return dao.Query{
		Sort:   e.sort,
		Filter: e.filter,
		Offset: e.page.Offset,
		Limit:  e.page.Limit,
	}
}

// dispatchLocked starts a background fetch for the requested state.
func (e *Engine) dispatchLocked() {
	e.gen++
	gen, q := e.gen, e.queryLocked()
	e.log.Debug("dispatch fetch", zap.Uint64("gen", gen), zap.String("query", q.Key()))

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		_ = e.fetch(e.ctx, gen, q)
	}()
}

// fetch runs the list call as a shared flight under the engine context so a
// caller that gives up does not fail the others waiting on it.
func (e *Engine) fetch(ctx context.Context, gen uint64, q dao.Query) error {
	done := make(chan singleflight.Result, 1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		v, err, shared := e.flight.Do(q.Key(), func() (any, error) {
			fctx := e.ctx
			if e.fetchTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(fctx, e.fetchTimeout)
				defer cancel()
			}
			return e.source.List(fctx, q)
		})
		done <- singleflight.Result{Val: v, Err: err, Shared: shared}
	}()

	var res singleflight.Result
	select {
	case res = <-done:
	case <-ctx.Done():
		e.log.Debug("fetch abandoned", zap.Uint64("gen", gen), zap.Error(ctx.Err()))
		return ctx.Err()
	}
	if res.Shared {
		e.log.Debug("fetch coalesced", zap.Uint64("gen", gen))
	}
	if res.Err != nil && errors.Is(res.Err, context.Canceled) && (ctx.Err() != nil || e.ctx.Err() != nil) {
		e.log.Debug("fetch canceled", zap.Uint64("gen", gen))
		return res.Err
	}
	var page dao.Page
	if res.Err == nil {
		page = res.Val.(dao.Page)
	}

	return e.resolve(gen, q, page, res.Err)
}

func (e *Engine) resolve(gen uint64, q dao.Query, p dao.Page, err error) error {
	e.mx.Lock()
	if e.closed || gen != e.gen {
		e.mx.Unlock()
		e.log.Debug("discarding stale page", zap.Uint64("gen", gen))
		return nil
	}

	if err != nil {
		ferr := &FetchError{Table: e.name, Query: q.Key(), Err: err}
		e.lastErr = ferr
		e.sort, e.filter = e.applied.Sort, e.applied.Filter
		e.page = e.appliedPage
		onErr := e.onError
		e.mx.Unlock()

		e.log.Warn("fetch failed", zap.Error(err))
		e.notifyLoadFailed(ferr)
		if onErr != nil {
			onErr(ferr)
		}
		return ferr
	}

	if len(p.Rows) == 0 && q.Offset > 0 && p.Count > 0 {
		e.page.Count = p.Count
		if e.page.LastPage() {
			e.log.Debug("page past the end, moving to last page", zap.Int("count", p.Count))
			e.dispatchLocked()
			e.mx.Unlock()
			return nil
		}
	}

	prev := e.cache
	e.cache = model1.NewRowEventsFrom(model1.EventUnchanged, p.Rows)
	if q.Key() == e.applied.Key() {
		markChanges(prev, e.cache)
	}
	if e.editor.State() == EditCommitting {
		if ref, draft := e.editor.Position(); ref != nil {
			if _, idx, ok := e.columns.Column(ref.Column); ok {
				e.setCellLocked(ref.RowID, idx, draft, model1.EventPending)
			}
		}
	}
	e.applied = q
	e.page.Count = p.Count
	e.appliedPage = e.page
	e.selection.Retain(e.cache.IDs())
	if e.editor.Abandon() {
		e.log.Debug("edit abandoned on page replacement")
	}
	e.lastErr = nil
	data, empty := e.snapshotLocked(), e.cache.Empty()
	e.mx.Unlock()

	if empty {
		e.notifyNoData(data)
	} else {
		e.notifyDataChanged(data)
	}
	return nil
}

// markChanges flags rows of a refetched page that differ from the page
// they replace.
func markChanges(prev, next *model1.RowEvents) {
	if prev.Empty() {
		return
	}
	next.Range(func(_ int, re model1.RowEvent) bool {
		old, ok := prev.Get(re.Row.ID)
		if !ok {
			next.Upsert(model1.NewRowEvent(model1.EventAdd, re.Row))
			return true
		}
		if d := model1.NewDeltaRow(old.Row, re.Row); !d.IsBlank() {
			next.Upsert(model1.NewRowEventWithDeltas(model1.EventUpdate, re.Row, d))
		}
		return true
	})
}

// Refresh fetches the requested state and waits for it to apply.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mx.Lock()
	if e.closed {
		e.mx.Unlock()
		return ErrClosed
	}
	if inv, ok := e.source.(invalidator); ok {
		inv.Invalidate()
	}
	e.gen++
	gen, q := e.gen, e.queryLocked()
	e.wg.Add(1)
	e.mx.Unlock()
	defer e.wg.Done()

	return e.fetch(ctx, gen, q)
}

// Watch refreshes now and then on every tick until ctx is done or the
// engine closes.
func (e *Engine) Watch(ctx context.Context) error {
	e.mx.Lock()
	if e.closed {
		e.mx.Unlock()
		return ErrClosed
	}
	if e.watchCancel != nil {
		e.watchCancel()
	}
	watchCtx, cancel := context.WithCancel(ctx)
	e.watchCancel = cancel
	rate := e.refreshRate
	e.mx.Unlock()

	if err := e.Refresh(watchCtx); err != nil {
		return err
	}
	if rate <= 0 {
		rate = DefaultRefreshRate
	}

	e.wg.Add(1)
	go e.watchLoop(watchCtx, rate)

	return nil
}

func (e *Engine) watchLoop(ctx context.Context, rate time.Duration) {
	defer e.wg.Done()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Refresh(ctx); err != nil {
				e.log.Debug("watch refresh failed", zap.Error(err))
			}
		}
	}
}

// Close stops the debounce timer and watch loop. In flight work is left to
// settle and its results are dropped.
func (e *Engine) Close() {
	e.mx.Lock()
	defer e.mx.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.stopDebounceLocked()
	if e.watchCancel != nil {
		e.watchCancel()
		e.watchCancel = nil
	}
}

// Wait blocks until in flight fetches and commits have settled.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// ----------------------------------------------------------------------------
// Query events...

// Sort sorts on a sortable column and refetches from the first page.
func (e *Engine) Sort(key string, desc bool) error {
	return e.update(func() error {
		col, _, ok := e.columns.Column(key)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, key)
		}
		if !col.Sortable {
			return fmt.Errorf("%w: %q is not sortable", ErrInvalidArgument, key)
		}
		e.sort = dao.SortOrder{Column: key, Desc: desc}
		e.page.Offset = 0
		e.dispatchLocked()
		return nil
	})
}

// SetFilter applies filter input after the debounce delay. Newer input
// replaces pending input.
func (e *Engine) SetFilter(s string) error {
	e.mx.Lock()
	if e.closed {
		e.mx.Unlock()
		return ErrClosed
	}
	e.stopDebounceLocked()
	if e.debounce <= 0 {
		e.mx.Unlock()
		return e.ApplyFilter(s)
	}
	seq := e.debounceSeq
	e.debounceTimer = time.AfterFunc(e.debounce, func() {
		err := e.update(func() error {
			if seq != e.debounceSeq {
				return nil
			}
			e.debounceTimer = nil
			e.applyFilterLocked(s)
			return nil
		})
		if err != nil {
			e.log.Debug("debounced filter dropped", zap.Error(err))
		}
	})
	e.mx.Unlock()

	return nil
}

// ApplyFilter applies filter input at once, dropping pending input.
// Unchanged filters are ignored.
func (e *Engine) ApplyFilter(s string) error {
	return e.update(func() error {
		e.stopDebounceLocked()
		e.applyFilterLocked(s)
		return nil
	})
}

func (e *Engine) stopDebounceLocked() {
	e.debounceSeq++
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
		e.debounceTimer = nil
	}
}

func (e *Engine) applyFilterLocked(s string) {
	f := dao.ParseFilterFor(s, func(k string) bool {
		_, _, ok := e.columns.Column(k)
		return ok
	})
	if f.Equal(e.filter) {
		return
	}
	e.filter = f
	e.page.Offset = 0
	e.dispatchLocked()
}

// NextPage moves to the next page. It is a no-op on the last page.
func (e *Engine) NextPage() error {
	return e.update(func() error {
		if e.page.Next() {
			e.dispatchLocked()
		}
		return nil
	})
}

// PrevPage moves to the previous page. It is a no-op on the first page.
func (e *Engine) PrevPage() error {
	return e.update(func() error {
		if e.page.Prev() {
			e.dispatchLocked()
		}
		return nil
	})
}

// SetLimit changes the page size and refetches the first page.
func (e *Engine) SetLimit(n int) error {
	return e.update(func() error {
		if err := e.page.SetLimit(n); err != nil {
			return err
		}
		e.dispatchLocked()
		return nil
	})
}

// ----------------------------------------------------------------------------
// Column events...

// SetColumnOrder reorders columns.
func (e *Engine) SetColumnOrder(keys []string) error {
	return e.update(func() error {
		return e.columns.SetOrder(keys)
	})
}

// SetColumnVisible shows or hides a column.
func (e *Engine) SetColumnVisible(key string, visible bool) error {
	return e.update(func() error {
		e.columns.SetVisible(key, visible)
		return nil
	})
}

// PinColumn pins a column to a side.
func (e *Engine) PinColumn(key string, side model1.PinSide) error {
	return e.update(func() error {
		return e.columns.Pin(key, side)
	})
}

// UnpinColumn releases a pinned column.
func (e *Engine) UnpinColumn(key string) error {
	return e.update(func() error {
		e.columns.Unpin(key)
		return nil
	})
}

// ----------------------------------------------------------------------------
// Selection events...

// ToggleSelect flips a row on the current page.
func (e *Engine) ToggleSelect(id string) error {
	return e.update(func() error {
		if !e.cache.Has(id) {
			return fmt.Errorf("%w: %s", ErrRowNotFound, id)
		}
		e.selection.Toggle(id)
		return nil
	})
}

// SelectAllOnPage selects every row on the current page.
func (e *Engine) SelectAllOnPage() error {
	return e.update(func() error {
		e.selection.SelectAll(e.cache.IDs())
		return nil
	})
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() error {
	return e.update(func() error {
		e.selection.Clear()
		return nil
	})
}

// ----------------------------------------------------------------------------
// Edit events...

// BeginEdit opens an edit on a cell of the current page.
func (e *Engine) BeginEdit(rowID, column string) error {
	return e.update(func() error {
		col, idx, ok := e.columns.Column(column)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, column)
		}
		re, ok := e.cache.Get(rowID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
		}
		return e.editor.Begin(rowID, col, idx, col.Value(re.Row, idx))
	})
}

// UpdateDraft replaces the draft value.
func (e *Engine) UpdateDraft(v any) error {
	return e.update(func() error {
		return e.editor.Update(v)
	})
}

// CommitEdit writes the draft into the page at once and persists it in
// the background. A rejected write reverts the cell and reports a
// CommitError to the error func.
func (e *Engine) CommitEdit() error {
	return e.update(func() error {
		t, err := e.editor.Commit()
		if err != nil {
			return err
		}
		e.setCellLocked(t.Ref.RowID, t.Index, t.Draft, model1.EventPending)
		e.log.Debug("committing cell",
			zap.String("row", t.Ref.RowID),
			zap.String("column", t.Ref.Column))

		e.wg.Add(1)
		go e.persist(t)
		return nil
	})
}

// CancelEdit discards the draft.
func (e *Engine) CancelEdit() error {
	return e.update(func() error {
		return e.editor.Cancel()
	})
}

func (e *Engine) persist(t Ticket) {
	defer e.wg.Done()

	ctx := e.ctx
	if e.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.fetchTimeout)
		defer cancel()
	}
	err := e.source.PersistCell(ctx, t.Ref.RowID, t.Ref.Column, t.Draft)

	e.mx.Lock()
	e.editor.Resolve(t)
	var cerr *CommitError
	if err != nil {
		cerr = &CommitError{
			RowID:     t.Ref.RowID,
			Column:    t.Ref.Column,
			Previous:  t.Previous,
			Attempted: t.Draft,
			Err:       err,
		}
		e.lastErr = cerr
		if e.holdsLocked(t.Ref.RowID, t.Index, t.Draft) {
			e.setCellLocked(t.Ref.RowID, t.Index, t.Previous, model1.EventError)
		}
	} else if e.holdsLocked(t.Ref.RowID, t.Index, t.Draft) {
		e.markLocked(t.Ref.RowID, model1.EventUpdate)
	}
	closed, onErr := e.closed, e.onError
	data := e.snapshotLocked()
	e.mx.Unlock()

	if !closed {
		e.notifyDataChanged(data)
	}
	if cerr != nil {
		e.log.Warn("commit failed",
			zap.String("row", t.Ref.RowID),
			zap.String("column", t.Ref.Column),
			zap.Error(err))
		if onErr != nil {
			onErr(cerr)
		}
	}
}

func (e *Engine) holdsLocked(rowID string, idx int, v any) bool {
	re, ok := e.cache.Get(rowID)
	if !ok {
		return false
	}
	return reflect.DeepEqual(re.Row.Fields.At(idx), v)
}

func (e *Engine) setCellLocked(rowID string, idx int, v any, kind model1.ResEvent) {
	i, ok := e.cache.FindIndex(rowID)
	if !ok {
		return
	}
	re, _ := e.cache.At(i)
	row := re.Row.Clone()
	prev := row.Fields.At(idx)
	row.Fields[idx] = v
	e.cache.Set(i, model1.NewRowEventWithDeltas(kind, row, model1.DeltaRow{idx: prev}))
}

func (e *Engine) markLocked(rowID string, kind model1.ResEvent) {
	i, ok := e.cache.FindIndex(rowID)
	if !ok {
		return
	}
	re, _ := e.cache.At(i)
	re.Kind = kind
	e.cache.Set(i, re)
}

// ----------------------------------------------------------------------------
// Actions...

// BulkActions returns bulk actions evaluated against the selection.
func (e *Engine) BulkActions() []BoundAction {
	e.mx.Lock()
	rows, actions := e.selectedRowsLocked(), e.actions
	e.mx.Unlock()

	out := make([]BoundAction, 0, len(actions))
	for _, a := range actions {
		if a.Scope == ScopeBulk {
			out = append(out, a.bind(rows))
		}
	}
	return out
}

// RowActions returns row actions evaluated against one row.
func (e *Engine) RowActions(rowID string) ([]BoundAction, error) {
	e.mx.Lock()
	re, ok := e.cache.Get(rowID)
	actions := e.actions
	e.mx.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	rows := model1.Rows{re.Row.Clone()}
	out := make([]BoundAction, 0, len(actions))
	for _, a := range actions {
		if a.Scope == ScopeRow {
			out = append(out, a.bind(rows))
		}
	}
	return out, nil
}

// RunBulkAction routes the selected rows to a bulk action.
func (e *Engine) RunBulkAction(ctx context.Context, name string) error {
	e.mx.Lock()
	if e.closed {
		e.mx.Unlock()
		return ErrClosed
	}
	a, ok := e.actionLocked(ScopeBulk, name)
	rows := e.selectedRowsLocked()
	e.mx.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	return e.run(ctx, a, rows)
}

// RunRowAction routes one row to a row action.
func (e *Engine) RunRowAction(ctx context.Context, rowID, name string) error {
	e.mx.Lock()
	if e.closed {
		e.mx.Unlock()
		return ErrClosed
	}
	a, ok := e.actionLocked(ScopeRow, name)
	re, found := e.cache.Get(rowID)
	e.mx.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
	}

	return e.run(ctx, a, model1.Rows{re.Row.Clone()})
}

func (e *Engine) run(ctx context.Context, a Action, rows model1.Rows) error {
	if a.bind(rows).IsDisabled {
		return fmt.Errorf("%w: %s", ErrActionDisabled, a.Name)
	}
	e.log.Info("running action", zap.String("action", a.Name), zap.Int("rows", len(rows)))
	if err := a.Execute(ctx, rows); err != nil {
		return fmt.Errorf("action %s: %w", a.Name, err)
	}
	if a.Refresh {
		return e.Refresh(ctx)
	}
	return nil
}

func (e *Engine) actionLocked(scope ActionScope, name string) (Action, bool) {
	for _, a := range e.actions {
		if a.Scope == scope && a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

func (e *Engine) selectedRowsLocked() model1.Rows {
	rows := make(model1.Rows, 0, e.selection.Len())
	e.cache.Range(func(_ int, re model1.RowEvent) bool {
		if e.selection.IsSelected(re.Row.ID) {
			rows = append(rows, re.Row.Clone())
		}
		return true
	})
	return rows
}

// ----------------------------------------------------------------------------
// Read-only views...

// Snapshot returns the visible state for rendering.
func (e *Engine) Snapshot() *model1.TableData {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() *model1.TableData {
	h, cols := e.columns.Header(), e.columns.VisibleIndexes()

	rr := model1.NewRowEvents(e.cache.Len())
	e.cache.Range(func(_ int, re model1.RowEvent) bool {
		rr.Add(re.Customize(h, cols))
		return true
	})

	data := model1.NewTableData()
	data.SetName(e.name)
	data.SetHeader(e.columns.VisibleColumns())
	data.SetRowEvents(rr)
	data.SetPage(e.appliedPage.Info())
	data.SetSort(model1.SortInfo{Column: e.sort.Column, Desc: e.sort.Desc})
	data.SetFilter(e.filter.String())
	data.SetSelected(e.selection.IDs())
	if ref, draft := e.editor.Position(); ref != nil {
		if e.editor.State() == EditEditing {
			data.SetEditPosition(ref, draft)
		} else {
			data.SetPending(ref)
		}
	}
	if e.lastErr != nil {
		data.SetError(e.lastErr.Error())
	}

	return data
}

// Rows returns the cached page in declared column layout.
func (e *Engine) Rows() model1.Rows {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.cache.Rows()
}

// SelectedRows returns the selected rows in declared column layout.
func (e *Engine) SelectedRows() model1.Rows {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.selectedRowsLocked()
}

// Columns returns a copy of the column model.
func (e *Engine) Columns() *ColumnModel {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.columns.Clone()
}

// Pagination returns the applied page window.
func (e *Engine) Pagination() Pagination {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.appliedPage
}

// Query returns the requested query.
func (e *Engine) Query() dao.Query {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.queryLocked()
}

// Selection returns the selected row ids, sorted.
func (e *Engine) Selection() []string {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.selection.IDs()
}

// SelectState aggregates the selection over the current page.
func (e *Engine) SelectState() SelectState {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.selection.Aggregate(e.cache.IDs())
}

// EditPosition returns the edit target, draft and editor state.
func (e *Engine) EditPosition() (*model1.CellRef, any, EditState) {
	e.mx.Lock()
	defer e.mx.Unlock()
	ref, draft := e.editor.Position()
	return ref, draft, e.editor.State()
}

// LastError returns the most recent fetch or commit error.
func (e *Engine) LastError() error {
	e.mx.Lock()
	defer e.mx.Unlock()
	return e.lastErr
}
