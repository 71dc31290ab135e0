// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"

	"github.com/erptab/erptab/internal/config/data"
	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/export"
	"github.com/erptab/erptab/internal/model"
	"github.com/erptab/erptab/internal/model1"
	"github.com/erptab/erptab/internal/render"
	"github.com/erptab/erptab/internal/ui"
)

const (
	actionsPage = "actions"
	editTitle   = "%s (%s) row %s"
)

// Browser browses one table of the active tenant.
type Browser struct {
	*ui.Table

	app      *App
	spec     dao.TableSpec
	source   dao.Source
	engine   *model.Engine
	readOnly bool
	log      *zap.Logger
	cancelFn context.CancelFunc
	paused   bool
	mx       sync.Mutex
}

// NewBrowser returns a browser over a table source.
func NewBrowser(a *App, spec dao.TableSpec, src dao.Source) (*Browser, error) {
	b := Browser{
		Table:    ui.NewTable(spec.Name),
		app:      a,
		spec:     spec,
		source:   src,
		readOnly: a.tenantReadOnly(),
		log:      a.log.With(zap.String("table", spec.Name)),
	}
	b.SetTenant(a.factory.Tenant())
	b.SetQueueFn(a.QueueUpdateDraw)

	cfg := a.cfg.Erptab
	opts := []model.Option{
		model.WithLogger(a.log),
		model.WithContext(a.ctx),
		model.WithPageSize(cfg.PageSize),
		model.WithMaxPinned(cfg.MaxPinned),
		model.WithFetchTimeout(cfg.FetchTimeoutDuration()),
		model.WithFilterDebounce(cfg.FilterDebounceDuration()),
		model.WithRefreshRate(cfg.RefreshInterval()),
		model.WithReadOnly(b.readOnly),
		model.WithActions(b.builtinActions()...),
		model.WithActions(model.ActionsFor(spec.Name)...),
		model.WithErrorFunc(b.reportError),
	}
	e, err := model.NewEngine(spec.Name, render.DecorateHeader(spec.Header), src, opts...)
	if err != nil {
		return nil, err
	}
	b.engine = e

	return &b, nil
}

// Init initializes the view.
func (b *Browser) Init(ctx context.Context) error {
	if err := b.Table.Init(ctx); err != nil {
		return err
	}
	b.bindKeys()
	b.engine.AddListener(b)
	if err := b.LoadView(); err != nil {
		b.app.flash.Warnf("View preferences ignored: %v", err)
	}

	return nil
}

// Start watches the table.
func (b *Browser) Start() {
	b.mx.Lock()
	if b.cancelFn != nil {
		b.cancelFn()
	}
	ctx, cancel := context.WithCancel(b.app.ctx)
	b.cancelFn = cancel
	b.mx.Unlock()

	go func() {
		if err := b.engine.Watch(ctx); err != nil && !errors.Is(err, model.ErrClosed) {
			b.log.Debug("watch stopped", zap.Error(err))
		}
	}()
}

// Stop stops watching the table.
func (b *Browser) Stop() {
	b.mx.Lock()
	defer b.mx.Unlock()

	if b.cancelFn != nil {
		b.cancelFn()
		b.cancelFn = nil
	}
}

// Close releases the engine.
func (b *Browser) Close() {
	b.Stop()
	b.engine.RemoveListener(b)
	b.engine.Close()
}

// Engine returns the table engine.
func (b *Browser) Engine() *model.Engine {
	return b.engine
}

// Filter returns the filter text in effect.
func (b *Browser) Filter() string {
	return b.engine.Query().Filter.String()
}

// SetFilter updates the filter as it is typed.
func (b *Browser) SetFilter(s string) {
	if err := b.engine.SetFilter(s); err != nil {
		b.app.flash.Err(err)
	}
}

// ApplyFilter applies a filter at once.
func (b *Browser) ApplyFilter(s string) {
	if err := b.engine.ApplyFilter(s); err != nil {
		b.app.flash.Err(err)
	}
}

// TableDataChanged implements model.TableListener.
func (b *Browser) TableDataChanged(data *model1.TableData) {
	b.Table.TableDataChanged(data)
	b.app.QueueUpdateDraw(func() { b.app.indicator.Update(data) })
	b.maybeResume(data)
}

// TableNoData implements model.TableListener.
func (b *Browser) TableNoData(data *model1.TableData) {
	b.Table.TableNoData(data)
	b.app.QueueUpdateDraw(func() { b.app.indicator.Update(data) })
	b.maybeResume(data)
}

// TableLoadFailed implements model.TableListener.
func (b *Browser) TableLoadFailed(err error) {
	b.Table.TableLoadFailed(err)
	b.app.flash.Err(err)
}

func (b *Browser) reportError(err error) {
	var cerr *model.CommitError
	if errors.As(err, &cerr) {
		msg := fmt.Sprintf("Could not save %s of %s: %v\nValue reverted to %s.",
			cerr.Column, cerr.RowID, cerr.Err, model1.FormatValue(cerr.Previous))
		b.app.QueueUpdateDraw(func() { ui.ErrorDialog(b.app, msg).Show() })
		return
	}
	b.app.flash.Err(err)
}

// pauseWatch stops periodic refreshes while a cell is edited since a page
// refresh drops an open edit.
func (b *Browser) pauseWatch() {
	b.Stop()
	b.mx.Lock()
	b.paused = true
	b.mx.Unlock()
}

// maybeResume restarts the watch once no edit is open or in flight.
func (b *Browser) maybeResume(data *model1.TableData) {
	if data == nil || data.Pending() != nil {
		return
	}
	if ref, _ := data.EditPosition(); ref != nil {
		return
	}

	b.mx.Lock()
	paused := b.paused
	b.paused = false
	b.mx.Unlock()
	if paused {
		b.Start()
	}
}

// LoadView applies the saved view preferences of the active tenant.
func (b *Browser) LoadView() error {
	v, err := b.app.cfg.Erptab.View(b.spec.Name)
	if err != nil {
		return err
	}
	return b.applyView(v)
}

func (b *Browser) applyView(v *data.TableView) error {
	if v == nil || v.IsEmpty() {
		return nil
	}

	var errs []error
	cols := b.engine.Columns()
	if len(v.Order) > 0 {
		errs = append(errs, b.engine.SetColumnOrder(v.Order))
	}
	if len(v.Hidden) > 0 {
		hidden := make(map[string]struct{}, len(v.Hidden))
		for _, k := range v.Hidden {
			hidden[k] = struct{}{}
		}
		for _, k := range cols.Order() {
			_, ok := hidden[k]
			errs = append(errs, b.engine.SetColumnVisible(k, !ok))
		}
	}
	for _, k := range v.Left {
		errs = append(errs, b.engine.PinColumn(k, model1.PinLeft))
	}
	for _, k := range v.Right {
		errs = append(errs, b.engine.PinColumn(k, model1.PinRight))
	}
	if v.Limit > 0 {
		errs = append(errs, b.engine.SetLimit(v.Limit))
	}
	if v.Sort != "" {
		if col, _, ok := cols.Column(v.Sort); ok && col.Sortable {
			errs = append(errs, b.engine.Sort(v.Sort, v.Desc))
		}
	}

	return errors.Join(errs...)
}

// CurrentView captures the column layout, page size and sort in effect.
func (b *Browser) CurrentView() *data.TableView {
	cols := b.engine.Columns()
	v := data.NewTableView()
	v.Order = cols.Order()
	for _, k := range v.Order {
		if !cols.IsVisible(k) {
			v.Hidden = append(v.Hidden, k)
		}
	}
	v.Left = cols.Pinned(model1.PinLeft)
	v.Right = cols.Pinned(model1.PinRight)
	v.Limit = b.engine.Pagination().Limit
	q := b.engine.Query()
	v.Sort, v.Desc = q.Sort.Column, q.Sort.Desc
	v.Validate()

	return v
}

func (b *Browser) bindKeys() {
	aa := ui.KeyMap{
		ui.KeySpace:       ui.NewKeyAction("Mark", b.toggleCmd, true),
		tcell.KeyCtrlA:    ui.NewKeyAction("Mark Page", b.markPageCmd, true),
		ui.KeyU:           ui.NewKeyAction("Unmark All", b.clearMarksCmd, true),
		ui.KeyS:           ui.NewKeyAction("Sort", b.sortCmd, true),
		ui.KeyN:           ui.NewKeyAction("Next Page", b.nextPageCmd, true),
		ui.KeyP:           ui.NewKeyAction("Prev Page", b.prevPageCmd, true),
		tcell.KeyPgDn:     ui.NewSharedKeyAction("Next Page", b.nextPageCmd),
		tcell.KeyPgUp:     ui.NewSharedKeyAction("Prev Page", b.prevPageCmd),
		ui.KeyA:           ui.NewKeyAction("Actions", b.actionsCmd, true),
		ui.KeyX:           ui.NewKeyAction("Export", b.exportCmd, true),
		ui.KeyShiftH:      ui.NewKeyAction("Hide Column", b.hideColumnCmd, true),
		ui.KeyShiftV:      ui.NewKeyAction("Show Columns", b.showColumnsCmd, true),
		ui.KeyShiftP:      ui.NewKeyAction("Pin Column", b.pinColumnCmd, true),
		ui.KeyLess:        ui.NewKeyAction("Move Left", b.moveColumnCmd(-1), true),
		ui.KeyGreater:     ui.NewKeyAction("Move Right", b.moveColumnCmd(1), true),
		ui.KeyShiftW:      ui.NewKeyAction("Save View", b.saveViewCmd, true),
		tcell.KeyCtrlR:    ui.NewKeyAction("Refresh", b.refreshCmd, true),
		ui.KeyD:           ui.NewKeyAction("Detail", b.detailCmd, true),
		tcell.KeyEscape:   ui.NewKeyAction("Back", b.escCmd, false),
		ui.KeyQ:           ui.NewSharedKeyAction("Quit", b.quitCmd),
		ui.KeyShiftT:      ui.NewKeyAction("Tenants", b.tenantsCmd, true),
		ui.KeyShiftR:      ui.NewKeyAction("Row Editor", b.rowEditCmd, true),
		tcell.KeyCtrlD:    ui.NewKeyActionWithOpts("Delete", b.deleteCmd, ui.ActionOpts{Visible: true, Dangerous: true}),
		ui.KeyE:           ui.NewKeyAction("Edit", b.editCmd, true),
		tcell.KeyEnter:    ui.NewSharedKeyAction("Edit", b.editCmd),
		ui.KeyShiftD:      ui.NewKeyAction("Sort Desc", b.sortDescCmd, true),
	}
	if b.readOnly {
		delete(aa, ui.KeyE)
		delete(aa, tcell.KeyEnter)
		delete(aa, ui.KeyShiftR)
		delete(aa, tcell.KeyCtrlD)
	}
	b.Actions().Bulk(aa)
}

func (b *Browser) toggleCmd(*tcell.EventKey) *tcell.EventKey {
	id := b.SelectedRowID()
	if id == "" {
		return nil
	}
	if err := b.engine.ToggleSelect(id); err != nil {
		b.app.flash.Err(err)
		return nil
	}
	row, col := b.GetSelection()
	if row < b.GetRowCount()-1 {
		b.Select(row+1, col)
	}

	return nil
}

func (b *Browser) markPageCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.engine.SelectAllOnPage(); err != nil {
		b.app.flash.Err(err)
	}
	return nil
}

func (b *Browser) clearMarksCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.engine.ClearSelection(); err != nil {
		b.app.flash.Err(err)
	}
	return nil
}

func (b *Browser) sortCmd(*tcell.EventKey) *tcell.EventKey {
	b.sortOn(b.SelectedColumn(), false)
	return nil
}

func (b *Browser) sortDescCmd(*tcell.EventKey) *tcell.EventKey {
	b.sortOn(b.SelectedColumn(), true)
	return nil
}

// sortOn sorts on a column, flipping the direction when it is already the
// sort column.
func (b *Browser) sortOn(key string, desc bool) {
	if key == "" {
		return
	}
	if s := b.engine.Query().Sort; s.Column == key && !desc {
		desc = !s.Desc
	}
	if err := b.engine.Sort(key, desc); err != nil {
		b.app.flash.Err(err)
	}
}

func (b *Browser) nextPageCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.engine.NextPage(); err != nil {
		b.app.flash.Err(err)
	}
	return nil
}

func (b *Browser) prevPageCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.engine.PrevPage(); err != nil {
		b.app.flash.Err(err)
	}
	return nil
}

func (b *Browser) refreshCmd(*tcell.EventKey) *tcell.EventKey {
	go func() {
		ctx, cancel := context.WithTimeout(b.app.ctx, b.app.cfg.Erptab.FetchTimeoutDuration())
		defer cancel()
		if err := b.engine.Refresh(ctx); err == nil {
			b.app.flash.Infof("%s refreshed", b.spec.Name)
		}
	}()
	return nil
}

func (b *Browser) hideColumnCmd(*tcell.EventKey) *tcell.EventKey {
	key := b.SelectedColumn()
	if key == "" {
		return nil
	}
	if len(b.engine.Columns().VisibleIndexes()) <= 1 {
		b.app.flash.Warn("Cannot hide the last visible column")
		return nil
	}
	if err := b.engine.SetColumnVisible(key, false); err != nil {
		b.app.flash.Err(err)
	}
	return nil
}

func (b *Browser) showColumnsCmd(*tcell.EventKey) *tcell.EventKey {
	for _, k := range b.engine.Columns().Order() {
		if err := b.engine.SetColumnVisible(k, true); err != nil {
			b.app.flash.Err(err)
			return nil
		}
	}
	return nil
}

// pinColumnCmd cycles the current column through left, right and unpinned.
func (b *Browser) pinColumnCmd(*tcell.EventKey) *tcell.EventKey {
	key := b.SelectedColumn()
	if key == "" {
		return nil
	}

	var err error
	switch b.engine.Columns().PinSide(key) {
	case model1.PinNone:
		err = b.engine.PinColumn(key, model1.PinLeft)
	case model1.PinLeft:
		err = b.engine.PinColumn(key, model1.PinRight)
	default:
		err = b.engine.UnpinColumn(key)
	}
	if err != nil {
		b.app.flash.Err(err)
	}

	return nil
}

func (b *Browser) moveColumnCmd(delta int) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		key := b.SelectedColumn()
		if key == "" {
			return nil
		}
		order, ok := MoveColumn(b.engine.Columns().Order(), key, delta)
		if !ok {
			return nil
		}
		if err := b.engine.SetColumnOrder(order); err != nil {
			b.app.flash.Err(err)
		}
		return nil
	}
}

// MoveColumn shifts key by delta positions. It reports false when key is
// unknown or already at the edge.
func MoveColumn(order []string, key string, delta int) ([]string, bool) {
	i := -1
	for j, k := range order {
		if k == key {
			i = j
			break
		}
	}
	j := i + delta
	if i < 0 || j < 0 || j >= len(order) {
		return order, false
	}
	out := append([]string(nil), order...)
	out[i], out[j] = out[j], out[i]

	return out, true
}

func (b *Browser) saveViewCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.app.cfg.Erptab.SaveView(b.spec.Name, b.CurrentView()); err != nil {
		b.app.flash.Err(err)
		return nil
	}
	b.app.flash.Infof("View %s saved", b.spec.Name)

	return nil
}

func (b *Browser) escCmd(evt *tcell.EventKey) *tcell.EventKey {
	switch {
	case b.Filter() != "":
		b.ApplyFilter("")
	case len(b.engine.Selection()) > 0:
		return b.clearMarksCmd(evt)
	default:
		b.app.Pop()
	}
	return nil
}

func (b *Browser) quitCmd(*tcell.EventKey) *tcell.EventKey {
	b.app.Stop()
	return nil
}

func (b *Browser) tenantsCmd(*tcell.EventKey) *tcell.EventKey {
	if err := b.app.command.Run("tenant"); err != nil {
		b.app.flash.Err(err)
	}
	return nil
}

func (b *Browser) detailCmd(*tcell.EventKey) *tcell.EventKey {
	id := b.SelectedRowID()
	if id == "" {
		return nil
	}
	for _, r := range b.engine.Rows() {
		if r.ID != id {
			continue
		}
		d := NewDetail(b.app, b.spec.Name, b.engine.Columns().Header(), r)
		if err := d.Init(b.app.ctx); err != nil {
			b.app.flash.Err(err)
			return nil
		}
		b.app.Push(d)
		return nil
	}

	return nil
}

func (b *Browser) editCmd(*tcell.EventKey) *tcell.EventKey {
	ref, ok := b.SelectedCell()
	if !ok {
		return nil
	}
	col, _, ok := b.engine.Columns().Column(ref.Column)
	if !ok {
		return nil
	}

	b.pauseWatch()
	if err := b.engine.BeginEdit(ref.RowID, ref.Column); err != nil {
		b.app.flash.Err(err)
		b.maybeResume(b.engine.Snapshot())
		return nil
	}
	_, draft, _ := b.engine.EditPosition()

	p := b.app.prompt
	p.SetChangeFn(func(s string) {
		if v, err := model1.ParseValue(col.Kind, s); err == nil {
			_ = b.engine.UpdateDraft(v)
		}
	})
	p.SetDoneFn(func(s string) error {
		v, err := model1.ParseValue(col.Kind, s)
		if err != nil {
			return err
		}
		if err := b.engine.UpdateDraft(v); err != nil {
			return err
		}
		return b.engine.CommitEdit()
	})
	p.SetCancelFn(func() {
		if err := b.engine.CancelEdit(); err != nil && !errors.Is(err, model.ErrNotEditing) {
			b.app.flash.Err(err)
		}
	})
	p.Activate(fmt.Sprintf(editTitle, col.Label(), col.Kind, ref.RowID), ui.EditText(draft))

	return nil
}

func (b *Browser) deleteCmd(*tcell.EventKey) *tcell.EventKey {
	if b.readOnly {
		b.app.flash.Warn("Tenant is read-only")
		return nil
	}
	if len(b.engine.Selection()) > 0 {
		b.confirmRun(model.ScopeBulk, "", actionDelete)
		return nil
	}
	if id := b.SelectedRowID(); id != "" {
		b.confirmRun(model.ScopeRow, id, actionDelete)
	}

	return nil
}

func (b *Browser) exportCmd(*tcell.EventKey) *tcell.EventKey {
	if len(b.engine.Selection()) > 0 {
		b.run(model.ScopeBulk, "", actionExport)
		return nil
	}
	go b.exportAll()

	return nil
}

// exportAll exports every row matching the current filter and sort.
func (b *Browser) exportAll() {
	ctx, cancel := context.WithTimeout(b.app.ctx, exportTimeout)
	defer cancel()

	rows, err := export.CollectAll(ctx, b.source, b.engine.Query(), b.engine.Pagination().Limit)
	if err != nil {
		b.app.flash.Err(err)
		return
	}
	if err := b.enqueueExport(ctx, rows); err != nil {
		b.app.flash.Err(err)
		return
	}
	b.app.flash.Infof("Exporting %d rows of %s", len(rows), b.spec.Name)
}

func (b *Browser) actionsCmd(*tcell.EventKey) *tcell.EventKey {
	scope, id := model.ScopeBulk, ""
	bound := b.engine.BulkActions()
	if len(b.engine.Selection()) == 0 {
		id = b.SelectedRowID()
		if id == "" {
			return nil
		}
		var err error
		if bound, err = b.engine.RowActions(id); err != nil {
			b.app.flash.Err(err)
			return nil
		}
		scope = model.ScopeRow
	}
	if len(bound) == 0 {
		b.app.flash.Info("No actions available")
		return nil
	}

	items := make([]PickerItem, 0, len(bound))
	for _, a := range bound {
		items = append(items, PickerItem{
			Name:        a.Name,
			Description: a.Description,
			Disabled:    a.IsDisabled,
			Dangerous:   a.Dangerous,
		})
	}
	p := NewPicker(actionsPage, "Actions", items)
	p.SetSelectFn(func(it PickerItem) {
		b.app.DismissModal(actionsPage)
		if it.Dangerous {
			b.confirmRun(scope, id, it.Name)
			return
		}
		b.run(scope, id, it.Name)
	})
	p.SetCancelFn(func() { b.app.DismissModal(actionsPage) })
	if err := p.Init(b.app.ctx); err != nil {
		b.app.flash.Err(err)
		return nil
	}
	b.app.ShowModal(actionsPage, ui.Centered(p, 60, len(items)+3))

	return nil
}

func (b *Browser) confirmRun(scope model.ActionScope, id, name string) {
	target := fmt.Sprintf("row %s", id)
	if scope == model.ScopeBulk {
		target = fmt.Sprintf("%d marked row(s)", len(b.engine.Selection()))
	}
	ui.NewConfirm(b.app).
		SetMessage(fmt.Sprintf("%s %s of %s?", name, target, b.spec.Name)).
		SetDangerous(true).
		SetOnConfirm(func() { b.run(scope, id, name) }).
		Show()
}

// run executes an action off the UI goroutine.
func (b *Browser) run(scope model.ActionScope, id, name string) {
	go func() {
		var err error
		if scope == model.ScopeBulk {
			err = b.engine.RunBulkAction(b.app.ctx, name)
		} else {
			err = b.engine.RunRowAction(b.app.ctx, id, name)
		}
		if err != nil {
			b.app.flash.Errf("%s failed: %v", name, err)
			return
		}
		b.app.flash.Infof("%s done", name)
	}()
}

// Hints returns the key hints of the view.
func (b *Browser) Hints() ui.MenuHints {
	return b.Table.Hints()
}

var _ tview.Primitive = (*Browser)(nil)
