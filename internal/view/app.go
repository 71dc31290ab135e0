// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"go.uber.org/zap"

	"github.com/erptab/erptab/internal/config"
	"github.com/erptab/erptab/internal/config/data"
	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/export"
	"github.com/erptab/erptab/internal/queue"
	"github.com/erptab/erptab/internal/ui"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	mainPage        = "main"
	shutdownTimeout = 5 * time.Second
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash handles flash messages in the application.
type Flash struct {
	*tview.TextView

	queueFn func(func())
	cancel  context.CancelFunc
	mx      sync.RWMutex
}

// NewFlash creates a new Flash instance. Updates go through queueFn when
// set.
func NewFlash(queueFn func(func())) *Flash {
	f := Flash{
		TextView: tview.NewTextView(),
		queueFn:  queueFn,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	f.SetBackgroundColor(tcell.ColorDefault)

	return &f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Warnf displays a formatted warning message.
func (f *Flash) Warnf(format string, args ...any) {
	f.Warn(fmt.Sprintf(format, args...))
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.mx.Unlock()

	f.queue(func() { f.TextView.Clear() })
}

func (f *Flash) queue(fn func()) {
	if f.queueFn != nil {
		f.queueFn(fn)
		return
	}
	fn()
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	if msg == "" {
		f.Clear()
		return
	}

	f.queue(func() {
		f.TextView.Clear()
		f.SetTextColor(flashColor(level))
		_, _ = fmt.Fprintf(f.TextView, "%s %s", tview.Escape(flashPrefix(level)), tview.Escape(msg))
	})

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.cancel = cancel
	f.mx.Unlock()

	go f.autoClear(ctx)
}

func (f *Flash) autoClear(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
		f.Clear()
	}
}

func flashColor(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return tcell.ColorYellow
	case FlashErr:
		return tcell.ColorRed
	default:
		return tcell.ColorGreen
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "[WARN]"
	case FlashErr:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

// App represents the main application container.
type App struct {
	*tview.Application

	version   string
	Main      *tview.Pages
	Content   *ui.Pages
	cfg       *config.Config
	factory   *dao.Factory
	aliases   *config.Aliases
	queues    *queue.Registry
	log       *zap.Logger
	command   *Command
	cmdBar    *ui.CmdBar
	menu      *ui.Menu
	crumbs    *ui.Crumbs
	indicator *ui.Indicator
	flash     *Flash
	prompt    *ui.Prompt
	browser   *Browser
	watcher   *config.Watcher
	ctx       context.Context
	cancelFn  context.CancelFunc
	running   bool
	mx        sync.RWMutex
}

// NewApp creates a new application over the configured tenants. The app
// stops when ctx is done.
func NewApp(ctx context.Context, cfg *config.Config, f *dao.Factory, log *zap.Logger, version string) *App {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	a := App{
		Application: tview.NewApplication(),
		version:     version,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		cfg:         cfg,
		factory:     f,
		aliases:     config.NewAliases(cfg.Erptab.TableNames()...),
		queues:      queue.Default(),
		log:         log.Named("view"),
		ctx:         ctx,
		cancelFn:    cancel,
	}

	a.flash = NewFlash(a.QueueUpdateDraw)
	a.menu = ui.NewMenu()
	a.crumbs = ui.NewCrumbs()
	a.cmdBar = ui.NewCmdBar()
	a.indicator = ui.NewIndicator()
	a.prompt = ui.NewPrompt(&a)

	a.Content.AddListener(a.menu)
	if !cfg.Erptab.UI.Crumbsless {
		a.Content.AddListener(a.crumbs)
	}
	a.Application.SetInputCapture(a.keyboard)
	a.bindCmdBar()

	return &a
}

func (a *App) bindCmdBar() {
	a.cmdBar.SetActiveFn(func(active bool) {
		if active {
			a.SetFocus(a.cmdBar)
			return
		}
		a.focusContent()
	})
	a.cmdBar.SetCommandFn(func(cmd string) {
		if err := a.command.Run(cmd); err != nil {
			a.flash.Err(err)
		}
	})
	a.cmdBar.SetFilterFn(func(text string) {
		if b := a.Browser(); b != nil {
			b.SetFilter(text)
		}
	})
	a.cmdBar.SetApplyFn(func(text string) {
		if b := a.Browser(); b != nil {
			b.ApplyFilter(text)
		}
	})
	a.cmdBar.SetCancelFn(func() {
		if b := a.Browser(); b != nil {
			b.ApplyFilter("")
		}
	})
}

// Init loads aliases, binds the export queue and builds the layout.
func (a *App) Init() error {
	if err := a.aliases.Load(); err != nil {
		a.log.Warn("loading aliases", zap.Error(err))
	}
	a.command = NewCommand(a)
	a.cmdBar.SetCommands(a.command.Names())

	if err := a.bindExport(); err != nil {
		a.log.Warn("export disabled", zap.Error(err))
	}

	a.crumbs.SetTenant(a.factory.Tenant(), a.tenantReadOnly())
	a.indicator.SetReadOnly(a.tenantReadOnly())
	a.Main.AddPage(mainPage, a.layout(), true, true)
	a.SetRoot(a.Main, true)
	a.EnableMouse(a.cfg.Erptab.UI.EnableMouse)

	w, err := config.NewWatcher(a.configChanged, a.log, config.AppConfigDir, a.cfg.Erptab.ViewsDir())
	if err != nil {
		a.log.Warn("config hot reload disabled", zap.Error(err))
		return nil
	}
	a.watcher = w

	return nil
}

// bindExport routes export jobs to the configured sink.
func (a *App) bindExport() error {
	sink, err := a.exportSink(a.ctx)
	if err != nil {
		return err
	}
	a.queues.Handle(export.QueueName, 1, export.Handler(sink, a.log.Named("export"), func(loc string, err error) {
		if err != nil {
			a.flash.Errf("Export failed: %v", err)
			return
		}
		a.flash.Infof("Exported to %s", loc)
	}))

	return nil
}

func (a *App) exportSink(ctx context.Context) (export.Sink, error) {
	return export.SinkFor(ctx, a.cfg.Erptab.Export, config.AppExportsDir)
}

// Run starts the application on the active table.
func (a *App) Run() error {
	a.mx.Lock()
	a.running = true
	w := a.watcher
	a.mx.Unlock()

	if w != nil {
		w.Start(a.ctx)
	}
	if err := a.command.Run(a.cfg.Erptab.ActiveTable()); err != nil {
		a.flash.Err(err)
	}

	release := context.AfterFunc(a.ctx, func() {
		a.log.Info("shutting down", zap.Error(context.Cause(a.ctx)))
		a.Stop()
	})
	err := a.Application.Run()
	release()
	a.shutdown(w)

	return err
}

func (a *App) shutdown(w *config.Watcher) {
	a.cancelFn()
	if w != nil {
		w.Stop()
	}
	if b := a.Browser(); b != nil {
		b.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.queues.Shutdown(ctx); err != nil {
		a.log.Warn("draining queues", zap.Error(err))
	}
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.running = false
	a.Application.Stop()
}

// IsRunning returns whether the application is currently running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.running
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Prompt returns the shared input prompt.
func (a *App) Prompt() *ui.Prompt {
	return a.prompt
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Factory returns the tenant factory.
func (a *App) Factory() *dao.Factory {
	return a.factory
}

// Context returns the application lifetime context.
func (a *App) Context() context.Context {
	return a.ctx
}

// Browser returns the table currently browsed, if any.
func (a *App) Browser() *Browser {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return a.browser
}

// QueueUpdateDraw queues a function to be executed on the UI thread.
func (a *App) QueueUpdateDraw(fn func()) {
	go a.Application.QueueUpdateDraw(fn)
}

// ShowModal implements ui.Overlay.
func (a *App) ShowModal(id string, p tview.Primitive) {
	if a.Main.HasPage(id) {
		a.Main.RemovePage(id)
	}
	a.Main.AddPage(id, p, true, true)
	a.SetFocus(p)
}

// DismissModal implements ui.Overlay.
func (a *App) DismissModal(id string) {
	if !a.Main.HasPage(id) {
		return
	}
	a.Main.RemovePage(id)

	if name, p := a.Main.GetFrontPage(); name != mainPage && p != nil {
		a.SetFocus(p)
		return
	}
	a.focusContent()
}

func (a *App) focusContent() {
	if c := a.Content.Current(); c != nil {
		a.SetFocus(c)
		return
	}
	a.SetFocus(a.Content)
}

func (a *App) tenantReadOnly() bool {
	for _, t := range a.cfg.Tenants() {
		if t.Name == a.factory.Tenant() {
			return t.ReadOnly
		}
	}
	return a.cfg.Erptab.ReadOnly
}

// ShowTable replaces the content with a browser over the named table.
func (a *App) ShowTable(name string) error {
	spec, err := a.cfg.Erptab.DAOSpec(name)
	if err != nil {
		return err
	}
	if err := a.cfg.Erptab.Activate(a.factory.Tenant(), name); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(a.ctx, a.cfg.Erptab.FetchTimeoutDuration())
	defer cancel()
	src, err := a.factory.Source(ctx, spec)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}

	b, err := NewBrowser(a, spec, src)
	if err != nil {
		return err
	}
	if err := b.Init(a.ctx); err != nil {
		return err
	}

	a.mx.Lock()
	old := a.browser
	a.browser = b
	a.mx.Unlock()

	a.Content.Show(b)
	if old != nil {
		old.Close()
	}
	a.SetFocus(b)
	b.Start()

	return nil
}

// Push shows c over the current view.
func (a *App) Push(c ui.Component) {
	a.Content.Push(c)
	a.SetFocus(c)
	c.Start()
}

// Pop returns to the previous view.
func (a *App) Pop() {
	if a.Content.Len() <= 1 {
		return
	}
	a.Content.Pop()
	if c := a.Content.Current(); c != nil {
		a.SetFocus(c)
		c.Start()
	}
}

// SwitchTenant activates another tenant and reopens the current table on
// it.
func (a *App) SwitchTenant(name string) error {
	if err := a.factory.SetTenant(name); err != nil {
		return err
	}
	ro := a.tenantReadOnly()
	a.factory.SetAudit(!ro)
	a.crumbs.SetTenant(name, ro)
	a.indicator.SetReadOnly(ro)
	a.log.Info("tenant switched", zap.String("tenant", name))

	table := a.cfg.Erptab.ActiveTable()
	if b := a.Browser(); b != nil {
		table = b.Name()
	}
	return a.ShowTable(table)
}

// configChanged reloads aliases and view preferences written outside the
// app.
func (a *App) configChanged(path string) {
	switch {
	case filepath.Base(path) == filepath.Base(config.AppAliasesFile):
		if err := a.aliases.Load(); err != nil {
			a.flash.Err(err)
			return
		}
		a.QueueUpdateDraw(func() { a.cmdBar.SetCommands(a.command.Names()) })
		a.flash.Info("Aliases reloaded")
	case filepath.Dir(path) == filepath.Clean(a.cfg.Erptab.ViewsDir()):
		b := a.Browser()
		if b == nil || filepath.Base(path) != data.ViewFileName(a.factory.Tenant(), b.Name()) {
			return
		}
		a.QueueUpdateDraw(func() {
			if err := b.LoadView(); err != nil {
				a.flash.Err(err)
				return
			}
			a.flash.Infof("View %s reloaded", b.Name())
		})
	}
}

func (a *App) layout() *tview.Flex {
	header := tview.NewFlex().
		AddItem(a.crumbs, 0, 1, false).
		AddItem(a.indicator, 0, 1, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.cmdBar, 3, 0, false).
		AddItem(header, 1, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, 6, 0, false)
}

// keyboard handles global keyboard events.
func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if name, _ := a.Main.GetFrontPage(); name != mainPage {
		return evt
	}
	if a.cmdBar.IsActive() {
		return evt
	}

	switch ui.AsKey(evt) {
	case ui.KeyColon:
		a.cmdBar.Activate(ui.ModeCommand, "")
		return nil
	case ui.KeySlash:
		if b := a.Browser(); b != nil && a.Content.Current() == b {
			a.cmdBar.Activate(ui.ModeFilter, b.Filter())
		}
		return nil
	case ui.KeyHelp:
		a.showHelp()
		return nil
	case tcell.KeyCtrlC:
		a.Stop()
		return nil
	}

	return evt
}

func (a *App) showHelp() {
	if _, ok := a.Content.Current().(*Help); ok {
		return
	}
	h := NewHelp(a)
	if c := a.Content.Current(); c != nil {
		h.SetHints(c.Hints())
	}
	if err := h.Init(a.ctx); err != nil {
		a.flash.Err(err)
		return
	}
	a.Push(h)
}
