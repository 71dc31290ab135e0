package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/erptab/erptab/internal/config"
	"github.com/erptab/erptab/internal/config/data"
	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/export"
	"github.com/erptab/erptab/internal/logging"
	"github.com/erptab/erptab/internal/model"
	"github.com/erptab/erptab/internal/queue"
	"github.com/erptab/erptab/internal/render"
	"github.com/erptab/erptab/internal/view"
)

const (
	appName    = "erptab"
	appVersion = "0.1.0"

	shutdownGrace = 5 * time.Second
)

var (
	erptabFlags *data.Flags
	queryFlags  = struct {
		filter string
		sort   string
		desc   bool
		out    string
	}{}
	rootCmd = &cobra.Command{
		Use:   appName,
		Short: "A terminal table browser for ERP ledgers",
		Long:  `erptab is a terminal UI to browse, filter and edit ERP master tables across tenants.`,
		RunE:  run,
	}
	listCmd = &cobra.Command{
		Use:   "list [table]",
		Short: "Print one page of a table",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runList,
	}
	exportCmd = &cobra.Command{
		Use:   "export [table]",
		Short: "Export every row matching the filter to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExport,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	}
)

func init() {
	erptabFlags = config.NewFlags()
	initErptabFlags()
	initQueryFlags(listCmd)
	initQueryFlags(exportCmd)
	exportCmd.Flags().StringVarP(&queryFlags.out, "out", "o", "", "Output directory or s3://bucket/prefix")
	rootCmd.AddCommand(listCmd, exportCmd, versionCmd)
}

func initErptabFlags() {
	pf := rootCmd.PersistentFlags()
	pf.Float32VarP(erptabFlags.RefreshRate, "refresh", "r", *erptabFlags.RefreshRate, "Refresh rate in seconds")
	pf.StringVarP(erptabFlags.LogLevel, "logLevel", "l", *erptabFlags.LogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(erptabFlags.LogFile, "logFile", "", "Log file path")
	pf.StringVarP(erptabFlags.Table, "table", "t", "", "Startup table")
	pf.StringVar(erptabFlags.Tenant, "tenant", "", "Tenant to use")
	pf.IntVar(erptabFlags.PageSize, "pageSize", 0, "Rows per page")
	pf.BoolVar(erptabFlags.ReadOnly, "readonly", false, "Enable read-only mode")
	pf.BoolVar(erptabFlags.Write, "write", false, "Enable write mode (overrides readonly)")
	rootCmd.Flags().BoolVar(erptabFlags.Headless, "headless", false, "Print the startup table and exit")
}

func initQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&queryFlags.filter, "filter", "f", "", "Filter, column:value narrows to one column")
	cmd.Flags().StringVarP(&queryFlags.sort, "sort", "s", "", "Sort column")
	cmd.Flags().BoolVar(&queryFlags.desc, "desc", false, "Sort descending")
}

func main() {
	ctx, stop := signalContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatal(err)
	}
}

// signalContext returns a context canceled by the first of sigs. The hook
// is released once it fires so a second signal terminates the process.
func signalContext(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, sigs...)
	context.AfterFunc(ctx, stop)

	return ctx, stop
}

// env is the wiring shared by every command.
type env struct {
	cfg     *config.Config
	factory *dao.Factory
	log     *zap.Logger
	flush   func()
}

func (e *env) close() {
	if err := e.factory.Close(); err != nil {
		e.log.Warn("closing tenants", zap.Error(err))
	}
	e.flush()
}

func boot(ctx context.Context) (*env, error) {
	// 1. Initialize locations
	if err := config.InitLocs(); err != nil {
		return nil, fmt.Errorf("failed to initialize locations: %w", err)
	}

	// 2. Load tenants, seeding a local ledger on first run
	tenants, err := config.LoadTenants(config.AppTenantsFile)
	if err != nil {
		return nil, err
	}
	if len(tenants) == 0 {
		name, dsn := config.DefaultTenant()
		tenants = []dao.Tenant{{Name: name, Driver: config.DefaultDriver, DSN: dsn}}
		if err := config.SaveTenants(config.AppTenantsFile, tenants); err != nil {
			return nil, err
		}
	}

	// 3. Load configuration and apply CLI overrides
	cfg := config.NewConfig(tenants)
	if err := cfg.Load(config.AppConfigFile, false); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Refine(erptabFlags); err != nil {
		return nil, fmt.Errorf("failed to refine configuration: %w", err)
	}

	// 4. Logging
	logFile := cfg.Erptab.Logger.File
	if logFile == "" {
		logFile = config.AppLogFile
	}
	logger, flush, err := logging.Install(logging.Options{Level: cfg.Erptab.Logger.Level, File: logFile})
	if err != nil {
		return nil, err
	}

	// 5. Tenant databases
	factory := dao.NewFactory(cfg.Tenants(), cfg.Erptab.CacheTTLDuration(), logger.Named("dao"))
	if cfg.Erptab.ReadOnly {
		factory.SetAudit(false)
	}
	e := env{cfg: cfg, factory: factory, log: logger, flush: flush}
	if err := prepareTables(ctx, cfg, factory, logger); err != nil {
		e.close()
		return nil, err
	}

	return &e, nil
}

func run(cmd *cobra.Command, _ []string) error {
	e, err := boot(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	if config.IsBoolSet(erptabFlags.Headless) {
		return listTable(cmd.Context(), os.Stdout, e, e.cfg.Erptab.ActiveTable())
	}

	release := queue.Default().ShutdownOnDone(cmd.Context(), shutdownGrace)
	defer release()

	app := view.NewApp(cmd.Context(), e.cfg, e.factory, e.log, appVersion)
	if err := app.Init(); err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run()
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := boot(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	return listTable(cmd.Context(), cmd.OutOrStdout(), e, tableArg(e.cfg, args))
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	e, err := boot(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	name := tableArg(e.cfg, args)
	spec, err := e.cfg.Erptab.DAOSpec(name)
	if err != nil {
		return err
	}
	src, err := e.factory.Source(ctx, spec)
	if err != nil {
		return err
	}
	enc, err := export.ParseEncoding(e.cfg.Erptab.Export.Encoding)
	if err != nil {
		return err
	}

	q := dao.ParseQuery(queryFlags.filter, 0, 0)
	q.Sort = dao.SortOrder{Column: queryFlags.sort, Desc: queryFlags.desc}
	rows, err := export.CollectAll(ctx, src, q, e.cfg.Erptab.PageSize)
	if err != nil {
		return err
	}

	ex := e.cfg.Erptab.Export
	if queryFlags.out != "" {
		ex.S3, ex.Dir = "", queryFlags.out
		if strings.HasPrefix(queryFlags.out, "s3://") {
			ex.S3 = queryFlags.out
		}
	}
	sink, err := export.SinkFor(ctx, ex, config.AppExportsDir)
	if err != nil {
		return err
	}
	loc, err := export.Run(ctx, sink, export.Request{
		Table:    name,
		Header:   spec.Header,
		Rows:     rows,
		Encoding: enc,
	})
	if err != nil {
		return err
	}
	e.log.Info("export written", zap.String("table", name), zap.Int("rows", len(rows)), zap.String("location", loc))
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", len(rows), loc)

	return nil
}

func tableArg(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Erptab.ActiveTable()
}

// listTable renders the first page of a table the way the browser shows it.
func listTable(ctx context.Context, w io.Writer, e *env, name string) error {
	spec, err := e.cfg.Erptab.DAOSpec(name)
	if err != nil {
		return err
	}
	src, err := e.factory.Source(ctx, spec)
	if err != nil {
		return err
	}

	opts := []model.Option{
		model.WithLogger(e.log.Named("engine")),
		model.WithContext(ctx),
		model.WithPageSize(e.cfg.Erptab.PageSize),
		model.WithFetchTimeout(e.cfg.Erptab.FetchTimeoutDuration()),
	}
	if queryFlags.sort != "" {
		opts = append(opts, model.WithSort(queryFlags.sort, queryFlags.desc))
	}
	engine, err := model.NewEngine(name, render.DecorateHeader(spec.Header), src, opts...)
	if err != nil {
		return err
	}
	defer func() {
		engine.Close()
		engine.Wait()
	}()

	if queryFlags.filter != "" {
		if err := engine.ApplyFilter(queryFlags.filter); err != nil {
			return err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Erptab.FetchTimeoutDuration()+time.Second)
	defer cancel()
	if err := engine.Refresh(ctx); err != nil {
		return err
	}

	return render.NewPage().Render(w, engine.Snapshot())
}
