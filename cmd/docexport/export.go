package main

import (
	"context"
	"fmt"
	"time"

	"mathdoc-be/internal/bootstrap"
	"mathdoc-be/internal/config"
	"mathdoc-be/internal/dto"
	"mathdoc-be/internal/pkg/logger"
	"mathdoc-be/internal/repository/unitofwork"
	"mathdoc-be/internal/service"
	"mathdoc-be/internal/tracer"
	"mathdoc-be/pkg/database"
	"mathdoc-be/pkg/rendercache"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var exportCommand = &cli.Command{
	Name:   "export",
	Usage:  "Write every published document and the index page",
	Action: export,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "out",
			Aliases:     []string{"o"},
			Usage:       "Directory to export into; blog pages go below {out}/blog. Defaults to EXPORT_ROOT.",
			Destination: &exportOpts.out,
		},
		&cli.IntFlag{
			Name:        "workers",
			Aliases:     []string{"w"},
			Usage:       "Number of documents rendered concurrently. Defaults to EXPORT_WORKERS.",
			Destination: &exportOpts.workers,
		},
		&cli.BoolFlag{
			Name:        "minify",
			Usage:       "Minify the written HTML.",
			Destination: &exportOpts.minify,
		},
	},
}

var exportOpts struct {
	out     string
	workers int
	minify  bool
}

// exportEnv is what the export and watch commands share: configuration and
// an export service backed by the document database.
type exportEnv struct {
	cfg      *config.Config
	log      *logger.ZapLogger
	service  service.IExportService
	shutdown tracer.ShutdownFunc
}

func (e *exportEnv) Close(ctx context.Context) {
	_ = e.shutdown(ctx)
	_ = e.log.Sync()
}

func newExportEnv(opts service.ExportOptions) (*exportEnv, error) {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	assembler, err := bootstrap.NewAssembler(cfg)
	if err != nil {
		return nil, fmt.Errorf("load site config: %w", err)
	}

	if opts.Root == "" {
		opts.Root = cfg.Export.Root
	}
	if opts.Workers <= 0 {
		opts.Workers = cfg.Export.Workers
	}
	opts.Minify = opts.Minify || cfg.Export.Minify

	log := logger.NewIsolatedLogger(cfg.App.ExportLogFilePath)
	svc := service.NewExportService(
		unitofwork.NewRepositoryFactory(db),
		assembler,
		rendercache.New(cfg.Render.CacheTTL),
		opts,
		nil,
		log,
	)
	return &exportEnv{
		cfg:      cfg,
		log:      log,
		service:  svc,
		shutdown: tracer.InitTracer(cfg.Tracing, "mathdoc-docexport"),
	}, nil
}

func export(cc *cli.Context) error {
	env, err := newExportEnv(service.ExportOptions{
		Root:    exportOpts.out,
		Workers: exportOpts.workers,
		Minify:  exportOpts.minify,
	})
	if err != nil {
		return err
	}
	defer env.Close(context.Background())

	report, err := env.service.ExportAll(cc.Context, "")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	printReport(report)

	if !report.OK() {
		return cli.Exit("", 2)
	}
	return nil
}

func printReport(report *dto.ExportReport) {
	for _, path := range report.Written {
		fmt.Fprintf(color.Output, "  %s %s\n", color.GreenString("wrote"), path)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(color.Output, "  %s %s: %s\n", color.RedString("failed"), f.Handle, f.Error)
	}
	if report.IndexPath != "" {
		fmt.Fprintf(color.Output, "  %s %s\n", color.CyanString("index"), report.IndexPath)
	}

	summary := fmt.Sprintf("%d written, %d failed in %s", len(report.Written), len(report.Failed),
		(time.Duration(report.ElapsedMs) * time.Millisecond).String())
	if report.OK() {
		color.Green(summary)
	} else {
		color.Yellow(summary)
	}
}
