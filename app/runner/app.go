package runner

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/yegor77/pipeline-portwatch/app/ops"
	"github.com/yegor77/pipeline-portwatch/app/ops/controller"
	"github.com/yegor77/pipeline-portwatch/pkg/config"
	"github.com/yegor77/pipeline-portwatch/pkg/logging"
	"github.com/yegor77/pipeline-portwatch/pkg/pipeline"
	"go.uber.org/zap"
)

// Pipeline is the subset of *pipeline.Stages the runner drives.
type Pipeline interface {
	Run(ctx context.Context, stage string) ([]pipeline.Result, error)
}

// App runs the pipeline on a local cron schedule, without Temporal.
type App struct {
	Pipeline Pipeline
	Logger   *zap.Logger

	Cron     *cron.Cron
	CronSpec string
	// RunTimeout bounds one scheduled run.
	RunTimeout time.Duration

	// RunOnce, when set, runs that stage once instead of scheduling.
	RunOnce string

	Server  *http.Server
	closers []func() error
}

func Initialize(ctx context.Context) *App {
	logger, err := logging.New("portwatch-runner")
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	stages := pipeline.New(cfg, logger)
	if err := stages.Store.EnsureDirs(); err != nil {
		logger.Fatal("Unable to prepare storage zones", zap.Error(err))
	}

	app := &App{
		Pipeline:   stages,
		Logger:     logger,
		CronSpec:   cfg.Cron,
		RunTimeout: 2 * time.Hour,
		RunOnce:    cfg.RunOnce,
		closers:    stages.AttachSinks(ctx, "runner"),
	}
	if app.RunOnce != "" {
		return app
	}

	if err := app.SetupScheduler(ctx, NewCronLogger(logger), cfg.Cron); err != nil {
		logger.Fatal("Invalid cron spec", zap.String("cron", cfg.Cron), zap.Error(err))
	}
	app.Server = ops.NewServer(cfg.Addr, controller.Deps{
		Logger:        logger,
		Store:         stages.Store,
		RunLog:        stages.RunLog,
		AdminToken:    cfg.AdminToken,
		SessionSecret: cfg.SessionSecret,
	})
	return app
}

// SetupScheduler sets up the cron scheduler. A run still in progress when the
// next tick fires makes that tick a no-op.
func (a *App) SetupScheduler(ctx context.Context, logger cron.Logger, cronSpec string) error {
	// Seconds field, optional
	a.Cron = cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	_, err := a.Cron.AddFunc(cronSpec, func() { a.runScheduled(ctx) })
	return err
}

func (a *App) runScheduled(ctx context.Context) {
	rctx, cancel := context.WithTimeout(ctx, a.RunTimeout)
	defer cancel()
	results, err := a.Pipeline.Run(rctx, pipeline.StageAll)
	if err != nil {
		a.Logger.Error("Scheduled run failed", zap.Error(err), zap.Int("completed_stages", len(results)))
		return
	}
	a.Logger.Info("Scheduled run finished", zap.Int("stages", len(results)))
}

// Once runs the configured stage a single time.
func (a *App) Once(ctx context.Context) error {
	results, err := a.Pipeline.Run(ctx, a.RunOnce)
	for _, r := range results {
		a.Logger.Info("Stage finished",
			zap.String("zone", r.Zone),
			zap.String("path", r.Path),
			zap.Int("rows", r.Rows),
			zap.Bool("written", r.Written))
	}
	return err
}

// Start runs once or serves the schedule until ctx is canceled. It returns the
// error of a one-shot run.
func (a *App) Start(ctx context.Context) error {
	if a.RunOnce != "" {
		err := a.Once(ctx)
		a.Stop()
		return err
	}

	a.Cron.Start()
	a.Logger.Info("Cron started", zap.String("cronSpec", a.CronSpec))
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Ops server stopped", zap.Error(err))
		}
	}()
	<-ctx.Done()
	a.Stop()
	return nil
}

func (a *App) Stop() {
	if a.Server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = a.Server.Shutdown(shutdownCtx)
		cancel()
	}
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	for _, c := range a.closers {
		_ = c()
	}
	a.Logger.Info("さようなら!")
}
