package worker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/yegor77/pipeline-portwatch/app/ops"
	"github.com/yegor77/pipeline-portwatch/app/ops/controller"
	"github.com/yegor77/pipeline-portwatch/app/worker/activity"
	"github.com/yegor77/pipeline-portwatch/app/worker/workflow"
	"github.com/yegor77/pipeline-portwatch/pkg/config"
	"github.com/yegor77/pipeline-portwatch/pkg/logging"
	"github.com/yegor77/pipeline-portwatch/pkg/pipeline"
	"github.com/yegor77/pipeline-portwatch/pkg/temporal"
	"github.com/yegor77/pipeline-portwatch/pkg/temporal/portwatch"
	"github.com/yegor77/pipeline-portwatch/pkg/utils"
	"go.temporal.io/sdk/worker"
	temporalworkflow "go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

type App struct {
	Worker         worker.Worker
	TemporalClient *temporal.Client
	Server         *http.Server
	Logger         *zap.Logger

	closers []func() error
}

func (a *App) Start(ctx context.Context) {
	if err := a.Worker.Start(); err != nil {
		a.Logger.Fatal("Unable to start worker", zap.Error(err))
	}
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Ops server stopped", zap.Error(err))
		}
	}()
	<-ctx.Done()
	a.Stop()
}

func (a *App) Stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.Server.Shutdown(shutdownCtx)

	a.Worker.Stop()
	for _, c := range a.closers {
		_ = c()
	}
	a.TemporalClient.Close()
	time.Sleep(200 * time.Millisecond)
	a.Logger.Info("さようなら!")
}

func Initialize(ctx context.Context) *App {
	logger, err := logging.New("portwatch-worker")
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

	app := &App{Logger: logger, closers: stages.AttachSinks(ctx, "worker")}

	temporalClient, err := temporal.NewClient(ctx, logger)
	if err != nil {
		logger.Fatal("Unable to establish temporal connection", zap.Error(err))
	}
	app.TemporalClient = temporalClient

	if err := temporalClient.EnsureNamespace(ctx, 7*24*time.Hour); err != nil {
		logger.Fatal("Unable to ensure temporal namespace", zap.Error(err))
	}

	activityContext := &activity.Context{
		Logger: logger,
		Stages: stages,
	}
	workflowContext := workflow.Context{
		TaskQueue:       temporalClient.PipelineQueue,
		ActivityContext: activityContext,
	}

	wkr := worker.New(
		temporalClient.TClient,
		temporalClient.PipelineQueue,
		worker.Options{
			MaxConcurrentActivityExecutionSize: 1,
			MaxConcurrentWorkflowTaskPollers:   2,
			MaxConcurrentActivityTaskPollers:   2,
			WorkerStopTimeout:                  time.Minute,
		},
	)
	wkr.RegisterWorkflowWithOptions(
		workflowContext.DailyPipelineWorkflow,
		temporalworkflow.RegisterOptions{Name: portwatch.DailyPipelineWorkflowName},
	)
	wkr.RegisterActivity(activityContext.AcquireRaw)
	wkr.RegisterActivity(activityContext.StandardizeRaw)
	wkr.RegisterActivity(activityContext.CurateStandardized)
	app.Worker = wkr

	if utils.EnvBool("PORTWATCH_ENSURE_SCHEDULE", true) {
		opts := DailyScheduleOptions(temporalClient.DailyScheduleID, temporalClient.PipelineQueue, cfg)
		if err := EnsureDailySchedule(ctx, temporalClient.TSClient, opts, logger); err != nil {
			logger.Fatal("Unable to ensure daily schedule", zap.Error(err))
		}
	}

	app.Server = ops.NewServer(cfg.Addr, controller.Deps{
		Logger:        logger,
		Store:         stages.Store,
		RunLog:        stages.RunLog,
		AdminToken:    cfg.AdminToken,
		SessionSecret: cfg.SessionSecret,
		Ready: func(ctx context.Context) error {
			_, err := temporalClient.Health(ctx)
			return err
		},
	})

	return app
}
