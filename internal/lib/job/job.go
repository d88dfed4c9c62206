// Package job provides background processing using Asynq.
//
// Asynq is a Redis-backed job queue: tasks are enqueued through
// asynq.Client and executed by workers run by asynq.Server. A cron
// scheduler enqueues the recurring housekeeping tasks (usage reports,
// completion retention purge).
package job

import (
	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/rwidyatama/go-genai-service/internal/config"
)

// JobService holds the Asynq client (enqueue), server (worker execution),
// and the cron scheduler for recurring tasks.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	cron   *cron.Cron
	logger *zerolog.Logger
	cfg    *config.Config
}

// NewJobService creates a JobService backed by the configured Redis.
//
// Queue weights distribute the worker pool: async completions are the
// critical path, housekeeping runs at low priority.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisAddr := cfg.Redis.Address

	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr: redisAddr,
	})

	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr},
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6, // async completion generation
				"default":  3,
				"low":      1, // reports, retention purge
			},
		},
	)

	return &JobService{
		Client: client,
		server: server,
		cron:   cron.New(),
		logger: logger,
		cfg:    cfg,
	}
}

// Start registers task handlers, starts the worker server, and schedules
// the recurring tasks.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskGenerateCompletion, j.handleGenerateCompletionTask)
	mux.HandleFunc(TaskUsageReport, j.handleUsageReportTask)
	mux.HandleFunc(TaskPurgeCompletions, j.handlePurgeCompletionsTask)

	j.logger.Info().Msg("starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return j.scheduleRecurring()
}

// scheduleRecurring wires the cron entries that enqueue housekeeping tasks.
func (j *JobService) scheduleRecurring() error {
	if j.cfg.Retention.ReportRecipient != "" {
		_, err := j.cron.AddFunc(j.cfg.Retention.ReportSchedule, func() {
			task, err := NewUsageReportTask()
			if err != nil {
				j.logger.Error().Err(err).Msg("failed to build usage report task")
				return
			}
			if _, err := j.Client.Enqueue(task); err != nil {
				j.logger.Error().Err(err).Msg("failed to enqueue usage report task")
			}
		})
		if err != nil {
			return err
		}
	}

	// Purge runs nightly regardless of reporting config.
	_, err := j.cron.AddFunc("30 3 * * *", func() {
		task, err := NewPurgeCompletionsTask()
		if err != nil {
			j.logger.Error().Err(err).Msg("failed to build purge task")
			return
		}
		if _, err := j.Client.Enqueue(task); err != nil {
			j.logger.Error().Err(err).Msg("failed to enqueue purge task")
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	return nil
}

// Stop gracefully stops the scheduler, the worker server, and the client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("stopping background job server")
	j.cron.Stop()
	j.server.Shutdown()
	j.Client.Close()
}
