package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/richardgms/guia-enem-2026-sub000/db"
	"github.com/richardgms/guia-enem-2026-sub000/schedule"
	"github.com/richardgms/guia-enem-2026-sub000/utils"
)

const (
	TypeRecomputeStats = "stats:recompute"
)

type JobManager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

type RecomputePayload struct {
	UserID int    `json:"user_id"`
	Reason string `json:"reason"` // "progress_saved", "exam_finalized", "redemption", ...
}

func NewJobManager(redisURL string) *JobManager {
	addr := strings.TrimPrefix(redisURL, "redis://")
	redisOpt := asynq.RedisClientOpt{
		Addr: addr,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6, // recomputes triggered by user-visible mutations
			"default":  3,
			"low":      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			utils.LogError("Job failed: type=%s error=%v", task.Type(), err)
		}),
		Logger: &AsynqLogger{},
	})

	mux := asynq.NewServeMux()

	return &JobManager{
		client: client,
		server: server,
		mux:    mux,
	}
}

func (jm *JobManager) RegisterHandlers(database *db.DB, cfg schedule.Config) {
	jm.mux.HandleFunc(TypeRecomputeStats, jm.handleRecomputeStats(database, cfg))
}

func (jm *JobManager) Start() error {
	utils.LogStartup("Starting job queue worker...")
	return jm.server.Run(jm.mux)
}

func (jm *JobManager) Stop() {
	utils.LogShutdown("Stopping job queue...")
	jm.server.Stop()
	jm.server.Shutdown()
	jm.client.Close()
}

// QueueStatsRecompute schedules a full stats rebuild for the user. Queued
// after every qualifying mutation; the worker overwrites the cached
// statistics row wholesale, so a lost or duplicated task is always safe.
func (jm *JobManager) QueueStatsRecompute(userID int, reason string) error {
	payload := RecomputePayload{
		UserID: userID,
		Reason: reason,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal recompute payload: %w", err)
	}

	task := asynq.NewTask(TypeRecomputeStats, payloadBytes)

	opts := []asynq.Option{
		asynq.Queue("critical"),
		asynq.MaxRetry(5),
		asynq.Timeout(60 * time.Second),
	}

	info, err := jm.client.Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue recompute task: %w", err)
	}

	utils.LogInfo("Queued stats recompute: ID=%s user=%d reason=%s", info.ID, userID, reason)
	return nil
}

func (jm *JobManager) handleRecomputeStats(database *db.DB, cfg schedule.Config) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload RecomputePayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal recompute payload: %w", err)
		}

		utils.LogInfo("Processing stats recompute: user=%d reason=%s", payload.UserID, payload.Reason)

		if _, err := database.RecomputeStats(payload.UserID, cfg, time.Now()); err != nil {
			return fmt.Errorf("failed to recompute stats for user %d: %w", payload.UserID, err)
		}
		return nil
	}
}

// Custom logger that routes asynq output through the shared log helpers
type AsynqLogger struct{}

func (l *AsynqLogger) Debug(args ...interface{}) {
	utils.LogDebug(fmt.Sprint(args...))
}

func (l *AsynqLogger) Info(args ...interface{}) {
	utils.LogInfo(fmt.Sprint(args...))
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Error(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	utils.LogError(fmt.Sprint(args...))
}
