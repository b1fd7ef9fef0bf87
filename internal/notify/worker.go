package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"carmatch_backend/platform/config"
	"carmatch_backend/platform/logger"
)

// Worker consumes dealer notification tasks and sends the emails.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	mailer *Mailer
	log    *logger.Logger
}

func NewWorker(cfg config.WorkerConfig, mailer *Mailer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetTaskQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetTaskConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		mailer: mailer,
		log:    log,
	}

	mux.HandleFunc(TaskDealerNotification, w.handleDealerNotification)

	return w, nil
}

// Run blocks until Shutdown is called.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleDealerNotification(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseDealerNotificationPayload(task)
	if err != nil {
		return fmt.Errorf("parse dealer notification payload: %w", err)
	}

	if err := w.mailer.SendDealerNotification(ctx, payload); err != nil {
		w.log.Error("dealer notification failed", "lead_id", payload.LeadID, "error", err)
		return err
	}

	w.log.Info("dealer notification sent", "lead_id", payload.LeadID, "dealer_email", payload.DealerEmail)
	return nil
}
