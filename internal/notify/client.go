package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"carmatch_backend/internal/events"
	"carmatch_backend/platform/config"
	"carmatch_backend/platform/logger"
)

// Client enqueues dealer notification tasks. It subscribes to the event bus
// in the API process so the HTTP handler never waits on Redis or SMTP.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

func NewClient(cfg config.WorkerConfig, log *logger.Logger) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
		log:    log,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueDealerNotification queues one dealer email for the worker.
func (c *Client) EnqueueDealerNotification(ctx context.Context, payload DealerNotificationPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewDealerNotificationTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

// RegisterHandlers subscribes to the handoff event.
func (c *Client) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadSentToDealer{}.EventName(), c)
}

// Handle converts the handoff event into a queued task.
func (c *Client) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadSentToDealer)
	if !ok {
		return nil
	}

	err := c.EnqueueDealerNotification(ctx, DealerNotificationPayload{
		LeadID:       e.LeadID,
		ListingID:    e.ListingID,
		BuyerName:    e.BuyerName,
		BuyerEmail:   e.BuyerEmail,
		BuyerPhone:   e.BuyerPhone,
		BuyerNotes:   e.BuyerNotes,
		DealerName:   e.DealerName,
		DealerEmail:  e.DealerEmail,
		ListingLabel: e.ListingLabel,
		ListingPrice: e.ListingPrice,
		ListingMiles: e.ListingMiles,
	})
	if err != nil {
		c.log.Error("failed to enqueue dealer notification", "lead_id", e.LeadID, "error", err)
		return err
	}

	c.log.Info("dealer notification enqueued", "lead_id", e.LeadID)
	return nil
}
