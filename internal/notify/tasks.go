// Package notify delivers dealer notifications through the task queue.
package notify

import (
	"crypto/tls"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const TaskDealerNotification = "leads.dealer_notification"

// DealerNotificationPayload is the queued handoff: everything the worker
// needs to compose the dealer email without touching the database.
type DealerNotificationPayload struct {
	LeadID       int64  `json:"lead_id"`
	ListingID    int64  `json:"listing_id"`
	BuyerName    string `json:"buyer_name"`
	BuyerEmail   string `json:"buyer_email"`
	BuyerPhone   string `json:"buyer_phone,omitempty"`
	BuyerNotes   string `json:"buyer_notes,omitempty"`
	DealerName   string `json:"dealer_name,omitempty"`
	DealerEmail  string `json:"dealer_email,omitempty"`
	ListingLabel string `json:"listing_label,omitempty"`
	ListingPrice int64  `json:"listing_price,omitempty"`
	ListingMiles int64  `json:"listing_miles,omitempty"`
}

func NewDealerNotificationTask(payload DealerNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDealerNotification, data), nil
}

func ParseDealerNotificationPayload(task *asynq.Task) (DealerNotificationPayload, error) {
	var payload DealerNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DealerNotificationPayload{}, err
	}
	return payload, nil
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
