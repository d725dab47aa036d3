package publisher

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStreamPublisher publishes catalog events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
}

// NewRedisStreamPublisher creates a new Redis stream publisher from an
// existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
	}
}

// ImportEvent describes one completed checklist import
type ImportEvent struct {
	SetID           int    `json:"set_id"`
	SetName         string `json:"set_name"`
	Sport           string `json:"sport"`
	Source          string `json:"source"`
	SectionsUpsert  int    `json:"sections_upserted"`
	ParallelsUpsert int    `json:"parallels_upserted"`
	CardsUpsert     int    `json:"cards_upserted"`
	CardsForReview  int    `json:"cards_for_review"`
}

// PublishImportEvent publishes a completed import to the per-sport catalog
// stream (catalog.imports.<sport>)
func (rsp *RedisStreamPublisher) PublishImportEvent(ctx context.Context, event ImportEvent) error {
	sport := strings.ToLower(event.Sport)
	if sport == "" {
		sport = "baseball"
	}
	streamName := "catalog.imports." + sport

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}

// QtyEvent describes an owned-quantity change on one card
type QtyEvent struct {
	SetID      int    `json:"set_id"`
	CardID     int    `json:"card_id"`
	CardNumber string `json:"card_number"`
	Qty        int    `json:"qty"`
}

// PublishQtyEvent publishes a quantity change to the collection stream
func (rsp *RedisStreamPublisher) PublishQtyEvent(ctx context.Context, event QtyEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: "catalog.collection",
		Values: map[string]interface{}{
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
