package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/config"
	"ymm/catalog/internal/domain/event"
)

// Stream message fields
const (
	FieldEventType = "event_type"
	FieldEventData = "event_data"
)

type Queue interface {
	Publisher
	AddEvent(ctx context.Context, e event.Event) (string, error) // Returns message ID
	GetEvent(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error)
	AckEvent(ctx context.Context, stream, group, msgID string) error
	CreateGroup(ctx context.Context, stream, group string) error
	AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error)
	EnsureStreamsExist(ctx context.Context) error
	StreamName(eventType string) string
}

type RedisQueue struct {
	redisClient  *redis.Client
	streamPrefix string
	groupName    string
	readBlock    time.Duration
}

func NewRedisQueue(ctx context.Context, redisClient *redis.Client, cfg config.RedisConfig) (*RedisQueue, error) {
	q := newRedisQueue(redisClient, cfg)

	// Streams and the consumer group must exist before the activity consumer starts reading
	if err := q.EnsureStreamsExist(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure streams exist: %w", err)
	}

	return q, nil
}

func newRedisQueue(redisClient *redis.Client, cfg config.RedisConfig) *RedisQueue {
	prefix := cfg.StreamPrefix
	if prefix == "" {
		prefix = "ymm:stream:"
	}

	return &RedisQueue{
		redisClient:  redisClient,
		streamPrefix: prefix,
		groupName:    cfg.ConsumerGroup,
		readBlock:    5 * time.Second,
	}
}

func (q *RedisQueue) StreamName(eventType string) string {
	return q.streamPrefix + eventType
}

func (q *RedisQueue) CreateGroup(ctx context.Context, stream, group string) error {
	err := q.redisClient.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP") {
		log.Debugf("Group %s already exists for stream %s", group, stream)
		return nil
	}
	return err
}

// Publish appends the event to its stream, discarding the message ID
func (q *RedisQueue) Publish(ctx context.Context, e event.Event) error {
	_, err := q.AddEvent(ctx, e)
	return err
}

func (q *RedisQueue) AddEvent(ctx context.Context, e event.Event) (string, error) {
	eventType := e.EventType()
	streamName := q.StreamName(eventType)

	eventValue, err := e.EventValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize event: %w", err)
	}

	messageID, err := q.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			FieldEventType: eventType,
			FieldEventData: string(eventValue),
		},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add event to Redis stream %s: %w", streamName, err)
	}

	log.Debugf("Added event %s to stream %s with message ID: %s", eventType, streamName, messageID)
	return messageID, nil
}

func (q *RedisQueue) GetEvent(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	result, err := q.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    1,
		Block:    q.readBlock,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // No new messages
		}
		return nil, fmt.Errorf("failed to read from Redis stream %s: %w", stream, err)
	}

	if len(result) == 0 || len(result[0].Messages) == 0 {
		return nil, nil
	}

	return &result[0].Messages[0], nil
}

func (q *RedisQueue) AckEvent(ctx context.Context, stream, group, msgID string) error {
	return q.redisClient.XAck(ctx, stream, group, msgID).Err()
}

func (q *RedisQueue) AutoClaim(
	ctx context.Context,
	group,
	consumer,
	stream string,
	minIdleTime time.Duration,
) ([]redis.XMessage, error) {
	result, _, err := q.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdleTime,
		Start:    "0-0",
		Count:    10,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to claim messages from Redis stream %s: %w", stream, err)
	}

	return result, nil
}

// EnsureStreamsExist creates one stream per event type and the consumer group on each
func (q *RedisQueue) EnsureStreamsExist(ctx context.Context) error {
	log.Info("🔧 Creating Redis streams and consumer groups...")

	for _, eventType := range event.Types {
		streamName := q.StreamName(eventType)

		// A placeholder entry creates the stream; it is removed once the group exists
		dummyID, err := q.redisClient.XAdd(ctx, &redis.XAddArgs{
			Stream: streamName,
			Values: map[string]interface{}{
				"init": "dummy",
			},
		}).Result()
		if err != nil {
			log.Warnf("⚠️ Failed to create stream %s with dummy entry: %v", streamName, err)
		}

		if err := q.CreateGroup(ctx, streamName, q.groupName); err != nil {
			return fmt.Errorf("failed to create consumer group for %s: %w", eventType, err)
		}

		if dummyID != "" {
			if err := q.redisClient.XDel(ctx, streamName, dummyID).Err(); err != nil {
				log.Warnf("⚠️ Failed to delete dummy entry from %s: %v", streamName, err)
			}
		}

		log.Debugf("✅ Stream %s and consumer group %s ready", streamName, q.groupName)
	}

	log.Infof("🎉 %d event streams ready", len(event.Types))
	return nil
}
