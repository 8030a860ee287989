package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymm/catalog/internal/config"
	"ymm/catalog/internal/domain"
	"ymm/catalog/internal/domain/event"
	"ymm/catalog/internal/queue"
	"ymm/catalog/internal/state"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func newActivity(t *testing.T) (*ActivityConsumer, *queue.RedisQueue, *redis.Client) {
	t.Helper()

	rdb := newRedis(t)
	q, err := queue.NewRedisQueue(context.Background(), rdb, config.RedisConfig{ConsumerGroup: "activity"})
	require.NoError(t, err)
	return NewActivityConsumer(q, state.NewRedisEventCounter(rdb), "activity", 1, 0), q, rdb
}

// readOne takes the next message of stream for the activity group
func readOne(t *testing.T, rdb *redis.Client, stream string) *redis.XMessage {
	t.Helper()

	result, err := rdb.XReadGroup(context.Background(), &redis.XReadGroupArgs{
		Group:    "activity",
		Consumer: "test",
		Streams:  []string{stream, ">"},
		Count:    1,
		Block:    -1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Len(t, result[0].Messages, 1)
	return &result[0].Messages[0]
}

func pendingCount(t *testing.T, rdb *redis.Client, stream string) int64 {
	t.Helper()

	pending, err := rdb.XPending(context.Background(), stream, "activity").Result()
	require.NoError(t, err)
	return pending.Count
}

func TestActivityConsumerCountsEvents(t *testing.T) {
	consumer, q, rdb := newActivity(t)
	ctx := context.Background()

	_, err := q.AddEvent(ctx, &event.SearchCompleted{Meta: event.Meta{SearchID: "s1"}, FetchedPages: 2, Summary: domain.ResultSummary{Total: 30}})
	require.NoError(t, err)
	_, err = q.AddEvent(ctx, &event.CartItemAdded{VariantID: 3})
	require.NoError(t, err)

	for _, eventType := range []string{event.TypeSearchCompleted, event.TypeCartItemAdded} {
		stream := q.StreamName(eventType)
		require.NoError(t, consumer.processMessage(ctx, stream, readOne(t, rdb, stream)))
		assert.Zero(t, pendingCount(t, rdb, stream), eventType)
	}

	stats, err := consumer.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"SearchCompleted": 1, "CartItemAdded": 1}, stats)
}

func TestActivityConsumerAcksForeignEntries(t *testing.T) {
	consumer, q, rdb := newActivity(t)
	ctx := context.Background()
	stream := q.StreamName(event.TypeSearchEmpty)

	require.NoError(t, rdb.XAdd(ctx, &redis.XAddArgs{Stream: stream, Values: map[string]interface{}{"init": "dummy"}}).Err())

	require.NoError(t, consumer.processMessage(ctx, stream, readOne(t, rdb, stream)))
	assert.Zero(t, pendingCount(t, rdb, stream))
}

func TestActivityConsumerDropsMalformedData(t *testing.T) {
	consumer, q, rdb := newActivity(t)
	ctx := context.Background()
	stream := q.StreamName(event.TypeSearchFailed)

	require.NoError(t, rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{queue.FieldEventType: event.TypeSearchFailed, queue.FieldEventData: "{"},
	}).Err())

	msg := readOne(t, rdb, stream)
	require.Equal(t, int64(1), pendingCount(t, rdb, stream))

	err := consumer.processMessage(ctx, stream, msg)
	assert.ErrorContains(t, err, "dropped malformed message")
	assert.Zero(t, pendingCount(t, rdb, stream), "a malformed message is acked so it is never reclaimed")

	stats, err := consumer.Stats(ctx)
	require.NoError(t, err)
	assert.Empty(t, stats)
}
