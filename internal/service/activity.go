package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain/event"
	"ymm/catalog/internal/queue"
	"ymm/catalog/internal/state"
)

// ActivityConsumer reads the event streams in a consumer group and keeps per-type counters
type ActivityConsumer struct {
	queue       queue.Queue
	counter     state.EventCounter
	groupName   string
	numWorkers  int
	minIdleTime time.Duration
}

func NewActivityConsumer(
	queue queue.Queue,
	counter state.EventCounter,
	groupName string,
	numWorkers int,
	minIdleTime int,
) *ActivityConsumer {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if minIdleTime <= 0 {
		minIdleTime = 60
	}

	return &ActivityConsumer{
		queue:       queue,
		counter:     counter,
		groupName:   groupName,
		numWorkers:  numWorkers,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
	}
}

// Stats returns how many events of each type have been consumed
func (c *ActivityConsumer) Stats(ctx context.Context) (map[string]int64, error) {
	return c.counter.Counts(ctx)
}

// Run blocks until ctx is cancelled
func (c *ActivityConsumer) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for _, eventType := range event.Types {
		c.runWorkersForStream(ctx, &wg, c.queue.StreamName(eventType), eventType)
	}

	wg.Wait()
	return nil
}

func (c *ActivityConsumer) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, streamName, eventType string) {
	// Messages left pending by a dead consumer are claimed after minIdleTime
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(c.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s", eventType)
				claimed, err := c.queue.AutoClaim(ctx, c.groupName, consumer, streamName, c.minIdleTime)
				if err != nil {
					log.Errorf("❌ Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimed) > 0 {
					log.Infof("🔄 Auto-claimed %d messages from %s", len(claimed), streamName)
				}
				for _, msg := range claimed {
					if err := c.processMessage(ctx, streamName, &msg); err != nil {
						log.Errorf("❌ Failed to process auto-claimed message %s: %v", msg.ID, err)
					}
				}
			}
		}
	}()

	for i := 0; i < c.numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", eventType, workerID)
			log.Debugf("🚀 Starting activity worker %s", consumer)
			for {
				select {
				case <-ctx.Done():
					log.Debugf("🛑 Activity worker %s stopping", consumer)
					return
				default:
				}

				msg, err := c.queue.GetEvent(ctx, c.groupName, consumer, streamName)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Errorf("❌ Failed to read event from %s: %v", streamName, err)
					sleepCtx(ctx, time.Second)
					continue
				}

				if msg != nil {
					if err := c.processMessage(ctx, streamName, msg); err != nil {
						log.Errorf("❌ Failed to process message %s: %v", msg.ID, err)
					}
				}
			}
		}(i + 1)
	}
}

func (c *ActivityConsumer) processMessage(ctx context.Context, streamName string, msg *redis.XMessage) error {
	eventType, ok := msg.Values[queue.FieldEventType].(string)
	if !ok {
		// Stream placeholders and foreign entries are acknowledged and skipped
		return c.queue.AckEvent(ctx, streamName, c.groupName, msg.ID)
	}

	eventData, ok := msg.Values[queue.FieldEventData].(string)
	if !ok {
		return c.discard(ctx, streamName, msg, fmt.Errorf("invalid event data in message %s", msg.ID))
	}

	if err := logEvent(eventType, []byte(eventData)); err != nil {
		return c.discard(ctx, streamName, msg, err)
	}

	if err := c.counter.Increment(ctx, eventType); err != nil {
		return err
	}

	if err := c.queue.AckEvent(ctx, streamName, c.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}
	return nil
}

// discard acks a message that can never be decoded so the autoclaimer does not hand it out again.
// cause is returned for the worker to log.
func (c *ActivityConsumer) discard(ctx context.Context, streamName string, msg *redis.XMessage, cause error) error {
	if err := c.queue.AckEvent(ctx, streamName, c.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack malformed message %s: %w", msg.ID, errors.Join(cause, err))
	}
	return fmt.Errorf("dropped malformed message %s: %w", msg.ID, cause)
}

func logEvent(eventType string, data []byte) error {
	switch eventType {
	case event.TypeSearchCompleted:
		e, err := event.UnmarshalEvent[*event.SearchCompleted](data)
		if err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
		}
		log.Infof("📊 Search %s completed: %d parts over %d pages", e.SearchID, e.Summary.Total, e.FetchedPages)
	case event.TypeSearchFailed:
		e, err := event.UnmarshalEvent[*event.SearchFailed](data)
		if err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
		}
		log.Warnf("📊 Search %s failed on page %d: %s", e.SearchID, e.Page, e.Error)
	case event.TypeCartItemAdded:
		e, err := event.UnmarshalEvent[*event.CartItemAdded](data)
		if err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", eventType, err)
		}
		log.Infof("📊 Variant %d added to cart (session %s)", e.VariantID, e.SessionID)
	default:
		log.Debugf("📊 %s", eventType)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
