package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymm/catalog/internal/domain/event"
)

type fakeConn struct {
	msgs []*nats.Msg
	err  error
}

func (c *fakeConn) PublishMsg(msg *nats.Msg) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, event.Event) error {
	return errors.New("sink down")
}

func TestNATSPublisher(t *testing.T) {
	conn := &fakeConn{}
	p := NewNATSPublisher(conn, "ymm.events")

	err := p.Publish(context.Background(), &event.SearchFailed{Page: 2, Status: 503, Error: "failed to fetch page 2: HTTP 503"})
	require.NoError(t, err)

	require.Len(t, conn.msgs, 1)
	assert.Equal(t, "ymm.events.SearchFailed", conn.msgs[0].Subject)
	assert.Equal(t, event.TypeSearchFailed, conn.msgs[0].Header.Get(HeaderEventType))
	assert.Contains(t, string(conn.msgs[0].Data), `"status":503`)
}

func TestNATSPublisherSubjectWithoutPrefix(t *testing.T) {
	p := NewNATSPublisher(&fakeConn{}, "")
	assert.Equal(t, "CartItemAdded", p.Subject(event.TypeCartItemAdded))
}

func TestNATSPublisherError(t *testing.T) {
	p := NewNATSPublisher(&fakeConn{err: nats.ErrConnectionClosed}, "x")

	err := p.Publish(context.Background(), &event.SearchEmpty{})
	require.Error(t, err)
	assert.ErrorIs(t, err, nats.ErrConnectionClosed)
}

func TestMultiKeepsPublishingAfterFailure(t *testing.T) {
	rec := &Recorder{}
	m := Multi{failingPublisher{}, rec, Nop{}}

	err := m.Publish(context.Background(), &event.SearchEmpty{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Equal(t, []string{event.TypeSearchEmpty}, rec.Types())
}
