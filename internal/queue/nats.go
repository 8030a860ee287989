package queue

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"ymm/catalog/internal/domain/event"
)

const HeaderEventType = "Ymm-Event-Type"

type natsConn interface {
	PublishMsg(msg *nats.Msg) error
}

// NATSPublisher fans events out on subjects named <prefix>.<EventType>
type NATSPublisher struct {
	conn          natsConn
	subjectPrefix string
}

func NewNATSPublisher(conn natsConn, subjectPrefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subjectPrefix: subjectPrefix}
}

// ConnectNATS dials url and returns a publisher on it, plus the connection for draining on shutdown
func ConnectNATS(url, subjectPrefix string) (*NATSPublisher, *nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("ymm-catalog"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	log.Infof("📡 Connected to NATS at %s", url)
	return NewNATSPublisher(nc, subjectPrefix), nc, nil
}

func (p *NATSPublisher) Subject(eventType string) string {
	if p.subjectPrefix == "" {
		return eventType
	}
	return p.subjectPrefix + "." + eventType
}

func (p *NATSPublisher) Publish(_ context.Context, e event.Event) error {
	data, err := e.EventValue()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	msg := &nats.Msg{
		Subject: p.Subject(e.EventType()),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set(HeaderEventType, e.EventType())

	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s to NATS: %w", msg.Subject, err)
	}
	return nil
}
