package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/auction-draft/internal/domain/draft"
	"github.com/riskibarqy/auction-draft/internal/platform/logging"
)

const DefaultSubjectPrefix = "draft.events"

type NATSConfig struct {
	URL           string
	SubjectPrefix string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// conn is the part of *nats.Conn the publisher needs.
type conn interface {
	PublishMsg(msg *nats.Msg) error
	Drain() error
}

// NATSPublisher sends draft events to "<prefix>.<event type>" subjects.
type NATSPublisher struct {
	nc     conn
	prefix string
	logger *logging.Logger
}

func NewNATSPublisher(cfg NATSConfig, logger *logging.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("events")

	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = -1
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.Timeout(cfg.Timeout),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Error("nats async error", "error", err)
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return newNATSPublisher(nc, cfg.SubjectPrefix, logger), nil
}

func newNATSPublisher(nc conn, prefix string, logger *logging.Logger) *NATSPublisher {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &NATSPublisher{nc: nc, prefix: prefix, logger: logger}
}

func (p *NATSPublisher) Subject(eventType draft.EventType) string {
	return p.prefix + "." + string(eventType)
}

func (p *NATSPublisher) Publish(ctx context.Context, event draft.Event) error {
	subject := p.Subject(event.Type)
	ctx, span := otel.Tracer("auction-draft/internal/infrastructure/events").Start(
		ctx,
		"events.nats.Publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "nats"),
			attribute.String("messaging.destination.name", subject),
		),
	)
	defer span.End()

	data, err := sonic.Marshal(event)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("encode draft event: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(event.Type)},
		},
	}
	if event.AuctionID != "" {
		msg.Header.Set("Auction-ID", event.AuctionID)
	}

	if err := p.nc.PublishMsg(msg); err != nil {
		span.RecordError(err)
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.DebugContext(ctx, "draft event published", "subject", subject, "bytes", len(data))
	return nil
}

// Close drains pending messages before closing the connection.
func (p *NATSPublisher) Close() error {
	if p == nil || p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
