package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/johncpakin/pinged/internal/core/domain"
)

const (
	SubjectPostCreated = "post.created"
	SubjectPostDeleted = "post.deleted"
	SubjectPostUpdated = "post.updated"
)

// conn : sous-ensemble de *nats.Conn utilisé par le publisher.
type conn interface {
	PublishMsg(m *nats.Msg) error
}

type NatsPublisher struct {
	nc conn
}

func NewNatsPublisher(nc *nats.Conn) *NatsPublisher {
	return &NatsPublisher{nc: nc}
}

// PostEvent : contrat JSON lu par le consumer du feed.
type PostEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Type      string    `json:"type"` // "post", "clip", "lfg"
	CreatedAt time.Time `json:"created_at"`
}

func NewPostEvent(post *domain.Post) PostEvent {
	return PostEvent{
		ID:        post.ID,
		AuthorID:  post.UserID,
		Content:   post.Content,
		Type:      string(post.ContentType()),
		CreatedAt: post.CreatedAt,
	}
}

func (p *NatsPublisher) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostCreated, post)
}

func (p *NatsPublisher) PublishPostDeleted(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostDeleted, post)
}

func (p *NatsPublisher) PublishPostUpdated(ctx context.Context, post *domain.Post) error {
	return p.publish(ctx, SubjectPostUpdated, post)
}

func (p *NatsPublisher) publish(ctx context.Context, subject string, post *domain.Post) error {
	data, err := json.Marshal(NewPostEvent(post))
	if err != nil {
		return fmt.Errorf("marshalling error: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// 👇 Trace ID de la requête HTTP propagé dans les headers NATS
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	slog.Info("📢 Publishing event with trace context", "subject", subject, "post_id", post.ID)
	return p.nc.PublishMsg(msg)
}
