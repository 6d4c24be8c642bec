package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

const (
	SubjectPostCreated = "post.created"
	SubjectPostDeleted = "post.deleted"
	SubjectPostUpdated = "post.updated"

	fanOutTimeout = 30 * time.Second
)

// postEvent : payload publié par le service des posts.
type postEvent struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type EventHandler struct {
	service ports.FeedService
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewEventHandler(service ports.FeedService) *EventHandler {
	return &EventHandler{service: service, timeout: fanOutTimeout}
}

// Subscribe branche les sujets des posts sur la connexion NATS.
func (h *EventHandler) Subscribe(nc *nats.Conn) ([]*nats.Subscription, error) {
	handlers := []struct {
		subject string
		handle  nats.MsgHandler
	}{
		{SubjectPostCreated, h.HandlePostCreated},
		{SubjectPostDeleted, h.HandlePostDeleted},
		{SubjectPostUpdated, h.HandlePostUpdated},
	}

	subs := make([]*nats.Subscription, 0, len(handlers))
	for _, sh := range handlers {
		sub, err := nc.Subscribe(sh.subject, sh.handle)
		if err != nil {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil, fmt.Errorf("subscribe %s: %w", sh.subject, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (h *EventHandler) HandlePostCreated(msg *nats.Msg) {
	h.handle(msg, "process_post_created", h.service.DistributePost)
}

func (h *EventHandler) HandlePostDeleted(msg *nats.Msg) {
	h.handle(msg, "process_post_deleted", h.service.RetractPost)
}

func (h *EventHandler) HandlePostUpdated(msg *nats.Msg) {
	h.handle(msg, "process_post_updated", h.service.ReclassifyPost)
}

// Wait bloque jusqu'à la fin des fan-outs en cours (arrêt propre).
func (h *EventHandler) Wait() {
	h.wg.Wait()
}

func (h *EventHandler) handle(msg *nats.Msg, spanName string, apply func(context.Context, *domain.FeedItem) error) {
	// Contexte de trace du publisher, lu dans les headers NATS
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	ctx, span := otel.Tracer("pinged-feed").Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("messaging.destination", msg.Subject)),
	)

	var event postEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		span.RecordError(err)
		span.End()
		slog.Error("❌ Invalid event format", "subject", msg.Subject, "error", err)
		return
	}
	if event.ID == "" || event.AuthorID == "" {
		span.End()
		slog.Error("❌ Incomplete event", "subject", msg.Subject, "post_id", event.ID)
		return
	}

	slog.Info("📨 Feed received event", "subject", msg.Subject, "post_id", event.ID, "type", event.Type)

	item := &domain.FeedItem{
		PostID:    event.ID,
		AuthorID:  event.AuthorID,
		Type:      domain.ContentType(event.Type),
		CreatedAt: event.CreatedAt,
	}

	// Le callback NATS rend la main tout de suite, le fan-out part en fond
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer span.End()

		childCtx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()

		if err := apply(childCtx, item); err != nil {
			span.RecordError(err)
			slog.Error("❌ Fan-out failed", "subject", msg.Subject, "post_id", event.ID, "error", err)
			return
		}
		slog.Debug("✅ Fan-out success", "subject", msg.Subject, "post_id", event.ID)
	}()
}
