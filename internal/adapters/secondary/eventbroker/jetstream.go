package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName     = "IDENTITY"
	SubjectPattern = "identity.>" // Tous les events identity.*

	SubjectUserRegistered = "identity.user.registered"
)

// streamPublisher : sous-ensemble de jetstream.JetStream utilisé ici.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

type JetStreamPublisher struct {
	js streamPublisher
}

// NewJetStreamPublisher s'assure que le stream existe (idempotent).
func NewJetStreamPublisher(ctx context.Context, nc *nats.Conn) (*JetStreamPublisher, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage, // Persistance sur disque
		Replicas: 1,                     // 3 en cluster
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &JetStreamPublisher{js: js}, nil
}

type UserRegisteredEvent struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

func (p *JetStreamPublisher) PublishUserRegistered(ctx context.Context, userID, email string) error {
	data, err := json.Marshal(UserRegisteredEvent{UserID: userID, Email: email})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	// JetStream confirme que le serveur a reçu et persisté le message
	ack, err := p.js.Publish(ctx, SubjectUserRegistered, data)
	if err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}

	slog.Debug("Published identity event", "subject", SubjectUserRegistered, "seq", ack.Sequence)
	return nil
}
