package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/johncpakin/pinged/internal/core/domain"
	"github.com/johncpakin/pinged/internal/core/ports"
)

type connectionService struct {
	repo  ports.ConnectionRepository
	users ports.UserRepository
}

func NewConnectionService(repo ports.ConnectionRepository, users ports.UserRepository) ports.ConnectionService {
	return &connectionService{repo: repo, users: users}
}

// Toggle est l'action du bouton "Connect" :
// rien -> demande envoyée, ma demande -> annulée, sa demande -> acceptée.
// Renvoie nil quand il n'y a plus de connexion.
func (s *connectionService) Toggle(ctx context.Context, actorID, targetID string) (*domain.Connection, error) {
	if err := s.checkPair(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	conn, err := s.repo.Find(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if conn == nil {
		requested := newConnection(actorID, targetID, domain.ConnectionPending)
		err := s.repo.Create(ctx, requested)
		if err == nil {
			slog.Info("🤝 Connection requested", "from", actorID, "to", targetID)
			return requested, nil
		}
		if !errors.Is(err, domain.ErrConnectionExists) {
			return nil, err
		}

		// Une autre requête a relié la paire entre Find et Create : on repart de l'état stocké.
		if conn, err = s.repo.Find(ctx, actorID, targetID); err != nil {
			return nil, err
		}
		if conn == nil {
			return nil, domain.ErrConnectionExists
		}
		slog.Warn("⚠️ Concurrent connection request", "from", actorID, "to", targetID, "status", conn.Status)
		if conn.UserID == actorID && conn.Status == domain.ConnectionPending {
			// double clic : la demande existe déjà, on ne l'annule pas
			return conn, nil
		}
	}

	switch conn.Status {
	case domain.ConnectionBlocked:
		return nil, domain.ErrBlocked
	case domain.ConnectionAccepted:
		return conn, nil
	}

	// pending
	if conn.UserID == actorID {
		if err := s.repo.Delete(ctx, conn.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := s.repo.UpdateStatus(ctx, conn.ID, domain.ConnectionAccepted); err != nil {
		return nil, err
	}
	conn.Status = domain.ConnectionAccepted
	slog.Info("✅ Connection accepted", "id", conn.ID)
	return conn, nil
}

// Remove supprime la connexion quel que soit son état ; seul le bloqueur peut lever un blocage.
func (s *connectionService) Remove(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return domain.ErrSelfConnection
	}
	conn, err := s.repo.Find(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if conn == nil {
		return nil
	}
	if conn.Status == domain.ConnectionBlocked && conn.UserID != actorID {
		return domain.ErrBlocked
	}
	return s.repo.Delete(ctx, conn.ID)
}

// Block remplace toute relation existante par une arête bloquée partant de l'acteur.
func (s *connectionService) Block(ctx context.Context, actorID, targetID string) (*domain.Connection, error) {
	if err := s.checkPair(ctx, actorID, targetID); err != nil {
		return nil, err
	}

	conn, err := s.repo.Find(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if conn != nil {
		if conn.Status == domain.ConnectionBlocked {
			if conn.UserID == actorID {
				return conn, nil
			}
			return nil, domain.ErrBlocked
		}
		if err := s.repo.Delete(ctx, conn.ID); err != nil {
			return nil, err
		}
	}

	blocked := newConnection(actorID, targetID, domain.ConnectionBlocked)
	if err := s.repo.Create(ctx, blocked); err != nil {
		return nil, err
	}
	slog.Info("🚫 User blocked", "by", actorID, "target", targetID)
	return blocked, nil
}

func (s *connectionService) State(ctx context.Context, actorID, targetID string) (domain.ConnectionState, error) {
	if actorID == targetID {
		return domain.StateNone, nil
	}
	conn, err := s.repo.Find(ctx, actorID, targetID)
	if err != nil {
		return "", err
	}
	return conn.StateFor(actorID), nil
}

func (s *connectionService) ListConnections(ctx context.Context, userID string) ([]*domain.User, error) {
	ids, err := s.repo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return s.users.GetByIDs(ctx, ids)
}

func (s *connectionService) checkPair(ctx context.Context, actorID, targetID string) error {
	if actorID == "" {
		return domain.ErrUnauthorized
	}
	if actorID == targetID {
		return domain.ErrSelfConnection
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	return nil
}

func newConnection(from, to string, status domain.ConnectionStatus) *domain.Connection {
	return &domain.Connection{
		ID:           uuid.NewString(),
		UserID:       from,
		TargetUserID: to,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
	}
}
