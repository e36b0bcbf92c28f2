package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to marketplace users.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}
	if e.ActorUserID == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogAdminAction records a privileged action (top-up decisions, booking
// rejections, manual adjustments).
func (s *Service) LogAdminAction(ctx context.Context, actorUserID, actorRole, entityType, entityID, message, metadata string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeAdminAction,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		EntityType:  entityType,
		EntityID:    entityID,
		Message:     message,
		Metadata:    metadata,
	})
}

// LogSuspension records an automatic or manual profile suspension.
func (s *Service) LogSuspension(ctx context.Context, actorUserID, actorRole, profileID, message string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeSuspension,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		EntityType:  "profile",
		EntityID:    profileID,
		Message:     message,
	})
}
