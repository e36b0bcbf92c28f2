package wallet

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studiovault/internal/audit"
	"studiovault/internal/notify"
	"studiovault/pkg/logger"
	"studiovault/pkg/utils"

	"github.com/google/uuid"
)

// Service provides wallet reads and the top-up request lifecycle.
//
// Escrow postings tied to booking transitions do not go through this service;
// they are posted via ApplyTx/MovePendingToAvailableTx inside the booking
// transaction so status change and money movement commit together.
type Service struct {
	db     *sql.DB
	mailer notify.Mailer
	audit  *audit.Service
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *sql.DB, mailer notify.Mailer, auditor *audit.Service) *Service {
	return &Service{db: db, mailer: mailer, audit: auditor, clock: time.Now}
}

func (s *Service) GetBalance(ctx context.Context, profileID string) (Balance, error) {
	if profileID == "" {
		return Balance{}, ErrInvalidArgument
	}
	return getBalance(ctx, s.db, profileID)
}

type TopUpRequest struct {
	Amount          int64  `json:"amount"`
	PaymentProofURL string `json:"payment_proof_url"`
}

// RequestTopUp records a pending top-up for admin review.
func (s *Service) RequestTopUp(ctx context.Context, userID string, req TopUpRequest) (TopUp, error) {
	if userID == "" || req.Amount <= 0 {
		return TopUp{}, ErrInvalidArgument
	}

	t := TopUp{
		ID:              uuid.NewString(),
		UserID:          userID,
		Amount:          req.Amount,
		Status:          TopUpStatusPending,
		PaymentProofURL: req.PaymentProofURL,
		CreatedAt:       s.clock().UTC(),
	}
	if err := insertTopUp(ctx, s.db, t); err != nil {
		return TopUp{}, err
	}
	return t, nil
}

// ApproveTopUp credits the requester's available balance. Top-ups are
// immediately spendable; there is no pending stage.
func (s *Service) ApproveTopUp(ctx context.Context, topUpID, adminID, adminRole string) (TopUp, error) {
	if topUpID == "" || adminID == "" {
		return TopUp{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out TopUp

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		t, err := lockTopUp(ctx, tx, topUpID)
		if err != nil {
			return err
		}
		if t.Status != TopUpStatusPending {
			return ErrAlreadyDecided
		}

		if err := ApplyTx(ctx, tx, Posting{
			ProfileID:      t.UserID,
			Type:           EntryTypeCredit,
			Bucket:         BucketAvailable,
			Amount:         t.Amount,
			ExternalRef:    t.ID,
			IdempotencyKey: "topup:" + t.ID,
		}, now); err != nil {
			return err
		}

		if err := decideTopUp(ctx, tx, t.ID, TopUpStatusApproved, "", adminID, now); err != nil {
			return err
		}

		t.Status = TopUpStatusApproved
		t.DecidedBy = adminID
		t.DecidedAt = &now
		out = t
		return nil
	})
	if err != nil {
		return TopUp{}, err
	}

	s.logAdminAction(ctx, adminID, adminRole, "top-up approved", out)
	s.notifyUser(ctx, out.UserID, "Wallet top-up approved",
		fmt.Sprintf("Your top-up of %d centavos has been approved and is now spendable.", out.Amount))
	return out, nil
}

// RejectTopUp leaves balances untouched and records the reason.
func (s *Service) RejectTopUp(ctx context.Context, topUpID, adminID, adminRole, reason string) (TopUp, error) {
	if topUpID == "" || adminID == "" || reason == "" {
		return TopUp{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out TopUp

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		t, err := lockTopUp(ctx, tx, topUpID)
		if err != nil {
			return err
		}
		if t.Status != TopUpStatusPending {
			return ErrAlreadyDecided
		}
		if err := decideTopUp(ctx, tx, t.ID, TopUpStatusRejected, reason, adminID, now); err != nil {
			return err
		}
		t.Status = TopUpStatusRejected
		t.RejectionReason = reason
		t.DecidedBy = adminID
		t.DecidedAt = &now
		out = t
		return nil
	})
	if err != nil {
		return TopUp{}, err
	}

	s.logAdminAction(ctx, adminID, adminRole, "top-up rejected", out)
	s.notifyUser(ctx, out.UserID, "Wallet top-up rejected",
		fmt.Sprintf("Your top-up of %d centavos was rejected: %s", out.Amount, reason))
	return out, nil
}

func (s *Service) ListPendingTopUps(ctx context.Context, limit int) ([]TopUp, error) {
	if limit <= 0 {
		limit = 50
	}
	return listTopUps(ctx, s.db, TopUpStatusPending, limit)
}

func (s *Service) logAdminAction(ctx context.Context, adminID, adminRole, msg string, t TopUp) {
	if s.audit == nil {
		return
	}
	// Best-effort; a failed audit write must not fail the decision.
	if err := s.audit.LogAdminAction(ctx, adminID, adminRole, "wallet_top_up", t.ID, msg, ""); err != nil {
		logger.From(ctx).Warn("audit write failed", "err", err, "top_up_id", t.ID)
	}
}

func (s *Service) notifyUser(ctx context.Context, userID, subject, body string) {
	if s.mailer == nil {
		return
	}
	notify.SendAsync(logger.From(ctx), s.mailer, notify.Message{
		ToProfileID: userID,
		Subject:     subject,
		Body:        body,
	})
}
