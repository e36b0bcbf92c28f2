package sweep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"studiovault/internal/audit"
	"studiovault/internal/booking"
	"studiovault/internal/monitoring"
	"studiovault/internal/notify"
	"studiovault/internal/profile"
)

const (
	JobExpireBookings   = "expire_bookings"
	JobCompleteSessions = "complete_sessions"
	JobUnlockFunds      = "unlock_funds"
	JobCheckDocuments   = "check_documents"

	batchSize = 200
)

// BookingReconciler is the slice of the booking service the sweeper drives.
type BookingReconciler interface {
	ListExpiredPending(ctx context.Context, limit int) ([]string, error)
	ListCompletable(ctx context.Context, limit int) ([]string, error)
	ListUnlockable(ctx context.Context, limit int) ([]string, error)
	Expire(ctx context.Context, bookingID string) error
	Complete(ctx context.Context, bookingID string) error
	UnlockFunds(ctx context.Context, bookingID string) error
}

// InstructorDirectory exposes the profile operations the document check needs.
type InstructorDirectory interface {
	ListInstructorsWithExpiredDocuments(ctx context.Context, asOf time.Time, limit int) ([]profile.Profile, error)
	Suspend(ctx context.Context, id string) error
}

// Locker serializes sweep runs across processes. TryLock returns false when
// another run holds the lock.
type Locker interface {
	TryLock(ctx context.Context, job string) (release func(), ok bool, err error)
}

// Result summarizes one job run. Skipped counts items that were listed but
// no longer eligible under lock; Failed counts items whose transaction
// errored. One bad item never aborts the batch.
type Result struct {
	Job       string
	Processed int
	Skipped   int
	Failed    int
}

type Service struct {
	bookings BookingReconciler
	profiles InstructorDirectory
	mailer   notify.Mailer
	audit    *audit.Service
	locker   Locker
	log      *slog.Logger
	clock    func() time.Time
}

func NewService(bookings BookingReconciler, profiles InstructorDirectory, mailer notify.Mailer, auditor *audit.Service, locker Locker, log *slog.Logger) *Service {
	return &Service{
		bookings: bookings,
		profiles: profiles,
		mailer:   mailer,
		audit:    auditor,
		locker:   locker,
		log:      log,
		clock:    time.Now,
	}
}

// RunAll executes every sweep job once, in dependency-free order. Errors
// are per-job; a failing job does not stop the others.
func (s *Service) RunAll(ctx context.Context) []Result {
	return []Result{
		s.ExpireAbandonedBookings(ctx),
		s.AutoCompleteBookings(ctx),
		s.UnlockMaturedFunds(ctx),
		s.CheckInstructorDocuments(ctx),
	}
}

// ExpireAbandonedBookings releases slots and refunds deposits for pending
// bookings whose payment window lapsed without proof.
func (s *Service) ExpireAbandonedBookings(ctx context.Context) Result {
	return s.runBatch(ctx, JobExpireBookings, s.bookings.ListExpiredPending, s.bookings.Expire)
}

// AutoCompleteBookings settles approved bookings whose sessions ended long
// enough ago, crediting provider escrow.
func (s *Service) AutoCompleteBookings(ctx context.Context) Result {
	return s.runBatch(ctx, JobCompleteSessions, s.bookings.ListCompletable, s.bookings.Complete)
}

// UnlockMaturedFunds releases escrow whose hold period has passed.
func (s *Service) UnlockMaturedFunds(ctx context.Context) Result {
	return s.runBatch(ctx, JobUnlockFunds, s.bookings.ListUnlockable, s.bookings.UnlockFunds)
}

func (s *Service) runBatch(ctx context.Context, job string, list func(context.Context, int) ([]string, error), apply func(context.Context, string) error) Result {
	res := Result{Job: job}

	release, ok := s.tryLock(ctx, job)
	if !ok {
		return res
	}
	defer release()

	monitoring.SweepRun(job)
	ids, err := list(ctx, batchSize)
	if err != nil {
		s.log.Error("sweep list failed", "job", job, "err", err)
		res.Failed++
		return res
	}

	for _, id := range ids {
		switch err := apply(ctx, id); {
		case err == nil:
			res.Processed++
			monitoring.SweepItem(job, "processed")
		case errors.Is(err, booking.ErrNotEligible):
			// Listed but changed under us; the next pass will not see it.
			res.Skipped++
			monitoring.SweepItem(job, "skipped")
		default:
			res.Failed++
			monitoring.SweepItem(job, "failed")
			s.log.Error("sweep item failed", "job", job, "booking_id", id, "err", err)
		}
	}

	if res.Processed+res.Failed > 0 {
		s.log.Info("sweep job done", "job", job,
			"processed", res.Processed, "skipped", res.Skipped, "failed", res.Failed)
	}
	return res
}

// CheckInstructorDocuments suspends instructors whose certification
// documents have expired and notifies them.
func (s *Service) CheckInstructorDocuments(ctx context.Context) Result {
	res := Result{Job: JobCheckDocuments}

	release, ok := s.tryLock(ctx, JobCheckDocuments)
	if !ok {
		return res
	}
	defer release()

	monitoring.SweepRun(JobCheckDocuments)
	expired, err := s.profiles.ListInstructorsWithExpiredDocuments(ctx, s.clock().UTC(), batchSize)
	if err != nil {
		s.log.Error("sweep list failed", "job", JobCheckDocuments, "err", err)
		res.Failed++
		return res
	}

	for _, p := range expired {
		if err := s.profiles.Suspend(ctx, p.ID); err != nil {
			res.Failed++
			monitoring.SweepItem(JobCheckDocuments, "failed")
			s.log.Error("suspend failed", "instructor_id", p.ID, "err", err)
			continue
		}
		res.Processed++
		monitoring.SweepItem(JobCheckDocuments, "processed")

		if s.audit != nil {
			if err := s.audit.LogSuspension(ctx, "system", "system", p.ID, "certification document expired"); err != nil {
				s.log.Warn("audit write failed", "instructor_id", p.ID, "err", err)
			}
		}
		if s.mailer != nil {
			notify.SendAsync(s.log, s.mailer, notify.Message{
				ToProfileID: p.ID,
				Subject:     "Account suspended",
				Body:        "Your certification document has expired. Upload a current document to restore your account.",
			})
		}
	}

	if res.Processed+res.Failed > 0 {
		s.log.Info("sweep job done", "job", JobCheckDocuments,
			"processed", res.Processed, "skipped", res.Skipped, "failed", res.Failed)
	}
	return res
}

func (s *Service) tryLock(ctx context.Context, job string) (func(), bool) {
	if s.locker == nil {
		return func() {}, true
	}
	release, ok, err := s.locker.TryLock(ctx, job)
	if err != nil {
		s.log.Error("sweep lock failed", "job", job, "err", err)
		return nil, false
	}
	if !ok {
		s.log.Debug("sweep job already running elsewhere", "job", job)
		return nil, false
	}
	return release, true
}
