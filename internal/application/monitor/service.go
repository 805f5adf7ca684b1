// Package monitor implements the portal reconciliation pipeline: fetch the
// current attendance and grade snapshots for every monitored user, diff them
// against stored history, notify on changes and persist the new state.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yoklama/backend/internal/domain/notification"
	"github.com/yoklama/backend/internal/domain/obis"
	"github.com/yoklama/backend/internal/domain/user"
)

// Cryptor decrypts stored portal passwords.
type Cryptor interface {
	Decrypt(ciphertext string) (string, error)
}

// Service runs the monitoring cycles and serves on-demand portal views.
type Service struct {
	users      user.Repository
	attendance obis.AttendanceHistoryRepository
	grades     obis.GradeHistoryRepository
	portal     obis.Portal
	channel    notification.Channel
	cryptor    Cryptor
	logger     *zap.Logger
	sendDelay  time.Duration
}

// NewService creates a monitor Service. sendDelay is the pause inserted
// after every delivered message to stay under the channel's rate limit.
func NewService(
	users user.Repository,
	attendance obis.AttendanceHistoryRepository,
	grades obis.GradeHistoryRepository,
	portal obis.Portal,
	channel notification.Channel,
	cryptor Cryptor,
	logger *zap.Logger,
	sendDelay time.Duration,
) *Service {
	return &Service{
		users:      users,
		attendance: attendance,
		grades:     grades,
		portal:     portal,
		channel:    channel,
		cryptor:    cryptor,
		logger:     logger,
		sendDelay:  sendDelay,
	}
}

// RunAttendanceCycle processes every user with credentials sequentially. A
// user's failure is logged and does not abort the cycle; only the initial
// user listing can fail the cycle as a whole.
func (s *Service) RunAttendanceCycle(ctx context.Context) error {
	log := s.logger.With(
		zap.String("cycle_id", uuid.NewString()),
		zap.String("cycle", "attendance"),
	)
	users, err := s.users.FindWithCredentials(ctx)
	if err != nil {
		return fmt.Errorf("list monitored users: %w", err)
	}
	log.Info("cycle started", zap.Int("user_count", len(users)))

	for i := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u := &users[i]
		if err := s.checkUserAttendance(ctx, log, u); err != nil {
			log.Error("attendance check failed",
				zap.Int64("user_id", u.ID),
				zap.Error(err))
		}
	}

	log.Info("cycle finished")
	return nil
}

// RunGradeCycle is the grade counterpart of RunAttendanceCycle.
func (s *Service) RunGradeCycle(ctx context.Context) error {
	log := s.logger.With(
		zap.String("cycle_id", uuid.NewString()),
		zap.String("cycle", "grades"),
	)
	users, err := s.users.FindWithCredentials(ctx)
	if err != nil {
		return fmt.Errorf("list monitored users: %w", err)
	}
	log.Info("cycle started", zap.Int("user_count", len(users)))

	for i := range users {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u := &users[i]
		if err := s.checkUserGrades(ctx, log, u); err != nil {
			log.Error("grade check failed",
				zap.Int64("user_id", u.ID),
				zap.Error(err))
		}
	}

	log.Info("cycle finished")
	return nil
}

func (s *Service) checkUserAttendance(ctx context.Context, log *zap.Logger, u *user.User) error {
	session, err := s.openSession(ctx, log, u)
	if err != nil || session == nil {
		return err
	}
	defer session.Close()

	fetched, err := session.FetchAttendance(ctx)
	if err != nil {
		return fmt.Errorf("fetch attendance: %w", err)
	}
	for i := range fetched {
		fetched[i].UserID = u.ID
	}

	changes, err := s.diffAttendance(ctx, u.ID, fetched)
	if err != nil {
		return err
	}

	for _, change := range changes {
		// A lesson seen for the first time is recorded silently; only
		// changes against known history are worth a message.
		if change.IsFirstObservation() {
			if err := s.attendance.Append(ctx, change.Current); err != nil {
				return fmt.Errorf("append attendance: %w", err)
			}
			continue
		}

		budget := obis.ComputeSkipBudget(change.Current)
		if err := s.channel.Send(ctx, u.ID, FormatAttendanceChange(change, budget)); err != nil {
			// Leave history untouched so the change is re-detected and
			// re-sent on the next cycle.
			log.Error("notification not delivered, change left unrecorded",
				zap.Int64("user_id", u.ID),
				zap.String("lesson_code", change.Current.LessonCode),
				zap.Error(err))
			continue
		}
		if err := s.attendance.Append(ctx, change.Current); err != nil {
			return fmt.Errorf("append attendance: %w", err)
		}
		s.pause(ctx)
	}
	return nil
}

func (s *Service) checkUserGrades(ctx context.Context, log *zap.Logger, u *user.User) error {
	session, err := s.openSession(ctx, log, u)
	if err != nil || session == nil {
		return err
	}
	defer session.Close()

	lessons, err := session.FetchGrades(ctx)
	if err != nil {
		return fmt.Errorf("fetch grades: %w", err)
	}

	changes, err := s.diffGrades(ctx, u.ID, flattenGrades(u.ID, lessons))
	if err != nil {
		return err
	}

	for _, change := range changes {
		if err := s.channel.Send(ctx, u.ID, FormatGradeChange(change)); err != nil {
			log.Error("notification not delivered, change left unrecorded",
				zap.Int64("user_id", u.ID),
				zap.String("lesson_code", change.Current.LessonCode),
				zap.String("exam_name", change.Current.ExamName),
				zap.Error(err))
			continue
		}
		if err := s.grades.Append(ctx, change.Current); err != nil {
			return fmt.Errorf("append grade: %w", err)
		}
		s.pause(ctx)
	}
	return nil
}

// openSession decrypts the user's password and logs into the portal. On a
// credential rejection it invalidates the stored credentials and returns
// (nil, nil): the user is skipped, not failed.
func (s *Service) openSession(ctx context.Context, log *zap.Logger, u *user.User) (obis.PortalSession, error) {
	password, err := s.cryptor.Decrypt(*u.EncryptedPassword)
	if err != nil {
		return nil, fmt.Errorf("decrypt password: %w", err)
	}

	session, err := s.portal.Login(ctx, *u.StudentNumber, password)
	if errors.Is(err, obis.ErrAuthenticationFailed) {
		log.Warn("portal rejected credentials, invalidating",
			zap.Int64("user_id", u.ID))
		if err := s.users.InvalidateCredentials(ctx, u.ID); err != nil {
			return nil, fmt.Errorf("invalidate credentials: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("portal login: %w", err)
	}
	return session, nil
}

// AttendanceReport fetches the live attendance snapshot for one user and
// renders it as the overview message.
func (s *Service) AttendanceReport(ctx context.Context, userID int64) (string, error) {
	session, err := s.openReportSession(ctx, userID)
	if err != nil {
		return "", err
	}
	defer session.Close()

	records, err := session.FetchAttendance(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch attendance: %w", err)
	}
	return FormatAttendanceList(records), nil
}

// ExamsReport fetches the live grade snapshot for one user and renders it
// grouped by lesson.
func (s *Service) ExamsReport(ctx context.Context, userID int64) (string, error) {
	session, err := s.openReportSession(ctx, userID)
	if err != nil {
		return "", err
	}
	defer session.Close()

	lessons, err := session.FetchGrades(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch grades: %w", err)
	}
	return FormatExamsList(lessons), nil
}

func (s *Service) openReportSession(ctx context.Context, userID int64) (obis.PortalSession, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasAcceptedTerms {
		return nil, user.ErrTermsNotAccepted
	}
	if !u.HasCredentials() {
		return nil, user.ErrNoCredentials
	}

	password, err := s.cryptor.Decrypt(*u.EncryptedPassword)
	if err != nil {
		return nil, fmt.Errorf("decrypt password: %w", err)
	}
	return s.portal.Login(ctx, *u.StudentNumber, password)
}

// Broadcast delivers one message to every registered user and returns the
// number of successful deliveries. Individual failures are logged and
// skipped.
func (s *Service) Broadcast(ctx context.Context, text string) (int, error) {
	ids, err := s.users.AllIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	delivered := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if err := s.channel.Send(ctx, id, text); err != nil {
			s.logger.Warn("broadcast message not delivered",
				zap.Int64("user_id", id),
				zap.Error(err))
			continue
		}
		delivered++
		s.pause(ctx)
	}

	s.logger.Info("broadcast finished",
		zap.Int("recipient_count", len(ids)),
		zap.Int("delivered_count", delivered))
	return delivered, nil
}

func (s *Service) pause(ctx context.Context) {
	if s.sendDelay <= 0 {
		return
	}
	timer := time.NewTimer(s.sendDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
