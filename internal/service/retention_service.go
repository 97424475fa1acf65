package service

import (
	"context"
	"time"

	"arqueria/archery-app/internal/domain"
	"arqueria/archery-app/internal/repository"

	"go.uber.org/zap"
)

// RetentionService reclaims data nobody needs anymore: students that stayed
// inactive past the retention window, and ad-hoc (non-template) routines
// whose assignments have all run out.
type RetentionService interface {
	PurgeInactiveStudents(ctx context.Context) (int64, error)
	PurgeStaleRoutines(ctx context.Context) (int, error)
}

type retentionService struct {
	studentRepo    repository.StudentRepository
	routineRepo    repository.RoutineRepository
	assignmentRepo repository.AssignmentRepository
	studentAge     time.Duration
	routineAge     time.Duration
	logger         *zap.Logger
}

// NewRetentionService creates a new instance of retentionService.
func NewRetentionService(
	studentRepo repository.StudentRepository,
	routineRepo repository.RoutineRepository,
	assignmentRepo repository.AssignmentRepository,
	studentAge, routineAge time.Duration,
	logger *zap.Logger,
) RetentionService {
	return &retentionService{
		studentRepo:    studentRepo,
		routineRepo:    routineRepo,
		assignmentRepo: assignmentRepo,
		studentAge:     studentAge,
		routineAge:     routineAge,
		logger:         logger,
	}
}

// PurgeInactiveStudents deletes students that have been inactive since
// before the retention window.
func (s *retentionService) PurgeInactiveStudents(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.studentAge)
	removed, err := s.studentRepo.DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("purged inactive students", zap.Int64("count", removed))
	}
	return removed, nil
}

// PurgeStaleRoutines deletes non-template routines past the retention window
// whose assignments are all finished or expired. Routines still backing an
// active or upcoming assignment are kept.
func (s *retentionService) PurgeStaleRoutines(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.routineAge)
	candidates, err := s.routineRepo.ListNonTemplatesUpdatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	today := time.Now().UTC().Format(domain.DateOnly)
	removed := 0
	for _, routine := range candidates {
		assignments, err := s.assignmentRepo.GetByRoutineID(ctx, routine.ID)
		if err != nil {
			return removed, err
		}
		inUse := false
		for _, a := range assignments {
			if a.Status == domain.StatusActive && (a.EndDate == "" || a.EndDate >= today) {
				inUse = true
				break
			}
		}
		if inUse {
			continue
		}
		for _, a := range assignments {
			if err := s.assignmentRepo.Delete(ctx, a.ID); err != nil {
				return removed, err
			}
		}
		if err := s.routineRepo.Delete(ctx, routine.ID); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("purged stale routines", zap.Int("count", removed))
	}
	return removed, nil
}
