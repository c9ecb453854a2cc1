// Package eligibility evaluates the office's licensing rules: when a trainee
// has earned the exam fee reimbursement, when they are cleared to sit the
// provincial exam, and whether the pass guarantee applies. Evaluators never
// fail; a storage problem is logged and answered with the safe default.
package eligibility

import (
	"context"
	"log/slog"
	"strings"

	"licentia/internal/records/models"
)

// PracticeStore reads per-module practice sign-offs.
type PracticeStore interface {
	PracticeStatusForTrainee(ctx context.Context, traineeID int64) (map[models.Module]bool, error)
	CompletionDates(ctx context.Context, traineeID int64) (map[models.Module]string, error)
	CountCompletedModules(ctx context.Context, traineeID int64, modules []models.Module) (int, error)
}

// ExamCounter reads passed practice exam counts.
type ExamCounter interface {
	CountPassedPractice(ctx context.Context, traineeID int64) (int, error)
}

// Service answers eligibility questions for a single trainee.
type Service struct {
	practice PracticeStore
	exams    ExamCounter
	logger   *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(practice PracticeStore, exams ExamCounter, opts ...Option) *Service {
	s := &Service{practice: practice, exams: exams}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ReadyForReimbursement reports whether the trainee has earned the exam fee
// reimbursement: either enough passed practice exams, or every required
// module signed off. Both paths count toward the same threshold.
func (s *Service) ReadyForReimbursement(ctx context.Context, traineeID int64) bool {
	passed, err := s.exams.CountPassedPractice(ctx, traineeID)
	if err != nil {
		s.logger.Warn("failed to count passed practice exams", "trainee_id", traineeID, "error", err)
		return false
	}
	if passed >= models.RequiredModuleCount {
		return true
	}
	return s.AllPracticeModulesComplete(ctx, traineeID)
}

// AllPracticeModulesComplete reports whether every required module carries a
// completed sign-off.
func (s *Service) AllPracticeModulesComplete(ctx context.Context, traineeID int64) bool {
	n, err := s.practice.CountCompletedModules(ctx, traineeID, models.RequiredModules())
	if err != nil {
		s.logger.Warn("failed to count completed modules", "trainee_id", traineeID, "error", err)
		return false
	}
	return n == models.RequiredModuleCount
}

// PracticeModuleSummary returns the sign-off state of every required module.
// Modules with no recorded row read as incomplete.
func (s *Service) PracticeModuleSummary(ctx context.Context, traineeID int64) map[models.Module]bool {
	summary := make(map[models.Module]bool, models.RequiredModuleCount)
	for _, m := range models.RequiredModules() {
		summary[m] = false
	}

	statuses, err := s.practice.PracticeStatusForTrainee(ctx, traineeID)
	if err != nil {
		s.logger.Warn("failed to load practice statuses", "trainee_id", traineeID, "error", err)
		return summary
	}
	for _, m := range models.RequiredModules() {
		if statuses[m] {
			summary[m] = true
		}
	}
	return summary
}

// ReadyForProvincialExam reports whether the trainee may book the provincial
// sitting. The bar is every required module signed off.
func (s *Service) ReadyForProvincialExam(ctx context.Context, traineeID int64) bool {
	for _, done := range s.PracticeModuleSummary(ctx, traineeID) {
		if !done {
			return false
		}
	}
	return true
}

// QualifiesForGuarantee reports whether the pass guarantee applies to the
// trainee's first provincial sitting: every required module must have been
// signed off strictly before the exam date. Completion timestamps are cut at
// the time separator so only the calendar day is compared; a module finished
// on exam day disqualifies.
func (s *Service) QualifiesForGuarantee(ctx context.Context, traineeID int64, firstProvincialExamDate string) bool {
	if firstProvincialExamDate == "" {
		return false
	}

	dates, err := s.practice.CompletionDates(ctx, traineeID)
	if err != nil {
		s.logger.Warn("failed to load completion dates", "trainee_id", traineeID, "error", err)
		return false
	}

	for _, m := range models.RequiredModules() {
		stamp, ok := dates[m]
		if !ok || stamp == "" {
			return false
		}
		day, _, _ := strings.Cut(stamp, "T")
		if day >= firstProvincialExamDate {
			return false
		}
	}
	return true
}

// ShouldOfferReimbursement is the trigger checked when an exam result lands:
// an outright failure of a real sitting by a trainee who already earned the
// reimbursement. A missing result or a practice run never triggers it.
func (s *Service) ShouldOfferReimbursement(ctx context.Context, traineeID int64, passed *bool, isPractice bool) bool {
	if passed == nil || *passed || isPractice {
		return false
	}
	return s.ReadyForReimbursement(ctx, traineeID)
}
