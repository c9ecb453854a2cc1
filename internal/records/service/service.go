package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"licentia/internal/records/models"
	"licentia/internal/records/store"
	dErrors "licentia/pkg/domain-errors"
)

// Store is the persistence surface the records service orchestrates.
type Store interface {
	store.RecruiterStore
	store.TraineeStore
	store.ClassStore
	store.ExamStore
	store.LicenseStore
	store.PracticeStatusStore
}

// ReimbursementChecker decides whether a trainee has earned the exam fee
// reimbursement at the moment a result is recorded.
type ReimbursementChecker interface {
	ShouldOfferReimbursement(ctx context.Context, traineeID int64, passed *bool, isPractice bool) bool
}

// Service owns CRUD orchestration and input validation for the office's
// records. Domain rules live in the eligibility package; this layer keeps
// the data honest on the way in.
type Service struct {
	store   Store
	checker ReimbursementChecker
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithReimbursementChecker(checker ReimbursementChecker) Option {
	return func(s *Service) {
		s.checker = checker
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(st Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ==========================================================================
// Recruiters
// ==========================================================================

func (s *Service) CreateRecruiter(ctx context.Context, r *models.Recruiter) (int64, error) {
	if err := s.normalizeRecruiter(r); err != nil {
		return 0, err
	}
	id, err := s.store.CreateRecruiter(ctx, r)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create recruiter")
	}
	s.logger.Info("recruiter created", "recruiter_id", id, "name", r.Name)
	return id, nil
}

func (s *Service) UpdateRecruiter(ctx context.Context, r *models.Recruiter) error {
	if err := s.normalizeRecruiter(r); err != nil {
		return err
	}
	if err := s.store.UpdateRecruiter(ctx, r); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "recruiter not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update recruiter")
	}
	return nil
}

func (s *Service) DeleteRecruiter(ctx context.Context, id int64) error {
	if err := s.store.DeleteRecruiter(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "recruiter not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete recruiter")
	}
	s.logger.Info("recruiter deleted", "recruiter_id", id)
	return nil
}

func (s *Service) GetRecruiter(ctx context.Context, id int64) (*models.Recruiter, error) {
	r, err := s.store.GetRecruiter(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "recruiter not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recruiter")
	}
	return r, nil
}

func (s *Service) ListRecruiters(ctx context.Context) ([]*models.Recruiter, error) {
	list, err := s.store.ListRecruiters(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recruiters")
	}
	return list, nil
}

func (s *Service) normalizeRecruiter(r *models.Recruiter) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "recruiter name must not be empty")
	}
	code, err := models.NormalizeRepCode(deref(r.RepCode))
	if err != nil {
		return err
	}
	r.RepCode = code
	return nil
}

// ==========================================================================
// Trainees
// ==========================================================================

func (s *Service) CreateTrainee(ctx context.Context, t *models.Trainee) (int64, error) {
	if err := s.normalizeTrainee(ctx, t); err != nil {
		return 0, err
	}
	id, err := s.store.CreateTrainee(ctx, t)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create trainee")
	}
	s.logger.Info("trainee created", "trainee_id", id, "name", t.FirstName+" "+t.LastName)
	return id, nil
}

func (s *Service) UpdateTrainee(ctx context.Context, t *models.Trainee) error {
	if err := s.normalizeTrainee(ctx, t); err != nil {
		return err
	}
	if err := s.store.UpdateTrainee(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "trainee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update trainee")
	}
	return nil
}

func (s *Service) DeleteTrainee(ctx context.Context, id int64) error {
	if err := s.store.DeleteTrainee(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "trainee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete trainee")
	}
	s.logger.Info("trainee deleted", "trainee_id", id)
	return nil
}

func (s *Service) GetTrainee(ctx context.Context, id int64) (*models.Trainee, error) {
	t, err := s.store.GetTrainee(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "trainee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trainee")
	}
	return t, nil
}

func (s *Service) ListTrainees(ctx context.Context) ([]*models.TraineeRow, error) {
	list, err := s.store.ListTrainees(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list trainees")
	}
	return list, nil
}

func (s *Service) LinkTraineeToClass(ctx context.Context, traineeID, classID int64) error {
	if _, err := s.store.GetTrainee(ctx, traineeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "trainee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trainee")
	}
	if _, err := s.store.GetClass(ctx, classID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "class not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load class")
	}
	if err := s.store.LinkTraineeToClass(ctx, traineeID, classID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to enroll trainee")
	}
	return nil
}

func (s *Service) normalizeTrainee(ctx context.Context, t *models.Trainee) error {
	t.FirstName = strings.TrimSpace(t.FirstName)
	t.LastName = strings.TrimSpace(t.LastName)
	if t.FirstName == "" || t.LastName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "trainee first and last name must not be empty")
	}

	code, err := models.NormalizeRepCode(deref(t.RepCode))
	if err != nil {
		return err
	}
	t.RepCode = code

	rvpCode, err := models.NormalizeRepCode(deref(t.RVPRepCode))
	if err != nil {
		return err
	}
	t.RVPRepCode = rvpCode

	if t.RecruiterID != nil {
		if _, err := s.store.GetRecruiter(ctx, *t.RecruiterID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return dErrors.New(dErrors.CodeBadRequest, "recruiter does not exist")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recruiter")
		}
	}
	return nil
}

// ==========================================================================
// Classes
// ==========================================================================

func (s *Service) CreateClass(ctx context.Context, c *models.Class) (int64, error) {
	if err := validateClass(c); err != nil {
		return 0, err
	}
	id, err := s.store.CreateClass(ctx, c)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create class")
	}
	return id, nil
}

func (s *Service) UpdateClass(ctx context.Context, c *models.Class) error {
	if err := validateClass(c); err != nil {
		return err
	}
	if err := s.store.UpdateClass(ctx, c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "class not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update class")
	}
	return nil
}

func (s *Service) DeleteClass(ctx context.Context, id int64) error {
	if err := s.store.DeleteClass(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "class not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete class")
	}
	return nil
}

func (s *Service) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	c, err := s.store.GetClass(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "class not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load class")
	}
	return c, nil
}

func (s *Service) ListClasses(ctx context.Context) ([]*models.Class, error) {
	list, err := s.store.ListClasses(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list classes")
	}
	return list, nil
}

func validateClass(c *models.Class) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "class name must not be empty")
	}
	if c.StartDate != nil && c.EndDate != nil && *c.EndDate < *c.StartDate {
		return dErrors.New(dErrors.CodeBadRequest, "class end date precedes start date")
	}
	return nil
}

// ==========================================================================
// Exams
// ==========================================================================

// RecordExamResult stores a new exam result. When a trainee fails a real
// provincial sitting while already qualified for the fee reimbursement,
// the row is flagged so the office follows up with the carrier.
func (s *Service) RecordExamResult(ctx context.Context, e *models.Exam) (int64, error) {
	if err := s.validateExam(ctx, e); err != nil {
		return 0, err
	}

	if s.checker != nil && s.checker.ShouldOfferReimbursement(ctx, e.TraineeID, e.Passed, e.IsPractice) {
		e.ReimbursementRequested = true
		s.logger.Info("reimbursement flagged", "trainee_id", e.TraineeID)
	}

	id, err := s.store.CreateExam(ctx, e)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record exam")
	}
	return id, nil
}

func (s *Service) UpdateExam(ctx context.Context, e *models.Exam) error {
	if err := s.validateExam(ctx, e); err != nil {
		return err
	}
	if err := s.store.UpdateExam(ctx, e); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "exam not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update exam")
	}
	return nil
}

func (s *Service) DeleteExam(ctx context.Context, id int64) error {
	if err := s.store.DeleteExam(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "exam not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete exam")
	}
	return nil
}

func (s *Service) GetExam(ctx context.Context, id int64) (*models.Exam, error) {
	e, err := s.store.GetExam(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "exam not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load exam")
	}
	return e, nil
}

func (s *Service) ListExams(ctx context.Context) ([]*models.ExamRow, error) {
	list, err := s.store.ListExams(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list exams")
	}
	return list, nil
}

func (s *Service) validateExam(ctx context.Context, e *models.Exam) error {
	if _, err := s.store.GetTrainee(ctx, e.TraineeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeBadRequest, "trainee does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trainee")
	}
	if e.Module != nil && !e.Module.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown exam module: "+string(*e.Module))
	}
	if e.Score != nil && (*e.Score < 0 || *e.Score > 100) {
		return dErrors.New(dErrors.CodeBadRequest, "score must be between 0 and 100")
	}
	return nil
}

// ==========================================================================
// Licenses
// ==========================================================================

func (s *Service) CreateLicense(ctx context.Context, l *models.License) (int64, error) {
	if err := s.validateLicense(ctx, l); err != nil {
		return 0, err
	}
	id, err := s.store.CreateLicense(ctx, l)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create license")
	}
	return id, nil
}

func (s *Service) UpdateLicense(ctx context.Context, l *models.License) error {
	if err := s.validateLicense(ctx, l); err != nil {
		return err
	}
	if err := s.store.UpdateLicense(ctx, l); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "license not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update license")
	}
	return nil
}

func (s *Service) DeleteLicense(ctx context.Context, id int64) error {
	if err := s.store.DeleteLicense(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "license not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete license")
	}
	return nil
}

func (s *Service) GetLicense(ctx context.Context, id int64) (*models.License, error) {
	l, err := s.store.GetLicense(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "license not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load license")
	}
	return l, nil
}

func (s *Service) ListLicenses(ctx context.Context) ([]*models.LicenseRow, error) {
	list, err := s.store.ListLicenses(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list licenses")
	}
	return list, nil
}

func (s *Service) validateLicense(ctx context.Context, l *models.License) error {
	if _, err := s.store.GetTrainee(ctx, l.TraineeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeBadRequest, "trainee does not exist")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trainee")
	}
	if l.SubmittedDate != nil && l.ApprovalDate != nil && *l.ApprovalDate < *l.SubmittedDate {
		return dErrors.New(dErrors.CodeBadRequest, "approval date precedes submission date")
	}
	return nil
}

// ==========================================================================
// Practice statuses
// ==========================================================================

func (s *Service) SetPracticeStatus(ctx context.Context, traineeID int64, module models.Module, completed bool) error {
	if !module.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown module: "+string(module))
	}
	if _, err := s.store.GetTrainee(ctx, traineeID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "trainee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load trainee")
	}
	if err := s.store.SetPracticeStatus(ctx, traineeID, module, completed, s.now()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set practice status")
	}
	return nil
}

func (s *Service) ResetPracticeStatuses(ctx context.Context, traineeID int64) error {
	if err := s.store.ResetPracticeStatuses(ctx, traineeID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset practice statuses")
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
