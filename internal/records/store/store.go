// Package store defines the record store contract and its three
// implementations: in-memory (tests, demo mode), SQLite (single-operator
// desktop default) and PostgreSQL (shared office deployment).
//
// Stores are pure I/O. Eligibility rules, validation and cascade decisions
// that are not plain foreign-key behavior live in the service layers.
package store

import (
	"context"
	"errors"
	"time"

	"licentia/internal/records/models"
)

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ModuleTotal aggregates exam counts for one module.
type ModuleTotal struct {
	Total  int
	Passes int
}

// RecruiterTotal aggregates exam outcomes across one recruiter's trainees.
type RecruiterTotal struct {
	RecruiterID  int64
	Name         string
	TraineeCount int
	PassCount    int
	TotalExams   int
}

type RecruiterStore interface {
	CreateRecruiter(ctx context.Context, r *models.Recruiter) (int64, error)
	UpdateRecruiter(ctx context.Context, r *models.Recruiter) error
	DeleteRecruiter(ctx context.Context, id int64) error
	GetRecruiter(ctx context.Context, id int64) (*models.Recruiter, error)
	// ListRecruiters returns all recruiters ordered by name.
	ListRecruiters(ctx context.Context) ([]*models.Recruiter, error)
}

type TraineeStore interface {
	CreateTrainee(ctx context.Context, t *models.Trainee) (int64, error)
	UpdateTrainee(ctx context.Context, t *models.Trainee) error
	// DeleteTrainee removes the trainee and cascades to its exams, licenses,
	// class links and practice statuses.
	DeleteTrainee(ctx context.Context, id int64) error
	GetTrainee(ctx context.Context, id int64) (*models.Trainee, error)
	// ListTrainees returns trainees joined with recruiter names, ordered by
	// last name then first name.
	ListTrainees(ctx context.Context) ([]*models.TraineeRow, error)
	// ListTraineeIDs returns every trainee id; dashboard readiness iterates
	// these one at a time.
	ListTraineeIDs(ctx context.Context) ([]int64, error)
	// ListRecentTrainees returns up to limit trainees by id descending.
	ListRecentTrainees(ctx context.Context, limit int) ([]*models.Trainee, error)
	CountTrainees(ctx context.Context) (int, error)
	// LinkTraineeToClass is idempotent: linking twice is not an error.
	LinkTraineeToClass(ctx context.Context, traineeID, classID int64) error
}

type ClassStore interface {
	CreateClass(ctx context.Context, c *models.Class) (int64, error)
	UpdateClass(ctx context.Context, c *models.Class) error
	DeleteClass(ctx context.Context, id int64) error
	GetClass(ctx context.Context, id int64) (*models.Class, error)
	// ListClasses returns all classes ordered by start date.
	ListClasses(ctx context.Context) ([]*models.Class, error)
	// CountActiveClasses counts classes whose end date is on or after the
	// given ISO date.
	CountActiveClasses(ctx context.Context, onDate string) (int, error)
}

type ExamStore interface {
	CreateExam(ctx context.Context, e *models.Exam) (int64, error)
	UpdateExam(ctx context.Context, e *models.Exam) error
	DeleteExam(ctx context.Context, id int64) error
	GetExam(ctx context.Context, id int64) (*models.Exam, error)
	// ListExams returns exams joined with trainee and class names, ordered
	// by exam date descending.
	ListExams(ctx context.Context) ([]*models.ExamRow, error)
	// ListRecentExams returns up to limit exams by date then id, both
	// descending.
	ListRecentExams(ctx context.Context, limit int) ([]*models.ExamRow, error)
	CountExams(ctx context.Context) (int, error)
	// CountPassedPractice counts a trainee's practice exams with an explicit
	// pass result.
	CountPassedPractice(ctx context.Context, traineeID int64) (int, error)
	// CountPassedSince counts passed exams dated on or after the given ISO
	// date.
	CountPassedSince(ctx context.Context, sinceDate string) (int, error)
	// ModuleTotals groups exam counts and passes by module. Exams without a
	// module are absent from the map.
	ModuleTotals(ctx context.Context) (map[models.Module]ModuleTotal, error)
	// RecruiterTotals aggregates distinct trainee counts and exam outcomes
	// per recruiter, including recruiters with no trainees or exams.
	RecruiterTotals(ctx context.Context) ([]*RecruiterTotal, error)
}

type LicenseStore interface {
	CreateLicense(ctx context.Context, l *models.License) (int64, error)
	UpdateLicense(ctx context.Context, l *models.License) error
	DeleteLicense(ctx context.Context, id int64) error
	GetLicense(ctx context.Context, id int64) (*models.License, error)
	// ListLicenses returns licenses joined with trainee names, ordered by
	// application submitted date descending.
	ListLicenses(ctx context.Context) ([]*models.LicenseRow, error)
	// ListRecentLicenses returns up to limit licenses by id descending.
	ListRecentLicenses(ctx context.Context, limit int) ([]*models.LicenseRow, error)
	// LatestForTrainee returns the trainee's most recently submitted license,
	// or ErrNotFound.
	LatestForTrainee(ctx context.Context, traineeID int64) (*models.License, error)
	// CountPendingLicenses counts licenses whose status is neither "Approved"
	// nor "Issued". The exclusion is exact-string, not a status enum.
	CountPendingLicenses(ctx context.Context) (int, error)
}

type PracticeStatusStore interface {
	// SetPracticeStatus upserts the single (trainee, module) sign-off row.
	// completed=true stamps now (RFC 3339, UTC) as the completion date;
	// completed=false clears it.
	SetPracticeStatus(ctx context.Context, traineeID int64, module models.Module, completed bool, now time.Time) error
	// PracticeStatusForTrainee returns module -> completed for the rows
	// present in storage; modules without a row are absent from the map.
	PracticeStatusForTrainee(ctx context.Context, traineeID int64) (map[models.Module]bool, error)
	// CompletionDates returns module -> completion timestamp for completed
	// modules only.
	CompletionDates(ctx context.Context, traineeID int64) (map[models.Module]string, error)
	// CountCompletedModules counts how many of the given modules are marked
	// complete for the trainee.
	CountCompletedModules(ctx context.Context, traineeID int64, modules []models.Module) (int, error)
	// ResetPracticeStatuses marks every module incomplete for the trainee
	// and clears completion dates.
	ResetPracticeStatuses(ctx context.Context, traineeID int64) error
}

// Store is the full record store contract.
type Store interface {
	RecruiterStore
	TraineeStore
	ClassStore
	ExamStore
	LicenseStore
	PracticeStatusStore

	Close() error
}

// CompletionDateFormat is the timestamp layout stores write for practice
// sign-offs. The guarantee evaluator truncates it at the 'T' separator.
const CompletionDateFormat = time.RFC3339
