// Package models defines the persisted entities of the licensing training
// office: recruiters, trainees, classes, exams, licenses and per-module
// practice sign-off records.
//
// Dates are ISO 8601 strings (YYYY-MM-DD, completion timestamps optionally
// with a T-separated time suffix). ISO strings sort lexicographically in
// chronological order, which the guarantee evaluator depends on; entities
// keep them as strings rather than time.Time so that contract stays visible.
// Optional fields are pointers - nil means absent, never a sentinel value.
package models

// Recruiter is a lookup entity; it carries no derived logic.
type Recruiter struct {
	ID      int64
	Name    string
	Email   *string
	Phone   *string
	RepCode *string
}

// Trainee is the central subject of all derived status.
//
// Invariants:
//   - FirstName and LastName are non-empty
//   - RepCode, when present, is exactly 5 uppercase alphanumerics
//   - Deleting a trainee cascades to exams, licenses, class links and
//     practice statuses (enforced by the stores)
type Trainee struct {
	ID          int64
	FirstName   string
	LastName    string
	DOB         *string
	RecruiterID *int64
	RepCode     *string
	RVPName     *string
	RVPRepCode  *string
}

// TraineeRow is a trainee joined with its recruiter name for listings.
type TraineeRow struct {
	Trainee
	RecruiterName *string
}

// Class is a training class; trainees link to it many-to-many.
type Class struct {
	ID        int64
	Name      string
	StartDate *string
	EndDate   *string
}

// Exam records a single exam sitting. A practice exam and a provincial
// exam are the same entity distinguished only by IsPractice.
//
// Passed is tri-state: nil until a result is recorded.
type Exam struct {
	ID                     int64
	TraineeID              int64
	ClassID                *int64
	Date                   *string
	Module                 *Module
	IsPractice             bool
	Passed                 *bool
	Score                  *float64
	Notes                  *string
	ReimbursementRequested bool
}

// ExamRow is an exam joined with trainee and class names for listings.
type ExamRow struct {
	Exam
	TraineeFirstName string
	TraineeLastName  string
	ClassName        *string
}

// License tracks a trainee's license application.
type License struct {
	ID            int64
	TraineeID     int64
	SubmittedDate *string
	ApprovalDate  *string
	Number        *string
	Status        *string
	Type          *string
	Invoiced      bool
	Notes         *string
}

// LicenseRow is a license joined with the trainee name for listings.
type LicenseRow struct {
	License
	TraineeFirstName string
	TraineeLastName  string
}

// PracticeStatus is the institutional sign-off that a trainee has satisfied
// one module's practice requirement. It is distinct from raw Exam history.
//
// Invariants:
//   - at most one row per (TraineeID, Module)
//   - Completed=false implies CompletedDate is nil
type PracticeStatus struct {
	TraineeID     int64
	Module        Module
	Completed     bool
	CompletedDate *string
}
