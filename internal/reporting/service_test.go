package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"licentia/internal/eligibility"
	"licentia/internal/records/models"
	"licentia/internal/records/store"
)

type brokenBackend struct{}

var errBroken = errors.New("backend unavailable")

func (brokenBackend) CountTrainees(context.Context) (int, error) { return 0, errBroken }
func (brokenBackend) ListTraineeIDs(context.Context) ([]int64, error) {
	return nil, errBroken
}
func (brokenBackend) ListRecentTrainees(context.Context, int) ([]*models.Trainee, error) {
	return nil, errBroken
}
func (brokenBackend) CountExams(context.Context) (int, error)                { return 0, errBroken }
func (brokenBackend) CountPassedSince(context.Context, string) (int, error) { return 0, errBroken }
func (brokenBackend) ListRecentExams(context.Context, int) ([]*models.ExamRow, error) {
	return nil, errBroken
}
func (brokenBackend) ModuleTotals(context.Context) (map[models.Module]store.ModuleTotal, error) {
	return nil, errBroken
}
func (brokenBackend) RecruiterTotals(context.Context) ([]*store.RecruiterTotal, error) {
	return nil, errBroken
}
func (brokenBackend) CountPendingLicenses(context.Context) (int, error) { return 0, errBroken }
func (brokenBackend) ListRecentLicenses(context.Context, int) ([]*models.LicenseRow, error) {
	return nil, errBroken
}
func (brokenBackend) CountActiveClasses(context.Context, string) (int, error) {
	return 0, errBroken
}
func (brokenBackend) ReadyForProvincialExam(context.Context, int64) bool { return false }

type ReportingSuite struct {
	suite.Suite
	store *store.Memory
	svc   *Service
	ctx   context.Context
	now   time.Time
}

func (s *ReportingSuite) SetupTest() {
	s.store = store.NewMemory()
	s.now = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	elig := eligibility.New(s.store, s.store)
	s.svc = New(s.store, s.store, s.store, s.store, elig, WithClock(func() time.Time {
		return s.now
	}))
	s.ctx = context.Background()
}

func TestReportingSuite(t *testing.T) {
	suite.Run(t, new(ReportingSuite))
}

func strp(v string) *string { return &v }

func boolp(v bool) *bool { return &v }

func modp(m models.Module) *models.Module { return &m }

func (s *ReportingSuite) mustCreateTrainee(first, last string) int64 {
	id, err := s.store.CreateTrainee(s.ctx, &models.Trainee{FirstName: first, LastName: last})
	s.Require().NoError(err)
	return id
}

// TestDashboardStats verifies each counter against a small fixture.
func (s *ReportingSuite) TestDashboardStats() {
	priya := s.mustCreateTrainee("Priya", "Nair")
	s.mustCreateTrainee("Omar", "Haddad")

	// Priya is fully signed off; Omar is not.
	for _, m := range models.RequiredModules() {
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, priya, m, true, s.now))
	}

	// One pass inside the 30-day window, one outside, one recent failure.
	for _, e := range []*models.Exam{
		{TraineeID: priya, Date: strp("2026-03-20"), Passed: boolp(true)},
		{TraineeID: priya, Date: strp("2026-01-10"), Passed: boolp(true)},
		{TraineeID: priya, Date: strp("2026-03-25"), Passed: boolp(false)},
	} {
		_, err := s.store.CreateExam(s.ctx, e)
		s.Require().NoError(err)
	}

	// One pending license, one settled.
	_, err := s.store.CreateLicense(s.ctx, &models.License{TraineeID: priya, Status: strp("Submitted")})
	s.Require().NoError(err)
	_, err = s.store.CreateLicense(s.ctx, &models.License{TraineeID: priya, Status: strp("Approved")})
	s.Require().NoError(err)

	// One class still running on April 1st, one already over.
	_, err = s.store.CreateClass(s.ctx, &models.Class{Name: "Spring", StartDate: strp("2026-02-01"), EndDate: strp("2026-05-01")})
	s.Require().NoError(err)
	_, err = s.store.CreateClass(s.ctx, &models.Class{Name: "Winter", StartDate: strp("2025-11-01"), EndDate: strp("2026-02-01")})
	s.Require().NoError(err)

	stats := s.svc.DashboardStats(s.ctx)
	s.Equal(2, stats.TotalTrainees)
	s.Equal(3, stats.TotalExams)
	s.Equal(1, stats.RecentPasses)
	s.Equal(1, stats.PendingLicenses)
	s.Equal(1, stats.ActiveClasses)
	s.Equal(1, stats.ReadyForProvincial)
}

// TestRecentPassWindowBoundary verifies a pass dated exactly thirty days ago
// still counts.
func (s *ReportingSuite) TestRecentPassWindowBoundary() {
	priya := s.mustCreateTrainee("Priya", "Nair")

	// now is 2026-04-01; the cutoff day is 2026-03-02.
	for _, e := range []*models.Exam{
		{TraineeID: priya, Date: strp("2026-03-02"), Passed: boolp(true)},
		{TraineeID: priya, Date: strp("2026-03-01"), Passed: boolp(true)},
	} {
		_, err := s.store.CreateExam(s.ctx, e)
		s.Require().NoError(err)
	}

	stats := s.svc.DashboardStats(s.ctx)
	s.Equal(1, stats.RecentPasses)
}

// TestRecentActivity verifies merge order, labels, and the feed cap.
func (s *ReportingSuite) TestRecentActivity() {
	priya := s.mustCreateTrainee("Priya", "Nair")

	_, err := s.store.CreateExam(s.ctx, &models.Exam{
		TraineeID: priya,
		Date:      strp("2026-03-25"),
		Module:    modp(models.ModuleLife),
		Passed:    boolp(true),
	})
	s.Require().NoError(err)
	_, err = s.store.CreateExam(s.ctx, &models.Exam{
		TraineeID: priya,
		Date:      strp("2026-03-28"),
	})
	s.Require().NoError(err)
	_, err = s.store.CreateLicense(s.ctx, &models.License{
		TraineeID:     priya,
		SubmittedDate: strp("2026-03-27"),
		Status:        strp("Submitted"),
	})
	s.Require().NoError(err)

	feed := s.svc.RecentActivity(s.ctx)
	s.Require().Len(feed, 4)

	s.Equal("Nair (N/A): Taken", feed[0].Label)
	s.Equal("Nair: Submitted", feed[1].Label)
	s.Equal("Nair (Life): Passed", feed[2].Label)

	// The undated trainee entry sinks to the end.
	s.Equal("Trainee", feed[3].Type)
	s.Equal("Priya Nair", feed[3].Label)
	s.Empty(feed[3].Timestamp)
}

func (s *ReportingSuite) TestRecentActivityCapsAtTen() {
	for i := 0; i < 6; i++ {
		id := s.mustCreateTrainee("T", "Trainee")
		_, err := s.store.CreateExam(s.ctx, &models.Exam{TraineeID: id, Date: strp("2026-03-01")})
		s.Require().NoError(err)
		_, err = s.store.CreateLicense(s.ctx, &models.License{TraineeID: id, SubmittedDate: strp("2026-03-02")})
		s.Require().NoError(err)
	}

	feed := s.svc.RecentActivity(s.ctx)
	s.Len(feed, 10)
}

// TestRecruiterPerformanceReport verifies rollups and rate formatting.
func (s *ReportingSuite) TestRecruiterPerformanceReport() {
	danaID, err := s.store.CreateRecruiter(s.ctx, &models.Recruiter{Name: "Dana"})
	s.Require().NoError(err)
	_, err = s.store.CreateRecruiter(s.ctx, &models.Recruiter{Name: "Empty"})
	s.Require().NoError(err)

	traineeID, err := s.store.CreateTrainee(s.ctx, &models.Trainee{
		FirstName:   "Priya",
		LastName:    "Nair",
		RecruiterID: &danaID,
	})
	s.Require().NoError(err)

	for _, passed := range []bool{true, true, false} {
		_, err := s.store.CreateExam(s.ctx, &models.Exam{TraineeID: traineeID, Passed: boolp(passed)})
		s.Require().NoError(err)
	}

	report := s.svc.RecruiterPerformanceReport(s.ctx)
	s.Require().Len(report, 2)

	byName := map[string]RecruiterPerformance{}
	for _, row := range report {
		byName[row.Recruiter] = row
	}
	s.Equal(1, byName["Dana"].TraineeCount)
	s.Equal(2, byName["Dana"].PassCount)
	s.Equal(3, byName["Dana"].TotalExams)
	s.Equal("66.7%", byName["Dana"].PassRate)
	s.Equal("0.0%", byName["Empty"].PassRate)
}

// TestExamModuleStats verifies every required module reports, data or not.
func (s *ReportingSuite) TestExamModuleStats() {
	priya := s.mustCreateTrainee("Priya", "Nair")

	for _, e := range []*models.Exam{
		{TraineeID: priya, Module: modp(models.ModuleLife), Passed: boolp(true)},
		{TraineeID: priya, Module: modp(models.ModuleLife), Passed: boolp(false)},
		{TraineeID: priya, Passed: boolp(true)}, // no module, excluded
	} {
		_, err := s.store.CreateExam(s.ctx, e)
		s.Require().NoError(err)
	}

	stats := s.svc.ExamModuleStats(s.ctx)
	s.Require().Len(stats, models.RequiredModuleCount)

	byModule := map[models.Module]ModuleStat{}
	for _, st := range stats {
		byModule[st.Module] = st
	}
	s.Equal(2, byModule[models.ModuleLife].Total)
	s.Equal(1, byModule[models.ModuleLife].Passes)
	s.Equal("50.0%", byModule[models.ModuleLife].PassRate)
	s.Equal("N/A", byModule[models.ModuleEthics].PassRate)
}

// TestBackendFailuresDegrade verifies every report survives a dead backend.
func TestBackendFailuresDegrade(t *testing.T) {
	b := brokenBackend{}
	svc := New(b, b, b, b, b)
	ctx := context.Background()

	if stats := svc.DashboardStats(ctx); stats != (DashboardStats{}) {
		t.Errorf("dashboard should zero out on failure, got %+v", stats)
	}
	if feed := svc.RecentActivity(ctx); len(feed) != 0 {
		t.Errorf("activity feed should be empty on failure, got %d entries", len(feed))
	}
	if report := svc.RecruiterPerformanceReport(ctx); len(report) != 0 {
		t.Errorf("recruiter report should be empty on failure, got %d rows", len(report))
	}
	if stats := svc.ExamModuleStats(ctx); len(stats) != 0 {
		t.Errorf("module stats should be empty on failure, got %d rows", len(stats))
	}
}
