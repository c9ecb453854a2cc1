// Package reporting computes the read-side aggregates behind the office
// dashboard and the performance reports. Every report degrades to an empty
// result when the backend fails so the frontend can always render.
package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"licentia/internal/records/models"
	"licentia/internal/records/store"
)

// recentPassWindow bounds the dashboard's "recent passes" count.
const recentPassWindow = 30 * 24 * time.Hour

type TraineeReader interface {
	CountTrainees(ctx context.Context) (int, error)
	ListTraineeIDs(ctx context.Context) ([]int64, error)
	ListRecentTrainees(ctx context.Context, limit int) ([]*models.Trainee, error)
}

type ExamReader interface {
	CountExams(ctx context.Context) (int, error)
	CountPassedSince(ctx context.Context, sinceDate string) (int, error)
	ListRecentExams(ctx context.Context, limit int) ([]*models.ExamRow, error)
	ModuleTotals(ctx context.Context) (map[models.Module]store.ModuleTotal, error)
	RecruiterTotals(ctx context.Context) ([]*store.RecruiterTotal, error)
}

type LicenseReader interface {
	CountPendingLicenses(ctx context.Context) (int, error)
	ListRecentLicenses(ctx context.Context, limit int) ([]*models.LicenseRow, error)
}

type ClassCounter interface {
	CountActiveClasses(ctx context.Context, onDate string) (int, error)
}

// ProvincialChecker answers whether a trainee is cleared for the provincial
// exam. Satisfied by the eligibility service.
type ProvincialChecker interface {
	ReadyForProvincialExam(ctx context.Context, traineeID int64) bool
}

// DashboardStats is the headline summary shown on the office dashboard.
type DashboardStats struct {
	TotalTrainees      int
	TotalExams         int
	RecentPasses       int
	PendingLicenses    int
	ActiveClasses      int
	ReadyForProvincial int
}

// Activity is one entry in the recent-activity feed.
type Activity struct {
	Type      string
	Label     string
	Timestamp string
}

// RecruiterPerformance is one row of the recruiter report.
type RecruiterPerformance struct {
	Recruiter    string
	TraineeCount int
	PassCount    int
	TotalExams   int
	PassRate     string
}

// ModuleStat is one row of the per-module exam report.
type ModuleStat struct {
	Module   models.Module
	Total    int
	Passes   int
	PassRate string
}

// Service aggregates records into reports.
type Service struct {
	trainees    TraineeReader
	exams       ExamReader
	licenses    LicenseReader
	classes     ClassCounter
	eligibility ProvincialChecker
	logger      *slog.Logger
	now         func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(trainees TraineeReader, exams ExamReader, licenses LicenseReader, classes ClassCounter, eligibility ProvincialChecker, opts ...Option) *Service {
	s := &Service{
		trainees:    trainees,
		exams:       exams,
		licenses:    licenses,
		classes:     classes,
		eligibility: eligibility,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// DashboardStats computes the headline counters. Any backend failure yields
// a zeroed result; the counts are recomputed from scratch on every call.
func (s *Service) DashboardStats(ctx context.Context) DashboardStats {
	today := s.now().Format("2006-01-02")
	cutoff := s.now().Add(-recentPassWindow).Format("2006-01-02")

	totalTrainees, err := s.trainees.CountTrainees(ctx)
	if err != nil {
		return s.emptyDashboard(err)
	}
	totalExams, err := s.exams.CountExams(ctx)
	if err != nil {
		return s.emptyDashboard(err)
	}
	recentPasses, err := s.exams.CountPassedSince(ctx, cutoff)
	if err != nil {
		return s.emptyDashboard(err)
	}
	pendingLicenses, err := s.licenses.CountPendingLicenses(ctx)
	if err != nil {
		return s.emptyDashboard(err)
	}
	activeClasses, err := s.classes.CountActiveClasses(ctx, today)
	if err != nil {
		return s.emptyDashboard(err)
	}

	ids, err := s.trainees.ListTraineeIDs(ctx)
	if err != nil {
		return s.emptyDashboard(err)
	}
	ready := 0
	for _, id := range ids {
		if s.eligibility.ReadyForProvincialExam(ctx, id) {
			ready++
		}
	}

	return DashboardStats{
		TotalTrainees:      totalTrainees,
		TotalExams:         totalExams,
		RecentPasses:       recentPasses,
		PendingLicenses:    pendingLicenses,
		ActiveClasses:      activeClasses,
		ReadyForProvincial: ready,
	}
}

func (s *Service) emptyDashboard(err error) DashboardStats {
	s.logger.Warn("failed to compute dashboard stats", "error", err)
	return DashboardStats{}
}

// RecentActivity merges the latest trainees, exams, and licenses into one
// feed. Entries without a timestamp sort after dated ones; the feed holds at
// most ten entries.
func (s *Service) RecentActivity(ctx context.Context) []Activity {
	const perKind = 5
	const feedLimit = 10

	var feed []Activity

	trainees, err := s.trainees.ListRecentTrainees(ctx, perKind)
	if err != nil {
		s.logger.Warn("failed to list recent trainees", "error", err)
		return []Activity{}
	}
	for _, t := range trainees {
		feed = append(feed, Activity{
			Type:  "Trainee",
			Label: t.FirstName + " " + t.LastName,
		})
	}

	exams, err := s.exams.ListRecentExams(ctx, perKind)
	if err != nil {
		s.logger.Warn("failed to list recent exams", "error", err)
		return []Activity{}
	}
	for _, e := range exams {
		feed = append(feed, Activity{
			Type:      "Exam",
			Label:     fmt.Sprintf("%s (%s): %s", e.TraineeLastName, moduleLabel(e.Module), resultLabel(e.Passed)),
			Timestamp: deref(e.Date),
		})
	}

	licenses, err := s.licenses.ListRecentLicenses(ctx, perKind)
	if err != nil {
		s.logger.Warn("failed to list recent licenses", "error", err)
		return []Activity{}
	}
	for _, l := range licenses {
		feed = append(feed, Activity{
			Type:      "License",
			Label:     fmt.Sprintf("%s: %s", l.TraineeLastName, deref(l.Status)),
			Timestamp: deref(l.SubmittedDate),
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp > feed[j].Timestamp
	})
	if len(feed) > feedLimit {
		feed = feed[:feedLimit]
	}
	return feed
}

// RecruiterPerformanceReport rolls up exam outcomes per recruiter.
func (s *Service) RecruiterPerformanceReport(ctx context.Context) []RecruiterPerformance {
	totals, err := s.exams.RecruiterTotals(ctx)
	if err != nil {
		s.logger.Warn("failed to compute recruiter totals", "error", err)
		return []RecruiterPerformance{}
	}

	report := make([]RecruiterPerformance, 0, len(totals))
	for _, rt := range totals {
		rate := "0.0%"
		if rt.TotalExams > 0 {
			rate = fmt.Sprintf("%.1f%%", float64(rt.PassCount)/float64(rt.TotalExams)*100)
		}
		report = append(report, RecruiterPerformance{
			Recruiter:    rt.Name,
			TraineeCount: rt.TraineeCount,
			PassCount:    rt.PassCount,
			TotalExams:   rt.TotalExams,
			PassRate:     rate,
		})
	}
	return report
}

// ExamModuleStats reports totals per required module. Every required module
// appears even with no recorded exams; rows for unknown modules are dropped.
func (s *Service) ExamModuleStats(ctx context.Context) []ModuleStat {
	totals, err := s.exams.ModuleTotals(ctx)
	if err != nil {
		s.logger.Warn("failed to compute module totals", "error", err)
		return []ModuleStat{}
	}

	stats := make([]ModuleStat, 0, models.RequiredModuleCount)
	for _, m := range models.RequiredModules() {
		mt := totals[m]
		rate := "N/A"
		if mt.Total > 0 {
			rate = fmt.Sprintf("%.1f%%", float64(mt.Passes)/float64(mt.Total)*100)
		}
		stats = append(stats, ModuleStat{
			Module:   m,
			Total:    mt.Total,
			Passes:   mt.Passes,
			PassRate: rate,
		})
	}
	return stats
}

func moduleLabel(m *models.Module) string {
	if m == nil {
		return "N/A"
	}
	return string(*m)
}

func resultLabel(passed *bool) string {
	switch {
	case passed == nil:
		return "Taken"
	case *passed:
		return "Passed"
	default:
		return "Failed"
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
