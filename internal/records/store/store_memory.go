package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"licentia/internal/records/models"
)

// Memory is a mutex-guarded in-memory Store. Unit tests and demo mode use
// it; behavior mirrors the SQL stores including cascade semantics.
type Memory struct {
	mu sync.RWMutex

	recruiters map[int64]*models.Recruiter
	trainees   map[int64]*models.Trainee
	classes    map[int64]*models.Class
	exams      map[int64]*models.Exam
	licenses   map[int64]*models.License

	// traineeClass[traineeID][classID]
	traineeClass map[int64]map[int64]bool
	// practice[traineeID][module]
	practice map[int64]map[models.Module]*models.PracticeStatus

	nextID int64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		recruiters:   make(map[int64]*models.Recruiter),
		trainees:     make(map[int64]*models.Trainee),
		classes:      make(map[int64]*models.Class),
		exams:        make(map[int64]*models.Exam),
		licenses:     make(map[int64]*models.License),
		traineeClass: make(map[int64]map[int64]bool),
		practice:     make(map[int64]map[models.Module]*models.PracticeStatus),
	}
}

func (s *Memory) Close() error { return nil }

func (s *Memory) nextSequence() int64 {
	s.nextID++
	return s.nextID
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ==========================================================================
// Recruiters
// ==========================================================================

func (s *Memory) CreateRecruiter(_ context.Context, r *models.Recruiter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	cp.ID = s.nextSequence()
	s.recruiters[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Memory) UpdateRecruiter(_ context.Context, r *models.Recruiter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recruiters[r.ID]; !ok {
		return ErrNotFound
	}
	cp := *r
	s.recruiters[r.ID] = &cp
	return nil
}

func (s *Memory) DeleteRecruiter(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recruiters[id]; !ok {
		return ErrNotFound
	}
	delete(s.recruiters, id)
	// ON DELETE SET NULL
	for _, t := range s.trainees {
		if t.RecruiterID != nil && *t.RecruiterID == id {
			t.RecruiterID = nil
		}
	}
	return nil
}

func (s *Memory) GetRecruiter(_ context.Context, id int64) (*models.Recruiter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recruiters[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Memory) ListRecruiters(_ context.Context) ([]*models.Recruiter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Recruiter, 0, len(s.recruiters))
	for _, r := range s.recruiters {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ==========================================================================
// Trainees
// ==========================================================================

func (s *Memory) CreateTrainee(_ context.Context, t *models.Trainee) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	cp.ID = s.nextSequence()
	s.trainees[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Memory) UpdateTrainee(_ context.Context, t *models.Trainee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainees[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	s.trainees[t.ID] = &cp
	return nil
}

func (s *Memory) DeleteTrainee(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainees[id]; !ok {
		return ErrNotFound
	}
	delete(s.trainees, id)
	// ON DELETE CASCADE
	for eid, e := range s.exams {
		if e.TraineeID == id {
			delete(s.exams, eid)
		}
	}
	for lid, l := range s.licenses {
		if l.TraineeID == id {
			delete(s.licenses, lid)
		}
	}
	delete(s.traineeClass, id)
	delete(s.practice, id)
	return nil
}

func (s *Memory) GetTrainee(_ context.Context, id int64) (*models.Trainee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trainees[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Memory) ListTrainees(_ context.Context) ([]*models.TraineeRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.TraineeRow, 0, len(s.trainees))
	for _, t := range s.trainees {
		row := &models.TraineeRow{Trainee: *t}
		if t.RecruiterID != nil {
			if r, ok := s.recruiters[*t.RecruiterID]; ok {
				name := r.Name
				row.RecruiterName = &name
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (s *Memory) ListTraineeIDs(_ context.Context) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0, len(s.trainees))
	for id := range s.trainees {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Memory) ListRecentTrainees(_ context.Context, limit int) ([]*models.Trainee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Trainee, 0, len(s.trainees))
	for _, t := range s.trainees {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) CountTrainees(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trainees), nil
}

func (s *Memory) LinkTraineeToClass(_ context.Context, traineeID, classID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainees[traineeID]; !ok {
		return ErrNotFound
	}
	if _, ok := s.classes[classID]; !ok {
		return ErrNotFound
	}
	links := s.traineeClass[traineeID]
	if links == nil {
		links = make(map[int64]bool)
		s.traineeClass[traineeID] = links
	}
	links[classID] = true
	return nil
}

// ==========================================================================
// Classes
// ==========================================================================

func (s *Memory) CreateClass(_ context.Context, c *models.Class) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	cp.ID = s.nextSequence()
	s.classes[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Memory) UpdateClass(_ context.Context, c *models.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[c.ID]; !ok {
		return ErrNotFound
	}
	cp := *c
	s.classes[c.ID] = &cp
	return nil
}

func (s *Memory) DeleteClass(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.classes[id]; !ok {
		return ErrNotFound
	}
	delete(s.classes, id)
	for _, links := range s.traineeClass {
		delete(links, id)
	}
	// ON DELETE SET NULL
	for _, e := range s.exams {
		if e.ClassID != nil && *e.ClassID == id {
			e.ClassID = nil
		}
	}
	return nil
}

func (s *Memory) GetClass(_ context.Context, id int64) (*models.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.classes[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Memory) ListClasses(_ context.Context) ([]*models.Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Class, 0, len(s.classes))
	for _, c := range s.classes {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return deref(out[i].StartDate) < deref(out[j].StartDate) })
	return out, nil
}

func (s *Memory) CountActiveClasses(_ context.Context, onDate string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, c := range s.classes {
		if c.EndDate != nil && *c.EndDate >= onDate {
			count++
		}
	}
	return count, nil
}

// ==========================================================================
// Exams
// ==========================================================================

func (s *Memory) CreateExam(_ context.Context, e *models.Exam) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainees[e.TraineeID]; !ok {
		return 0, ErrNotFound
	}
	cp := *e
	cp.ID = s.nextSequence()
	s.exams[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Memory) UpdateExam(_ context.Context, e *models.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exams[e.ID]; !ok {
		return ErrNotFound
	}
	cp := *e
	s.exams[e.ID] = &cp
	return nil
}

func (s *Memory) DeleteExam(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exams[id]; !ok {
		return ErrNotFound
	}
	delete(s.exams, id)
	return nil
}

func (s *Memory) GetExam(_ context.Context, id int64) (*models.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exams[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *Memory) examRow(e *models.Exam) *models.ExamRow {
	row := &models.ExamRow{Exam: *e}
	if t, ok := s.trainees[e.TraineeID]; ok {
		row.TraineeFirstName = t.FirstName
		row.TraineeLastName = t.LastName
	}
	if e.ClassID != nil {
		if c, ok := s.classes[*e.ClassID]; ok {
			name := c.Name
			row.ClassName = &name
		}
	}
	return row
}

func (s *Memory) sortedExamRows() []*models.ExamRow {
	out := make([]*models.ExamRow, 0, len(s.exams))
	for _, e := range s.exams {
		out = append(out, s.examRow(e))
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := deref(out[i].Date), deref(out[j].Date)
		if di != dj {
			return di > dj
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s *Memory) ListExams(_ context.Context) ([]*models.ExamRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedExamRows(), nil
}

func (s *Memory) ListRecentExams(_ context.Context, limit int) ([]*models.ExamRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.sortedExamRows()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) CountExams(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exams), nil
}

func (s *Memory) CountPassedPractice(_ context.Context, traineeID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.exams {
		if e.TraineeID == traineeID && e.IsPractice && e.Passed != nil && *e.Passed {
			count++
		}
	}
	return count, nil
}

func (s *Memory) CountPassedSince(_ context.Context, sinceDate string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.exams {
		if e.Passed != nil && *e.Passed && e.Date != nil && *e.Date >= sinceDate {
			count++
		}
	}
	return count, nil
}

func (s *Memory) ModuleTotals(_ context.Context) (map[models.Module]ModuleTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.Module]ModuleTotal)
	for _, e := range s.exams {
		if e.Module == nil {
			continue
		}
		mt := out[*e.Module]
		mt.Total++
		if e.Passed != nil && *e.Passed {
			mt.Passes++
		}
		out[*e.Module] = mt
	}
	return out, nil
}

func (s *Memory) RecruiterTotals(_ context.Context) ([]*RecruiterTotal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[int64]*RecruiterTotal, len(s.recruiters))
	for id, r := range s.recruiters {
		totals[id] = &RecruiterTotal{RecruiterID: id, Name: r.Name}
	}
	for _, t := range s.trainees {
		if t.RecruiterID == nil {
			continue
		}
		rt, ok := totals[*t.RecruiterID]
		if !ok {
			continue
		}
		rt.TraineeCount++
		for _, e := range s.exams {
			if e.TraineeID != t.ID {
				continue
			}
			rt.TotalExams++
			if e.Passed != nil && *e.Passed {
				rt.PassCount++
			}
		}
	}

	out := make([]*RecruiterTotal, 0, len(totals))
	for _, rt := range totals {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ==========================================================================
// Licenses
// ==========================================================================

func (s *Memory) CreateLicense(_ context.Context, l *models.License) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainees[l.TraineeID]; !ok {
		return 0, ErrNotFound
	}
	cp := *l
	cp.ID = s.nextSequence()
	s.licenses[cp.ID] = &cp
	return cp.ID, nil
}

func (s *Memory) UpdateLicense(_ context.Context, l *models.License) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.licenses[l.ID]; !ok {
		return ErrNotFound
	}
	cp := *l
	s.licenses[l.ID] = &cp
	return nil
}

func (s *Memory) DeleteLicense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.licenses[id]; !ok {
		return ErrNotFound
	}
	delete(s.licenses, id)
	return nil
}

func (s *Memory) GetLicense(_ context.Context, id int64) (*models.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.licenses[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *Memory) licenseRow(l *models.License) *models.LicenseRow {
	row := &models.LicenseRow{License: *l}
	if t, ok := s.trainees[l.TraineeID]; ok {
		row.TraineeFirstName = t.FirstName
		row.TraineeLastName = t.LastName
	}
	return row
}

func (s *Memory) ListLicenses(_ context.Context) ([]*models.LicenseRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.LicenseRow, 0, len(s.licenses))
	for _, l := range s.licenses {
		out = append(out, s.licenseRow(l))
	}
	sort.Slice(out, func(i, j int) bool {
		return deref(out[i].SubmittedDate) > deref(out[j].SubmittedDate)
	})
	return out, nil
}

func (s *Memory) ListRecentLicenses(_ context.Context, limit int) ([]*models.LicenseRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.LicenseRow, 0, len(s.licenses))
	for _, l := range s.licenses {
		out = append(out, s.licenseRow(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Memory) LatestForTrainee(_ context.Context, traineeID int64) (*models.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.License
	for _, l := range s.licenses {
		if l.TraineeID != traineeID {
			continue
		}
		if latest == nil || deref(l.SubmittedDate) > deref(latest.SubmittedDate) {
			latest = l
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (s *Memory) CountPendingLicenses(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, l := range s.licenses {
		status := deref(l.Status)
		if status != "Approved" && status != "Issued" {
			count++
		}
	}
	return count, nil
}

// ==========================================================================
// Practice statuses
// ==========================================================================

func (s *Memory) SetPracticeStatus(_ context.Context, traineeID int64, module models.Module, completed bool, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainees[traineeID]; !ok {
		return ErrNotFound
	}
	byModule := s.practice[traineeID]
	if byModule == nil {
		byModule = make(map[models.Module]*models.PracticeStatus)
		s.practice[traineeID] = byModule
	}

	ps := &models.PracticeStatus{TraineeID: traineeID, Module: module, Completed: completed}
	if completed {
		stamp := now.UTC().Format(CompletionDateFormat)
		ps.CompletedDate = &stamp
	}
	byModule[module] = ps
	return nil
}

func (s *Memory) PracticeStatusForTrainee(_ context.Context, traineeID int64) (map[models.Module]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.Module]bool)
	for module, ps := range s.practice[traineeID] {
		out[module] = ps.Completed
	}
	return out, nil
}

func (s *Memory) CompletionDates(_ context.Context, traineeID int64) (map[models.Module]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.Module]string)
	for module, ps := range s.practice[traineeID] {
		if ps.Completed && ps.CompletedDate != nil {
			out[module] = *ps.CompletedDate
		}
	}
	return out, nil
}

func (s *Memory) CountCompletedModules(_ context.Context, traineeID int64, modules []models.Module) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, module := range modules {
		if ps, ok := s.practice[traineeID][module]; ok && ps.Completed {
			count++
		}
	}
	return count, nil
}

func (s *Memory) ResetPracticeStatuses(_ context.Context, traineeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ps := range s.practice[traineeID] {
		ps.Completed = false
		ps.CompletedDate = nil
	}
	return nil
}

var _ Store = (*Memory)(nil)
