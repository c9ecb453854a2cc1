package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"licentia/internal/records/models"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) mustCreateRecruiter(name string) int64 {
	id, err := s.store.CreateRecruiter(s.ctx, &models.Recruiter{Name: name})
	s.Require().NoError(err)
	return id
}

func (s *MemoryStoreSuite) mustCreateTrainee(first, last string, recruiterID *int64) int64 {
	id, err := s.store.CreateTrainee(s.ctx, &models.Trainee{
		FirstName:   first,
		LastName:    last,
		RecruiterID: recruiterID,
	})
	s.Require().NoError(err)
	return id
}

func strp(v string) *string { return &v }

func boolp(v bool) *bool { return &v }

func int64p(v int64) *int64 { return &v }

func modp(m models.Module) *models.Module { return &m }

// TestRecruiterCRUD verifies recruiter creation, lookup, update, and deletion.
func (s *MemoryStoreSuite) TestRecruiterCRUD() {
	s.Run("creates and finds recruiter by ID", func() {
		id := s.mustCreateRecruiter("Dana Whitfield")

		found, err := s.store.GetRecruiter(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("Dana Whitfield", found.Name)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.GetRecruiter(s.ctx, 9999)
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("persists updates", func() {
		id := s.mustCreateRecruiter("Before")

		err := s.store.UpdateRecruiter(s.ctx, &models.Recruiter{ID: id, Name: "After", RepCode: strp("AB12C")})
		s.Require().NoError(err)

		found, err := s.store.GetRecruiter(s.ctx, id)
		s.Require().NoError(err)
		s.Equal("After", found.Name)
		s.Require().NotNil(found.RepCode)
		s.Equal("AB12C", *found.RepCode)
	})

	s.Run("update of missing recruiter returns ErrNotFound", func() {
		err := s.store.UpdateRecruiter(s.ctx, &models.Recruiter{ID: 9999, Name: "Ghost"})
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("lists recruiters sorted by name", func() {
		s.mustCreateRecruiter("Zoe")
		s.mustCreateRecruiter("Amir")

		list, err := s.store.ListRecruiters(s.ctx)
		s.Require().NoError(err)
		s.Require().GreaterOrEqual(len(list), 2)
		for i := 1; i < len(list); i++ {
			s.LessOrEqual(list[i-1].Name, list[i].Name)
		}
	})
}

// TestRecruiterDeletionDetachesTrainees verifies deleting a recruiter keeps
// trainees but clears the link.
func (s *MemoryStoreSuite) TestRecruiterDeletionDetachesTrainees() {
	recruiterID := s.mustCreateRecruiter("Dana Whitfield")
	traineeID := s.mustCreateTrainee("Priya", "Nair", int64p(recruiterID))

	s.Require().NoError(s.store.DeleteRecruiter(s.ctx, recruiterID))

	trainee, err := s.store.GetTrainee(s.ctx, traineeID)
	s.Require().NoError(err)
	s.Nil(trainee.RecruiterID)
}

// TestTraineeListings verifies the joined trainee listing and recency order.
func (s *MemoryStoreSuite) TestTraineeListings() {
	s.Run("list rows carry the recruiter name", func() {
		recruiterID := s.mustCreateRecruiter("Dana Whitfield")
		s.mustCreateTrainee("Priya", "Nair", int64p(recruiterID))
		s.mustCreateTrainee("Omar", "Haddad", nil)

		rows, err := s.store.ListTrainees(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(rows, 2)

		byLast := map[string]*models.TraineeRow{}
		for _, r := range rows {
			byLast[r.LastName] = r
		}
		s.Require().NotNil(byLast["Nair"].RecruiterName)
		s.Equal("Dana Whitfield", *byLast["Nair"].RecruiterName)
		s.Nil(byLast["Haddad"].RecruiterName)
	})

	s.Run("recent trainees come newest first", func() {
		first := s.mustCreateTrainee("One", "First", nil)
		second := s.mustCreateTrainee("Two", "Second", nil)

		recent, err := s.store.ListRecentTrainees(s.ctx, 2)
		s.Require().NoError(err)
		s.Require().Len(recent, 2)
		s.Equal(second, recent[0].ID)
		s.Equal(first, recent[1].ID)
	})
}

// TestTraineeDeletionCascades verifies dependent rows go with the trainee.
func (s *MemoryStoreSuite) TestTraineeDeletionCascades() {
	traineeID := s.mustCreateTrainee("Priya", "Nair", nil)

	examID, err := s.store.CreateExam(s.ctx, &models.Exam{
		TraineeID: traineeID,
		Date:      strp("2026-03-01"),
		Passed:    boolp(true),
	})
	s.Require().NoError(err)

	licenseID, err := s.store.CreateLicense(s.ctx, &models.License{TraineeID: traineeID})
	s.Require().NoError(err)

	s.Require().NoError(s.store.SetPracticeStatus(s.ctx, traineeID, models.ModuleLife, true, time.Now()))

	s.Require().NoError(s.store.DeleteTrainee(s.ctx, traineeID))

	_, err = s.store.GetExam(s.ctx, examID)
	s.ErrorIs(err, ErrNotFound)
	_, err = s.store.GetLicense(s.ctx, licenseID)
	s.ErrorIs(err, ErrNotFound)

	statuses, err := s.store.PracticeStatusForTrainee(s.ctx, traineeID)
	s.Require().NoError(err)
	s.Empty(statuses)
}

// TestClassLinksAndDeletion verifies enrollment links and the effect of
// removing a class on linked exams.
func (s *MemoryStoreSuite) TestClassLinksAndDeletion() {
	traineeID := s.mustCreateTrainee("Priya", "Nair", nil)
	classID, err := s.store.CreateClass(s.ctx, &models.Class{
		Name:      "Spring Cohort",
		StartDate: strp("2026-01-05"),
		EndDate:   strp("2026-04-30"),
	})
	s.Require().NoError(err)

	s.Run("linking twice keeps a single enrollment", func() {
		s.Require().NoError(s.store.LinkTraineeToClass(s.ctx, traineeID, classID))
		s.Require().NoError(s.store.LinkTraineeToClass(s.ctx, traineeID, classID))
	})

	s.Run("counts classes still running on a date", func() {
		n, err := s.store.CountActiveClasses(s.ctx, "2026-04-30")
		s.Require().NoError(err)
		s.Equal(1, n)

		n, err = s.store.CountActiveClasses(s.ctx, "2026-05-01")
		s.Require().NoError(err)
		s.Equal(0, n)
	})

	s.Run("deleting the class detaches exams", func() {
		examID, err := s.store.CreateExam(s.ctx, &models.Exam{
			TraineeID: traineeID,
			ClassID:   int64p(classID),
			Date:      strp("2026-03-01"),
		})
		s.Require().NoError(err)

		s.Require().NoError(s.store.DeleteClass(s.ctx, classID))

		exam, err := s.store.GetExam(s.ctx, examID)
		s.Require().NoError(err)
		s.Nil(exam.ClassID)
	})
}

// TestExamCounts verifies the aggregate queries the dashboard relies on.
func (s *MemoryStoreSuite) TestExamCounts() {
	traineeID := s.mustCreateTrainee("Priya", "Nair", nil)

	mustExam := func(e *models.Exam) {
		e.TraineeID = traineeID
		_, err := s.store.CreateExam(s.ctx, e)
		s.Require().NoError(err)
	}

	mustExam(&models.Exam{Date: strp("2026-03-01"), IsPractice: true, Passed: boolp(true), Module: modp(models.ModuleLife)})
	mustExam(&models.Exam{Date: strp("2026-03-05"), IsPractice: true, Passed: boolp(false), Module: modp(models.ModuleLife)})
	mustExam(&models.Exam{Date: strp("2026-03-10"), IsPractice: false, Passed: boolp(true), Module: modp(models.ModuleEthics)})
	mustExam(&models.Exam{Date: strp("2026-03-15"), IsPractice: true, Passed: nil})

	s.Run("passed practice counts require an explicit pass", func() {
		n, err := s.store.CountPassedPractice(s.ctx, traineeID)
		s.Require().NoError(err)
		s.Equal(1, n)
	})

	s.Run("recent pass count is bounded by the cutoff date", func() {
		n, err := s.store.CountPassedSince(s.ctx, "2026-03-01")
		s.Require().NoError(err)
		s.Equal(2, n)

		n, err = s.store.CountPassedSince(s.ctx, "2026-03-11")
		s.Require().NoError(err)
		s.Equal(0, n)
	})

	s.Run("module totals skip exams without a module", func() {
		totals, err := s.store.ModuleTotals(s.ctx)
		s.Require().NoError(err)
		s.Len(totals, 2)
		s.Equal(ModuleTotal{Total: 2, Passes: 1}, totals[models.ModuleLife])
		s.Equal(ModuleTotal{Total: 1, Passes: 1}, totals[models.ModuleEthics])
	})
}

// TestRecruiterTotals verifies the per-recruiter rollup.
func (s *MemoryStoreSuite) TestRecruiterTotals() {
	recruiterID := s.mustCreateRecruiter("Dana Whitfield")
	s.mustCreateRecruiter("Empty Desk")
	traineeID := s.mustCreateTrainee("Priya", "Nair", int64p(recruiterID))

	_, err := s.store.CreateExam(s.ctx, &models.Exam{TraineeID: traineeID, Passed: boolp(true)})
	s.Require().NoError(err)
	_, err = s.store.CreateExam(s.ctx, &models.Exam{TraineeID: traineeID, Passed: boolp(false)})
	s.Require().NoError(err)

	totals, err := s.store.RecruiterTotals(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(totals, 2)

	byName := map[string]*RecruiterTotal{}
	for _, rt := range totals {
		byName[rt.Name] = rt
	}
	s.Equal(1, byName["Dana Whitfield"].TraineeCount)
	s.Equal(1, byName["Dana Whitfield"].PassCount)
	s.Equal(2, byName["Dana Whitfield"].TotalExams)
	s.Equal(0, byName["Empty Desk"].TraineeCount)
	s.Equal(0, byName["Empty Desk"].TotalExams)
}

// TestLicenseQueries verifies latest-per-trainee selection and pending counts.
func (s *MemoryStoreSuite) TestLicenseQueries() {
	traineeID := s.mustCreateTrainee("Priya", "Nair", nil)

	s.Run("latest license wins by submitted date", func() {
		_, err := s.store.CreateLicense(s.ctx, &models.License{
			TraineeID:     traineeID,
			SubmittedDate: strp("2026-01-10"),
			Status:        strp("Submitted"),
		})
		s.Require().NoError(err)
		_, err = s.store.CreateLicense(s.ctx, &models.License{
			TraineeID:     traineeID,
			SubmittedDate: strp("2026-02-20"),
			Status:        strp("Approved"),
		})
		s.Require().NoError(err)

		latest, err := s.store.LatestForTrainee(s.ctx, traineeID)
		s.Require().NoError(err)
		s.Require().NotNil(latest.Status)
		s.Equal("Approved", *latest.Status)
	})

	s.Run("latest for trainee without licenses is ErrNotFound", func() {
		other := s.mustCreateTrainee("Omar", "Haddad", nil)
		_, err := s.store.LatestForTrainee(s.ctx, other)
		s.Require().ErrorIs(err, ErrNotFound)
	})

	s.Run("pending count treats a missing status as pending", func() {
		_, err := s.store.CreateLicense(s.ctx, &models.License{TraineeID: traineeID})
		s.Require().NoError(err)
		_, err = s.store.CreateLicense(s.ctx, &models.License{TraineeID: traineeID, Status: strp("Issued")})
		s.Require().NoError(err)

		n, err := s.store.CountPendingLicenses(s.ctx)
		s.Require().NoError(err)
		// Submitted + statusless; Approved and Issued are settled.
		s.Equal(2, n)
	})
}

// TestPracticeStatuses verifies the per-module sign-off upsert semantics.
func (s *MemoryStoreSuite) TestPracticeStatuses() {
	traineeID := s.mustCreateTrainee("Priya", "Nair", nil)
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	s.Run("marking complete records a timestamp", func() {
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, traineeID, models.ModuleLife, true, now))

		dates, err := s.store.CompletionDates(s.ctx, traineeID)
		s.Require().NoError(err)
		s.Equal(now.Format(CompletionDateFormat), dates[models.ModuleLife])
	})

	s.Run("re-marking keeps a single row and refreshes the timestamp", func() {
		later := now.Add(48 * time.Hour)
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, traineeID, models.ModuleLife, true, later))

		dates, err := s.store.CompletionDates(s.ctx, traineeID)
		s.Require().NoError(err)
		s.Require().Len(dates, 1)
		s.Equal(later.Format(CompletionDateFormat), dates[models.ModuleLife])
	})

	s.Run("clearing completion drops the timestamp", func() {
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, traineeID, models.ModuleLife, false, now))

		statuses, err := s.store.PracticeStatusForTrainee(s.ctx, traineeID)
		s.Require().NoError(err)
		s.False(statuses[models.ModuleLife])

		dates, err := s.store.CompletionDates(s.ctx, traineeID)
		s.Require().NoError(err)
		s.NotContains(dates, models.ModuleLife)
	})

	s.Run("counts completed modules from a given set", func() {
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, traineeID, models.ModuleLife, true, now))
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, traineeID, models.ModuleEthics, true, now))

		n, err := s.store.CountCompletedModules(s.ctx, traineeID, models.RequiredModules())
		s.Require().NoError(err)
		s.Equal(2, n)

		n, err = s.store.CountCompletedModules(s.ctx, traineeID, []models.Module{models.ModuleSegFunds})
		s.Require().NoError(err)
		s.Equal(0, n)
	})

	s.Run("reset clears every module for the trainee", func() {
		s.Require().NoError(s.store.ResetPracticeStatuses(s.ctx, traineeID))

		n, err := s.store.CountCompletedModules(s.ctx, traineeID, models.RequiredModules())
		s.Require().NoError(err)
		s.Equal(0, n)

		dates, err := s.store.CompletionDates(s.ctx, traineeID)
		s.Require().NoError(err)
		s.Empty(dates)
	})
}
