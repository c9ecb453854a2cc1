package eligibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"licentia/internal/records/models"
	"licentia/internal/records/store"
)

// brokenStore fails every read so the safe-default paths can be exercised.
type brokenStore struct{}

var errBroken = errors.New("backend unavailable")

func (brokenStore) PracticeStatusForTrainee(context.Context, int64) (map[models.Module]bool, error) {
	return nil, errBroken
}

func (brokenStore) CompletionDates(context.Context, int64) (map[models.Module]string, error) {
	return nil, errBroken
}

func (brokenStore) CountCompletedModules(context.Context, int64, []models.Module) (int, error) {
	return 0, errBroken
}

func (brokenStore) CountPassedPractice(context.Context, int64) (int, error) {
	return 0, errBroken
}

type EligibilitySuite struct {
	suite.Suite
	store     *store.Memory
	svc       *Service
	ctx       context.Context
	traineeID int64
}

func (s *EligibilitySuite) SetupTest() {
	s.store = store.NewMemory()
	s.svc = New(s.store, s.store)
	s.ctx = context.Background()

	id, err := s.store.CreateTrainee(s.ctx, &models.Trainee{FirstName: "Priya", LastName: "Nair"})
	s.Require().NoError(err)
	s.traineeID = id
}

func TestEligibilitySuite(t *testing.T) {
	suite.Run(t, new(EligibilitySuite))
}

func (s *EligibilitySuite) addPassedPractice(n int) {
	passed := true
	for i := 0; i < n; i++ {
		_, err := s.store.CreateExam(s.ctx, &models.Exam{
			TraineeID:  s.traineeID,
			IsPractice: true,
			Passed:     &passed,
		})
		s.Require().NoError(err)
	}
}

func (s *EligibilitySuite) signOff(modules []models.Module, at time.Time) {
	for _, m := range modules {
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, s.traineeID, m, true, at))
	}
}

// TestReadyForReimbursement verifies both qualifying routes and their union.
func (s *EligibilitySuite) TestReadyForReimbursement() {
	s.Run("fresh trainee does not qualify", func() {
		s.False(s.svc.ReadyForReimbursement(s.ctx, s.traineeID))
	})

	s.Run("three passed practice exams are not enough", func() {
		s.addPassedPractice(3)
		s.False(s.svc.ReadyForReimbursement(s.ctx, s.traineeID))
	})

	s.Run("a fourth passed practice exam qualifies", func() {
		s.addPassedPractice(1)
		s.True(s.svc.ReadyForReimbursement(s.ctx, s.traineeID))
	})
}

func (s *EligibilitySuite) TestReimbursementViaSignoffsAlone() {
	s.signOff(models.RequiredModules(), time.Now())
	s.True(s.svc.ReadyForReimbursement(s.ctx, s.traineeID))
}

// TestModuleCompletion verifies the sign-off summary and the provincial gate.
func (s *EligibilitySuite) TestModuleCompletion() {
	s.Run("summary always carries every required module", func() {
		summary := s.svc.PracticeModuleSummary(s.ctx, s.traineeID)
		s.Len(summary, models.RequiredModuleCount)
		for _, done := range summary {
			s.False(done)
		}
	})

	s.Run("partial sign-off does not clear the provincial gate", func() {
		s.signOff([]models.Module{models.ModuleLife, models.ModuleEthics}, time.Now())
		s.False(s.svc.AllPracticeModulesComplete(s.ctx, s.traineeID))
		s.False(s.svc.ReadyForProvincialExam(s.ctx, s.traineeID))
	})

	s.Run("full sign-off clears both checks", func() {
		s.signOff(models.RequiredModules(), time.Now())
		s.True(s.svc.AllPracticeModulesComplete(s.ctx, s.traineeID))
		s.True(s.svc.ReadyForProvincialExam(s.ctx, s.traineeID))
	})

	s.Run("a cleared sign-off reopens the gate", func() {
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, s.traineeID, models.ModuleSegFunds, false, time.Now()))
		s.False(s.svc.ReadyForProvincialExam(s.ctx, s.traineeID))
	})
}

// TestQualifiesForGuarantee verifies the strict-ordering day comparison.
func (s *EligibilitySuite) TestQualifiesForGuarantee() {
	examDay := "2026-04-15"
	dayBefore := time.Date(2026, 4, 14, 16, 30, 0, 0, time.UTC)

	s.Run("no exam date means no guarantee", func() {
		s.signOff(models.RequiredModules(), dayBefore)
		s.False(s.svc.QualifiesForGuarantee(s.ctx, s.traineeID, ""))
	})

	s.Run("all modules finished the day before qualify", func() {
		s.True(s.svc.QualifiesForGuarantee(s.ctx, s.traineeID, examDay))
	})

	s.Run("a module finished on exam day disqualifies", func() {
		examDayEvening := time.Date(2026, 4, 15, 19, 0, 0, 0, time.UTC)
		s.signOff([]models.Module{models.ModuleEthics}, examDayEvening)
		s.False(s.svc.QualifiesForGuarantee(s.ctx, s.traineeID, examDay))
	})

	s.Run("a module without a completion date disqualifies", func() {
		s.Require().NoError(s.store.SetPracticeStatus(s.ctx, s.traineeID, models.ModuleEthics, false, dayBefore))
		s.False(s.svc.QualifiesForGuarantee(s.ctx, s.traineeID, examDay))
	})
}

// TestShouldOfferReimbursement verifies the recording-time trigger.
func (s *EligibilitySuite) TestShouldOfferReimbursement() {
	passed := true
	failed := false

	s.Run("never triggers for an unqualified trainee", func() {
		s.False(s.svc.ShouldOfferReimbursement(s.ctx, s.traineeID, &failed, false))
	})

	s.Run("triggers only on an explicit real failure", func() {
		s.addPassedPractice(models.RequiredModuleCount)

		s.True(s.svc.ShouldOfferReimbursement(s.ctx, s.traineeID, &failed, false))
		s.False(s.svc.ShouldOfferReimbursement(s.ctx, s.traineeID, &passed, false))
		s.False(s.svc.ShouldOfferReimbursement(s.ctx, s.traineeID, nil, false))
		s.False(s.svc.ShouldOfferReimbursement(s.ctx, s.traineeID, &failed, true))
	})
}

// TestStoreFailuresAreSafe verifies every evaluator answers conservatively
// when the backend is down.
func TestStoreFailuresAreSafe(t *testing.T) {
	svc := New(brokenStore{}, brokenStore{})
	ctx := context.Background()

	if svc.ReadyForReimbursement(ctx, 1) {
		t.Error("ReadyForReimbursement should be false on store failure")
	}
	if svc.AllPracticeModulesComplete(ctx, 1) {
		t.Error("AllPracticeModulesComplete should be false on store failure")
	}
	if svc.ReadyForProvincialExam(ctx, 1) {
		t.Error("ReadyForProvincialExam should be false on store failure")
	}
	if svc.QualifiesForGuarantee(ctx, 1, "2026-04-15") {
		t.Error("QualifiesForGuarantee should be false on store failure")
	}

	summary := svc.PracticeModuleSummary(ctx, 1)
	if len(summary) != models.RequiredModuleCount {
		t.Errorf("summary should carry %d modules, got %d", models.RequiredModuleCount, len(summary))
	}
	for m, done := range summary {
		if done {
			t.Errorf("module %s should read incomplete on store failure", m)
		}
	}
}
