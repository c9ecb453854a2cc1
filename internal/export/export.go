// Package export renders record listings as CSV for the office's reporting
// spreadsheets.
package export

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"licentia/internal/records/models"
	dErrors "licentia/pkg/domain-errors"
)

type TraineeLister interface {
	ListTrainees(ctx context.Context) ([]*models.TraineeRow, error)
}

type LicenseLister interface {
	ListLicenses(ctx context.Context) ([]*models.LicenseRow, error)
}

type RecruiterLister interface {
	ListRecruiters(ctx context.Context) ([]*models.Recruiter, error)
}

// Service writes CSV datasets. An empty dataset is an error so callers never
// produce a header-only file by accident.
type Service struct {
	trainees   TraineeLister
	licenses   LicenseLister
	recruiters RecruiterLister
}

// New constructs a Service.
func New(trainees TraineeLister, licenses LicenseLister, recruiters RecruiterLister) *Service {
	return &Service{trainees: trainees, licenses: licenses, recruiters: recruiters}
}

func (s *Service) Trainees(ctx context.Context, w io.Writer) error {
	rows, err := s.trainees.ListTrainees(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list trainees")
	}
	if len(rows) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "no trainees to export")
	}

	records := [][]string{{"ID", "First Name", "Last Name", "DOB", "Recruiter", "Rep Code", "RVP Name", "RVP Rep Code"}}
	for _, t := range rows {
		records = append(records, []string{
			strconv.FormatInt(t.ID, 10),
			t.FirstName,
			t.LastName,
			deref(t.DOB),
			deref(t.RecruiterName),
			deref(t.RepCode),
			deref(t.RVPName),
			deref(t.RVPRepCode),
		})
	}
	return writeAll(w, records)
}

func (s *Service) Licenses(ctx context.Context, w io.Writer) error {
	rows, err := s.licenses.ListLicenses(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list licenses")
	}
	if len(rows) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "no licenses to export")
	}

	records := [][]string{{"ID", "Trainee", "Submitted", "Approved", "Number", "Status", "Type", "Invoiced"}}
	for _, l := range rows {
		records = append(records, []string{
			strconv.FormatInt(l.ID, 10),
			l.TraineeFirstName + " " + l.TraineeLastName,
			deref(l.SubmittedDate),
			deref(l.ApprovalDate),
			deref(l.Number),
			deref(l.Status),
			deref(l.Type),
			strconv.FormatBool(l.Invoiced),
		})
	}
	return writeAll(w, records)
}

func (s *Service) Recruiters(ctx context.Context, w io.Writer) error {
	rows, err := s.recruiters.ListRecruiters(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list recruiters")
	}
	if len(rows) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "no recruiters to export")
	}

	records := [][]string{{"ID", "Name", "Email", "Phone", "Rep Code"}}
	for _, r := range rows {
		records = append(records, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			deref(r.Email),
			deref(r.Phone),
			deref(r.RepCode),
		})
	}
	return writeAll(w, records)
}

func writeAll(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write csv")
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
