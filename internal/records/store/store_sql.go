package store

import (
	"database/sql"
	"strings"

	"licentia/internal/records/models"
)

// scanner abstracts *sql.Row and *sql.Rows so one scan helper serves both.
type scanner interface {
	Scan(dest ...any) error
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// repeatPlaceholder returns n copies of ", ?" for IN clauses (sqlite).
func repeatPlaceholder(n int) string {
	return strings.Repeat(", ?", n)
}

// moduleArg converts an optional module to a nullable SQL argument.
func moduleArg(m *models.Module) any {
	if m == nil {
		return nil
	}
	return string(*m)
}

func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func float64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func boolPtr(nb sql.NullBool) *bool {
	if !nb.Valid {
		return nil
	}
	v := nb.Bool
	return &v
}

func modulePtr(ns sql.NullString) *models.Module {
	if !ns.Valid {
		return nil
	}
	m := models.Module(ns.String)
	return &m
}

func scanRecruiter(row scanner) (*models.Recruiter, error) {
	var r models.Recruiter
	var email, phone, repCode sql.NullString
	if err := row.Scan(&r.ID, &r.Name, &email, &phone, &repCode); err != nil {
		return nil, err
	}
	r.Email = strPtr(email)
	r.Phone = strPtr(phone)
	r.RepCode = strPtr(repCode)
	return &r, nil
}

func scanTrainee(row scanner) (*models.Trainee, error) {
	var t models.Trainee
	var dob, repCode, rvpName, rvpRepCode sql.NullString
	var recruiterID sql.NullInt64
	if err := row.Scan(&t.ID, &t.FirstName, &t.LastName, &dob, &recruiterID, &repCode, &rvpName, &rvpRepCode); err != nil {
		return nil, err
	}
	t.DOB = strPtr(dob)
	t.RecruiterID = int64Ptr(recruiterID)
	t.RepCode = strPtr(repCode)
	t.RVPName = strPtr(rvpName)
	t.RVPRepCode = strPtr(rvpRepCode)
	return &t, nil
}

func scanTraineeRow(row scanner) (*models.TraineeRow, error) {
	var tr models.TraineeRow
	var dob, repCode, rvpName, rvpRepCode, recruiterName sql.NullString
	var recruiterID sql.NullInt64
	if err := row.Scan(&tr.ID, &tr.FirstName, &tr.LastName, &dob, &recruiterID, &repCode,
		&rvpName, &rvpRepCode, &recruiterName); err != nil {
		return nil, err
	}
	tr.DOB = strPtr(dob)
	tr.RecruiterID = int64Ptr(recruiterID)
	tr.RepCode = strPtr(repCode)
	tr.RVPName = strPtr(rvpName)
	tr.RVPRepCode = strPtr(rvpRepCode)
	tr.RecruiterName = strPtr(recruiterName)
	return &tr, nil
}

func scanClass(row scanner) (*models.Class, error) {
	var c models.Class
	var start, end sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &start, &end); err != nil {
		return nil, err
	}
	c.StartDate = strPtr(start)
	c.EndDate = strPtr(end)
	return &c, nil
}

func scanExam(row scanner) (*models.Exam, error) {
	var e models.Exam
	var classID sql.NullInt64
	var date, module, notes sql.NullString
	var passed sql.NullBool
	var score sql.NullFloat64
	if err := row.Scan(&e.ID, &e.TraineeID, &classID, &date, &module, &e.IsPractice,
		&passed, &score, &notes, &e.ReimbursementRequested); err != nil {
		return nil, err
	}
	e.ClassID = int64Ptr(classID)
	e.Date = strPtr(date)
	e.Module = modulePtr(module)
	e.Passed = boolPtr(passed)
	e.Score = float64Ptr(score)
	e.Notes = strPtr(notes)
	return &e, nil
}

func collectExamRows(rows *sql.Rows) ([]*models.ExamRow, error) {
	var out []*models.ExamRow
	for rows.Next() {
		var er models.ExamRow
		var classID sql.NullInt64
		var date, module, notes, className sql.NullString
		var passed sql.NullBool
		var score sql.NullFloat64
		if err := rows.Scan(&er.ID, &er.TraineeID, &classID, &date, &module, &er.IsPractice,
			&passed, &score, &notes, &er.ReimbursementRequested,
			&er.TraineeFirstName, &er.TraineeLastName, &className); err != nil {
			return nil, err
		}
		er.ClassID = int64Ptr(classID)
		er.Date = strPtr(date)
		er.Module = modulePtr(module)
		er.Passed = boolPtr(passed)
		er.Score = float64Ptr(score)
		er.Notes = strPtr(notes)
		er.ClassName = strPtr(className)
		out = append(out, &er)
	}
	return out, rows.Err()
}

func scanLicense(row scanner) (*models.License, error) {
	var l models.License
	var submitted, approval, number, status, licType, notes sql.NullString
	if err := row.Scan(&l.ID, &l.TraineeID, &submitted, &approval, &number, &status,
		&licType, &l.Invoiced, &notes); err != nil {
		return nil, err
	}
	l.SubmittedDate = strPtr(submitted)
	l.ApprovalDate = strPtr(approval)
	l.Number = strPtr(number)
	l.Status = strPtr(status)
	l.Type = strPtr(licType)
	l.Notes = strPtr(notes)
	return &l, nil
}

func collectLicenseRows(rows *sql.Rows) ([]*models.LicenseRow, error) {
	var out []*models.LicenseRow
	for rows.Next() {
		var lr models.LicenseRow
		var submitted, approval, number, status, licType, notes sql.NullString
		if err := rows.Scan(&lr.ID, &lr.TraineeID, &submitted, &approval, &number, &status,
			&licType, &lr.Invoiced, &notes, &lr.TraineeFirstName, &lr.TraineeLastName); err != nil {
			return nil, err
		}
		lr.SubmittedDate = strPtr(submitted)
		lr.ApprovalDate = strPtr(approval)
		lr.Number = strPtr(number)
		lr.Status = strPtr(status)
		lr.Type = strPtr(licType)
		lr.Notes = strPtr(notes)
		out = append(out, &lr)
	}
	return out, rows.Err()
}
