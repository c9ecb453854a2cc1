package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"licentia/internal/records/models"
)

// Postgres is the Store used when a training office shares one database.
// Schema is created on open; the table shapes match the SQLite store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection with the given lib/pq connection string
// and ensures the schema exists.
func NewPostgres(conn string) (*Postgres, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Postgres{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

func (s *Postgres) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recruiter (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		rep_code TEXT
	);

	CREATE TABLE IF NOT EXISTS trainee (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		dob TEXT,
		recruiter_id BIGINT REFERENCES recruiter(id) ON DELETE SET NULL,
		rep_code TEXT,
		rvp_name TEXT,
		rvp_rep_code TEXT
	);

	CREATE TABLE IF NOT EXISTS class (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT
	);

	CREATE TABLE IF NOT EXISTS trainee_class (
		trainee_id BIGINT NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		class_id BIGINT NOT NULL REFERENCES class(id) ON DELETE CASCADE,
		PRIMARY KEY (trainee_id, class_id)
	);

	CREATE TABLE IF NOT EXISTS exam (
		id BIGSERIAL PRIMARY KEY,
		trainee_id BIGINT NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		class_id BIGINT REFERENCES class(id) ON DELETE SET NULL,
		exam_date TEXT,
		module TEXT,
		is_practice BOOLEAN NOT NULL DEFAULT FALSE,
		passed BOOLEAN,
		score DOUBLE PRECISION,
		notes TEXT,
		reimbursement_requested BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_exam_trainee ON exam(trainee_id);
	CREATE INDEX IF NOT EXISTS idx_exam_date ON exam(exam_date);

	CREATE TABLE IF NOT EXISTS license (
		id BIGSERIAL PRIMARY KEY,
		trainee_id BIGINT NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		application_submitted_date TEXT,
		approval_date TEXT,
		license_number TEXT,
		status TEXT,
		license_type TEXT,
		invoiced BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_license_trainee ON license(trainee_id);

	CREATE TABLE IF NOT EXISTS practice_exam_status (
		trainee_id BIGINT NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		module TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_date TEXT,
		PRIMARY KEY (trainee_id, module)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// ==========================================================================
// Recruiters
// ==========================================================================

func (s *Postgres) CreateRecruiter(ctx context.Context, r *models.Recruiter) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO recruiter (name, email, phone, rep_code) VALUES ($1, $2, $3, $4) RETURNING id`,
		r.Name, r.Email, r.Phone, r.RepCode).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create recruiter: %w", err)
	}
	return id, nil
}

func (s *Postgres) UpdateRecruiter(ctx context.Context, r *models.Recruiter) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recruiter SET name = $1, email = $2, phone = $3, rep_code = $4 WHERE id = $5`,
		r.Name, r.Email, r.Phone, r.RepCode, r.ID)
	if err != nil {
		return fmt.Errorf("update recruiter: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) DeleteRecruiter(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recruiter WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recruiter: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) GetRecruiter(ctx context.Context, id int64) (*models.Recruiter, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, rep_code FROM recruiter WHERE id = $1`, id)
	r, err := scanRecruiter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get recruiter: %w", err)
	}
	return r, nil
}

func (s *Postgres) ListRecruiters(ctx context.Context) ([]*models.Recruiter, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, rep_code FROM recruiter ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list recruiters: %w", err)
	}
	defer rows.Close()

	var out []*models.Recruiter
	for rows.Next() {
		r, err := scanRecruiter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recruiter: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ==========================================================================
// Trainees
// ==========================================================================

func (s *Postgres) CreateTrainee(ctx context.Context, t *models.Trainee) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO trainee (first_name, last_name, dob, recruiter_id, rep_code, rvp_name, rvp_rep_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		t.FirstName, t.LastName, t.DOB, t.RecruiterID, t.RepCode, t.RVPName, t.RVPRepCode).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create trainee: %w", err)
	}
	return id, nil
}

func (s *Postgres) UpdateTrainee(ctx context.Context, t *models.Trainee) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trainee SET first_name = $1, last_name = $2, dob = $3, recruiter_id = $4,
		        rep_code = $5, rvp_name = $6, rvp_rep_code = $7
		 WHERE id = $8`,
		t.FirstName, t.LastName, t.DOB, t.RecruiterID, t.RepCode, t.RVPName, t.RVPRepCode, t.ID)
	if err != nil {
		return fmt.Errorf("update trainee: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) DeleteTrainee(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trainee WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete trainee: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) GetTrainee(ctx context.Context, id int64) (*models.Trainee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, dob, recruiter_id, rep_code, rvp_name, rvp_rep_code
		 FROM trainee WHERE id = $1`, id)
	t, err := scanTrainee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get trainee: %w", err)
	}
	return t, nil
}

func (s *Postgres) ListTrainees(ctx context.Context) ([]*models.TraineeRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.first_name, t.last_name, t.dob, t.recruiter_id, t.rep_code,
		        t.rvp_name, t.rvp_rep_code, r.name
		 FROM trainee t
		 LEFT JOIN recruiter r ON t.recruiter_id = r.id
		 ORDER BY t.last_name, t.first_name`)
	if err != nil {
		return nil, fmt.Errorf("list trainees: %w", err)
	}
	defer rows.Close()

	var out []*models.TraineeRow
	for rows.Next() {
		tr, err := scanTraineeRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trainee row: %w", err)
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

func (s *Postgres) ListTraineeIDs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM trainee ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list trainee ids: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan trainee id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (s *Postgres) ListRecentTrainees(ctx context.Context, limit int) ([]*models.Trainee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, dob, recruiter_id, rep_code, rvp_name, rvp_rep_code
		 FROM trainee ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent trainees: %w", err)
	}
	defer rows.Close()

	var out []*models.Trainee
	for rows.Next() {
		t, err := scanTrainee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trainee: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Postgres) CountTrainees(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trainee`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trainees: %w", err)
	}
	return n, nil
}

func (s *Postgres) LinkTraineeToClass(ctx context.Context, traineeID, classID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trainee_class (trainee_id, class_id) VALUES ($1, $2)
		 ON CONFLICT (trainee_id, class_id) DO NOTHING`,
		traineeID, classID)
	if err != nil {
		return fmt.Errorf("link trainee to class: %w", err)
	}
	return nil
}

// ==========================================================================
// Classes
// ==========================================================================

func (s *Postgres) CreateClass(ctx context.Context, c *models.Class) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO class (name, start_date, end_date) VALUES ($1, $2, $3) RETURNING id`,
		c.Name, c.StartDate, c.EndDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create class: %w", err)
	}
	return id, nil
}

func (s *Postgres) UpdateClass(ctx context.Context, c *models.Class) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE class SET name = $1, start_date = $2, end_date = $3 WHERE id = $4`,
		c.Name, c.StartDate, c.EndDate, c.ID)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) DeleteClass(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM class WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date FROM class WHERE id = $1`, id)
	c, err := scanClass(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

func (s *Postgres) ListClasses(ctx context.Context) ([]*models.Class, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, start_date, end_date FROM class ORDER BY start_date`)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()

	var out []*models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Postgres) CountActiveClasses(ctx context.Context, onDate string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM class WHERE end_date >= $1`, onDate).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active classes: %w", err)
	}
	return n, nil
}

// ==========================================================================
// Exams
// ==========================================================================

func (s *Postgres) CreateExam(ctx context.Context, e *models.Exam) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO exam (trainee_id, class_id, exam_date, module, is_practice, passed, score, notes, reimbursement_requested)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		e.TraineeID, e.ClassID, e.Date, moduleArg(e.Module), e.IsPractice, e.Passed, e.Score, e.Notes, e.ReimbursementRequested).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create exam: %w", err)
	}
	return id, nil
}

func (s *Postgres) UpdateExam(ctx context.Context, e *models.Exam) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE exam SET trainee_id = $1, class_id = $2, exam_date = $3, module = $4, is_practice = $5,
		        passed = $6, score = $7, notes = $8, reimbursement_requested = $9
		 WHERE id = $10`,
		e.TraineeID, e.ClassID, e.Date, moduleArg(e.Module), e.IsPractice, e.Passed, e.Score, e.Notes, e.ReimbursementRequested, e.ID)
	if err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) DeleteExam(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exam WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) GetExam(ctx context.Context, id int64) (*models.Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trainee_id, class_id, exam_date, module, is_practice, passed, score, notes, reimbursement_requested
		 FROM exam WHERE id = $1`, id)
	e, err := scanExam(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return e, nil
}

func (s *Postgres) ListExams(ctx context.Context) ([]*models.ExamRow, error) {
	rows, err := s.db.QueryContext(ctx, examRowSelect+` ORDER BY e.exam_date DESC, e.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()
	return collectExamRows(rows)
}

func (s *Postgres) ListRecentExams(ctx context.Context, limit int) ([]*models.ExamRow, error) {
	rows, err := s.db.QueryContext(ctx,
		examRowSelect+` ORDER BY e.exam_date DESC, e.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent exams: %w", err)
	}
	defer rows.Close()
	return collectExamRows(rows)
}

func (s *Postgres) CountExams(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exam`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exams: %w", err)
	}
	return n, nil
}

func (s *Postgres) CountPassedPractice(ctx context.Context, traineeID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exam WHERE trainee_id = $1 AND is_practice AND passed`,
		traineeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count passed practice exams: %w", err)
	}
	return n, nil
}

func (s *Postgres) CountPassedSince(ctx context.Context, sinceDate string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exam WHERE passed AND exam_date >= $1`, sinceDate).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recent passes: %w", err)
	}
	return n, nil
}

func (s *Postgres) ModuleTotals(ctx context.Context) (map[models.Module]ModuleTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT module, COUNT(*), SUM(CASE WHEN passed THEN 1 ELSE 0 END)
		 FROM exam WHERE module IS NOT NULL GROUP BY module`)
	if err != nil {
		return nil, fmt.Errorf("module totals: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Module]ModuleTotal)
	for rows.Next() {
		var module string
		var mt ModuleTotal
		if err := rows.Scan(&module, &mt.Total, &mt.Passes); err != nil {
			return nil, fmt.Errorf("scan module total: %w", err)
		}
		out[models.Module(module)] = mt
	}
	return out, rows.Err()
}

func (s *Postgres) RecruiterTotals(ctx context.Context) ([]*RecruiterTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.name,
		        COUNT(DISTINCT t.id),
		        COALESCE(SUM(CASE WHEN e.passed THEN 1 ELSE 0 END), 0),
		        COUNT(e.id)
		 FROM recruiter r
		 LEFT JOIN trainee t ON r.id = t.recruiter_id
		 LEFT JOIN exam e ON t.id = e.trainee_id
		 GROUP BY r.id, r.name
		 ORDER BY r.name`)
	if err != nil {
		return nil, fmt.Errorf("recruiter totals: %w", err)
	}
	defer rows.Close()

	var out []*RecruiterTotal
	for rows.Next() {
		rt := &RecruiterTotal{}
		if err := rows.Scan(&rt.RecruiterID, &rt.Name, &rt.TraineeCount, &rt.PassCount, &rt.TotalExams); err != nil {
			return nil, fmt.Errorf("scan recruiter total: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// ==========================================================================
// Licenses
// ==========================================================================

func (s *Postgres) CreateLicense(ctx context.Context, l *models.License) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO license (trainee_id, application_submitted_date, approval_date, license_number, status, license_type, invoiced, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		l.TraineeID, l.SubmittedDate, l.ApprovalDate, l.Number, l.Status, l.Type, l.Invoiced, l.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create license: %w", err)
	}
	return id, nil
}

func (s *Postgres) UpdateLicense(ctx context.Context, l *models.License) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE license SET trainee_id = $1, application_submitted_date = $2, approval_date = $3,
		        license_number = $4, status = $5, license_type = $6, invoiced = $7, notes = $8
		 WHERE id = $9`,
		l.TraineeID, l.SubmittedDate, l.ApprovalDate, l.Number, l.Status, l.Type, l.Invoiced, l.Notes, l.ID)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) DeleteLicense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM license WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete license: %w", err)
	}
	return requireRowAffected(res)
}

func (s *Postgres) GetLicense(ctx context.Context, id int64) (*models.License, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trainee_id, application_submitted_date, approval_date, license_number, status, license_type, invoiced, notes
		 FROM license WHERE id = $1`, id)
	l, err := scanLicense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return l, nil
}

func (s *Postgres) ListLicenses(ctx context.Context) ([]*models.LicenseRow, error) {
	rows, err := s.db.QueryContext(ctx,
		licenseRowSelect+` ORDER BY l.application_submitted_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()
	return collectLicenseRows(rows)
}

func (s *Postgres) ListRecentLicenses(ctx context.Context, limit int) ([]*models.LicenseRow, error) {
	rows, err := s.db.QueryContext(ctx,
		licenseRowSelect+` ORDER BY l.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent licenses: %w", err)
	}
	defer rows.Close()
	return collectLicenseRows(rows)
}

func (s *Postgres) LatestForTrainee(ctx context.Context, traineeID int64) (*models.License, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trainee_id, application_submitted_date, approval_date, license_number, status, license_type, invoiced, notes
		 FROM license WHERE trainee_id = $1
		 ORDER BY application_submitted_date DESC LIMIT 1`, traineeID)
	l, err := scanLicense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("latest license for trainee: %w", err)
	}
	return l, nil
}

func (s *Postgres) CountPendingLicenses(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM license WHERE COALESCE(status, '') NOT IN ('Approved', 'Issued')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending licenses: %w", err)
	}
	return n, nil
}

// ==========================================================================
// Practice statuses
// ==========================================================================

func (s *Postgres) SetPracticeStatus(ctx context.Context, traineeID int64, module models.Module, completed bool, now time.Time) error {
	var completedDate *string
	if completed {
		stamp := now.UTC().Format(CompletionDateFormat)
		completedDate = &stamp
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO practice_exam_status (trainee_id, module, completed, completed_date)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (trainee_id, module) DO UPDATE SET
		 	completed = EXCLUDED.completed,
		 	completed_date = EXCLUDED.completed_date`,
		traineeID, string(module), completed, completedDate)
	if err != nil {
		return fmt.Errorf("set practice status: %w", err)
	}
	return nil
}

func (s *Postgres) PracticeStatusForTrainee(ctx context.Context, traineeID int64) (map[models.Module]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT module, completed FROM practice_exam_status WHERE trainee_id = $1`, traineeID)
	if err != nil {
		return nil, fmt.Errorf("practice status for trainee: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Module]bool)
	for rows.Next() {
		var module string
		var completed bool
		if err := rows.Scan(&module, &completed); err != nil {
			return nil, fmt.Errorf("scan practice status: %w", err)
		}
		out[models.Module(module)] = completed
	}
	return out, rows.Err()
}

func (s *Postgres) CompletionDates(ctx context.Context, traineeID int64) (map[models.Module]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT module, completed_date FROM practice_exam_status
		 WHERE trainee_id = $1 AND completed AND completed_date IS NOT NULL`, traineeID)
	if err != nil {
		return nil, fmt.Errorf("completion dates: %w", err)
	}
	defer rows.Close()

	out := make(map[models.Module]string)
	for rows.Next() {
		var module, date string
		if err := rows.Scan(&module, &date); err != nil {
			return nil, fmt.Errorf("scan completion date: %w", err)
		}
		out[models.Module(module)] = date
	}
	return out, rows.Err()
}

func (s *Postgres) CountCompletedModules(ctx context.Context, traineeID int64, modules []models.Module) (int, error) {
	if len(modules) == 0 {
		return 0, nil
	}
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = string(m)
	}

	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM practice_exam_status
		 WHERE trainee_id = $1 AND completed AND module = ANY($2)`,
		traineeID, pq.Array(names)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed modules: %w", err)
	}
	return n, nil
}

func (s *Postgres) ResetPracticeStatuses(ctx context.Context, traineeID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE practice_exam_status SET completed = FALSE, completed_date = NULL WHERE trainee_id = $1`,
		traineeID)
	if err != nil {
		return fmt.Errorf("reset practice statuses: %w", err)
	}
	return nil
}

var _ Store = (*Postgres)(nil)
