package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"licentia/internal/records/models"
)

// SQLite is the file-backed Store used by single-operator desktop installs.
// Use ":memory:" as the path for a throwaway database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and ensures the
// schema exists. Foreign keys are enabled so trainee deletion cascades.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recruiter (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		rep_code TEXT
	);

	CREATE TABLE IF NOT EXISTS trainee (
		id INTEGER PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		dob TEXT,
		recruiter_id INTEGER REFERENCES recruiter(id) ON DELETE SET NULL,
		rep_code TEXT,
		rvp_name TEXT,
		rvp_rep_code TEXT
	);

	CREATE TABLE IF NOT EXISTS class (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT,
		end_date TEXT
	);

	CREATE TABLE IF NOT EXISTS trainee_class (
		trainee_id INTEGER NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		class_id INTEGER NOT NULL REFERENCES class(id) ON DELETE CASCADE,
		PRIMARY KEY (trainee_id, class_id)
	);

	CREATE TABLE IF NOT EXISTS exam (
		id INTEGER PRIMARY KEY,
		trainee_id INTEGER NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		class_id INTEGER REFERENCES class(id) ON DELETE SET NULL,
		exam_date TEXT,
		module TEXT,
		is_practice INTEGER NOT NULL DEFAULT 0,
		passed INTEGER,
		score REAL,
		notes TEXT,
		reimbursement_requested INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_exam_trainee ON exam(trainee_id);
	CREATE INDEX IF NOT EXISTS idx_exam_date ON exam(exam_date);

	CREATE TABLE IF NOT EXISTS license (
		id INTEGER PRIMARY KEY,
		trainee_id INTEGER NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		application_submitted_date TEXT,
		approval_date TEXT,
		license_number TEXT,
		status TEXT,
		license_type TEXT,
		invoiced INTEGER NOT NULL DEFAULT 0,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_license_trainee ON license(trainee_id);

	CREATE TABLE IF NOT EXISTS practice_exam_status (
		trainee_id INTEGER NOT NULL REFERENCES trainee(id) ON DELETE CASCADE,
		module TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
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

func (s *SQLite) CreateRecruiter(ctx context.Context, r *models.Recruiter) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recruiter (name, email, phone, rep_code) VALUES (?, ?, ?, ?)`,
		r.Name, r.Email, r.Phone, r.RepCode)
	if err != nil {
		return 0, fmt.Errorf("create recruiter: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateRecruiter(ctx context.Context, r *models.Recruiter) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recruiter SET name = ?, email = ?, phone = ?, rep_code = ? WHERE id = ?`,
		r.Name, r.Email, r.Phone, r.RepCode, r.ID)
	if err != nil {
		return fmt.Errorf("update recruiter: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) DeleteRecruiter(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recruiter WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recruiter: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) GetRecruiter(ctx context.Context, id int64) (*models.Recruiter, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, rep_code FROM recruiter WHERE id = ?`, id)
	r, err := scanRecruiter(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get recruiter: %w", err)
	}
	return r, nil
}

func (s *SQLite) ListRecruiters(ctx context.Context) ([]*models.Recruiter, error) {
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

func (s *SQLite) CreateTrainee(ctx context.Context, t *models.Trainee) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO trainee (first_name, last_name, dob, recruiter_id, rep_code, rvp_name, rvp_rep_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.FirstName, t.LastName, t.DOB, t.RecruiterID, t.RepCode, t.RVPName, t.RVPRepCode)
	if err != nil {
		return 0, fmt.Errorf("create trainee: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateTrainee(ctx context.Context, t *models.Trainee) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE trainee SET first_name = ?, last_name = ?, dob = ?, recruiter_id = ?,
		        rep_code = ?, rvp_name = ?, rvp_rep_code = ?
		 WHERE id = ?`,
		t.FirstName, t.LastName, t.DOB, t.RecruiterID, t.RepCode, t.RVPName, t.RVPRepCode, t.ID)
	if err != nil {
		return fmt.Errorf("update trainee: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) DeleteTrainee(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trainee WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete trainee: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) GetTrainee(ctx context.Context, id int64) (*models.Trainee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, dob, recruiter_id, rep_code, rvp_name, rvp_rep_code
		 FROM trainee WHERE id = ?`, id)
	t, err := scanTrainee(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get trainee: %w", err)
	}
	return t, nil
}

func (s *SQLite) ListTrainees(ctx context.Context) ([]*models.TraineeRow, error) {
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

func (s *SQLite) ListTraineeIDs(ctx context.Context) ([]int64, error) {
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

func (s *SQLite) ListRecentTrainees(ctx context.Context, limit int) ([]*models.Trainee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, dob, recruiter_id, rep_code, rvp_name, rvp_rep_code
		 FROM trainee ORDER BY id DESC LIMIT ?`, limit)
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

func (s *SQLite) CountTrainees(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trainee`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trainees: %w", err)
	}
	return n, nil
}

func (s *SQLite) LinkTraineeToClass(ctx context.Context, traineeID, classID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO trainee_class (trainee_id, class_id) VALUES (?, ?)`,
		traineeID, classID)
	if err != nil {
		return fmt.Errorf("link trainee to class: %w", err)
	}
	return nil
}

// ==========================================================================
// Classes
// ==========================================================================

func (s *SQLite) CreateClass(ctx context.Context, c *models.Class) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO class (name, start_date, end_date) VALUES (?, ?, ?)`,
		c.Name, c.StartDate, c.EndDate)
	if err != nil {
		return 0, fmt.Errorf("create class: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateClass(ctx context.Context, c *models.Class) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE class SET name = ?, start_date = ?, end_date = ? WHERE id = ?`,
		c.Name, c.StartDate, c.EndDate, c.ID)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) DeleteClass(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM class WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) GetClass(ctx context.Context, id int64) (*models.Class, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, start_date, end_date FROM class WHERE id = ?`, id)
	c, err := scanClass(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}
	return c, nil
}

func (s *SQLite) ListClasses(ctx context.Context) ([]*models.Class, error) {
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

func (s *SQLite) CountActiveClasses(ctx context.Context, onDate string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM class WHERE end_date >= ?`, onDate).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active classes: %w", err)
	}
	return n, nil
}

// ==========================================================================
// Exams
// ==========================================================================

func (s *SQLite) CreateExam(ctx context.Context, e *models.Exam) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO exam (trainee_id, class_id, exam_date, module, is_practice, passed, score, notes, reimbursement_requested)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TraineeID, e.ClassID, e.Date, moduleArg(e.Module), e.IsPractice, e.Passed, e.Score, e.Notes, e.ReimbursementRequested)
	if err != nil {
		return 0, fmt.Errorf("create exam: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateExam(ctx context.Context, e *models.Exam) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE exam SET trainee_id = ?, class_id = ?, exam_date = ?, module = ?, is_practice = ?,
		        passed = ?, score = ?, notes = ?, reimbursement_requested = ?
		 WHERE id = ?`,
		e.TraineeID, e.ClassID, e.Date, moduleArg(e.Module), e.IsPractice, e.Passed, e.Score, e.Notes, e.ReimbursementRequested, e.ID)
	if err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) DeleteExam(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exam WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) GetExam(ctx context.Context, id int64) (*models.Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trainee_id, class_id, exam_date, module, is_practice, passed, score, notes, reimbursement_requested
		 FROM exam WHERE id = ?`, id)
	e, err := scanExam(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return e, nil
}

const examRowSelect = `
	SELECT e.id, e.trainee_id, e.class_id, e.exam_date, e.module, e.is_practice,
	       e.passed, e.score, e.notes, e.reimbursement_requested,
	       t.first_name, t.last_name, c.name
	FROM exam e
	JOIN trainee t ON e.trainee_id = t.id
	LEFT JOIN class c ON e.class_id = c.id`

func (s *SQLite) ListExams(ctx context.Context) ([]*models.ExamRow, error) {
	rows, err := s.db.QueryContext(ctx, examRowSelect+` ORDER BY e.exam_date DESC, e.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()
	return collectExamRows(rows)
}

func (s *SQLite) ListRecentExams(ctx context.Context, limit int) ([]*models.ExamRow, error) {
	rows, err := s.db.QueryContext(ctx,
		examRowSelect+` ORDER BY e.exam_date DESC, e.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent exams: %w", err)
	}
	defer rows.Close()
	return collectExamRows(rows)
}

func (s *SQLite) CountExams(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exam`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count exams: %w", err)
	}
	return n, nil
}

func (s *SQLite) CountPassedPractice(ctx context.Context, traineeID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exam WHERE trainee_id = ? AND is_practice = 1 AND passed = 1`,
		traineeID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count passed practice exams: %w", err)
	}
	return n, nil
}

func (s *SQLite) CountPassedSince(ctx context.Context, sinceDate string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exam WHERE passed = 1 AND exam_date >= ?`, sinceDate).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count recent passes: %w", err)
	}
	return n, nil
}

func (s *SQLite) ModuleTotals(ctx context.Context) (map[models.Module]ModuleTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT module, COUNT(*), SUM(CASE WHEN passed = 1 THEN 1 ELSE 0 END)
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

func (s *SQLite) RecruiterTotals(ctx context.Context) ([]*RecruiterTotal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.name,
		        COUNT(DISTINCT t.id),
		        COALESCE(SUM(CASE WHEN e.passed = 1 THEN 1 ELSE 0 END), 0),
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

func (s *SQLite) CreateLicense(ctx context.Context, l *models.License) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO license (trainee_id, application_submitted_date, approval_date, license_number, status, license_type, invoiced, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.TraineeID, l.SubmittedDate, l.ApprovalDate, l.Number, l.Status, l.Type, l.Invoiced, l.Notes)
	if err != nil {
		return 0, fmt.Errorf("create license: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateLicense(ctx context.Context, l *models.License) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE license SET trainee_id = ?, application_submitted_date = ?, approval_date = ?,
		        license_number = ?, status = ?, license_type = ?, invoiced = ?, notes = ?
		 WHERE id = ?`,
		l.TraineeID, l.SubmittedDate, l.ApprovalDate, l.Number, l.Status, l.Type, l.Invoiced, l.Notes, l.ID)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) DeleteLicense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM license WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete license: %w", err)
	}
	return requireRowAffected(res)
}

func (s *SQLite) GetLicense(ctx context.Context, id int64) (*models.License, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trainee_id, application_submitted_date, approval_date, license_number, status, license_type, invoiced, notes
		 FROM license WHERE id = ?`, id)
	l, err := scanLicense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get license: %w", err)
	}
	return l, nil
}

const licenseRowSelect = `
	SELECT l.id, l.trainee_id, l.application_submitted_date, l.approval_date,
	       l.license_number, l.status, l.license_type, l.invoiced, l.notes,
	       t.first_name, t.last_name
	FROM license l
	JOIN trainee t ON l.trainee_id = t.id`

func (s *SQLite) ListLicenses(ctx context.Context) ([]*models.LicenseRow, error) {
	rows, err := s.db.QueryContext(ctx,
		licenseRowSelect+` ORDER BY l.application_submitted_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()
	return collectLicenseRows(rows)
}

func (s *SQLite) ListRecentLicenses(ctx context.Context, limit int) ([]*models.LicenseRow, error) {
	rows, err := s.db.QueryContext(ctx,
		licenseRowSelect+` ORDER BY l.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent licenses: %w", err)
	}
	defer rows.Close()
	return collectLicenseRows(rows)
}

func (s *SQLite) LatestForTrainee(ctx context.Context, traineeID int64) (*models.License, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, trainee_id, application_submitted_date, approval_date, license_number, status, license_type, invoiced, notes
		 FROM license WHERE trainee_id = ?
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

func (s *SQLite) CountPendingLicenses(ctx context.Context) (int, error) {
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

func (s *SQLite) SetPracticeStatus(ctx context.Context, traineeID int64, module models.Module, completed bool, now time.Time) error {
	var completedDate *string
	if completed {
		stamp := now.UTC().Format(CompletionDateFormat)
		completedDate = &stamp
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO practice_exam_status (trainee_id, module, completed, completed_date)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (trainee_id, module) DO UPDATE SET
		 	completed = excluded.completed,
		 	completed_date = excluded.completed_date`,
		traineeID, string(module), completed, completedDate)
	if err != nil {
		return fmt.Errorf("set practice status: %w", err)
	}
	return nil
}

func (s *SQLite) PracticeStatusForTrainee(ctx context.Context, traineeID int64) (map[models.Module]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT module, completed FROM practice_exam_status WHERE trainee_id = ?`, traineeID)
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

func (s *SQLite) CompletionDates(ctx context.Context, traineeID int64) (map[models.Module]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT module, completed_date FROM practice_exam_status
		 WHERE trainee_id = ? AND completed = 1 AND completed_date IS NOT NULL`, traineeID)
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

func (s *SQLite) CountCompletedModules(ctx context.Context, traineeID int64, modules []models.Module) (int, error) {
	if len(modules) == 0 {
		return 0, nil
	}
	query := `SELECT COUNT(*) FROM practice_exam_status
	          WHERE trainee_id = ? AND completed = 1 AND module IN (?` +
		repeatPlaceholder(len(modules)-1) + `)`
	args := make([]any, 0, len(modules)+1)
	args = append(args, traineeID)
	for _, m := range modules {
		args = append(args, string(m))
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count completed modules: %w", err)
	}
	return n, nil
}

func (s *SQLite) ResetPracticeStatuses(ctx context.Context, traineeID int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE practice_exam_status SET completed = 0, completed_date = NULL WHERE trainee_id = ?`,
		traineeID)
	if err != nil {
		return fmt.Errorf("reset practice statuses: %w", err)
	}
	return nil
}

var _ Store = (*SQLite)(nil)
