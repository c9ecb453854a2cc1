package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"licentia/internal/eligibility"
	"licentia/internal/export"
	"licentia/internal/platform/config"
	"licentia/internal/platform/logger"
	"licentia/internal/records/models"
	"licentia/internal/records/service"
	"licentia/internal/records/store"
	"licentia/internal/reporting"
)

// app bundles the wired services behind the menu.
type app struct {
	records     *service.Service
	eligibility *eligibility.Service
	reports     *reporting.Service
	exports     *export.Service
	store       store.Store
	in          *bufio.Scanner
}

func main() {
	// A .env file is a convenience, not a requirement.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logg := logger.New(cfg.LogLevel)

	st, err := openStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	elig := eligibility.New(st, st, eligibility.WithLogger(logg))
	records := service.New(st,
		service.WithLogger(logg),
		service.WithReimbursementChecker(elig),
	)
	reports := reporting.New(st, st, st, st, elig, reporting.WithLogger(logg))
	exports := export.New(st, st, st)

	a := &app{
		records:     records,
		eligibility: elig,
		reports:     reports,
		exports:     exports,
		store:       st,
		in:          bufio.NewScanner(os.Stdin),
	}
	a.run()
}

func openStore(cfg config.App) (store.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return store.NewSQLite(cfg.DBPath)
	case "postgres":
		return store.NewPostgres(cfg.DBConn)
	case "memory":
		return store.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}

func (a *app) run() {
	ctx := context.Background()
	for {
		displayMenu()
		switch a.readLine() {
		case "1":
			a.listTrainees(ctx)
		case "2":
			a.listRecruiters(ctx)
		case "3":
			a.listClasses(ctx)
		case "4":
			a.listExams(ctx)
		case "5":
			a.listLicenses(ctx)
		case "6":
			a.updatePracticeStatus(ctx)
		case "7":
			a.showDashboard(ctx)
		case "8":
			a.showRecentActivity(ctx)
		case "9":
			a.showRecruiterReport(ctx)
		case "10":
			a.showModuleStats(ctx)
		case "11":
			a.checkGuarantee(ctx)
		case "12":
			a.exportCSV(ctx)
		case "13":
			color.Green("Goodbye!")
			return
		default:
			color.Red("Invalid choice. Please try again.")
		}
	}
}

func displayMenu() {
	color.Cyan("\n=== Licensing Training Office ===")
	fmt.Println("1. List Trainees")
	fmt.Println("2. List Recruiters")
	fmt.Println("3. List Classes")
	fmt.Println("4. List Exams")
	fmt.Println("5. List Licenses")
	fmt.Println("6. Update Practice Status")
	fmt.Println("7. Dashboard")
	fmt.Println("8. Recent Activity")
	fmt.Println("9. Recruiter Performance")
	fmt.Println("10. Exam Module Statistics")
	fmt.Println("11. Guarantee Check")
	fmt.Println("12. Export CSV")
	fmt.Println("13. Exit")
	fmt.Print("\nEnter your choice (1-13): ")
}

func (a *app) readLine() string {
	if a.in.Scan() {
		return strings.TrimSpace(a.in.Text())
	}
	return "13"
}

func (a *app) readID(prompt string) (int64, bool) {
	fmt.Print(prompt)
	id, err := strconv.ParseInt(a.readLine(), 10, 64)
	if err != nil {
		color.Red("Not a valid id.")
		return 0, false
	}
	return id, true
}

func (a *app) listTrainees(ctx context.Context) {
	rows, err := a.records.ListTrainees(ctx)
	if err != nil {
		color.Red("Error listing trainees: %v", err)
		return
	}

	color.Yellow("\nTrainees")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "DOB", "Recruiter", "Rep Code"})
	for _, t := range rows {
		table.Append([]string{
			strconv.FormatInt(t.ID, 10),
			t.FirstName + " " + t.LastName,
			deref(t.DOB),
			deref(t.RecruiterName),
			deref(t.RepCode),
		})
	}
	table.Render()
}

func (a *app) listRecruiters(ctx context.Context) {
	rows, err := a.records.ListRecruiters(ctx)
	if err != nil {
		color.Red("Error listing recruiters: %v", err)
		return
	}

	color.Yellow("\nRecruiters")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Email", "Phone", "Rep Code"})
	for _, r := range rows {
		table.Append([]string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			deref(r.Email),
			deref(r.Phone),
			deref(r.RepCode),
		})
	}
	table.Render()
}

func (a *app) listClasses(ctx context.Context) {
	rows, err := a.records.ListClasses(ctx)
	if err != nil {
		color.Red("Error listing classes: %v", err)
		return
	}

	color.Yellow("\nClasses")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Start", "End"})
	for _, c := range rows {
		table.Append([]string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			deref(c.StartDate),
			deref(c.EndDate),
		})
	}
	table.Render()
}

func (a *app) listExams(ctx context.Context) {
	rows, err := a.records.ListExams(ctx)
	if err != nil {
		color.Red("Error listing exams: %v", err)
		return
	}

	color.Yellow("\nExams")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Trainee", "Date", "Module", "Practice", "Result", "Reimb."})
	for _, e := range rows {
		module := ""
		if e.Module != nil {
			module = string(*e.Module)
		}
		result := "Taken"
		if e.Passed != nil {
			if *e.Passed {
				result = "Passed"
			} else {
				result = "Failed"
			}
		}
		table.Append([]string{
			strconv.FormatInt(e.ID, 10),
			e.TraineeFirstName + " " + e.TraineeLastName,
			deref(e.Date),
			module,
			strconv.FormatBool(e.IsPractice),
			result,
			strconv.FormatBool(e.ReimbursementRequested),
		})
	}
	table.Render()
}

func (a *app) listLicenses(ctx context.Context) {
	rows, err := a.records.ListLicenses(ctx)
	if err != nil {
		color.Red("Error listing licenses: %v", err)
		return
	}

	color.Yellow("\nLicenses")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Trainee", "Submitted", "Approved", "Number", "Status"})
	for _, l := range rows {
		table.Append([]string{
			strconv.FormatInt(l.ID, 10),
			l.TraineeFirstName + " " + l.TraineeLastName,
			deref(l.SubmittedDate),
			deref(l.ApprovalDate),
			deref(l.Number),
			deref(l.Status),
		})
	}
	table.Render()
}

func (a *app) updatePracticeStatus(ctx context.Context) {
	traineeID, ok := a.readID("Trainee id: ")
	if !ok {
		return
	}

	required := models.RequiredModules()
	for i, m := range required {
		fmt.Printf("%d. %s\n", i+1, m)
	}
	fmt.Print("Module number: ")
	idx, err := strconv.Atoi(a.readLine())
	if err != nil || idx < 1 || idx > len(required) {
		color.Red("Not a valid module.")
		return
	}

	fmt.Print("Completed? (y/n): ")
	completed := strings.EqualFold(a.readLine(), "y")

	if err := a.records.SetPracticeStatus(ctx, traineeID, required[idx-1], completed); err != nil {
		color.Red("Error updating practice status: %v", err)
		return
	}
	color.Green("Practice status updated.")

	summary := a.eligibility.PracticeModuleSummary(ctx, traineeID)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Module", "Completed"})
	for _, m := range required {
		table.Append([]string{string(m), strconv.FormatBool(summary[m])})
	}
	table.Render()
}

func (a *app) showDashboard(ctx context.Context) {
	stats := a.reports.DashboardStats(ctx)

	color.Yellow("\nDashboard")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total Trainees", strconv.Itoa(stats.TotalTrainees)})
	table.Append([]string{"Total Exams", strconv.Itoa(stats.TotalExams)})
	table.Append([]string{"Recent Passes (30d)", strconv.Itoa(stats.RecentPasses)})
	table.Append([]string{"Pending Licenses", strconv.Itoa(stats.PendingLicenses)})
	table.Append([]string{"Active Classes", strconv.Itoa(stats.ActiveClasses)})
	table.Append([]string{"Ready for Provincial", strconv.Itoa(stats.ReadyForProvincial)})
	table.Render()
}

func (a *app) showRecentActivity(ctx context.Context) {
	feed := a.reports.RecentActivity(ctx)

	color.Yellow("\nRecent Activity")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Type", "Activity", "Date"})
	for _, item := range feed {
		table.Append([]string{item.Type, item.Label, item.Timestamp})
	}
	table.Render()
}

func (a *app) showRecruiterReport(ctx context.Context) {
	report := a.reports.RecruiterPerformanceReport(ctx)

	color.Yellow("\nRecruiter Performance")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Recruiter", "Trainees", "Passes", "Exams", "Pass Rate"})
	for _, row := range report {
		table.Append([]string{
			row.Recruiter,
			strconv.Itoa(row.TraineeCount),
			strconv.Itoa(row.PassCount),
			strconv.Itoa(row.TotalExams),
			row.PassRate,
		})
	}
	table.Render()
}

func (a *app) showModuleStats(ctx context.Context) {
	stats := a.reports.ExamModuleStats(ctx)

	color.Yellow("\nExam Module Statistics")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Module", "Total", "Passes", "Pass Rate"})
	for _, st := range stats {
		table.Append([]string{
			string(st.Module),
			strconv.Itoa(st.Total),
			strconv.Itoa(st.Passes),
			st.PassRate,
		})
	}
	table.Render()
}

func (a *app) checkGuarantee(ctx context.Context) {
	traineeID, ok := a.readID("Trainee id: ")
	if !ok {
		return
	}
	fmt.Print("First provincial exam date (YYYY-MM-DD): ")
	examDate := a.readLine()

	if a.eligibility.QualifiesForGuarantee(ctx, traineeID, examDate) {
		color.Green("Trainee qualifies for the pass guarantee.")
	} else {
		color.Red("Trainee does not qualify for the pass guarantee.")
	}

	if a.eligibility.ReadyForReimbursement(ctx, traineeID) {
		color.Green("Trainee has earned the exam fee reimbursement.")
	}
}

func (a *app) exportCSV(ctx context.Context) {
	fmt.Print("Dataset (trainees/licenses/recruiters): ")
	dataset := strings.ToLower(a.readLine())
	fmt.Print("Output file: ")
	path := a.readLine()

	// Render into memory first so a failed or empty export leaves no file.
	var buf bytes.Buffer
	var err error
	switch dataset {
	case "trainees":
		err = a.exports.Trainees(ctx, &buf)
	case "licenses":
		err = a.exports.Licenses(ctx, &buf)
	case "recruiters":
		err = a.exports.Recruiters(ctx, &buf)
	default:
		color.Red("Unknown dataset %q.", dataset)
		return
	}
	if err != nil {
		color.Red("Export failed: %v", err)
		return
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		color.Red("Error writing file: %v", err)
		return
	}
	color.Green("Exported %s to %s.", dataset, path)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
