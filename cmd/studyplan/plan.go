package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/studyplan/internal/config"
	"github.com/christopherklint97/studyplan/internal/planner"
	"github.com/christopherklint97/studyplan/internal/report"
	"github.com/christopherklint97/studyplan/internal/store"
	"github.com/christopherklint97/studyplan/internal/tui"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new plan from the preferences file",
	RunE:  runGenerate,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Browse the plan day by day",
	RunE:  runShow,
}

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "List the sessions of one day (default today)",
	Long:  "List the sessions of one day. The date is YYYY-MM-DD or a phrase such as \"tomorrow\" or \"next friday\".",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDay,
}

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show what to do right now and what comes next",
	RunE:  runNow,
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Count down the study session running now",
	RunE:  runFocus,
}

var checkCmd = &cobra.Command{
	Use:   "check <session-id>",
	Short: "Mark a session as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show plan statistics",
	RunE:  runStats,
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a short summary to share",
	RunE:  runShare,
}

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the whole plan as a checklist",
	RunE:  runPrint,
}

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Show a month with study and exam days marked",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendar,
}

func init() {
	generateCmd.Flags().String("prefs", "", "preferences file (default from config)")
	generateCmd.Flags().String("start", "", "override the start date (YYYY-MM-DD or e.g. \"next monday\")")
	generateCmd.Flags().Bool("json", false, "print the generated sessions as JSON")

	checkCmd.Flags().Bool("undo", false, "clear the completed mark instead")

	printCmd.Flags().StringP("output", "o", "", "write to a file instead of stdout")
}

// parseDay accepts an ISO date or a natural-language phrase relative to now.
func parseDay(s string, now time.Time) (civil.Date, error) {
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := naturaldate.Parse(s, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return civil.Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return civil.DateOf(t), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// findSession resolves a session by id or unique id prefix.
func findSession(sessions []planner.Session, ref string) (planner.Session, error) {
	var matches []planner.Session
	for _, s := range sessions {
		if s.ID == ref {
			return s, nil
		}
		if strings.HasPrefix(s.ID, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return planner.Session{}, fmt.Errorf("no session with id %q", ref)
	case 1:
		return matches[0], nil
	default:
		return planner.Session{}, fmt.Errorf("session id %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prefsPath, _ := cmd.Flags().GetString("prefs")
	start, _ := cmd.Flags().GetString("start")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if prefsPath == "" {
		prefsPath = cfg.Preferences.File
	}
	prefs, err := config.LoadPreferences(prefsPath)
	if err != nil {
		return err
	}
	if start != "" {
		d, err := parseDay(start, time.Now())
		if err != nil {
			return err
		}
		prefs.StartDate = d
	}

	gen := planner.New(planner.WithRules(cfg.Rules), planner.WithLogger(logger))
	sessions, err := gen.Generate(prefs)
	if err != nil {
		var verr *planner.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s: %w", prefsPath, err)
		}
		return fmt.Errorf("generating plan: %w", err)
	}

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.SavePlan(&store.Plan{Preferences: prefs, Sessions: sessions}); err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	from, to := gen.Horizon(prefs)
	st := planner.Summarize(sessions)
	fmt.Printf("Generated %d sessions from %s to %s\n", len(sessions), from, to)
	fmt.Printf("  %d study sessions, %d breaks, %d exams\n", st.StudySessions, st.RestSessions, st.ExamDays)
	fmt.Printf("  %.1fh of study over %d days\n", st.TotalHours, st.DaysWithStudy)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		completed, err := db.Completed()
		if err != nil {
			return fmt.Errorf("loading completions: %w", err)
		}

		app := tui.NewApp(plan.Preferences.Name, plan.Sessions, completed, db, time.Now())
		if _, err := tea.NewProgram(app).Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	})
}

func runDay(cmd *cobra.Command, args []string) error {
	now := time.Now()
	day := civil.DateOf(now)
	if len(args) == 1 {
		d, err := parseDay(args[0], now)
		if err != nil {
			return err
		}
		day = d
	}

	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		completed, err := db.Completed()
		if err != nil {
			return fmt.Errorf("loading completions: %w", err)
		}

		sessions := planner.ForDay(plan.Sessions, day)
		fmt.Println(report.FormatDate(day))
		if len(sessions) == 0 {
			fmt.Println("  No scheduled activities on this day. Free time!")
			return nil
		}

		studied := 0
		for _, s := range sessions {
			box := "[ ]"
			if completed[s.ID] {
				box = "[x]"
			}
			when := fmt.Sprintf("%8s - %-8s", s.StartTime.Format12(), s.EndTime.Format12())
			if s.Type == planner.TypeExam {
				when = fmt.Sprintf("%-19s", "all day")
			}
			fmt.Printf("  %s %s  %-5s  %-20s  %s\n", box, when, strings.ToUpper(string(s.Type)), s.Subject, shortID(s.ID))
			if s.Type == planner.TypeStudy {
				studied += s.Duration
			}
		}
		fmt.Printf("\nStudy: %dh %dmin\n", studied/60, studied%60)
		return nil
	})
}

func runNow(cmd *cobra.Command, args []string) error {
	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		fmt.Println(tui.Status(plan.Sessions, time.Now()))
		return nil
	})
}

func runFocus(cmd *cobra.Command, args []string) error {
	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		completed, err := db.Completed()
		if err != nil {
			return fmt.Errorf("loading completions: %w", err)
		}

		app := tui.NewApp(plan.Preferences.Name, plan.Sessions, completed, db, time.Now())
		if !app.OpenFocus() {
			return fmt.Errorf("no study session is running right now")
		}
		if _, err := tea.NewProgram(app).Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	})
}

func runCheck(cmd *cobra.Command, args []string) error {
	undo, _ := cmd.Flags().GetBool("undo")

	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		s, err := findSession(plan.Sessions, args[0])
		if err != nil {
			return err
		}
		if err := db.SetCompleted(s.ID, !undo); err != nil {
			return fmt.Errorf("saving completion: %w", err)
		}

		mark := "Completed"
		if undo {
			mark = "Unchecked"
		}
		fmt.Printf("%s: %s on %s at %s\n", mark, s.Subject, report.FormatDate(s.Date), s.StartTime.Format12())
		return nil
	})
}

func runStats(cmd *cobra.Command, args []string) error {
	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		completed, err := db.Completed()
		if err != nil {
			return fmt.Errorf("loading completions: %w", err)
		}
		streak, err := db.FocusStreak()
		if err != nil {
			return fmt.Errorf("loading focus streak: %w", err)
		}

		st := planner.Summarize(plan.Sessions)
		fmt.Printf("Total study:     %.1fh\n", st.TotalHours)
		fmt.Printf("Study days:      %d\n", st.DaysWithStudy)
		fmt.Printf("Study sessions:  %d\n", st.StudySessions)
		fmt.Printf("Breaks:          %d\n", st.RestSessions)
		fmt.Printf("Exams:           %d\n", st.ExamDays)
		fmt.Printf("Completion:      %d%%\n", planner.CompletionRate(plan.Sessions, completed))
		fmt.Printf("Focus streak:    %d\n", streak)

		subjects := make([]string, 0, len(st.MinutesBySubject))
		for s := range st.MinutesBySubject {
			subjects = append(subjects, s)
		}
		sort.Strings(subjects)
		if len(subjects) > 0 {
			fmt.Println("\nBy subject:")
		}
		for _, s := range subjects {
			m := st.MinutesBySubject[s]
			fmt.Printf("  %-20s %dh %dmin\n", s, m/60, m%60)
		}
		return nil
	})
}

func runShare(cmd *cobra.Command, args []string) error {
	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		completed, err := db.Completed()
		if err != nil {
			return fmt.Errorf("loading completions: %w", err)
		}
		fmt.Print(report.ShareText(plan.Preferences.Name, plan.Sessions, completed, time.Now()))
		return nil
	})
}

func runPrint(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		completed, err := db.Completed()
		if err != nil {
			return fmt.Errorf("loading completions: %w", err)
		}

		text := report.Printable(plan.Preferences.Name, plan.Sessions, completed, time.Now())
		if output == "" {
			fmt.Print(text)
			return nil
		}
		if err := os.WriteFile(output, []byte(text), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Printf("Plan written to %s\n", output)
		return nil
	})
}

func runCalendar(cmd *cobra.Command, args []string) error {
	month := time.Now()
	if len(args) == 1 {
		m, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("parsing month %q: expected YYYY-MM", args[0])
		}
		month = m
	}

	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		fmt.Print(report.MonthGrid(month.Year(), month.Month(), plan.Sessions))
		fmt.Println("\nS = study day, E = exam day")
		return nil
	})
}
