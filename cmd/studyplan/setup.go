package main

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"time"

	"cloud.google.com/go/civil"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/studyplan/internal/config"
	"github.com/christopherklint97/studyplan/internal/planner"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write an example preferences file to edit",
	RunE:  runInit,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the preferences file",
	RunE:  runSchema,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show or change session lengths and break rules",
	RunE:  runRules,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	initCmd.Flags().String("prefs", "", "preferences file to create (default from config)")
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	rulesCmd.Flags().Int("study-minutes", 0, "length of a study session")
	rulesCmd.Flags().Int("short-break-minutes", 0, "gap after each study session")
	rulesCmd.Flags().Int("long-break-minutes", 0, "length of the long break")
	rulesCmd.Flags().Int("long-break-after", 0, "study sessions before a long break")
	rulesCmd.Flags().Int("max-days", 0, "upper bound on planned days")
	rulesCmd.Flags().Int("fallback-step-minutes", 0, "cursor step when no exam can be scheduled")
}

// examplePreferences is a starting point with two exams and a school week.
func examplePreferences(today civil.Date) planner.Preferences {
	school := planner.SchoolDay{HasSchool: true, Start: planner.MustClock("08:00"), End: planner.MustClock("15:00")}
	weekly := make(map[string]planner.SchoolDay)
	for d := time.Monday; d <= time.Friday; d++ {
		weekly[d.String()] = school
	}

	return planner.Preferences{
		Name:          "Student",
		StartDate:     today,
		DailyStart:    planner.NewClock("08:00"),
		DailyEnd:      planner.NewClock("21:00"),
		MaxStudyHours: 4,
		Chronotype:    planner.Afternoon,
		Exams: []planner.Exam{
			{ID: "math", Subject: "Mathematics", Date: today.AddDays(14), Difficulty: 8, Priority: planner.PriorityHigh},
			{ID: "history", Subject: "History", Date: today.AddDays(21), Difficulty: 5, Priority: planner.PriorityNormal},
		},
		BlockedTimes: []planner.RecurringBlock{
			{Day: planner.Everyday, Start: planner.MustClock("18:00"), End: planner.MustClock("19:00"), Name: "Dinner"},
			{Day: "Wednesday", Start: planner.MustClock("16:00"), End: planner.MustClock("17:30"), Name: "Football practice"},
		},
		SchoolSchedule: planner.SchoolSchedule{Weekly: weekly},
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	prefsPath, _ := cmd.Flags().GetString("prefs")
	force, _ := cmd.Flags().GetBool("force")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if prefsPath == "" {
		prefsPath = cfg.Preferences.File
	}

	if _, err := os.Stat(prefsPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", prefsPath)
	}

	if err := config.SavePreferences(prefsPath, examplePreferences(civil.DateOf(time.Now()))); err != nil {
		return err
	}
	fmt.Printf("Wrote example preferences to %s\n", prefsPath)
	fmt.Println("Edit it, then run 'studyplan generate'.")
	return nil
}

// preferencesSchema describes the preferences document. Clock values and
// dates are strings on the wire.
func preferencesSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(planner.Clock(0)):
				return &jsonschema.Schema{Type: "string", Pattern: `^([01]?[0-9]|2[0-3]):[0-5][0-9]$`}
			case reflect.TypeOf(civil.Date{}):
				return &jsonschema.Schema{Type: "string", Format: "date"}
			}
			return nil
		},
	}
	schema := r.Reflect(&planner.Preferences{})
	schema.Title = "studyplan preferences"
	return json.MarshalIndent(schema, "", "  ")
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := preferencesSchema()
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fields := []struct {
		flag  string
		value *int
	}{
		{"study-minutes", &cfg.Rules.StudyMinutes},
		{"short-break-minutes", &cfg.Rules.ShortBreakMinutes},
		{"long-break-minutes", &cfg.Rules.LongBreakMinutes},
		{"long-break-after", &cfg.Rules.LongBreakAfter},
		{"max-days", &cfg.Rules.MaxDays},
		{"fallback-step-minutes", &cfg.Rules.FallbackStep},
	}

	changed := false
	for _, f := range fields {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		v, _ := cmd.Flags().GetInt(f.flag)
		if v <= 0 && f.flag != "short-break-minutes" {
			return fmt.Errorf("--%s must be positive", f.flag)
		}
		if v < 0 {
			return fmt.Errorf("--%s must not be negative", f.flag)
		}
		*f.value = v
		changed = true
	}

	if changed {
		path, err := configPath()
		if err != nil {
			return err
		}
		if err := config.SaveRules(path, cfg.Rules); err != nil {
			return fmt.Errorf("saving rules: %w", err)
		}
		fmt.Printf("Saved rules to %s\n\n", path)
	}

	for _, f := range fields {
		fmt.Printf("  %-22s %d\n", f.flag, *f.value)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Create default config file
		cfg := config.DefaultConfig()
		data := fmt.Sprintf(`[data]
# dir = "~/.config/studyplan"

[preferences]
# file = "~/.config/studyplan/preferences.json"

[rules]
study_minutes = %d
short_break_minutes = %d
long_break_minutes = %d
long_break_after = %d
max_days = %d
fallback_step_minutes = %d

[notifications]
enabled = %t
lead_minutes = %d

[export]
timezone = ""

[log]
level = "%s"
`,
			cfg.Rules.StudyMinutes,
			cfg.Rules.ShortBreakMinutes,
			cfg.Rules.LongBreakMinutes,
			cfg.Rules.LongBreakAfter,
			cfg.Rules.MaxDays,
			cfg.Rules.FallbackStep,
			cfg.Notifications.Enabled,
			cfg.Notifications.LeadMinutes,
			cfg.Log.Level,
		)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", path, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, path}, &proc)
	if err != nil {
		// If editor fails, just print the path
		fmt.Printf("Could not open editor. Config file is at: %s\n", path)
		return nil
	}
	_, err = process.Wait()
	return err
}
