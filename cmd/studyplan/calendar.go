package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/studyplan/internal/calendar"
	"github.com/christopherklint97/studyplan/internal/config"
	"github.com/christopherklint97/studyplan/internal/planner"
	"github.com/christopherklint97/studyplan/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export study and break sessions as an iCalendar file",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file-or-url>",
	Short: "Add the weekly commitments of a calendar as blocked times",
	Long: "Read one week of events from an iCalendar file or URL and add each timed event " +
		"to the preferences file as a blocked time on its weekday.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "studyplan.ics", "output file, - for stdout")

	importCmd.Flags().String("prefs", "", "preferences file (default from config)")
	importCmd.Flags().String("from", "", "first day of the week to read (default today)")
	importCmd.Flags().Bool("dry-run", false, "print the blocks without saving them")
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	return withPlan(func(cfg *config.Config, db *store.DB, plan *store.Plan) error {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		if output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		if err := calendar.Export(w, plan.Sessions, loc, time.Now()); err != nil {
			return err
		}
		if output != "-" {
			fmt.Printf("Exported plan to %s\n", output)
		}
		return nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	prefsPath, _ := cmd.Flags().GetString("prefs")
	from, _ := cmd.Flags().GetString("from")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	now := time.Now().In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if from != "" {
		d, err := parseDay(from, now)
		if err != nil {
			return err
		}
		start = d.In(loc)
	}
	end := start.AddDate(0, 0, 7)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events, err := calendar.Fetch(ctx, args[0], start, end)
	if err != nil {
		return err
	}
	blocks := calendar.Blocks(events, loc)
	logger.Debug("calendar read", "events", len(events), "blocks", len(blocks))

	if prefsPath == "" {
		prefsPath = cfg.Preferences.File
	}
	prefs, err := config.LoadPreferences(prefsPath)
	if err != nil {
		return err
	}

	added := mergeBlocks(&prefs, blocks)
	for _, b := range added {
		fmt.Printf("  %-9s %s  %s\n", b.Day, b.Window(), b.Name)
	}
	if len(added) == 0 {
		fmt.Println("No new commitments found.")
		return nil
	}
	if dryRun {
		fmt.Printf("%d blocks would be added to %s\n", len(added), prefsPath)
		return nil
	}

	if err := config.SavePreferences(prefsPath, prefs); err != nil {
		return err
	}
	fmt.Printf("Added %d blocks to %s\n", len(added), prefsPath)
	return nil
}

// mergeBlocks appends the blocks not already in p and returns them.
func mergeBlocks(p *planner.Preferences, blocks []planner.RecurringBlock) []planner.RecurringBlock {
	have := make(map[planner.RecurringBlock]bool, len(p.BlockedTimes))
	for _, b := range p.BlockedTimes {
		have[b] = true
	}
	var added []planner.RecurringBlock
	for _, b := range blocks {
		if have[b] {
			continue
		}
		have[b] = true
		p.BlockedTimes = append(p.BlockedTimes, b)
		added = append(added, b)
	}
	return added
}
