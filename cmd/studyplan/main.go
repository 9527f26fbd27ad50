package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/studyplan/internal/config"
	"github.com/christopherklint97/studyplan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "studyplan",
	Short:        "Exam study schedule generator",
	Long:         "studyplan turns your exams, daily availability and weekly commitments into a day-by-day study plan, then helps you follow it.",
	SilenceUsage: true,
}

var (
	configFile string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ~/.config/studyplan/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(nowCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.ConfigPath()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openStore(cfg *config.Config) (*store.DB, error) {
	db, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// latestPlan loads the most recent plan, failing when none was generated yet.
func latestPlan(db *store.DB) (*store.Plan, error) {
	plan, err := db.LatestPlan()
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("no plan yet: run 'studyplan generate' first")
	}
	return plan, nil
}

// withPlan opens the store and hands the latest plan to fn.
func withPlan(fn func(cfg *config.Config, db *store.DB, plan *store.Plan) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	plan, err := latestPlan(db)
	if err != nil {
		return err
	}
	return fn(cfg, db, plan)
}
