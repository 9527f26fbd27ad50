package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	_ "time/tzdata"

	"github.com/christopherklint97/studyplan/internal/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	t.Setenv("STUDYPLAN_DATA_DIR", t.TempDir())
	t.Setenv("STUDYPLAN_PREFERENCES", "")
	t.Setenv("STUDYPLAN_LOG_LEVEL", "")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, planner.DefaultRules(), cfg.Rules)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.Equal(t, filepath.Join(cfg.Data.Dir, "preferences.json"), cfg.Preferences.File)
	assert.Equal(t, filepath.Join(cfg.Data.Dir, "studyplan.db"), cfg.DBPath())
}

func TestLoadFile_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[data]
dir = "/tmp/studyplan-data"

[rules]
study_minutes = 45
long_break_after = 4

[export]
timezone = "Europe/Stockholm"

[log]
level = "debug"
`), 0644))
	t.Setenv("STUDYPLAN_DATA_DIR", "")
	t.Setenv("STUDYPLAN_TIMEZONE", "")
	t.Setenv("STUDYPLAN_LOG_LEVEL", "warn")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/studyplan-data", cfg.Data.Dir)
	assert.Equal(t, 45, cfg.Rules.StudyMinutes)
	assert.Equal(t, 4, cfg.Rules.LongBreakAfter)
	assert.Equal(t, planner.DefaultLongBreakMinutes, cfg.Rules.LongBreakMinutes)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Stockholm", loc.String())
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[rules\nstudy_minutes = "), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestPreferencesRoundTripFormats(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "prefs.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
name = "Noor"
start_date = "2024-04-01"
daily_start = "08:00"
daily_end = "18:00"
max_study_hours = 3
chronotype = "morning"

[[exams]]
subject = "Chemistry"
date = "2024-04-12"
difficulty = 8
priority = 2

[[blocked_times]]
day = "Everyday"
start = "12:00"
end = "13:00"
name = "Lunch"

[school_schedule.weekly.Monday]
has_school = true
start = "08:30"
end = "14:30"
`), 0644))

	p, err := LoadPreferences(tomlPath)
	require.NoError(t, err)
	require.NoError(t, planner.Validate(p))
	assert.Equal(t, "Noor", p.Name)
	assert.Equal(t, planner.NewClock("18:00"), p.DailyEnd)
	require.Len(t, p.Exams, 1)
	assert.Equal(t, "Chemistry", p.Exams[0].Subject)
	assert.Equal(t, "Lunch", p.BlockedTimes[0].Name)
	assert.True(t, p.SchoolSchedule.Weekly["Monday"].HasSchool)

	jsonPath := filepath.Join(dir, "nested", "prefs.json")
	require.NoError(t, SavePreferences(jsonPath, p))
	back, err := LoadPreferences(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	rewritten := filepath.Join(dir, "rewritten.toml")
	require.NoError(t, SavePreferences(rewritten, p))
	back, err = LoadPreferences(rewritten)
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestSaveRulesPreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0644))

	rules := planner.DefaultRules()
	rules.StudyMinutes = 40
	require.NoError(t, SaveRules(path, rules))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Rules.StudyMinutes)
	assert.Equal(t, "debug", cfg.Log.Level)
}
