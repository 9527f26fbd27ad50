package scheduler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/studyplan/internal/config"
	"github.com/christopherklint97/studyplan/internal/planner"
	"github.com/christopherklint97/studyplan/internal/store"
)

type fakePlans struct {
	plan *store.Plan
	err  error
}

func (f fakePlans) LatestPlan() (*store.Plan, error) { return f.plan, f.err }

func day() civil.Date { return civil.Date{Year: 2024, Month: time.June, Day: 3} }

func sessions() []planner.Session {
	return []planner.Session{
		{ID: "exam", Subject: "Math", Date: day(), StartTime: planner.Midnight, EndTime: planner.EndOfDay, Type: planner.TypeExam},
		{ID: "s1", Subject: "Physics", Date: day(), StartTime: planner.MustClock("09:00"), EndTime: planner.MustClock("09:50"), Type: planner.TypeStudy},
		{ID: "r1", Subject: planner.RestSubject, Date: day(), StartTime: planner.MustClock("12:00"), EndTime: planner.MustClock("13:00"), Type: planner.TypeRest},
	}
}

func at(clock string) time.Time {
	c := planner.MustClock(clock)
	return time.Date(2024, time.June, 3, c.Hour(), c.Minute(), 0, 0, time.UTC)
}

func TestDue(t *testing.T) {
	assert.Empty(t, Due(sessions(), at("00:00"), 0))

	due := Due(sessions(), at("09:00"), 0)
	require.Len(t, due, 1)
	assert.Equal(t, "s1", due[0].ID)

	due = Due(sessions(), at("11:55"), 5*time.Minute)
	require.Len(t, due, 1)
	assert.Equal(t, "r1", due[0].ID)

	assert.Empty(t, Due(sessions(), at("09:01"), 0))
}

func TestMessage(t *testing.T) {
	title, msg := Message(sessions()[1])
	assert.Equal(t, "studyplan: Physics", title)
	assert.Equal(t, "Study Physics until 9:50 AM.", msg)

	title, msg = Message(sessions()[2])
	assert.Equal(t, "studyplan: break time", title)
	assert.Equal(t, "Take a break until 1:00 PM.", msg)
}

func TestNextAlignedTick(t *testing.T) {
	now := time.Date(2024, 6, 3, 9, 14, 30, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC), nextAlignedTick(now, time.Minute))
	assert.Equal(t, time.Date(2024, 6, 3, 9, 16, 0, 0, time.UTC), nextAlignedTick(now.Add(30*time.Second), time.Minute))
	assert.Equal(t, time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC), nextAlignedTick(now, 15*time.Minute))
	assert.Equal(t, time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC), nextAlignedTick(time.Date(2024, 6, 3, 9, 15, 0, 0, time.UTC), 15*time.Minute))
}

func TestTick(t *testing.T) {
	cfg := config.DefaultConfig()
	var sent []string
	s := New(&cfg, fakePlans{plan: &store.Plan{Sessions: sessions()}}, nil)
	s.notify = func(title, message string) error {
		sent = append(sent, title)
		return nil
	}

	s.tick(at("09:00"), 0)
	s.tick(at("10:00"), 0)
	assert.Equal(t, []string{"studyplan: Physics"}, sent)

	cfg.Notifications.Enabled = false
	s.tick(at("09:00"), 0)
	assert.Len(t, sent, 1)

	s.plans = fakePlans{err: errors.New("db closed")}
	s.tick(at("09:00"), 0)
	s.plans = fakePlans{}
	s.tick(at("09:00"), 0)
	assert.Len(t, sent, 1)
}

func TestPIDFileFollowsDataDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Data.Dir = filepath.Join(t.TempDir(), "data")
	s := New(&cfg, fakePlans{}, nil)

	_, err := ReadPID(&cfg)
	require.Error(t, err)

	require.NoError(t, s.writePID())
	assert.FileExists(t, filepath.Join(cfg.Data.Dir, "studyplan.pid"))

	pid, err := ReadPID(&cfg)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	s.removePID()
	assert.NoFileExists(t, cfg.PIDPath())
}
