package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/christopherklint97/studyplan/internal/config"
	"github.com/christopherklint97/studyplan/internal/planner"
	"github.com/christopherklint97/studyplan/internal/store"
)

// PlanSource yields the plan to remind about. It is read on every tick so a
// regenerated plan is picked up without restarting.
type PlanSource interface {
	LatestPlan() (*store.Plan, error)
}

type Scheduler struct {
	cfg    *config.Config
	plans  PlanSource
	notify func(title, message string) error
	logger *slog.Logger
}

func New(cfg *config.Config, plans PlanSource, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		cfg:    cfg,
		plans:  plans,
		notify: SendNotification,
		logger: logger,
	}
}

func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.writePID(); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer s.removePID()

	lead := time.Duration(s.cfg.Notifications.LeadMinutes) * time.Minute
	fmt.Printf("Reminders started (lead: %s)\n", lead)

	for {
		nextTick := nextAlignedTick(time.Now(), time.Minute)

		select {
		case <-ctx.Done():
			fmt.Println("\nReminders stopped.")
			return nil
		case <-time.After(time.Until(nextTick)):
		}

		s.tick(nextTick, lead)
	}
}

func (s *Scheduler) tick(at time.Time, lead time.Duration) {
	plan, err := s.plans.LatestPlan()
	if err != nil {
		s.logger.Error("loading plan", "error", err)
		return
	}
	if plan == nil {
		return
	}

	for _, session := range Due(plan.Sessions, at, lead) {
		title, message := Message(session)
		s.logger.Info("session starting", "id", session.ID, "subject", session.Subject, "start", session.StartTime.String())
		if !s.cfg.Notifications.Enabled {
			continue
		}
		if err := s.notify(title, message); err != nil {
			s.logger.Warn("sending notification", "error", err)
		}
	}
}

// Due returns the study and rest sessions that start within the minute
// beginning at at+lead.
func Due(sessions []planner.Session, at time.Time, lead time.Duration) []planner.Session {
	from := at.Add(lead).Truncate(time.Minute)
	to := from.Add(time.Minute)

	var due []planner.Session
	for _, s := range sessions {
		if s.Type == planner.TypeExam {
			continue
		}
		start := s.Start(at.Location())
		if !start.Before(from) && start.Before(to) {
			due = append(due, s)
		}
	}
	return due
}

// Message builds the notification text for a session.
func Message(s planner.Session) (string, string) {
	switch s.Type {
	case planner.TypeRest:
		return "studyplan: break time", fmt.Sprintf("Take a break until %s.", s.EndTime.Format12())
	default:
		return "studyplan: " + s.Subject, fmt.Sprintf("Study %s until %s.", s.Subject, s.EndTime.Format12())
	}
}

func nextAlignedTick(now time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		interval = time.Minute
	}
	next := now.Truncate(interval)
	if !next.After(now) {
		next = next.Add(interval)
	}
	return next
}

func (s *Scheduler) writePID() error {
	if err := os.MkdirAll(s.cfg.Data.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(s.cfg.PIDPath(), []byte(strconv.Itoa(os.Getpid())), 0644)
}

func (s *Scheduler) removePID() {
	os.Remove(s.cfg.PIDPath())
}

// ReadPID returns the process id of the reminder loop running against cfg's
// data directory.
func ReadPID(cfg *config.Config) (int, error) {
	path := cfg.PIDPath()

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("no running reminder loop found")
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file")
	}

	return pid, nil
}
