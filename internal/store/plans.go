package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/christopherklint97/studyplan/internal/planner"
)

// Plan is the persisted document: the preferences a plan was generated
// from together with its sessions.
type Plan struct {
	ID          int64               `json:"-"`
	Preferences planner.Preferences `json:"preferences"`
	Sessions    []planner.Session   `json:"sessions"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

const focusStreakKey = "focus_streak"

// SavePlan stores p as the latest plan. Completion flags belong to the
// replaced plan's sessions and are cleared.
func (db *DB) SavePlan(p *Plan) (int64, error) {
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now()
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("marshaling plan: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		"INSERT INTO plans (document, sessions, generated_at) VALUES (?, ?, ?)",
		string(doc), len(p.Sessions), p.GeneratedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting plan: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM completions"); err != nil {
		return 0, fmt.Errorf("clearing completions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, nil
}

// LatestPlan returns the most recently saved plan, or nil when none exists.
func (db *DB) LatestPlan() (*Plan, error) {
	var (
		id  int64
		doc string
	)
	err := db.QueryRow("SELECT id, document FROM plans ORDER BY id DESC LIMIT 1").Scan(&id, &doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest plan: %w", err)
	}

	var p Plan
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("parsing plan %d: %w", id, err)
	}
	p.ID = id
	return &p, nil
}

// SetCompleted marks or unmarks a session as done.
func (db *DB) SetCompleted(sessionID string, done bool) error {
	if !done {
		_, err := db.Exec("DELETE FROM completions WHERE session_id = ?", sessionID)
		return err
	}
	_, err := db.Exec(
		"INSERT INTO completions (session_id, completed_at) VALUES (?, ?) ON CONFLICT(session_id) DO NOTHING",
		sessionID, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ToggleCompleted flips the flag and returns the new value.
func (db *DB) ToggleCompleted(sessionID string) (bool, error) {
	completed, err := db.Completed()
	if err != nil {
		return false, err
	}
	done := !completed[sessionID]
	if err := db.SetCompleted(sessionID, done); err != nil {
		return false, fmt.Errorf("updating completion: %w", err)
	}
	return done, nil
}

func (db *DB) Completed() (map[string]bool, error) {
	rows, err := db.Query("SELECT session_id FROM completions")
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		done[id] = true
	}
	return done, rows.Err()
}

func (db *DB) FocusStreak() (int, error) {
	v, err := db.GetState(focusStreakKey)
	if err != nil || v == "" {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid focus streak %q", v)
	}
	return n, nil
}

// IncrementFocusStreak records one more finished focus session.
func (db *DB) IncrementFocusStreak() (int, error) {
	n, err := db.FocusStreak()
	if err != nil {
		return 0, err
	}
	n++
	if err := db.SetState(focusStreakKey, strconv.Itoa(n)); err != nil {
		return 0, fmt.Errorf("saving focus streak: %w", err)
	}
	return n, nil
}
