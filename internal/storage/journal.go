package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stillpoint/internal/platform"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const journalFileName = "journal.db"

// SessionKind identifies the widget that produced a journal entry.
type SessionKind string

const (
	KindMeditation SessionKind = "meditation"
	KindBreathing  SessionKind = "breathing"
)

// DailySummary totals one day of journal entries.
type DailySummary struct {
	Meditations     int
	MeditationTime  time.Duration
	BreathingCycles int
}

// Journal stores finished meditation sessions and breathing cycles in SQLite.
type Journal struct {
	db *sql.DB
}

// JournalPath returns the default journal location for appName.
func JournalPath(appName string) (string, error) {
	appDir, err := platform.NewService().AppDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, journalFileName), nil
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping journal: %w", err)
	}

	journal := &Journal{db: db}
	if err := journal.initTables(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return journal, nil
}

func (journal *Journal) initTables() error {
	_, err := journal.db.Exec(`
        CREATE TABLE IF NOT EXISTS sessions (
            id TEXT PRIMARY KEY,
            kind TEXT NOT NULL,
            finished_at INTEGER NOT NULL,
            duration_seconds INTEGER NOT NULL DEFAULT 0,
            cycles INTEGER NOT NULL DEFAULT 0
        )
    `)
	if err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	_, err = journal.db.Exec(`CREATE INDEX IF NOT EXISTS sessions_finished_at ON sessions (finished_at)`)
	if err != nil {
		return fmt.Errorf("create sessions index: %w", err)
	}
	return nil
}

// RecordMeditation stores a countdown that ran to the end.
func (journal *Journal) RecordMeditation(finishedAt time.Time, session time.Duration) error {
	return journal.insert(KindMeditation, finishedAt, session, 0)
}

// RecordBreathing stores a stopped breathing run with its completed cycles.
func (journal *Journal) RecordBreathing(finishedAt time.Time, cycles int) error {
	if cycles <= 0 {
		return nil
	}
	return journal.insert(KindBreathing, finishedAt, 0, cycles)
}

func (journal *Journal) insert(kind SessionKind, finishedAt time.Time, session time.Duration, cycles int) error {
	_, err := journal.db.Exec(`
        INSERT INTO sessions (id, kind, finished_at, duration_seconds, cycles)
        VALUES (?, ?, ?, ?, ?)
    `, uuid.NewString(), string(kind), finishedAt.UnixMilli(), int64(session/time.Second), cycles)
	if err != nil {
		return fmt.Errorf("record %s session: %w", kind, err)
	}
	return nil
}

// Summary totals the entries of the local day containing day.
func (journal *Journal) Summary(day time.Time) (DailySummary, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var (
		summary DailySummary
		seconds int64
	)
	err := journal.db.QueryRow(`
        SELECT
            COALESCE(SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN kind = ? THEN duration_seconds ELSE 0 END), 0),
            COALESCE(SUM(CASE WHEN kind = ? THEN cycles ELSE 0 END), 0)
        FROM sessions
        WHERE finished_at >= ? AND finished_at < ?
    `, string(KindMeditation), string(KindMeditation), string(KindBreathing),
		start.UnixMilli(), end.UnixMilli(),
	).Scan(&summary.Meditations, &seconds, &summary.BreathingCycles)
	if err != nil {
		return DailySummary{}, fmt.Errorf("summarize journal: %w", err)
	}
	summary.MeditationTime = time.Duration(seconds) * time.Second
	return summary, nil
}

// Close releases the database.
func (journal *Journal) Close() error {
	return journal.db.Close()
}

// String renders the summary for the main window.
func (summary DailySummary) String() string {
	return fmt.Sprintf("Today: %d sessions, %d min, %d breaths",
		summary.Meditations, int(summary.MeditationTime/time.Minute), summary.BreathingCycles)
}
