package db

import (
	"database/sql"
	"fmt"

	"github.com/richardgms/guia-enem-2026-sub000/utils"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sql.DB
}

func InitDB(dbPath string) (*DB, error) {
	utils.LogStartup("Initializing database at: %s", dbPath)

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		utils.LogError("Failed to open database: %v", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		utils.LogError("Failed to ping database: %v", err)
		return nil, err
	}

	utils.LogStartup("Database connection established")

	if err := createTables(db); err != nil {
		utils.LogError("Failed to create tables: %v", err)
		return nil, err
	}

	wrapped := &DB{db}
	if err := wrapped.seedRewards(); err != nil {
		utils.LogError("Failed to seed rewards catalog: %v", err)
		return nil, err
	}

	utils.LogStartup("Database tables initialized successfully")
	return wrapped, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student' CHECK (role IN ('student', 'admin')),
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Static study calendar, one row per scheduled day
		`CREATE TABLE IF NOT EXISTS study_days (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date DATETIME UNIQUE NOT NULL,
			subject TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT 'medium',
			estimated_minutes INTEGER NOT NULL DEFAULT 60,
			question_count INTEGER NOT NULL DEFAULT 0
		)`,

		// Per-user per-day completion. first_completed_at is written once and
		// then frozen; the upsert in progress_db.go guarantees it.
		`CREATE TABLE IF NOT EXISTS progress (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			day_id INTEGER NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT 0,
			self_assessment TEXT CHECK (self_assessment IN ('good', 'needs_review', 'did_not_understand')),
			correct_answers INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL DEFAULT 0,
			first_completed_at DATETIME,
			notes TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, day_id),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (day_id) REFERENCES study_days(id)
		)`,

		// Weekly exam question bank with embedded answer key
		`CREATE TABLE IF NOT EXISTS exam_questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			week INTEGER NOT NULL,
			position INTEGER NOT NULL,
			statement TEXT NOT NULL,
			options TEXT NOT NULL,
			answer_key TEXT NOT NULL,
			topic TEXT,
			UNIQUE (week, position)
		)`,

		// Exam sessions; immutable once finalized
		`CREATE TABLE IF NOT EXISTS exam_sessions (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			week INTEGER NOT NULL,
			year INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'in_progress' CHECK (status IN ('in_progress', 'finalized')),
			started_at DATETIME NOT NULL,
			deadline_at DATETIME NOT NULL,
			finalized_at DATETIME,
			last_seen_at DATETIME,
			current_question_index INTEGER NOT NULL DEFAULT 0,
			total_questions INTEGER NOT NULL,
			correct_count INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Append-only answers, strictly forward-ordered per session
		`CREATE TABLE IF NOT EXISTS exam_answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			question_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			chosen_option TEXT NOT NULL,
			correct BOOLEAN NOT NULL,
			seconds_spent INTEGER NOT NULL DEFAULT 0,
			answered_at DATETIME NOT NULL,
			UNIQUE (session_id, position),
			FOREIGN KEY (session_id) REFERENCES exam_sessions(id) ON DELETE CASCADE
		)`,

		// Cached stats projection, overwritten wholesale on recompute. The raw
		// progress/exam rows stay the source of truth.
		`CREATE TABLE IF NOT EXISTS statistics (
			user_id INTEGER PRIMARY KEY,
			days_completed INTEGER NOT NULL DEFAULT 0,
			current_streak INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			total_coins INTEGER NOT NULL DEFAULT 0,
			last_study_day DATETIME,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Rewards catalog and redemption ledger
		`CREATE TABLE IF NOT EXISTS rewards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			description TEXT,
			cost INTEGER NOT NULL,
			available BOOLEAN NOT NULL DEFAULT 1
		)`,

		`CREATE TABLE IF NOT EXISTS redemptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			reward_id INTEGER NOT NULL,
			redeemed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (reward_id) REFERENCES rewards(id)
		)`,
	}

	for i, query := range queries {
		utils.LogDB("Creating table %d/%d", i+1, len(queries))
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_progress_user_id ON progress(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_exam_sessions_user_id ON exam_sessions(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_exam_questions_week ON exam_questions(week)",
		"CREATE INDEX IF NOT EXISTS idx_redemptions_user_id ON redemptions(user_id)",
		// One in-progress session per user, enforced by the store so two tabs
		// cannot both start an exam.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_exam_sessions_active ON exam_sessions(user_id) WHERE status = 'in_progress'",
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			utils.LogDB("Failed to create index (non-fatal): %v", err)
		}
	}

	return nil
}

func (db *DB) seedRewards() error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM rewards").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	utils.LogDB("Seeding default rewards catalog")
	defaults := []struct {
		name, description string
		cost              int
	}{
		{"Dia de folga", "Pule um dia de estudo sem quebrar a frequência", 300},
		{"Sessão de cinema", "Uma noite de filme sem culpa", 500},
		{"Lanche especial", "Aquele lanche que você estava adiando", 150},
		{"Domingo livre", "Um domingo inteiro sem simulado", 800},
	}
	for _, r := range defaults {
		if _, err := db.Exec(
			"INSERT INTO rewards (name, description, cost) VALUES (?, ?, ?)",
			r.name, r.description, r.cost,
		); err != nil {
			return err
		}
	}
	return nil
}
