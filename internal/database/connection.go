package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Type returns the configured database type, postgres by default
func Type() string {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "postgres"
	}
	return dbType
}

// Connect establishes a connection to the database
func Connect() error {
	var db *sqlx.DB
	var err error

	if Type() == "sqlite" {
		dbPath := os.Getenv("SQLITE_PATH")
		if dbPath == "" {
			dataDir := "data"
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return fmt.Errorf("failed to create data directory: %v", err)
			}
			dbPath = filepath.Join(dataDir, "lingua.db")
		}

		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}

		// Enable foreign keys
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("failed to enable foreign keys: %v", err)
		}

		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			dsn = "postgres://localhost:5432/lingua?sslmode=disable"
		}

		db, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %v", err)
		}
	}

	DB = db

	// Initialize schema
	return initializeSchema()
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// Transact runs fn inside a transaction, rolling back on error or panic
func Transact(fn func(tx *sqlx.Tx) error) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create users table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			external_id TEXT UNIQUE NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			target_language TEXT NOT NULL DEFAULT '',
			level TEXT NOT NULL DEFAULT '',
			level_started_at TIMESTAMP,
			can_advance BOOLEAN NOT NULL DEFAULT FALSE,
			advancement_notified_at TIMESTAMP,
			total_xp INTEGER NOT NULL DEFAULT 0,
			placement_test_completed BOOLEAN NOT NULL DEFAULT FALSE,
			placement_test_score REAL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create review_items table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS review_items (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			word TEXT NOT NULL,
			definition TEXT NOT NULL,
			example_sentence TEXT NOT NULL DEFAULT '',
			target_language TEXT NOT NULL,
			easiness_factor REAL NOT NULL DEFAULT 2.5,
			repetitions INTEGER NOT NULL DEFAULT 0,
			interval_days INTEGER NOT NULL DEFAULT 1,
			next_review_at TIMESTAMP NOT NULL,
			last_reviewed_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, word, target_language)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create review_items table: %v", err)
	}

	_, err = DB.Exec(`CREATE INDEX IF NOT EXISTS idx_review_items_user_due ON review_items(user_id, next_review_at)`)
	if err != nil {
		return fmt.Errorf("failed to create review_items index: %v", err)
	}

	// Create user_progress table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_progress (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			module TEXT NOT NULL,
			score REAL,
			total_attempts INTEGER NOT NULL DEFAULT 0,
			correct_attempts INTEGER NOT NULL DEFAULT 0,
			last_activity_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id),
			UNIQUE(user_id, module)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_progress table: %v", err)
	}

	// Create conversation_sessions table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS conversation_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			target_language TEXT NOT NULL DEFAULT '',
			context_json TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create conversation_sessions table: %v", err)
	}

	// Create level_history table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS level_history (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			level TEXT NOT NULL,
			vocabulary_score REAL,
			grammar_score REAL,
			writing_score REAL,
			phonetics_score REAL,
			vocabulary_attempts INTEGER NOT NULL DEFAULT 0,
			grammar_attempts INTEGER NOT NULL DEFAULT 0,
			writing_attempts INTEGER NOT NULL DEFAULT 0,
			phonetics_attempts INTEGER NOT NULL DEFAULT 0,
			conversation_messages INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL,
			days_at_level INTEGER NOT NULL DEFAULT 0,
			weighted_score REAL NOT NULL DEFAULT 0,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create level_history table: %v", err)
	}

	// Create achievements table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			code TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			criteria_type TEXT NOT NULL,
			criteria_threshold INTEGER NOT NULL,
			criteria_module TEXT NOT NULL DEFAULT '',
			xp_reward INTEGER NOT NULL DEFAULT 0,
			tier TEXT NOT NULL DEFAULT '',
			icon TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create achievements table: %v", err)
	}

	// Create user_achievements table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS user_achievements (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at TIMESTAMP NOT NULL,
			is_viewed BOOLEAN NOT NULL DEFAULT FALSE,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (achievement_id) REFERENCES achievements(id),
			UNIQUE(user_id, achievement_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_achievements table: %v", err)
	}

	// Create placement_tests table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS placement_tests (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			target_language TEXT NOT NULL,
			questions_data TEXT NOT NULL DEFAULT '[]',
			answers_data TEXT NOT NULL DEFAULT '{}',
			vocabulary_score REAL,
			grammar_score REAL,
			reading_score REAL,
			overall_score REAL,
			determined_level TEXT NOT NULL DEFAULT '',
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			test_date TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create placement_tests table: %v", err)
	}

	// Create activity_log table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS activity_log (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			module TEXT NOT NULL,
			detail TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create activity_log table: %v", err)
	}

	_, err = DB.Exec(`CREATE INDEX IF NOT EXISTS idx_activity_log_user_time ON activity_log(user_id, created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create activity_log index: %v", err)
	}

	return nil
}
