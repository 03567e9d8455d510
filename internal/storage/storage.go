package storage

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	// The libsql driver hands file: URLs to a registered sqlite driver.
	_ "modernc.org/sqlite"

	"github.com/ptstack/ptstack/internal/config"
)

type Storage struct {
	DB *sql.DB
}

func NewStorage() *Storage {
	// A missing .env is fine, the config file is the fallback.
	_ = godotenv.Load()

	url := os.Getenv("PTSTACK_DATABASE_URL")
	if url == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "PTSTACK_DATABASE_URL not set and no config file found: %v\n", err)
			os.Exit(1)
		}
		url = cfg.DB.ConnectionString
	}

	st, err := Open(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open db %s: %s\n", url, err)
		os.Exit(1)
	}
	return st
}

// Open connects to the given libsql URL (remote or file:) and ensures the
// schema exists.
func Open(url string) (*Storage, error) {
	db, err := sql.Open("libsql", url)
	if err != nil {
		return nil, fmt.Errorf("Failed to open db: %w", err)
	}

	if err := initializeDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("Failed to initialize database: %w", err)
	}

	return &Storage{DB: db}, nil
}

func initializeDB(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            role TEXT NOT NULL DEFAULT 'member',
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS exercises (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL UNIQUE,
            description TEXT,
            primary_muscle TEXT,
            category TEXT,
            created_at TEXT NOT NULL
        );

        CREATE TABLE IF NOT EXISTS custom_exercises (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            name TEXT NOT NULL,
            primary_muscle TEXT,
            category TEXT,
            created_at TEXT NOT NULL,
            UNIQUE (user_id, name),
            FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS personal_records (
            exercise_id TEXT NOT NULL,
            user_id TEXT NOT NULL,
            date TEXT NOT NULL,
            weight REAL NOT NULL,
            reps INTEGER NOT NULL,
            estimated_1rm REAL NOT NULL,
            PRIMARY KEY (exercise_id, user_id, date),
            FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS programs (
            id TEXT PRIMARY KEY,
            owner_id TEXT NOT NULL,
            name TEXT NOT NULL UNIQUE,
            description TEXT,
            created_at TEXT NOT NULL,
            FOREIGN KEY (owner_id) REFERENCES users(id)
        );

        CREATE TABLE IF NOT EXISTS program_versions (
            id TEXT PRIMARY KEY,
            program_id TEXT NOT NULL,
            version_number INTEGER NOT NULL,
            is_active INTEGER NOT NULL DEFAULT 0,
            created_at TEXT NOT NULL,
            UNIQUE (program_id, version_number),
            FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS program_days (
            id TEXT PRIMARY KEY,
            version_id TEXT NOT NULL,
            name TEXT NOT NULL,
            day_order INTEGER NOT NULL,
            intensity TEXT,
            FOREIGN KEY (version_id) REFERENCES program_versions(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS program_day_exercises (
            id TEXT PRIMARY KEY,
            day_id TEXT NOT NULL,
            exercise_id TEXT NOT NULL,
            order_index INTEGER NOT NULL,
            sets INTEGER NOT NULL,
            reps_min INTEGER NOT NULL,
            reps_max INTEGER NOT NULL,
            target_rpe REAL,
            rest_seconds INTEGER,
            tempo TEXT,
            start_weight REAL,
            progression_rules TEXT,
            FOREIGN KEY (day_id) REFERENCES program_days(id) ON DELETE CASCADE,
            FOREIGN KEY (exercise_id) REFERENCES exercises(id)
        );

        CREATE TABLE IF NOT EXISTS training_sessions (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            program_version_id TEXT,
            program_day_id TEXT,
            logged_by TEXT,
            scheduled_date TEXT,
            start_time TEXT NOT NULL,
            completed_at TEXT,
            deleted_at TEXT,
            notes TEXT,
            FOREIGN KEY (user_id) REFERENCES users(id),
            FOREIGN KEY (program_version_id) REFERENCES program_versions(id)
        );

        CREATE TABLE IF NOT EXISTS session_exercises (
            id TEXT PRIMARY KEY,
            session_id TEXT NOT NULL,
            exercise_id TEXT,
            custom_exercise_id TEXT,
            order_index INTEGER NOT NULL,
            superset_group TEXT,
            CHECK ((exercise_id IS NULL) != (custom_exercise_id IS NULL)),
            FOREIGN KEY (session_id) REFERENCES training_sessions(id) ON DELETE CASCADE,
            FOREIGN KEY (exercise_id) REFERENCES exercises(id)
        );

        CREATE TABLE IF NOT EXISTS session_sets (
            id TEXT PRIMARY KEY,
            session_exercise_id TEXT NOT NULL,
            set_index INTEGER NOT NULL,
            set_type TEXT NOT NULL DEFAULT 'normal',
            prescribed_reps INTEGER,
            prescribed_weight REAL,
            prescribed_rpe REAL,
            performed_reps INTEGER,
            performed_weight REAL,
            performed_rpe REAL,
            performed_seconds INTEGER,
            tempo TEXT,
            completed INTEGER NOT NULL DEFAULT 0,
            completed_as_prescribed INTEGER NOT NULL DEFAULT 0,
            skipped INTEGER NOT NULL DEFAULT 0,
            completed_at TEXT,
            FOREIGN KEY (session_exercise_id) REFERENCES session_exercises(id) ON DELETE CASCADE
        );

        CREATE TABLE IF NOT EXISTS cardio_entries (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            activity_type TEXT NOT NULL,
            entry_date TEXT NOT NULL,
            duration_minutes INTEGER NOT NULL,
            distance_km REAL,
            notes TEXT,
            FOREIGN KEY (user_id) REFERENCES users(id)
        );
    `)
	return err
}
