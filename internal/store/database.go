package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Database represents the carddex PostgreSQL database connection
type Database struct {
	conn *sql.DB
	dsn  string
}

// NewDatabase creates a new database connection
func NewDatabase(dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn: db,
		dsn:  dsn,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// migration is one named, tracked schema change. Statements are inline so
// the binary carries its own schema.
type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "001_create_card_sets.sql",
		sql: `
			CREATE TABLE IF NOT EXISTS card_sets (
				set_id SERIAL PRIMARY KEY,
				sport VARCHAR(50) NOT NULL DEFAULT 'Baseball',
				name VARCHAR(255) NOT NULL,
				year INTEGER,
				publisher VARCHAR(100),
				declared_card_count INTEGER,
				source VARCHAR(50) NOT NULL DEFAULT 'manual',
				external_id VARCHAR(100),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (sport, name)
			)
		`,
	},
	{
		version: "002_create_card_sections.sql",
		sql: `
			CREATE TABLE IF NOT EXISTS card_sections (
				section_id SERIAL PRIMARY KEY,
				set_id INTEGER NOT NULL REFERENCES card_sets(set_id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				section_type VARCHAR(50) NOT NULL DEFAULT 'insert',
				declared_count INTEGER,
				odds VARCHAR(255),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (set_id, name)
			)
		`,
	},
	{
		version: "003_create_card_parallels.sql",
		sql: `
			CREATE TABLE IF NOT EXISTS card_parallels (
				parallel_id SERIAL PRIMARY KEY,
				section_id INTEGER NOT NULL REFERENCES card_sections(section_id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				raw_name VARCHAR(255),
				serial_max INTEGER,
				channels VARCHAR(255),
				variation_type VARCHAR(50) NOT NULL DEFAULT 'parallel',
				exclusive VARCHAR(100),
				notes TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (section_id, name)
			)
		`,
	},
	{
		version: "004_create_cards.sql",
		sql: `
			CREATE TABLE IF NOT EXISTS cards (
				card_id SERIAL PRIMARY KEY,
				set_id INTEGER NOT NULL REFERENCES card_sets(set_id) ON DELETE CASCADE,
				card_number VARCHAR(50) NOT NULL,
				player VARCHAR(255) NOT NULL,
				team VARCHAR(255),
				flags VARCHAR(255),
				notes TEXT,
				section VARCHAR(255) NOT NULL DEFAULT 'Base',
				parallel VARCHAR(255) NOT NULL DEFAULT '',
				qty INTEGER NOT NULL DEFAULT 0,
				confidence DOUBLE PRECISION NOT NULL DEFAULT 1.0,
				needs_review BOOLEAN NOT NULL DEFAULT FALSE,
				row_id VARCHAR(16),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (set_id, card_number, section, parallel)
			)
		`,
	},
	{
		version: "005_create_cards_indexes.sql",
		sql: `
			CREATE INDEX IF NOT EXISTS idx_cards_set_section ON cards(set_id, section);
			CREATE INDEX IF NOT EXISTS idx_cards_needs_review ON cards(set_id) WHERE needs_review;
			CREATE INDEX IF NOT EXISTS idx_cards_owned ON cards(set_id) WHERE qty > 0
		`,
	},
	{
		version: "006_create_import_jobs.sql",
		sql: `
			CREATE TABLE IF NOT EXISTS import_jobs (
				job_id UUID PRIMARY KEY,
				job_type VARCHAR(50) NOT NULL,
				sport VARCHAR(50) NOT NULL DEFAULT 'Baseball',
				set_id INTEGER REFERENCES card_sets(set_id) ON DELETE SET NULL,
				set_name VARCHAR(255),
				payload TEXT,
				status VARCHAR(50) NOT NULL DEFAULT 'queued',
				status_message VARCHAR(255),
				progress_current INTEGER NOT NULL DEFAULT 0,
				progress_total INTEGER NOT NULL DEFAULT 0,
				last_error TEXT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				started_at TIMESTAMPTZ,
				completed_at TIMESTAMPTZ
			)
		`,
	},
}

// RunMigrations executes all migrations in order
func (db *Database) RunMigrations() error {
	log.Println("Running database migrations...")

	if err := db.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range migrations {
		if err := db.runMigration(m); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", m.version, err)
		}
	}

	log.Println("✓ All migrations completed successfully")

	return nil
}

// createMigrationsTable creates a table to track which migrations have been run
func (db *Database) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.Exec(query)
	return err
}

// runMigration applies one migration if it hasn't been applied yet
func (db *Database) runMigration(m migration) error {
	var exists bool
	err := db.conn.QueryRow("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", m.version).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		log.Printf("  ⊘ Skipping %s (already applied)", m.version)
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}

	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Printf("  ✓ Applied %s", m.version)
	return nil
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return db.conn.PingContext(ctx)
}
