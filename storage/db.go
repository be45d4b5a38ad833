package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rsahana30/AUMA-DZ/models"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

// GetUserByEmail resolves a login email to its user record.
func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	var user models.User
	err := db.QueryRow(`SELECT id, email, password FROM users WHERE email = $1`, email).
		Scan(&user.ID, &user.Email, &user.Password)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureCoreSchema creates the transactional tables the raw-SQL flows use.
// Catalog tables are migrated separately by GORM (see gorm_db.go).
func EnsureCoreSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS session (
			user_id INTEGER NOT NULL,
			session_id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			address TEXT NOT NULL DEFAULT '',
			contact_person TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS rfqs (
			id SERIAL PRIMARY KEY,
			rfq_no TEXT NOT NULL,
			customer TEXT NOT NULL DEFAULT '',
			safety_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
			actuator_voltage TEXT NOT NULL DEFAULT '',
			communication TEXT NOT NULL DEFAULT '',
			motor_duty TEXT NOT NULL DEFAULT '',
			actuator_series TEXT NOT NULL DEFAULT '',
			controller_type TEXT NOT NULL DEFAULT '',
			gearbox_location TEXT NOT NULL DEFAULT '',
			weatherproof_type TEXT NOT NULL DEFAULT '',
			certification TEXT NOT NULL DEFAULT '',
			painting TEXT NOT NULL DEFAULT '',
			item TEXT NOT NULL DEFAULT '',
			valve_type TEXT NOT NULL DEFAULT '',
			valve_tag_no TEXT NOT NULL DEFAULT '',
			valve_size TEXT NOT NULL DEFAULT '',
			valve_rating TEXT NOT NULL DEFAULT '',
			duty_type TEXT NOT NULL DEFAULT '',
			raising_stem TEXT NOT NULL DEFAULT '',
			valve_torque DOUBLE PRECISION NOT NULL DEFAULT 0,
			top_flange TEXT NOT NULL DEFAULT '',
			stem_dia TEXT NOT NULL DEFAULT '',
			mast TEXT NOT NULL DEFAULT '',
			number_of_turns TEXT NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 1,
			calculated_torque DOUBLE PRECISION NOT NULL DEFAULT 0,
			auma_model TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS rfqs_rfq_no_idx ON rfqs (rfq_no)`,
		`CREATE TABLE IF NOT EXISTS doc_sequence (
			prefix TEXT PRIMARY KEY,
			last_no INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quotations (
			quotation_no TEXT PRIMARY KEY,
			rfq_no TEXT NOT NULL UNIQUE,
			customer TEXT NOT NULL DEFAULT '',
			issue_date TIMESTAMPTZ NOT NULL,
			expiry_date TIMESTAMPTZ NOT NULL,
			grand_total DOUBLE PRECISION NOT NULL DEFAULT 0,
			pdf_path TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema init failed: %w", err)
		}
	}
	return nil
}

// SaveSession stores a new session for a user. Single-session policy: any
// existing sessions for the user are removed first.
func SaveSession(db *sql.DB, session *models.Session) error {
	if _, err := db.Exec(`DELETE FROM session WHERE user_id = $1`, session.UserID); err != nil {
		return fmt.Errorf("failed to delete existing sessions: %w", err)
	}

	_, err := db.Exec(`INSERT INTO session (user_id, session_id, created_at, expires_at)
                    VALUES ($1, $2, $3, $4)`,
		session.UserID, session.SessionID, session.CreatedAt, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to insert new session: %w", err)
	}
	return nil
}

// GetSessionUser resolves a session id to its user id; expired sessions do
// not resolve.
func GetSessionUser(db *sql.DB, sessionID string) (int, error) {
	var userID int
	err := db.QueryRow(`SELECT user_id FROM session WHERE session_id = $1 AND expires_at > NOW()`,
		sessionID).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

func DeleteSession(db *sql.DB, userID int) error {
	_, err := db.Exec(`DELETE FROM session WHERE user_id = $1`, userID)
	return err
}

// CleanupExpiredSessions removes sessions past their expiry. Run by the daily
// maintenance cron.
func CleanupExpiredSessions(db *sql.DB) error {
	res, err := db.Exec(`DELETE FROM session WHERE expires_at <= NOW()`)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		log.Printf("cleaned up %d expired sessions", n)
	}
	return nil
}
