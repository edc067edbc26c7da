// Package mysqlstore is the relational store driver.  It keeps the same
// record shapes as the document store; ids are UUID strings generated on
// insert and the participant counter is updated with a relative
// UPDATE ... SET participant_count = participant_count + ? statement.
package mysqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/camp-registration/internal/repository"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		uid VARCHAR(128) NOT NULL DEFAULT '',
		name VARCHAR(200) NOT NULL DEFAULT '',
		email VARCHAR(320) NOT NULL,
		profile_picture VARCHAR(2048) NOT NULL DEFAULT '',
		role VARCHAR(32) NOT NULL,
		created_at DATETIME(6) NOT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS camps (
		id CHAR(36) PRIMARY KEY,
		camp_name VARCHAR(200) NOT NULL,
		image VARCHAR(2048) NOT NULL DEFAULT '',
		camp_fees DECIMAL(12,2) NOT NULL DEFAULT 0,
		date_time VARCHAR(64) NOT NULL DEFAULT '',
		location VARCHAR(500) NOT NULL DEFAULT '',
		healthcare_professional VARCHAR(200) NOT NULL DEFAULT '',
		description TEXT NOT NULL,
		organizer_email VARCHAR(320) NOT NULL DEFAULT '',
		participant_count INT NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		KEY ix_camps_popular (participant_count, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS participants (
		id CHAR(36) PRIMARY KEY,
		camp_id VARCHAR(64) NOT NULL,
		camp_name VARCHAR(200) NOT NULL DEFAULT '',
		camp_fees DECIMAL(12,2) NOT NULL DEFAULT 0,
		location VARCHAR(500) NOT NULL DEFAULT '',
		healthcare_professional VARCHAR(200) NOT NULL DEFAULT '',
		participant_name VARCHAR(200) NOT NULL,
		participant_email VARCHAR(320) NOT NULL,
		age INT NOT NULL DEFAULT 0,
		phone VARCHAR(32) NOT NULL DEFAULT '',
		gender VARCHAR(32) NOT NULL DEFAULT '',
		emergency_contact VARCHAR(32) NOT NULL DEFAULT '',
		payment_status VARCHAR(16) NOT NULL,
		confirmation_status VARCHAR(16) NOT NULL,
		transaction_id VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME(6) NOT NULL,
		KEY ix_participants_email (participant_email),
		KEY ix_participants_camp (camp_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id CHAR(36) PRIMARY KEY,
		camp_id VARCHAR(64) NOT NULL,
		participant_name VARCHAR(200) NOT NULL DEFAULT '',
		participant_email VARCHAR(320) NOT NULL,
		rating TINYINT NOT NULL,
		comment TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL,
		KEY ix_feedback_camp (camp_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Open connects to MySQL, verifies the connection, ensures the schema and
// returns a Store whose Close closes the pool.
func Open(ctx context.Context, user, pass, host, port, name string) (*repository.Store, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	// clientFoundRows=true -> RowsAffected counts matched rows, not changed rows
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}

	return repository.NewStore(
		&campRepo{db: db},
		&participantRepo{db: db},
		&userRepo{db: db},
		&feedbackRepo{db: db},
		func(context.Context) error { return db.Close() },
	), nil
}

// affected maps a zero RowsAffected/matched result to ErrNotFound.
func affected(res sql.Result) error {
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
