package storage

import (
	"context"
	"fmt"

	"github.com/labstack/gommon/log"
)

// SeedDoctor is a row inserted into an empty doctors table.
type SeedDoctor struct {
	Name      string
	Specialty string
	Phone     string
	Email     string
}

var DefaultDoctors = []SeedDoctor{
	{Name: "Dr. Smith", Specialty: "Cardiologist", Phone: "1234567890", Email: "smith@med.com"},
	{Name: "Dr. Johnson", Specialty: "Therapist", Phone: "0987654321", Email: "johnson@med.com"},
	{Name: "Dr. Ivanenko", Specialty: "Surgeon", Phone: "0011223344", Email: "ivanenko@med.com"},
}

var schema = map[Dialect][]string{
	MariaDB: {
		`CREATE TABLE IF NOT EXISTS users (
			id INT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password VARCHAR(100) NOT NULL
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS doctors (
			id INT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			specialty VARCHAR(100) NOT NULL,
			phone VARCHAR(15),
			email VARCHAR(100) UNIQUE
		) ENGINE=InnoDB`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id INT AUTO_INCREMENT PRIMARY KEY,
			user_id INT NOT NULL,
			doctor_id INT NOT NULL,
			appointment_date DATETIME(6) NOT NULL,
			reason TEXT,
			CONSTRAINT fk_appointments_user FOREIGN KEY (user_id) REFERENCES users(id),
			CONSTRAINT fk_appointments_doctor FOREIGN KEY (doctor_id) REFERENCES doctors(id)
		) ENGINE=InnoDB`,
	},
	Postgres: {
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL UNIQUE,
			password VARCHAR(100) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS doctors (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			specialty VARCHAR(100) NOT NULL,
			phone VARCHAR(15),
			email VARCHAR(100) UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id),
			doctor_id INT NOT NULL REFERENCES doctors(id),
			appointment_date TIMESTAMPTZ NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_user ON appointments (user_id, appointment_date)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS doctors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			specialty TEXT NOT NULL,
			phone TEXT,
			email TEXT UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id),
			doctor_id INTEGER NOT NULL REFERENCES doctors(id),
			appointment_date DATETIME NOT NULL,
			reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_user ON appointments (user_id, appointment_date)`,
	},
}

// Bootstrap creates the tables when missing and seeds the doctors when the
// table is empty. Calling it again is a no-op. Any error must stop startup.
func Bootstrap(ctx context.Context, db *DB) error {
	stmts, ok := schema[db.Dialect]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", db.Dialect)
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	log.Info("tables checked/created")

	return SeedDoctors(ctx, db, DefaultDoctors)
}

// SeedDoctors inserts doctors only when the doctors table has no rows.
func SeedDoctors(ctx context.Context, db *DB, doctors []SeedDoctor) error {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM doctors").Scan(&count); err != nil {
		return fmt.Errorf("count doctors: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}
	defer tx.Rollback()

	insert := db.Rebind("INSERT INTO doctors (name, specialty, phone, email) VALUES (?, ?, ?, ?)")
	for _, d := range doctors {
		if _, err := tx.ExecContext(ctx, insert, d.Name, d.Specialty, d.Phone, d.Email); err != nil {
			return fmt.Errorf("seed doctor %s: %w", d.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed doctors: %w", err)
	}
	log.Infof("inserted %d sample doctors", len(doctors))
	return nil
}
