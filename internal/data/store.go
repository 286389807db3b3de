package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrNoDSN is returned when a Store is used without a connection string.
var ErrNoDSN = errors.New("database dsn is empty")

// Store reads the household's load profile and the day-ahead prices. The
// connection is opened on first use and released by Close.
type Store struct {
	driver string
	dsn    string

	mu sync.Mutex
	db *sql.DB
}

// NewStore validates the driver but does not connect.
func NewStore(driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	case "":
		driver = DriverPostgres
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &Store{driver: driver, dsn: dsn}, nil
}

func (s *Store) Driver() string { return s.driver }

func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}
	if s.dsn == "" {
		return nil, ErrNoDSN
	}
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", s.driver, err)
	}
	s.db = db
	return db, nil
}

// Close releases the connection if one was opened. The Store can be reused
// afterwards and reconnects lazily.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Migrate creates the two tables if they are missing.
func (s *Store) Migrate(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS load_profile (
        slot INTEGER PRIMARY KEY,
        load_profile DOUBLE PRECISION NOT NULL
    )`,
		`CREATE TABLE IF NOT EXISTS prices (
        slot INTEGER PRIMARY KEY,
        price DOUBLE PRECISION NOT NULL
    )`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// LoadProfile returns the load_profile column ordered by slot.
func (s *Store) LoadProfile(ctx context.Context) ([]float64, error) {
	return s.column(ctx, "SELECT load_profile FROM load_profile ORDER BY slot")
}

// Prices returns the day-ahead prices in EUR/kWh ordered by slot.
func (s *Store) Prices(ctx context.Context) ([]float64, error) {
	return s.column(ctx, "SELECT price FROM prices ORDER BY slot")
}

func (s *Store) column(ctx context.Context, query string) ([]float64, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceDay overwrites both tables with the given slot values in one
// transaction.
func (s *Store) ReplaceDay(ctx context.Context, load, prices []float64) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.replace(ctx, tx, "load_profile", "load_profile", load); err != nil {
		return err
	}
	if err := s.replace(ctx, tx, "prices", "price", prices); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) replace(ctx context.Context, tx *sql.Tx, table, column string, values []float64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (slot, %s) VALUES (%s)",
		table, column, s.placeholders(2)))
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()
	for i, v := range values {
		if _, err := stmt.ExecContext(ctx, i, v); err != nil {
			return fmt.Errorf("insert %s slot %d: %w", table, i, err)
		}
	}
	return nil
}

func (s *Store) placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		if s.driver == DriverPostgres {
			ps[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ps[i] = "?"
		}
	}
	return strings.Join(ps, ", ")
}
