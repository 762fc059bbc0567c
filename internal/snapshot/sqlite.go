// Package snapshot exports a loaded dashboard session to a SQLite file.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	_ "modernc.org/sqlite"

	"github.com/KaramelBytes/spreaddash-cli/internal/dataset"
	"github.com/KaramelBytes/spreaddash-cli/internal/regression"
)

// Session is the data written for one store session.
type Session struct {
	ID           string
	Master       []dataset.MasterRow
	Spreads      []dataset.SpreadRow
	Coefficients []regression.Coefficient
}

// Counts reports rows stored for a session.
type Counts struct {
	Master       int
	Spreads      int
	Coefficients int
}

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot: path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// WriteSession stores every row of sess in one transaction. Rows already present
// for the same key are overwritten.
func (s *Store) WriteSession(ctx context.Context, sess Session) (err error) {
	if sess.ID == "" {
		return errors.New("snapshot: session id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, created_at) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at`,
		sess.ID, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	if err = insertMaster(ctx, tx, sess.ID, sess.Master); err != nil {
		return err
	}
	if err = insertSpreads(ctx, tx, sess.ID, sess.Spreads); err != nil {
		return err
	}
	if err = insertCoefficients(ctx, tx, sess.ID, sess.Coefficients); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMaster(ctx context.Context, tx *sql.Tx, id string, rows []dataset.MasterRow) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO master_rows (
			session_id, date, country, country_group, debt_gdp, deficit_gdp, gdp_growth,
			unemployment, inflation, spread_bps, bond_yield, ecb_rate, crisis_period,
			post_omt, giips, year, quarter, period
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, country, date) DO UPDATE SET
			country_group = excluded.country_group,
			debt_gdp = excluded.debt_gdp,
			deficit_gdp = excluded.deficit_gdp,
			gdp_growth = excluded.gdp_growth,
			unemployment = excluded.unemployment,
			inflation = excluded.inflation,
			spread_bps = excluded.spread_bps,
			bond_yield = excluded.bond_yield,
			ecb_rate = excluded.ecb_rate,
			crisis_period = excluded.crisis_period,
			post_omt = excluded.post_omt,
			giips = excluded.giips,
			year = excluded.year,
			quarter = excluded.quarter,
			period = excluded.period
	`)
	if err != nil {
		return fmt.Errorf("prepare master: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, id, r.Date, r.Country, r.CountryGroup,
			nullable(r.DebtGDP), nullable(r.DeficitGDP), nullable(r.GDPGrowth), nullable(r.Unemployment),
			nullable(r.Inflation), nullable(r.SpreadBps), nullable(r.BondYield), nullable(r.ECBRate),
			nullable(r.CrisisPeriod), nullable(r.PostOMT), nullable(r.GIIPS), nullable(r.Year), nullable(r.Quarter),
			r.Period); err != nil {
			return fmt.Errorf("insert master %s/%s: %w", r.Country, r.Date, err)
		}
	}
	return nil
}

func insertSpreads(ctx context.Context, tx *sql.Tx, id string, rows []dataset.SpreadRow) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO spreads (session_id, date, country, spread_bps) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, date, country) DO UPDATE SET spread_bps = excluded.spread_bps
	`)
	if err != nil {
		return fmt.Errorf("prepare spreads: %w", err)
	}
	defer stmt.Close()
	for _, r := range rows {
		countries := slices.Sorted(maps.Keys(r.Spreads))
		for _, c := range countries {
			v, _ := r.Spread(c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if _, err := stmt.ExecContext(ctx, id, r.Date, c, v); err != nil {
				return fmt.Errorf("insert spread %s/%s: %w", c, r.Date, err)
			}
		}
	}
	return nil
}

func insertCoefficients(ctx context.Context, tx *sql.Tx, id string, cs []regression.Coefficient) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO regression_coefficients (
			session_id, variable, model, se_type, estimate, std_error, ci_lower, ci_upper, p_value
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, variable, model, se_type) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare coefficients: %w", err)
	}
	defer stmt.Close()
	for _, c := range cs {
		if _, err := stmt.ExecContext(ctx, id, c.Variable, c.Model, c.SEType,
			nullable(c.Estimate), nullable(c.StdError), nullable(c.CILower), nullable(c.CIUpper), nullable(c.PValue)); err != nil {
			return fmt.Errorf("insert coefficient %s/%s: %w", c.Variable, c.Model, err)
		}
	}
	return nil
}

// nullable maps missing values to SQL NULL.
func nullable(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// SessionCounts returns how many rows each table holds for id.
func (s *Store) SessionCounts(ctx context.Context, id string) (Counts, error) {
	var c Counts
	queries := []struct {
		dst   *int
		query string
	}{
		{&c.Master, `SELECT COUNT(*) FROM master_rows WHERE session_id = ?`},
		{&c.Spreads, `SELECT COUNT(*) FROM spreads WHERE session_id = ?`},
		{&c.Coefficients, `SELECT COUNT(*) FROM regression_coefficients WHERE session_id = ?`},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, id).Scan(q.dst); err != nil {
			return Counts{}, err
		}
	}
	return c, nil
}

// Coefficients reads back a session's coefficients in insertion order.
func (s *Store) Coefficients(ctx context.Context, id string) ([]regression.Coefficient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT variable, model, se_type, estimate, std_error, ci_lower, ci_upper, p_value
		FROM regression_coefficients WHERE session_id = ? ORDER BY rowid`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []regression.Coefficient
	for rows.Next() {
		var c regression.Coefficient
		var est, se, lo, hi, p sql.NullFloat64
		if err := rows.Scan(&c.Variable, &c.Model, &c.SEType, &est, &se, &lo, &hi, &p); err != nil {
			return nil, err
		}
		c.Estimate, c.StdError, c.CILower, c.CIUpper, c.PValue = orNaN(est), orNaN(se), orNaN(lo), orNaN(hi), orNaN(p)
		out = append(out, c)
	}
	return out, rows.Err()
}

func orNaN(n sql.NullFloat64) float64 {
	if !n.Valid {
		return math.NaN()
	}
	return n.Float64
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS master_rows (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			date TEXT NOT NULL,
			country TEXT NOT NULL,
			country_group TEXT NOT NULL,
			debt_gdp REAL,
			deficit_gdp REAL,
			gdp_growth REAL,
			unemployment REAL,
			inflation REAL,
			spread_bps REAL,
			bond_yield REAL,
			ecb_rate REAL,
			crisis_period REAL,
			post_omt REAL,
			giips REAL,
			year REAL,
			quarter REAL,
			period TEXT NOT NULL,
			PRIMARY KEY (session_id, country, date)
		);`,
		`CREATE TABLE IF NOT EXISTS spreads (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			date TEXT NOT NULL,
			country TEXT NOT NULL,
			spread_bps REAL NOT NULL,
			PRIMARY KEY (session_id, date, country)
		);`,
		`CREATE TABLE IF NOT EXISTS regression_coefficients (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			variable TEXT NOT NULL,
			model TEXT NOT NULL,
			se_type TEXT NOT NULL,
			estimate REAL,
			std_error REAL,
			ci_lower REAL,
			ci_upper REAL,
			p_value REAL,
			PRIMARY KEY (session_id, variable, model, se_type)
		);`,
	}
	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}
