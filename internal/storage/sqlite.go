package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"calc-weather/internal/observability"
	"calc-weather/internal/region"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// RegionRow is a stored region with the number of prefectures under it.
type RegionRow struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	PrefectureCount int    `json:"prefecture_count"`
}

// PrefectureRow is a stored prefecture office.
type PrefectureRow struct {
	Code     string `json:"code"`
	RegionID int    `json:"region_id"`
	Name     string `json:"name"`
}

// Forecast is one sub-area forecast line.
type Forecast struct {
	ID             int64     `json:"id"`
	PrefectureCode string    `json:"prefecture_code"`
	AreaName       string    `json:"area"`
	Date           string    `json:"date"`
	Text           string    `json:"forecast"`
	FetchedAt      time.Time `json:"fetched_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS regions (
    region_id INTEGER PRIMARY KEY,
    region_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS prefectures (
    prefecture_id TEXT PRIMARY KEY,
    region_id INTEGER,
    prefecture_name TEXT NOT NULL,
    FOREIGN KEY (region_id) REFERENCES regions (region_id)
);
CREATE TABLE IF NOT EXISTS weather_forecasts (
    forecast_id INTEGER PRIMARY KEY AUTOINCREMENT,
    prefecture_id TEXT,
    area_name TEXT NOT NULL DEFAULT '',
    date TEXT,
    forecast TEXT,
    fetched_at TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (prefecture_id) REFERENCES prefectures (prefecture_id)
);
CREATE INDEX IF NOT EXISTS idx_weather_forecasts_prefecture
    ON weather_forecasts (prefecture_id, forecast_id);
`

// SQLiteStore persists the region catalog and fetched forecasts using the
// pure Go modernc.org/sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	// A single connection keeps pragmas and writes on one SQLite handle.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		observability.Logger.Warn("could not set WAL mode", zap.String("path", path), zap.Error(err))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// dsn enables foreign keys and a busy timeout on every connection the pool
// opens.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// SeedCatalog inserts every region and prefecture that is not stored yet.
// Running it again with the same catalog is a no-op.
func (s *SQLiteStore) SeedCatalog(ctx context.Context, c region.Catalog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	regionStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO regions (region_id, region_name) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer regionStmt.Close()

	prefStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO prefectures (prefecture_id, region_id, prefecture_name) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer prefStmt.Close()

	for _, r := range c {
		if _, err = regionStmt.ExecContext(ctx, r.ID, r.Name); err != nil {
			return fmt.Errorf("insert region %d: %w", r.ID, err)
		}
		for _, p := range r.Prefectures {
			if _, err = prefStmt.ExecContext(ctx, p.Code, r.ID, p.Name); err != nil {
				return fmt.Errorf("insert prefecture %s: %w", p.Code, err)
			}
		}
	}

	return tx.Commit()
}

// ListRegions returns the stored regions in ID order.
func (s *SQLiteStore) ListRegions(ctx context.Context) ([]RegionRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.region_id, r.region_name, COUNT(p.prefecture_id)
		FROM regions r
		LEFT JOIN prefectures p ON p.region_id = r.region_id
		GROUP BY r.region_id, r.region_name
		ORDER BY r.region_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RegionRow, 0)
	for rows.Next() {
		var r RegionRow
		if err := rows.Scan(&r.ID, &r.Name, &r.PrefectureCount); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListPrefectures returns the prefectures of a region in insertion order.
func (s *SQLiteStore) ListPrefectures(ctx context.Context, regionID int) ([]PrefectureRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT prefecture_id, region_id, prefecture_name
		FROM prefectures
		WHERE region_id = ?
		ORDER BY rowid`, regionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PrefectureRow, 0)
	for rows.Next() {
		var p PrefectureRow
		if err := rows.Scan(&p.Code, &p.RegionID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SaveForecasts appends forecast lines in one transaction.
func (s *SQLiteStore) SaveForecasts(ctx context.Context, forecasts []Forecast) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO weather_forecasts (prefecture_id, area_name, date, forecast, fetched_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range forecasts {
		if _, err = stmt.ExecContext(ctx, f.PrefectureCode, f.AreaName, f.Date, f.Text, f.FetchedAt.UTC().Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert forecast for %s: %w", f.PrefectureCode, err)
		}
	}

	return tx.Commit()
}

// ListForecasts returns up to limit stored forecasts for a prefecture, newest
// first.
func (s *SQLiteStore) ListForecasts(ctx context.Context, prefectureCode string, limit int) ([]Forecast, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT forecast_id, prefecture_id, area_name, date, forecast, fetched_at
		FROM weather_forecasts
		WHERE prefecture_id = ?
		ORDER BY forecast_id DESC
		LIMIT ?`, prefectureCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Forecast, 0)
	for rows.Next() {
		var f Forecast
		var fetched string
		if err := rows.Scan(&f.ID, &f.PrefectureCode, &f.AreaName, &f.Date, &f.Text, &fetched); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, fetched); err == nil {
			f.FetchedAt = t
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
