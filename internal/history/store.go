// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists completed domain scans in a local SQLite
// database so score changes can be tracked across runs. The store lives at
// the CLI boundary; the scoring pipeline itself never reads from it.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/seo-auditor/pkg/types"
)

const dbFile = "scans.db"

const defaultKeep = 20

// Store manages the scan-history SQLite database.
type Store struct {
	db   *sql.DB
	keep int
}

// NewStore opens or creates the history database at dir/scans.db and
// creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dir := cfg.HistoryDir
	if dir == "" {
		dir = ".seo-auditor"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	keep := cfg.Keep
	if keep <= 0 {
		keep = defaultKeep
	}

	s := &Store{db: db, keep: keep}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			domain TEXT NOT NULL,
			created_at TEXT NOT NULL,
			total REAL NOT NULL,
			content_structure REAL NOT NULL,
			brand_ranking REAL NOT NULL,
			website_technical REAL NOT NULL,
			keyword_visibility REAL NOT NULL,
			ai_trust REAL NOT NULL,
			result TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_domain ON scans(domain, created_at)`,
		`CREATE TABLE IF NOT EXISTS scan_urls (
			scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			total REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_urls_scan_id ON scan_urls(scan_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ScanRecord is one row of the scan listing.
type ScanRecord struct {
	ID        int64     `json:"id" yaml:"id"`
	Domain    string    `json:"domain" yaml:"domain"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Total     float64   `json:"total" yaml:"total"`
	URLCount  int       `json:"url_count" yaml:"url_count"`
}

// Save stores a completed domain scan and prunes old scans for the same
// domain past the configured keep count.
func (s *Store) Save(ctx context.Context, result types.DomainResult) (int64, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("encoding scan result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO scans (domain, created_at, total, content_structure, brand_ranking,
			website_technical, keyword_visibility, ai_trust, result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.Domain,
		time.Now().UTC().Format(time.RFC3339Nano),
		result.Average.Total,
		result.Average.ContentStructure,
		result.Average.BrandRanking,
		result.Average.WebsiteTechnical,
		result.Average.KeywordVisibility,
		result.Average.AITrust,
		string(payload),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting scan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading scan id: %w", err)
	}

	for _, ur := range result.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scan_urls (scan_id, url, total) VALUES (?, ?, ?)`,
			id, ur.URL, ur.Score.Total,
		); err != nil {
			return 0, fmt.Errorf("inserting scan url: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scans WHERE domain = ? AND id NOT IN (
			SELECT id FROM scans WHERE domain = ? ORDER BY created_at DESC, id DESC LIMIT ?
		)`, result.Domain, result.Domain, s.keep,
	); err != nil {
		return 0, fmt.Errorf("pruning old scans: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing scan: %w", err)
	}
	return id, nil
}

// List returns scan records newest first. An empty domain lists every
// domain; limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, domain string, limit int) ([]ScanRecord, error) {
	query := `SELECT s.id, s.domain, s.created_at, s.total,
			(SELECT count(*) FROM scan_urls u WHERE u.scan_id = s.id)
		FROM scans s`
	var args []any
	if domain != "" {
		query += ` WHERE s.domain = ?`
		args = append(args, domain)
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.Domain, &created, &rec.Total, &rec.URLCount); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing scan timestamp: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Get loads the full stored result for one scan.
func (s *Store) Get(ctx context.Context, id int64) (types.DomainResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM scans WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return types.DomainResult{}, fmt.Errorf("scan %d not found", id)
	}
	if err != nil {
		return types.DomainResult{}, fmt.Errorf("loading scan %d: %w", id, err)
	}

	var result types.DomainResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return types.DomainResult{}, fmt.Errorf("decoding scan %d: %w", id, err)
	}
	return result, nil
}

// Prune trims every domain to the keep count and returns the number of
// scans removed.
func (s *Store) Prune(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM scans WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, row_number() OVER (
					PARTITION BY domain ORDER BY created_at DESC, id DESC
				) AS rn FROM scans
			) WHERE rn <= ?
		)`, s.keep,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning scans: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned scans: %w", err)
	}
	return int(n), nil
}
