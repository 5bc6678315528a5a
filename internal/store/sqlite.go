package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/veridian-reports/internal/location"
	"github.com/joelkehle/veridian-reports/internal/report"
)

var (
	ErrNotFound      = errors.New("report not found")
	ErrNotGenerating = errors.New("report already finalized")
)

type Status string

const (
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Record is a persisted report. Content is nil until the report is ready,
// and in listings.
type Record struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	CompanyName      string         `json:"company_name"`
	Industry         string         `json:"industry"`
	City             string         `json:"city"`
	State            string         `json:"state"`
	LocationTier     location.Tier  `json:"location_tier"`
	NearestMajorCity string         `json:"nearest_major_city,omitempty"`
	Status           Status         `json:"status"`
	Source           report.Source  `json:"source,omitempty"`
	FailureReason    string         `json:"failure_reason,omitempty"`
	PaymentRef       string         `json:"payment_ref,omitempty"`
	PDFURL           string         `json:"pdf_url,omitempty"`
	Request          report.Request `json:"request"`
	Content          *report.Bundle `json:"report_content,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type CreateInput struct {
	UserID           string
	Request          report.Request
	LocationTier     location.Tier
	NearestMajorCity string
}

type Config struct {
	Clock func() time.Time
}

// SQLiteStore persists report records. Records are written once as
// generating and finalized exactly once.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id                 TEXT PRIMARY KEY,
	user_id            TEXT NOT NULL,
	company_name       TEXT NOT NULL,
	industry           TEXT NOT NULL DEFAULT '',
	city               TEXT NOT NULL,
	state              TEXT NOT NULL,
	location_tier      TEXT NOT NULL DEFAULT '',
	nearest_major_city TEXT NOT NULL DEFAULT '',
	request            TEXT NOT NULL DEFAULT '{}',
	content            TEXT,
	source             TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT 'generating',
	failure_reason     TEXT NOT NULL DEFAULT '',
	payment_ref        TEXT NOT NULL DEFAULT '',
	pdf_url            TEXT NOT NULL DEFAULT '',
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS reports_user_created ON reports (user_id, created_at DESC);
`

// Fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func NewSQLiteStore(dbPath string, cfg Config) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &SQLiteStore{db: db, now: now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type recordRow struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	CompanyName      string         `db:"company_name"`
	Industry         string         `db:"industry"`
	City             string         `db:"city"`
	State            string         `db:"state"`
	LocationTier     string         `db:"location_tier"`
	NearestMajorCity string         `db:"nearest_major_city"`
	Request          string         `db:"request"`
	Content          sql.NullString `db:"content"`
	Source           string         `db:"source"`
	Status           string         `db:"status"`
	FailureReason    string         `db:"failure_reason"`
	PaymentRef       string         `db:"payment_ref"`
	PDFURL           string         `db:"pdf_url"`
	CreatedAt        string         `db:"created_at"`
	UpdatedAt        string         `db:"updated_at"`
}

func (r recordRow) record() (Record, error) {
	rec := Record{
		ID:               r.ID,
		UserID:           r.UserID,
		CompanyName:      r.CompanyName,
		Industry:         r.Industry,
		City:             r.City,
		State:            r.State,
		LocationTier:     location.Tier(r.LocationTier),
		NearestMajorCity: r.NearestMajorCity,
		Status:           Status(r.Status),
		Source:           report.Source(r.Source),
		FailureReason:    r.FailureReason,
		PaymentRef:       r.PaymentRef,
		PDFURL:           r.PDFURL,
	}
	rec.CreatedAt, _ = time.Parse(timeLayout, r.CreatedAt)
	rec.UpdatedAt, _ = time.Parse(timeLayout, r.UpdatedAt)
	if err := json.Unmarshal([]byte(r.Request), &rec.Request); err != nil {
		return Record{}, fmt.Errorf("decode request for %s: %w", r.ID, err)
	}
	if r.Content.Valid && r.Content.String != "" {
		var b report.Bundle
		if err := json.Unmarshal([]byte(r.Content.String), &b); err != nil {
			return Record{}, fmt.Errorf("decode content for %s: %w", r.ID, err)
		}
		rec.Content = &b
	}
	return rec, nil
}

func timeToString(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// Create inserts a new generating record with a fresh id.
func (s *SQLiteStore) Create(ctx context.Context, in CreateInput) (Record, error) {
	if in.UserID == "" {
		return Record{}, errors.New("create report: user id is required")
	}
	reqJSON, err := json.Marshal(in.Request)
	if err != nil {
		return Record{}, fmt.Errorf("encode request: %w", err)
	}
	now := timeToString(s.now())
	row := recordRow{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		CompanyName:      in.Request.Company.Name,
		Industry:         in.Request.Company.Industry,
		City:             in.Request.Location.City,
		State:            location.NormalizeState(in.Request.Location.State),
		LocationTier:     string(in.LocationTier),
		NearestMajorCity: in.NearestMajorCity,
		Request:          string(reqJSON),
		Status:           string(StatusGenerating),
		PaymentRef:       in.Request.PaymentRef,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	_, err = s.db.NamedExecContext(ctx, `INSERT INTO reports (id, user_id, company_name, industry, city, state,
		location_tier, nearest_major_city, request, status, payment_ref, created_at, updated_at)
		VALUES (:id, :user_id, :company_name, :industry, :city, :state,
		:location_tier, :nearest_major_city, :request, :status, :payment_ref, :created_at, :updated_at)`, row)
	if err != nil {
		return Record{}, fmt.Errorf("insert report: %w", err)
	}
	return row.record()
}

// Complete stores the bundle and marks the record ready.
func (s *SQLiteStore) Complete(ctx context.Context, id string, bundle report.Bundle) error {
	content, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET status = ?, content = ?, source = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(StatusReady), string(content), string(bundle.Source), timeToString(s.now()), id, string(StatusGenerating))
	if err != nil {
		return fmt.Errorf("complete report: %w", err)
	}
	return s.finalized(ctx, res, id)
}

// Fail marks a generating record failed with a reason.
func (s *SQLiteStore) Fail(ctx context.Context, id, reason string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET status = ?, failure_reason = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(StatusFailed), reason, timeToString(s.now()), id, string(StatusGenerating))
	if err != nil {
		return fmt.Errorf("fail report: %w", err)
	}
	return s.finalized(ctx, res, id)
}

func (s *SQLiteStore) finalized(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}
	var exists int
	if err := s.db.GetContext(ctx, &exists, `SELECT COUNT(1) FROM reports WHERE id = ?`, id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrNotGenerating
}

// SetPDFURL records the archived PDF location once; later calls keep the
// first URL.
func (s *SQLiteStore) SetPDFURL(ctx context.Context, id, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE reports SET pdf_url = ?, updated_at = ? WHERE id = ? AND pdf_url = ''`,
		url, timeToString(s.now()), id)
	if err != nil {
		return fmt.Errorf("set pdf url: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := s.db.GetContext(ctx, &exists, `SELECT COUNT(1) FROM reports WHERE id = ?`, id); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// Get returns the record when it exists and belongs to userID.
func (s *SQLiteStore) Get(ctx context.Context, id, userID string) (Record, error) {
	var row recordRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM reports WHERE id = ? AND user_id = ?`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get report: %w", err)
	}
	return row.record()
}

// ListByUser returns the user's records newest first, without content.
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	var rows []recordRow
	err := s.db.SelectContext(ctx, &rows, `SELECT id, user_id, company_name, industry, city, state, location_tier,
		nearest_major_city, request, NULL AS content, source, status, failure_reason, payment_ref, pdf_url,
		created_at, updated_at
		FROM reports WHERE user_id = ? ORDER BY created_at DESC, rowid DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Delete removes the user's record.
func (s *SQLiteStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
