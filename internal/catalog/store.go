package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fairimport/internal/logger"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrVenueNotFound    = errors.New("venue not found")
	ErrPromoterNotFound = errors.New("promoter not found")
	ErrEventNotFound    = errors.New("event not found")
)

// Store is the sqlite-backed catalog of venues, promoters, and events.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db, log: logger.New("Catalog")}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS venues (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		city TEXT,
		state TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS promoters (
		id TEXT PRIMARY KEY,
		company_name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		start_date TEXT,
		end_date TEXT,
		start_time TEXT,
		end_time TEXT,
		hours_vary_by_day INTEGER NOT NULL DEFAULT 0,
		hours_notes TEXT,
		venue_id TEXT,
		promoter_id TEXT,
		ticket_url TEXT,
		ticket_price_min REAL,
		ticket_price_max REAL,
		image_url TEXT,
		source_url TEXT,
		dates_confirmed INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_venues_name ON venues(name);
	CREATE INDEX IF NOT EXISTS idx_events_source_url ON events(source_url);
	CREATE INDEX IF NOT EXISTS idx_events_slug ON events(slug);
	`

	_, err := s.db.Exec(query)
	return err
}

// Venues

func (s *Store) ListVenues(ctx context.Context) ([]Venue, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, name, COALESCE(address,''), COALESCE(city,''), COALESCE(state,''), created_at, updated_at
	FROM venues ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()

	var out []Venue
	for rows.Next() {
		var v Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.State, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) GetVenue(ctx context.Context, id string) (*Venue, error) {
	var v Venue
	err := s.db.QueryRowContext(ctx, `
	SELECT id, name, COALESCE(address,''), COALESCE(city,''), COALESCE(state,''), created_at, updated_at
	FROM venues WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.State, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return &v, nil
}

func (s *Store) CreateVenue(ctx context.Context, v *Venue) error {
	if v == nil {
		return fmt.Errorf("venue cannot be nil")
	}
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("venue name is required")
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO venues (id, name, address, city, state, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.Name, v.Address, v.City, v.State, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

// Promoters

func (s *Store) ListPromoters(ctx context.Context) ([]Promoter, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, company_name, created_at, updated_at FROM promoters ORDER BY company_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list promoters: %w", err)
	}
	defer rows.Close()

	var out []Promoter
	for rows.Next() {
		var p Promoter
		if err := rows.Scan(&p.ID, &p.CompanyName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan promoter: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPromoter(ctx context.Context, id string) (*Promoter, error) {
	var p Promoter
	err := s.db.QueryRowContext(ctx, `
	SELECT id, company_name, created_at, updated_at FROM promoters WHERE id = ?`, id).
		Scan(&p.ID, &p.CompanyName, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPromoterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get promoter: %w", err)
	}
	return &p, nil
}

func (s *Store) CreatePromoter(ctx context.Context, p *Promoter) error {
	if p == nil {
		return fmt.Errorf("promoter cannot be nil")
	}
	if strings.TrimSpace(p.CompanyName) == "" {
		return fmt.Errorf("promoter company name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO promoters (id, company_name, created_at, updated_at)
	VALUES (?, ?, ?, ?)`,
		p.ID, p.CompanyName, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create promoter: %w", err)
	}
	return nil
}

// Events

func (s *Store) CreateEvent(ctx context.Context, e *Event) error {
	if e == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("event name is required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Slug == "" {
		slug, err := s.uniqueSlug(ctx, e.Name)
		if err != nil {
			return err
		}
		e.Slug = slug
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO events (id, slug, name, description, start_date, end_date, start_time, end_time,
		hours_vary_by_day, hours_notes, venue_id, promoter_id, ticket_url,
		ticket_price_min, ticket_price_max, image_url, source_url, dates_confirmed,
		created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Slug, e.Name, e.Description, e.StartDate, e.EndDate, e.StartTime, e.EndTime,
		boolToInt(e.HoursVaryByDay), e.HoursNotes, e.VenueID, e.PromoterID, e.TicketURL,
		e.TicketPriceMin, e.TicketPriceMax, e.ImageURL, e.SourceURL, boolToInt(e.DatesConfirmed),
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// FindEventBySourceURL returns the most recently imported event whose source
// URL matches, or ErrEventNotFound.
func (s *Store) FindEventBySourceURL(ctx context.Context, sourceURL string) (*Event, error) {
	var e Event
	err := s.db.QueryRowContext(ctx, `
	SELECT id, slug, name FROM events WHERE source_url = ? ORDER BY created_at DESC LIMIT 1`, sourceURL).
		Scan(&e.ID, &e.Slug, &e.Name)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event by source url: %w", err)
	}
	return &e, nil
}

// ListEventNames returns up to limit event (id, name) pairs for the
// duplicate report. The cap keeps the quadratic comparison tractable.
func (s *Store) ListEventNames(ctx context.Context, limit int) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, slug, name FROM events ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list event names: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Slug, &e.Name); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and collapses non-alphanumerics to single hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *Store) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "event"
	}
	slug := base
	for i := 2; ; i++ {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM events WHERE slug = ?`, slug).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if exists == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
