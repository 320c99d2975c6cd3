package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperlocal/bhraman/internal/models"
)

// SQLiteSource loads places from a SQLite database (the ingest target).
type SQLiteSource struct {
	Path string
}

// OpenDB opens (creating if needed) the catalog database and initializes the
// schema. Parent directories are created if they do not exist.
func OpenDB(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS places (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT,
		description TEXT,
		history TEXT,
		personal_tips TEXT,
		tags TEXT,
		images TEXT,
		lat REAL,
		lng REAL,
		city TEXT,
		type TEXT,
		opening_hours TEXT,
		price TEXT,
		best_time TEXT,
		extra TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_places_city ON places(city);
	CREATE INDEX IF NOT EXISTS idx_places_type ON places(type);
	`
	_, err := db.Exec(schema)
	return err
}

// Load reads every place row in insertion (rowid) order and normalizes it.
func (s *SQLiteSource) Load(ctx context.Context) ([]models.Place, error) {
	db, err := OpenDB(s.Path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, category, description, history, personal_tips,
		        tags, images, lat, lng, city, type,
		        opening_hours, price, best_time, extra
		 FROM places ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var (
			p                        models.Place
			tagsJSON, imagesJSON     sql.NullString
			city, typ                sql.NullString
			hours, price, best       sql.NullString
			extraJSON                sql.NullString
			cat, desc, hist, tips    sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &cat, &desc, &hist, &tips,
			&tagsJSON, &imagesJSON, &p.Lat, &p.Lng, &city, &typ,
			&hours, &price, &best, &extraJSON); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		p.Category = cat.String
		p.Description = desc.String
		p.History = hist.String
		p.PersonalTips = tips.String
		p.City = city.String
		p.Type = typ.String
		p.OpeningHours = hours.String
		p.Price = price.String
		p.BestTime = best.String
		if tagsJSON.Valid && tagsJSON.String != "" {
			_ = json.Unmarshal([]byte(tagsJSON.String), &p.Tags)
		}
		if imagesJSON.Valid && imagesJSON.String != "" {
			_ = json.Unmarshal([]byte(imagesJSON.String), &p.Images)
		}
		if extraJSON.Valid && extraJSON.String != "" {
			_ = json.Unmarshal([]byte(extraJSON.String), &p.Extra)
		}
		places = append(places, normalizePlace(p))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return places, nil
}

// normalizePlace applies the same defaulting contract as FromRaw to a place
// assembled from typed columns.
func normalizePlace(p models.Place) models.Place {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Tags = lowerAll(p.Tags)
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
	if p.City == "" {
		p.City = DefaultCity
	}
	if p.Type == "" {
		p.Type = DefaultType
	}
	if p.NearbyStalls == nil {
		p.NearbyStalls = []models.NearbyStall{}
	}
	return p
}
