// Package ingest imports place records from JSON or Excel exports into the
// SQLite catalog and builds the vector index offline.
package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/catalog"
	"github.com/hyperlocal/bhraman/internal/models"
)

// Ingester imports place records into the catalog database.
type Ingester struct {
	dbPath string
	logger *zap.Logger
}

// NewIngester creates an ingester targeting the given database file.
func NewIngester(dbPath string, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{dbPath: dbPath, logger: logger}
}

// IngestFile imports the file at path, dispatching on extension (.json, .xlsx).
// Records without an id get a generated one. Returns the number of imported
// records.
func (in *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	var (
		raws []map[string]interface{}
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		raws, err = readJSON(path)
	case ".xlsx":
		raws, err = readExcel(path)
	default:
		return 0, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return 0, err
	}

	places := make([]models.Place, 0, len(raws))
	for _, raw := range raws {
		p := catalog.FromRaw(raw)
		if p.Name == "" {
			continue
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		places = append(places, p)
	}

	if err := in.write(ctx, places); err != nil {
		return 0, err
	}
	in.logger.Info("ingested places",
		zap.String("source", path),
		zap.Int("count", len(places)),
	)
	return len(places), nil
}

func (in *Ingester) write(ctx context.Context, places []models.Place) error {
	db, err := catalog.OpenDB(in.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO places (id, name, category, description, history, personal_tips,
		                     tags, images, lat, lng, city, type,
		                     opening_hours, price, best_time, extra)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, category=excluded.category,
		   description=excluded.description, history=excluded.history,
		   personal_tips=excluded.personal_tips, tags=excluded.tags,
		   images=excluded.images, lat=excluded.lat, lng=excluded.lng,
		   city=excluded.city, type=excluded.type,
		   opening_hours=excluded.opening_hours, price=excluded.price,
		   best_time=excluded.best_time, extra=excluded.extra`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range places {
		tagsJSON, _ := json.Marshal(p.Tags)
		imagesJSON, _ := json.Marshal(p.Images)
		var extraJSON sql.NullString
		if len(p.Extra) > 0 {
			data, _ := json.Marshal(p.Extra)
			extraJSON = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Name, p.Category, p.Description, p.History, p.PersonalTips,
			string(tagsJSON), string(imagesJSON), p.Lat, p.Lng, p.City, p.Type,
			p.OpeningHours, p.Price, p.BestTime, extraJSON,
		); err != nil {
			return fmt.Errorf("insert place %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func readJSON(path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raws []map[string]interface{}
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raws, nil
}

// readExcel maps the first sheet's header row to record keys. Tag and image
// cells may hold comma- or semicolon-separated lists.
func readExcel(path string) ([]map[string]interface{}, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var raws []map[string]interface{}
	for _, row := range rows[1:] {
		raw := make(map[string]interface{}, len(header))
		for i, key := range header {
			if key == "" || i >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			switch key {
			case "tags", "sentiment_tags", "images", "image_urls":
				raw[key] = splitList(cell)
			default:
				raw[key] = cell
			}
		}
		if len(raw) > 0 {
			raws = append(raws, raw)
		}
	}
	return raws, nil
}

func splitList(cell string) []interface{} {
	sep := ","
	if strings.Contains(cell, ";") {
		sep = ";"
	}
	parts := strings.Split(cell, sep)
	out := make([]interface{}, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
