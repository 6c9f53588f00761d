package db

import (
	"bytes"
	"database/sql"
	"fmt"
	"image"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"hstin/globegores/internal/config"
	"hstin/globegores/internal/sink"
)

// InitDB creates an empty MBTiles-style archive at dbPath, replacing any
// existing file. Gores are stored at zoom 0, row 0, column = gore index.
func InitDB(dbPath string) (*sql.DB, error) {
	os.Remove(dbPath)

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE tiles (
			zoom_level INTEGER,
			tile_column INTEGER,
			tile_row INTEGER,
			tile_data BLOB,
			PRIMARY KEY (zoom_level, tile_column, tile_row)
		);
		CREATE TABLE metadata (
			name TEXT,
			value TEXT,
			PRIMARY KEY (name)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	_, err = db.Exec(`
		INSERT INTO metadata VALUES
		('name', 'Globe Gores'),
		('type', 'baselayer'),
		('version', '1.1'),
		('description', 'Sinusoidal globe gores, one tile per gore, west to east'),
		('format', 'png'),
		('gore_width', '?'),
		('gore_count', '?'),
		('pixel_width', '?'),
		('stroke_width', '?');
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func UpdateMetadata(db *sql.DB, cfg config.Config) error {
	values := map[string]int{
		"gore_width":   cfg.GoreWidth,
		"gore_count":   cfg.GoreCount(),
		"pixel_width":  cfg.PixelWidth,
		"stroke_width": cfg.StrokeWidth,
	}
	for name, v := range values {
		if _, err := db.Exec("UPDATE metadata SET value = ? WHERE name = ?", fmt.Sprint(v), name); err != nil {
			return err
		}
	}
	return nil
}

// WriteArchive stores every tile as a PNG in a new archive at path.
func WriteArchive(path string, cfg config.Config, tiles []*image.RGBA) error {
	database, err := InitDB(path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := UpdateMetadata(database, cfg); err != nil {
		return err
	}

	tx, err := database.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (0, ?, 0, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	var buf bytes.Buffer
	for i, tile := range tiles {
		buf.Reset()
		if err := sink.Encode(&buf, tile, ".png", cfg.Quality); err != nil {
			tx.Rollback()
			return fmt.Errorf("gore %d: %w", i, err)
		}
		if _, err := stmt.Exec(i, buf.Bytes()); err != nil {
			tx.Rollback()
			return fmt.Errorf("gore %d: %w", i, err)
		}
	}
	return tx.Commit()
}
