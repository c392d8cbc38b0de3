// ABOUTME: Imports tab-separated track exports (UTF-16 or UTF-8) into the library database
// ABOUTME: Dedupes on case-insensitive title+artist and rebuilds the table on every import

package library

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const insertBatchSize = 500

// Export column names
const (
	colTitle     = "Track Title"
	colArtist    = "Artist"
	colBPM       = "BPM"
	colKey       = "Key"
	colAlbum     = "Album"
	colGenre     = "Genre"
	colRating    = "Rating"
	colTime      = "Time"
	colDateAdded = "Date Added"
)

// ProgressFunc is called after each export file is read
type ProgressFunc func(done, total int)

// ImportStats summarizes an import
type ImportStats struct {
	Files    int // Export files read
	Rows     int // Rows with a title and artist
	Inserted int // Unique tracks now in the library
}

// ReadExport parses one tab-separated export. UTF-16 input is detected by
// its byte order mark; anything else is read as UTF-8. Rows without a title
// or artist are skipped.
func ReadExport(r io.Reader) ([]Record, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	if _, ok := cols[colTitle]; !ok {
		return nil, fmt.Errorf("export has no %q column", colTitle)
	}

	var records []Record

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}

			return strings.TrimSpace(row[i])
		}

		title, artist := field(colTitle), field(colArtist)
		if title == "" || artist == "" {
			continue
		}

		bpm, _ := strconv.ParseFloat(field(colBPM), 64)

		records = append(records, Record{
			Title:     title,
			Artist:    artist,
			BPM:       bpm,
			Key:       NormalizeKey(field(colKey)),
			Album:     field(colAlbum),
			Genre:     field(colGenre),
			Rating:    field(colRating),
			Time:      field(colTime),
			DateAdded: field(colDateAdded),
		})
	}

	return records, nil
}

// ImportFile reads a single export file
func ImportFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ReadExport(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return records, nil
}

// ImportDir replaces the library with every *.txt export in dir.
// Duplicates (same title and artist, ignoring case) keep their first occurrence,
// files being read in name order.
func (l *Library) ImportDir(ctx context.Context, dir string, progress ProgressFunc) (ImportStats, error) {
	if l == nil {
		return ImportStats{}, errLibraryNil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return ImportStats{}, fmt.Errorf("listing exports: %w", err)
	}

	sort.Strings(files)

	stats := ImportStats{Files: len(files)}
	seen := make(map[[2]string]bool)

	var unique []Record

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		records, err := ImportFile(file)
		if err != nil {
			return stats, err
		}

		stats.Rows += len(records)

		for _, rec := range records {
			k := [2]string{strings.ToLower(rec.Title), strings.ToLower(rec.Artist)}
			if seen[k] {
				continue
			}

			seen[k] = true
			unique = append(unique, rec)
		}

		if progress != nil {
			progress(i+1, len(files))
		}
	}

	inserted, err := l.replaceAll(ctx, unique)
	if err != nil {
		return stats, err
	}

	stats.Inserted = inserted

	slog.Info("imported track library", "dir", dir, "files", stats.Files, "rows", stats.Rows, "tracks", stats.Inserted)

	return stats, nil
}

// replaceAll swaps the table contents in one transaction
func (l *Library) replaceAll(ctx context.Context, records []Record) (int, error) {
	var inserted int64

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Record{}).Error; err != nil {
			return fmt.Errorf("clearing library: %w", err)
		}

		if len(records) == 0 {
			return nil
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(records, insertBatchSize)
		if res.Error != nil {
			return fmt.Errorf("inserting tracks: %w", res.Error)
		}

		inserted = res.RowsAffected

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(inserted), nil
}

// parseTime converts "m:ss" or "h:mm:ss" to seconds; anything else is 0
func parseTime(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	var total float64

	for _, part := range strings.Split(s, ":") {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 {
			return 0
		}

		total = total*60 + n
	}

	return total
}
