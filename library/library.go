// ABOUTME: SQLite-backed track library holding reference BPM/key data by title
// ABOUTME: Supports exact lookups, substring request matching, autocomplete titles and track enrichment

// Package library stores the DJ's reference track attributes (BPM, Camelot key,
// length) imported from DJ software exports, and answers lookups by title.
package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"setlist-sidecar/setlist"
)

const lookupBatchSize = 500

var (
	ErrNotFound   = errors.New("no track matches")
	errLibraryNil = errors.New("library is nil")
)

// Record is one row of the track_info table
type Record struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"`
	Title     string  `gorm:"column:track_title;uniqueIndex:idx_track_unique,priority:1;index:idx_track_title"`
	Artist    string  `gorm:"uniqueIndex:idx_track_unique,priority:2"`
	BPM       float64 `gorm:"column:bpm"`
	Key       string
	Album     string
	Genre     string
	Rating    string
	Time      string // Length as exported, e.g. "5:32"
	DateAdded string
}

// TableName keeps the table name stable regardless of the struct name
func (Record) TableName() string {
	return "track_info"
}

// Track converts a record to a set track
func (r Record) Track() setlist.Track {
	return setlist.Track{
		Title:    r.Title,
		Artist:   r.Artist,
		BPM:      r.BPM,
		Key:      r.Key,
		Duration: parseTime(r.Time),
		Album:    r.Album,
		Genre:    r.Genre,
	}
}

// Reference holds the musical attributes the library knows for a title
type Reference struct {
	BPM      float64
	Key      string
	Duration float64
}

// Library is a handle on the track database
type Library struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

// Open opens (creating if needed) the library database at path
func Open(path string) (*Library, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating library dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening library db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	// One connection: imports from the export watcher and UI lookups serialize
	// instead of failing with "database is locked".
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		_ = sqlDB.Close()

		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Library{db: db, sqlDB: sqlDB}, nil
}

// Close closes the database
func (l *Library) Close() error {
	if l == nil || l.sqlDB == nil {
		return nil
	}

	return l.sqlDB.Close()
}

// Count returns the number of tracks in the library
func (l *Library) Count() (int64, error) {
	if l == nil {
		return 0, errLibraryNil
	}

	var n int64
	if err := l.db.Model(&Record{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting tracks: %w", err)
	}

	return n, nil
}

// Lookup returns the reference attributes for an exact title.
// When several artists share a title the first imported wins.
func (l *Library) Lookup(title string) (Reference, bool, error) {
	if l == nil {
		return Reference{}, false, errLibraryNil
	}

	var rec Record

	err := l.db.Where("track_title = ?", title).Order("id").First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Reference{}, false, nil
	}

	if err != nil {
		return Reference{}, false, fmt.Errorf("looking up %q: %w", title, err)
	}

	return reference(rec), true, nil
}

func reference(rec Record) Reference {
	return Reference{BPM: rec.BPM, Key: rec.Key, Duration: parseTime(rec.Time)}
}

// Titles returns every distinct title, for autocomplete
func (l *Library) Titles() ([]string, error) {
	if l == nil {
		return nil, errLibraryNil
	}

	var titles []string
	if err := l.db.Model(&Record{}).Distinct().Order("track_title").Pluck("track_title", &titles).Error; err != nil {
		return nil, fmt.Errorf("listing titles: %w", err)
	}

	return titles, nil
}

// All returns every track in import order
func (l *Library) All() ([]setlist.Track, error) {
	if l == nil {
		return nil, errLibraryNil
	}

	var recs []Record
	if err := l.db.Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("listing tracks: %w", err)
	}

	return toTracks(recs), nil
}

// Match returns the first track, in import order, whose title contains
// query case-insensitively. Returns ErrNotFound when nothing matches.
func (l *Library) Match(query string) (setlist.Track, error) {
	matches, err := l.Search(query, 1)
	if err != nil {
		return setlist.Track{}, err
	}

	if len(matches) == 0 {
		return setlist.Track{}, fmt.Errorf("%w %q", ErrNotFound, query)
	}

	return matches[0], nil
}

// Search returns up to limit tracks whose title contains query
// case-insensitively, in import order. limit <= 0 means no limit.
func (l *Library) Search(query string, limit int) ([]setlist.Track, error) {
	if l == nil {
		return nil, errLibraryNil
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	tx := l.db.Where("instr(lower(track_title), ?) > 0", query).Order("id")
	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var recs []Record
	if err := tx.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}

	return toTracks(recs), nil
}

// Enrich fills in missing BPM, key and length from exact title matches.
// Attributes the source already supplied are kept. Returns a new slice.
func (l *Library) Enrich(tracks []setlist.Track) ([]setlist.Track, error) {
	if l == nil {
		return nil, errLibraryNil
	}

	refs, err := l.lookupMany(tracks)
	if err != nil {
		return nil, err
	}

	out := make([]setlist.Track, len(tracks))
	for i, t := range tracks {
		if ref, ok := refs[t.Title]; ok {
			if t.BPM == 0 {
				t.BPM = ref.BPM
			}

			if t.Key == "" {
				t.Key = ref.Key
			}

			if t.Duration == 0 {
				t.Duration = ref.Duration
			}
		}

		out[i] = t
	}

	return out, nil
}

// lookupMany fetches references for all titles, first imported record per title
func (l *Library) lookupMany(tracks []setlist.Track) (map[string]Reference, error) {
	seen := make(map[string]bool, len(tracks))
	titles := make([]string, 0, len(tracks))

	for _, t := range tracks {
		if !seen[t.Title] {
			seen[t.Title] = true
			titles = append(titles, t.Title)
		}
	}

	refs := make(map[string]Reference, len(titles))

	for start := 0; start < len(titles); start += lookupBatchSize {
		batch := titles[start:min(start+lookupBatchSize, len(titles))]

		var recs []Record
		if err := l.db.Where("track_title IN ?", batch).Order("id").Find(&recs).Error; err != nil {
			return nil, fmt.Errorf("looking up titles: %w", err)
		}

		for _, rec := range recs {
			if _, ok := refs[rec.Title]; !ok {
				refs[rec.Title] = reference(rec)
			}
		}
	}

	return refs, nil
}

func toTracks(recs []Record) []setlist.Track {
	out := make([]setlist.Track, len(recs))
	for i, r := range recs {
		out[i] = r.Track()
	}

	return out
}
