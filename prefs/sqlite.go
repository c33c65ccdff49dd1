// ABOUTME: SQLite preference backend using gorm over the pure-Go glebarez driver
// ABOUTME: Stores each preference key as one JSON-encoded row

package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Row keys, named after the JSON document fields
const (
	keyFilterStates    = "filterStates"
	keySearchQuery     = "searchQuery"
	keyCombinationMode = "filterCombinationMode"
)

// Preference is one key/value row
type Preference struct {
	Key   string `gorm:"primaryKey;type:varchar(64)"`
	Value string
}

// SQLiteStore mirrors preferences to a sqlite table
type SQLiteStore struct {
	*Memory
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and loads saved preferences
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create preferences directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences db: %w", err)
	}

	if err := db.AutoMigrate(&Preference{}); err != nil {
		closeDB(db)

		return nil, fmt.Errorf("failed to migrate preferences db: %w", err)
	}

	var rows []Preference
	if err := db.Find(&rows).Error; err != nil {
		closeDB(db)

		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	var state State

	for _, row := range rows {
		switch row.Key {
		case keyFilterStates:
			if err := json.Unmarshal([]byte(row.Value), &state.FilterStates); err != nil {
				closeDB(db)

				return nil, fmt.Errorf("failed to parse filter states: %w", err)
			}
		case keySearchQuery:
			state.SearchQuery = row.Value
		case keyCombinationMode:
			state.FilterCombinationMode = row.Value
		}
	}

	return &SQLiteStore{Memory: NewMemory(state), db: db}, nil
}

// UpdateFilterStates replaces the saved selections
func (s *SQLiteStore) UpdateFilterStates(states map[string][]string) error {
	_ = s.Memory.UpdateFilterStates(states)

	data, err := json.Marshal(s.Memory.FilterStates())
	if err != nil {
		return fmt.Errorf("failed to encode filter states: %w", err)
	}

	return s.put(keyFilterStates, string(data))
}

// UpdateSearchQuery replaces the saved search text
func (s *SQLiteStore) UpdateSearchQuery(query string) error {
	_ = s.Memory.UpdateSearchQuery(query)

	return s.put(keySearchQuery, query)
}

// UpdateCombinationMode replaces the saved mode
func (s *SQLiteStore) UpdateCombinationMode(mode string) error {
	_ = s.Memory.UpdateCombinationMode(mode)

	return s.put(keyCombinationMode, mode)
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}

	return sqlDB.Close()
}

func (s *SQLiteStore) put(key, value string) error {
	row := Preference{Key: key, Value: value}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}

	return nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
