// Package orm persists a history of tool invocations in SQLite.
package orm

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SearchRecord is one tool invocation. Route is "ORIGIN-DESTINATION"
// (first origin to last destination for multi-city), Date the first
// departure date.
type SearchRecord struct {
	ID          uint `gorm:"primaryKey"`
	RequestID   string
	Tool        string `gorm:"index"`
	Route       string
	Date        string
	Legs        int
	Strategy    string
	ResultCount int
	TotalPrice  float64
	APICalls    int
	FailedLeg   *int
	CreatedAt   time.Time
}

// Open opens the history database and migrates the schema.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&SearchRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

func RecordSearch(db *gorm.DB, rec *SearchRecord) error {
	return db.Create(rec).Error
}

// RecentSearches returns the latest records, newest first.
func RecentSearches(db *gorm.DB, limit int) ([]SearchRecord, error) {
	var records []SearchRecord
	err := db.Order("id desc").Limit(limit).Find(&records).Error
	return records, err
}
