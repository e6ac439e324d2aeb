package metadata

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DataMetadata tracks when each data type was last refreshed and from
// where. One row per data type ("members", "votes", "statements",
// "positions").
type DataMetadata struct {
	DataType    string    `gorm:"primaryKey;size:50" json:"data_type"`
	LastUpdated time.Time `json:"last_updated"`
	RecordCount int       `json:"record_count"`
	Source      string    `gorm:"size:100" json:"source"`
	Notes       string    `json:"notes,omitempty"`
}

func (DataMetadata) TableName() string {
	return "data_metadata"
}

// Update records a refresh of the given data type.
func Update(tx *gorm.DB, dataType string, recordCount int, source, notes string) error {
	var meta DataMetadata
	err := tx.First(&meta, "data_type = ?", dataType).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		meta = DataMetadata{
			DataType:    dataType,
			LastUpdated: time.Now().UTC(),
			RecordCount: recordCount,
			Source:      source,
			Notes:       notes,
		}
		if err := tx.Create(&meta).Error; err != nil {
			return fmt.Errorf("create metadata %s: %w", dataType, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("load metadata %s: %w", dataType, err)
	}

	err = tx.Model(&meta).Updates(map[string]any{
		"last_updated": time.Now().UTC(),
		"record_count": recordCount,
		"source":       source,
		"notes":        notes,
	}).Error
	if err != nil {
		return fmt.Errorf("update metadata %s: %w", dataType, err)
	}
	return nil
}

// Get returns the metadata row for one data type, or nil when the type
// has never been refreshed.
func Get(tx *gorm.DB, dataType string) (*DataMetadata, error) {
	var meta DataMetadata
	err := tx.First(&meta, "data_type = ?", dataType).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load metadata %s: %w", dataType, err)
	}
	return &meta, nil
}

// All returns every metadata row.
func All(tx *gorm.DB) ([]DataMetadata, error) {
	var rows []DataMetadata
	if err := tx.Order("data_type").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return rows, nil
}

// IsStale reports whether a data type needs a refresh. Data that has
// never been refreshed is stale.
func IsStale(tx *gorm.DB, dataType string, maxAge time.Duration) (bool, error) {
	meta, err := Get(tx, dataType)
	if err != nil {
		return false, err
	}
	if meta == nil {
		return true, nil
	}
	return time.Since(meta.LastUpdated) > maxAge, nil
}

// FormatAge renders how long ago a timestamp was in rough human terms.
func FormatAge(t time.Time) string {
	age := time.Since(t)
	days := int(age.Hours() / 24)

	switch {
	case days == 0:
		hours := int(age.Hours())
		if hours == 0 {
			minutes := int(age.Minutes())
			return fmt.Sprintf("%d minute%s ago", minutes, plural(minutes))
		}
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		return fmt.Sprintf("%d week%s ago", weeks, plural(weeks))
	default:
		months := days / 30
		return fmt.Sprintf("%d month%s ago", months, plural(months))
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
