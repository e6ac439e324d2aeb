package metadata

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/civicsignal/positions-backend/internal/db"
)

type statusEntry struct {
	DataType    string     `json:"data_type"`
	RecordCount int64      `json:"record_count"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
	Age         string     `json:"age,omitempty"`
	Source      string     `json:"source,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// countedTables maps each tracked data type to its table. Record counts
// in the status response are live counts, not the count captured at the
// last refresh.
var countedTables = map[string]string{
	"members":    "members",
	"bills":      "bills",
	"votes":      "votes",
	"statements": "statements",
	"positions":  "positions",
}

// StatusHandler reports data freshness for every tracked data type.
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := All(db.DB)
	if err != nil {
		log.Printf("[metadata] status: %v", err)
		http.Error(w, "Failed to load status", http.StatusInternalServerError)
		return
	}

	byType := make(map[string]DataMetadata, len(rows))
	for _, row := range rows {
		byType[row.DataType] = row
	}

	entries := make([]statusEntry, 0, len(countedTables))
	for _, dataType := range []string{"members", "bills", "votes", "statements", "positions"} {
		entry := statusEntry{DataType: dataType}

		if table, ok := countedTables[dataType]; ok {
			if err := db.DB.Table(table).Count(&entry.RecordCount).Error; err != nil {
				log.Printf("[metadata] count %s: %v", table, err)
				http.Error(w, "Failed to load status", http.StatusInternalServerError)
				return
			}
		}

		if meta, ok := byType[dataType]; ok {
			updated := meta.LastUpdated
			entry.LastUpdated = &updated
			entry.Age = FormatAge(updated)
			entry.Source = meta.Source
			entry.Notes = meta.Notes
		}

		entries = append(entries, entry)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"data":   entries,
	})
}
