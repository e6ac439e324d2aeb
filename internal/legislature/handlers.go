package legislature

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/db"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func MembersHandler(w http.ResponseWriter, r *http.Request) {
	q := db.DB.Model(&Member{})

	if chamber := strings.ToLower(r.URL.Query().Get("chamber")); chamber != "" {
		q = q.Where("chamber = ?", chamber)
	}
	if state := strings.ToUpper(r.URL.Query().Get("state")); state != "" {
		q = q.Where("state = ?", state)
	}

	var members []Member
	if err := q.Order("last_name").Find(&members).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, members)
}

// memberPosition is read straight off the positions table; the positions
// package owns the model, this is just the slice of it the member detail
// view needs.
type memberPosition struct {
	ID             string   `json:"position_id" gorm:"column:id"`
	IssueID        string   `json:"issue_id"`
	Score          float64  `json:"score"`
	Confidence     float64  `json:"confidence"`
	VoteScore      *float64 `json:"vote_score"`
	StatementScore *float64 `json:"statement_score"`
	EvidenceCount  int      `json:"evidence_count"`
}

type voteEvidenceOut struct {
	BillID            string   `json:"bill_id"`
	BillTitle         string   `json:"bill_title"`
	Vote              string   `json:"vote"`
	VoteDate          string   `json:"vote_date"`
	PositionIndicator *float64 `json:"bill_position_indicator"`
}

// MemberHandler returns one member with their computed positions and their
// voting record as displayable evidence. Bills are fetched in one batch
// and joined in memory.
func MemberHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var member Member
	if err := db.DB.First(&member, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Member not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var positions []memberPosition
	if err := db.DB.Table("positions").Where("member_id = ?", id).Find(&positions).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var votes []Vote
	if err := db.DB.Where("member_id = ?", id).Find(&votes).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	billIDs := make([]string, 0, len(votes))
	for _, v := range votes {
		billIDs = append(billIDs, v.BillID)
	}
	bills := map[string]Bill{}
	if len(billIDs) > 0 {
		var list []Bill
		if err := db.DB.Where("id IN ?", billIDs).Find(&list).Error; err != nil {
			http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		for _, b := range list {
			bills[b.ID] = b
		}
	}

	voteEvidence := make([]voteEvidenceOut, 0, len(votes))
	for _, v := range votes {
		bill, ok := bills[v.BillID]
		if !ok {
			continue
		}
		voteEvidence = append(voteEvidence, voteEvidenceOut{
			BillID:            bill.ID,
			BillTitle:         bill.DisplayTitle(),
			Vote:              string(v.Vote),
			VoteDate:          v.VoteDate.Format("2006-01-02"),
			PositionIndicator: bill.PositionIndicator,
		})
	}

	writeJSON(w, map[string]any{
		"id":         member.ID,
		"name":       member.Name,
		"first_name": member.FirstName,
		"last_name":  member.LastName,
		"state":      member.State,
		"party":      member.Party,
		"chamber":    member.Chamber,
		"photo_url":  member.PhotoURL,
		"positions":  positions,
		"evidence": map[string]any{
			"votes": voteEvidence,
		},
	})
}
