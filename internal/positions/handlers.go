package positions

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func IssuesHandler(w http.ResponseWriter, r *http.Request) {
	var issues []Issue
	if err := db.DB.Find(&issues).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, issues)
}

func IssueHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var issue Issue
	if err := db.DB.First(&issue, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Issue not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, issue)
}

type positionOut struct {
	MemberID       string   `json:"member_id"`
	Name           string   `json:"name"`
	State          string   `json:"state"`
	Party          string   `json:"party"`
	Chamber        string   `json:"chamber"`
	PhotoURL       string   `json:"photo_url"`
	Score          float64  `json:"score"`
	Confidence     float64  `json:"confidence"`
	VoteScore      *float64 `json:"vote_score"`
	StatementScore *float64 `json:"statement_score"`
	EvidenceCount  int      `json:"evidence_count"`
}

type issuePositionsResponse struct {
	Issue     Issue         `json:"issue"`
	Positions []positionOut `json:"positions"`
	Stats     struct {
		Total   int            `json:"total"`
		ByParty map[string]int `json:"by_party"`
	} `json:"stats"`
}

// IssuePositionsHandler returns every member position on an issue, sorted
// into spectrum order, optionally filtered by chamber. Members are loaded
// in one batch and joined in memory.
func IssuePositionsHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var issue Issue
	if err := db.DB.First(&issue, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Issue not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var rows []Position
	if err := db.DB.Where("issue_id = ?", issue.ID).Find(&rows).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	memberIDs := make([]string, 0, len(rows))
	for _, p := range rows {
		memberIDs = append(memberIDs, p.MemberID)
	}
	members := map[string]legislature.Member{}
	if len(memberIDs) > 0 {
		var list []legislature.Member
		if err := db.DB.Where("id IN ?", memberIDs).Find(&list).Error; err != nil {
			http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		for _, m := range list {
			members[m.ID] = m
		}
	}

	chamber := strings.ToLower(r.URL.Query().Get("chamber"))

	resp := issuePositionsResponse{Issue: issue}
	resp.Stats.ByParty = map[string]int{}

	for _, p := range rows {
		member, ok := members[p.MemberID]
		if !ok {
			continue
		}
		if chamber != "" && string(member.Chamber) != chamber {
			continue
		}
		resp.Positions = append(resp.Positions, positionOut{
			MemberID:       member.ID,
			Name:           member.Name,
			State:          member.State,
			Party:          string(member.Party),
			Chamber:        string(member.Chamber),
			PhotoURL:       member.PhotoURL,
			Score:          p.Score,
			Confidence:     p.Confidence,
			VoteScore:      p.VoteScore,
			StatementScore: p.StatementScore,
			EvidenceCount:  p.EvidenceCount,
		})
		resp.Stats.ByParty[string(member.Party)]++
	}

	sort.Slice(resp.Positions, func(i, j int) bool {
		return resp.Positions[i].Score < resp.Positions[j].Score
	})
	resp.Stats.Total = len(resp.Positions)

	writeJSON(w, resp)
}

// PositionEvidenceHandler returns the evidence backing one position, with
// the extraction transparency fields intact for audit display.
func PositionEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var position Position
	if err := db.DB.First(&position, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Position not found", http.StatusNotFound)
			return
		}
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var evidence []Evidence
	if err := db.DB.Where("position_id = ?", id).Find(&evidence).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"position": position,
		"evidence": evidence,
	})
}
