package legislature

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertMember inserts or refreshes a member by bioguide id. Identity is
// immutable; name, party, state and photo are collection-refreshed
// metadata.
func UpsertMember(tx *gorm.DB, member Member) error {
	member.UpdatedAt = time.Now().UTC()
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "first_name", "last_name", "state", "party", "chamber",
			"photo_url", "updated_at",
		}),
	}).Create(&member).Error
	if err != nil {
		return fmt.Errorf("upsert member %s: %w", member.ID, err)
	}
	return nil
}

// UpsertBill inserts or refreshes a bill. Curated scoring fields
// (position indicator and reasoning) are only overwritten when the
// incoming bill carries them, so a collection pass never erases curation.
func UpsertBill(tx *gorm.DB, bill Bill) error {
	columns := []string{"title", "short_title", "issue_tags", "latest_action_date"}
	if bill.PositionIndicator != nil {
		columns = append(columns, "position_indicator", "position_reasoning")
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&bill).Error
	if err != nil {
		return fmt.Errorf("upsert bill %s: %w", bill.ID, err)
	}
	return nil
}

// UpsertVote inserts a vote or overwrites an earlier record with the same
// (member, bill, roll call) natural key, which is how roll-call
// corrections arrive.
func UpsertVote(tx *gorm.DB, vote Vote) error {
	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "member_id"}, {Name: "bill_id"}, {Name: "roll_call_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"vote", "vote_date", "session"}),
	}).Create(&vote).Error
	if err != nil {
		return fmt.Errorf("upsert vote %s on %s: %w", vote.MemberID, vote.BillID, err)
	}
	return nil
}
