package positions

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/positions/scoring"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(
		&legislature.Member{},
		&legislature.Bill{},
		&legislature.Vote{},
		&legislature.Statement{},
		&Issue{},
		&Position{},
		&Evidence{},
	))
	return gdb
}

func seedIssue(t *testing.T, gdb *gorm.DB) Issue {
	t.Helper()
	issue := Issue{
		ID:                 uuid.NewString(),
		Name:               "Trade Policy",
		Slug:               "trade-policy",
		SpectrumLeftLabel:  "Free Trade",
		SpectrumRightLabel: "Protectionist",
	}
	require.NoError(t, gdb.Create(&issue).Error)
	return issue
}

func seedMember(t *testing.T, gdb *gorm.DB, id, name string) legislature.Member {
	t.Helper()
	member := legislature.Member{
		ID:      id,
		Name:    name,
		State:   "OH",
		Party:   legislature.PartyDemocrat,
		Chamber: legislature.ChamberSenate,
	}
	require.NoError(t, gdb.Create(&member).Error)
	return member
}

func seedBill(t *testing.T, gdb *gorm.DB, id string, indicator *float64) legislature.Bill {
	t.Helper()
	bill := legislature.Bill{
		ID:                id,
		Congress:          118,
		Title:             "A bill about " + id,
		IssueTags:         []string{"trade-policy"},
		PositionIndicator: indicator,
	}
	require.NoError(t, gdb.Create(&bill).Error)
	return bill
}

func seedVote(t *testing.T, gdb *gorm.DB, memberID, billID string, choice legislature.VoteChoice) {
	t.Helper()
	vote := legislature.Vote{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		BillID:     billID,
		Vote:       choice,
		VoteDate:   time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
		RollCallID: uuid.NewString(),
	}
	require.NoError(t, gdb.Create(&vote).Error)
}

func indicator(v float64) *float64 { return &v }

func TestCalculateIssueVotesOnly(t *testing.T) {
	gdb := openTestDB(t)
	seedIssue(t, gdb)
	member := seedMember(t, gdb, "S000001", "Test Senator")
	seedBill(t, gdb, "hr1-118", indicator(0.7))
	seedBill(t, gdb, "s2-118", indicator(-0.9))
	seedVote(t, gdb, member.ID, "hr1-118", legislature.VoteYes)
	seedVote(t, gdb, member.ID, "s2-118", legislature.VoteNo)

	summary, err := CalculateIssue(gdb, scoring.DefaultConfig(), "trade-policy", legislature.ChamberSenate)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Calculated)
	assert.Equal(t, 0, summary.Skipped)

	var position Position
	require.NoError(t, gdb.First(&position, "member_id = ?", member.ID).Error)
	assert.InDelta(t, 0.8, position.Score, 1e-9)
	assert.InDelta(t, 0.32, position.Confidence, 1e-9)
	assert.Equal(t, 2, position.EvidenceCount)
	require.NotNil(t, position.VoteScore)
	assert.InDelta(t, 0.8, *position.VoteScore, 1e-9)
	assert.Nil(t, position.StatementScore)
}

func TestCalculateIssueStatementsOnly(t *testing.T) {
	gdb := openTestDB(t)
	issue := seedIssue(t, gdb)
	member := seedMember(t, gdb, "S000002", "Quiet Senator")

	date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	stmt := legislature.Statement{
		ID:         uuid.NewString(),
		MemberID:   member.ID,
		Text:       "Tariffs are taxes on working families.",
		SourceURL:  "https://example.gov/crec/1",
		SourceDate: &date,
		IssueTags:  []string{"trade-policy"},
	}
	require.NoError(t, gdb.Create(&stmt).Error)

	position, err := GetOrCreatePosition(gdb, member.ID, issue.ID)
	require.NoError(t, err)
	require.NoError(t, UpsertStatementEvidence(gdb, position.ID, stmt, StatementExtraction{
		Score:      -0.6,
		Confidence: 0.9,
		Reasoning:  "opposes tariffs",
	}))

	summary, err := CalculateIssue(gdb, scoring.DefaultConfig(), "trade-policy", legislature.ChamberSenate)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Calculated)

	var got Position
	require.NoError(t, gdb.First(&got, "member_id = ?", member.ID).Error)
	assert.InDelta(t, -0.6, got.Score, 1e-9)
	assert.InDelta(t, 0.2, got.Confidence, 1e-9)
	assert.Equal(t, 1, got.EvidenceCount)
	assert.Nil(t, got.VoteScore)
	require.NotNil(t, got.StatementScore)
	assert.InDelta(t, -0.6, *got.StatementScore, 1e-9)
}

// A member with no contributory evidence must not get a position row, and
// the run reports the skip rather than failing.
func TestCalculateIssueNoEvidenceWritesNothing(t *testing.T) {
	gdb := openTestDB(t)
	seedIssue(t, gdb)
	member := seedMember(t, gdb, "S000003", "New Senator")
	// A vote on a bill with no position indicator is non-contributory.
	seedBill(t, gdb, "hr9-118", nil)
	seedVote(t, gdb, member.ID, "hr9-118", legislature.VoteYes)

	summary, err := CalculateIssue(gdb, scoring.DefaultConfig(), "trade-policy", legislature.ChamberSenate)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Calculated)
	assert.Equal(t, 1, summary.Skipped)

	var count int64
	require.NoError(t, gdb.Model(&Position{}).Count(&count).Error)
	assert.Zero(t, count)
}

// Votes on indicator-less bills must not move an existing score either.
func TestCalculateIssueMissingIndicatorExcluded(t *testing.T) {
	gdb := openTestDB(t)
	seedIssue(t, gdb)
	member := seedMember(t, gdb, "S000004", "Mixed Senator")
	seedBill(t, gdb, "hr1-118", indicator(0.5))
	seedBill(t, gdb, "hr2-118", nil)
	seedVote(t, gdb, member.ID, "hr1-118", legislature.VoteYes)
	seedVote(t, gdb, member.ID, "hr2-118", legislature.VoteYes)

	summary, err := CalculateIssue(gdb, scoring.DefaultConfig(), "trade-policy", legislature.ChamberSenate)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Calculated)

	var position Position
	require.NoError(t, gdb.First(&position, "member_id = ?", member.ID).Error)
	assert.InDelta(t, 0.5, position.Score, 1e-9)
	// Only the single contributory vote counts.
	assert.Equal(t, 1, position.EvidenceCount)
}

func TestCalculateIssueIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	seedIssue(t, gdb)
	member := seedMember(t, gdb, "S000005", "Steady Senator")
	seedBill(t, gdb, "hr1-118", indicator(0.7))
	seedVote(t, gdb, member.ID, "hr1-118", legislature.VoteYes)

	_, err := CalculateIssue(gdb, scoring.DefaultConfig(), "trade-policy", legislature.ChamberSenate)
	require.NoError(t, err)

	var first Position
	require.NoError(t, gdb.First(&first, "member_id = ?", member.ID).Error)

	_, err = CalculateIssue(gdb, scoring.DefaultConfig(), "trade-policy", legislature.ChamberSenate)
	require.NoError(t, err)

	var second Position
	require.NoError(t, gdb.First(&second, "member_id = ?", member.ID).Error)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.EvidenceCount, second.EvidenceCount)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)

	var count int64
	require.NoError(t, gdb.Model(&Position{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCalculateIssueUnknownIssue(t *testing.T) {
	gdb := openTestDB(t)
	_, err := CalculateIssue(gdb, scoring.DefaultConfig(), "no-such-issue", legislature.ChamberSenate)
	assert.ErrorIs(t, err, ErrIssueNotFound)
}

// Re-analyzing a statement must update the existing evidence row, not add
// a duplicate.
func TestUpsertStatementEvidenceOverwrites(t *testing.T) {
	gdb := openTestDB(t)
	issue := seedIssue(t, gdb)
	member := seedMember(t, gdb, "S000006", "Loud Senator")

	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	stmt := legislature.Statement{
		ID:         uuid.NewString(),
		MemberID:   member.ID,
		Text:       "Buy American, always.",
		SourceURL:  "https://example.gov/crec/2",
		SourceDate: &date,
		IssueTags:  []string{"trade-policy"},
	}
	require.NoError(t, gdb.Create(&stmt).Error)

	position, err := GetOrCreatePosition(gdb, member.ID, issue.ID)
	require.NoError(t, err)

	require.NoError(t, UpsertStatementEvidence(gdb, position.ID, stmt, StatementExtraction{Score: 0.7, Confidence: 0.8}))
	require.NoError(t, UpsertStatementEvidence(gdb, position.ID, stmt, StatementExtraction{Score: 0.9, Confidence: 0.95}))

	var rows []Evidence
	require.NoError(t, gdb.Where("position_id = ?", position.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].ExtractedPosition)
	assert.InDelta(t, 0.9, *rows[0].ExtractedPosition, 1e-9)
	require.NotNil(t, rows[0].ExtractionConfidence)
	assert.InDelta(t, 0.95, *rows[0].ExtractionConfidence, 1e-9)
}

func TestGetOrCreatePositionIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	issue := seedIssue(t, gdb)
	member := seedMember(t, gdb, "S000007", "Any Senator")

	first, err := GetOrCreatePosition(gdb, member.ID, issue.ID)
	require.NoError(t, err)
	second, err := GetOrCreatePosition(gdb, member.ID, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
