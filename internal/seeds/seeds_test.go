package seeds

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/positions"
)

func useTestDB(t *testing.T) *gorm.DB {
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
		&positions.Issue{},
	))

	prev := db.DB
	db.DB = gdb
	t.Cleanup(func() { db.DB = prev })
	return gdb
}

func writeSeedFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const issuesYAML = `
- name: Trade Policy
  slug: trade-policy
  spectrum_left_label: Free Trade
  spectrum_right_label: Protectionist
`

func TestSeedIssuesSkipsExisting(t *testing.T) {
	gdb := useTestDB(t)
	path := writeSeedFile(t, "issues.yaml", issuesYAML)

	require.NoError(t, SeedIssues(path))
	require.NoError(t, SeedIssues(path))

	var issues []positions.Issue
	require.NoError(t, gdb.Find(&issues).Error)
	require.Len(t, issues, 1)
	assert.Equal(t, "Trade Policy", issues[0].Name)
	assert.Equal(t, "Free Trade", issues[0].SpectrumLeftLabel)
}

const membersYAML = `
- id: B000944
  name: Sherrod Brown
  first_name: Sherrod
  last_name: Brown
  state: OH
  party: D
  chamber: senate
  term_start: 2019-01-03
- id: P000603
  name: Rand Paul
  first_name: Rand
  last_name: Paul
  state: KY
  party: R
  chamber: senate
`

func TestSeedMembersUpserts(t *testing.T) {
	gdb := useTestDB(t)
	path := writeSeedFile(t, "members.yaml", membersYAML)

	count, err := SeedMembers(path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Reseeding refreshes instead of duplicating.
	count, err = SeedMembers(path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var members []legislature.Member
	require.NoError(t, gdb.Find(&members).Error)
	require.Len(t, members, 2)

	var brown legislature.Member
	require.NoError(t, gdb.First(&brown, "id = ?", "B000944").Error)
	assert.Equal(t, legislature.PartyDemocrat, brown.Party)
	require.NotNil(t, brown.CurrentTermStart)
	assert.Equal(t, 2019, brown.CurrentTermStart.Year())
}

const votesYAML = `
bills:
  - id: hr1-118
    congress: 118
    bill_type: hr
    bill_number: "1"
    title: Tariff Act
    issue_tags: [trade-policy]
    position_indicator: 0.7
    roll_call_id: s118-1-00001
    vote_date: 2024-03-12
    votes:
      yea: [B000944]
      nay: [P000603, X999999]
`

func TestSeedVotesSkipsUnknownMembers(t *testing.T) {
	gdb := useTestDB(t)
	_, err := SeedMembers(writeSeedFile(t, "members.yaml", membersYAML))
	require.NoError(t, err)

	count, err := SeedVotes(writeSeedFile(t, "votes.yaml", votesYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, count, "X999999 is not in the database and must be skipped")

	var bill legislature.Bill
	require.NoError(t, gdb.First(&bill, "id = ?", "hr1-118").Error)
	require.NotNil(t, bill.PositionIndicator)
	assert.InDelta(t, 0.7, *bill.PositionIndicator, 1e-9)
	assert.True(t, bill.HasTag("trade-policy"))

	var votes []legislature.Vote
	require.NoError(t, gdb.Find(&votes).Error)
	require.Len(t, votes, 2)

	var brownVote legislature.Vote
	require.NoError(t, gdb.First(&brownVote, "member_id = ?", "B000944").Error)
	assert.Equal(t, legislature.VoteYes, brownVote.Vote)
	assert.Equal(t, "s118-1-00001", brownVote.RollCallID)
}

func TestSeedVotesIdempotent(t *testing.T) {
	gdb := useTestDB(t)
	_, err := SeedMembers(writeSeedFile(t, "members.yaml", membersYAML))
	require.NoError(t, err)

	path := writeSeedFile(t, "votes.yaml", votesYAML)
	_, err = SeedVotes(path)
	require.NoError(t, err)
	_, err = SeedVotes(path)
	require.NoError(t, err)

	var count int64
	require.NoError(t, gdb.Model(&legislature.Vote{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

const statementsYAML = `
- member_id: B000944
  text: Trade deals shipped our jobs overseas.
  source_url: https://example.org/brown-1
  source_name: Congressional Record
  source_date: 2024-03-12
  issue_tags: [trade-policy]
- member_id: X999999
  text: Unknown member statement.
  source_url: https://example.org/unknown-1
`

func TestSeedStatements(t *testing.T) {
	gdb := useTestDB(t)
	_, err := SeedMembers(writeSeedFile(t, "members.yaml", membersYAML))
	require.NoError(t, err)

	path := writeSeedFile(t, "statements.yaml", statementsYAML)
	count, err := SeedStatements(path)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Reseeding skips the already-loaded statement.
	count, err = SeedStatements(path)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	var stmt legislature.Statement
	require.NoError(t, gdb.First(&stmt, "member_id = ?", "B000944").Error)
	assert.False(t, stmt.Analyzed)
	assert.True(t, stmt.HasTag("trade-policy"))
	require.NotNil(t, stmt.SourceDate)
}
