package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/civicsignal/positions-backend/internal/legislature"
)

// CLI flags
var (
	csvPath     = flag.String("csv", "", "Path to the source CSV (required)")
	dsn         = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun      = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm     = flag.Bool("confirm", false, "Required to perform the bulk load")
	advisoryKey = flag.Int64("advisory-lock", 0, "Optional Postgres advisory lock key (e.g., 424242). 0 = disabled")
)

// CSV contract
// member_id,bill_id,roll_call_id,vote,vote_date,session
// vote is a roll-call category (Yea/Nay/Present/Not Voting); vote_date is YYYY-MM-DD

type VoteCSV struct {
	MemberID   string
	BillID     string
	RollCallID string
	Vote       legislature.VoteChoice
	VoteDate   time.Time
	Session    int
}

var bioguideRe = regexp.MustCompile(`^[A-Z][0-9]{6}$`)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	rows, err := loadCSV(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}
	if err := validateRows(rows); err != nil {
		fatalf("CSV validation failed: %v", err)
	}

	fmt.Printf("Loaded %d votes from %s\n", len(rows), *csvPath)

	if *dryRun {
		printPlan(rows)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	// Optional advisory lock to avoid concurrent runs
	if *advisoryKey != 0 {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, *advisoryKey); err != nil {
			fatalf("advisory lock: %v", err)
		}
	}

	before, err := countVotes(ctx, tx)
	if err != nil {
		fatalf("pre-count: %v", err)
	}
	fmt.Printf("Before: votes=%d\n", before)

	inserted, skipped, err := insertAll(ctx, tx, rows)
	if err != nil {
		fatalf("insert data: %v", err)
	}

	after, err := countVotes(ctx, tx)
	if err != nil {
		fatalf("post-count: %v", err)
	}
	fmt.Printf("After:  votes=%d (%d upserted, %d skipped: member or bill missing)\n", after, inserted, skipped)

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Bulk load complete")
}

func loadCSV(path string) ([]VoteCSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	r := csv.NewReader(br)
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	required := []string{"member_id", "bill_id", "roll_call_id", "vote", "vote_date", "session"}
	for _, k := range required {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []VoteCSV
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		line++

		voteDate, err := time.Parse("2006-01-02", strings.TrimSpace(rec[idx["vote_date"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad vote_date: %w", line, err)
		}
		session, err := strconv.Atoi(strings.TrimSpace(rec[idx["session"]]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad session: %w", line, err)
		}

		out = append(out, VoteCSV{
			MemberID:   strings.TrimSpace(rec[idx["member_id"]]),
			BillID:     strings.TrimSpace(rec[idx["bill_id"]]),
			RollCallID: strings.TrimSpace(rec[idx["roll_call_id"]]),
			Vote:       legislature.ParseVoteChoice(rec[idx["vote"]]),
			VoteDate:   voteDate,
			Session:    session,
		})
	}
	return out, nil
}

func validateRows(rows []VoteCSV) error {
	if len(rows) == 0 {
		return fmt.Errorf("CSV has no data rows")
	}
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		if !bioguideRe.MatchString(r.MemberID) {
			return fmt.Errorf("row %d: '%s' is not a bioguide id", i+2, r.MemberID)
		}
		if r.BillID == "" {
			return fmt.Errorf("row %d: bill_id is empty", i+2)
		}
		if r.RollCallID == "" {
			return fmt.Errorf("row %d: roll_call_id is empty", i+2)
		}
		key := r.MemberID + "|" + r.BillID + "|" + r.RollCallID
		if _, dup := seen[key]; dup {
			return fmt.Errorf("row %d: duplicate vote for %s on %s (%s)", i+2, r.MemberID, r.BillID, r.RollCallID)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func printPlan(rows []VoteCSV) {
	bills := map[string]int{}
	for _, r := range rows {
		bills[r.BillID]++
	}
	fmt.Println("Plan preview:")
	fmt.Printf("  Votes to upsert: %d across %d bills\n", len(rows), len(bills))
	for billID, count := range bills {
		fmt.Printf("    %s: %d votes\n", billID, count)
	}
	fmt.Println("  Conflicts on (member_id, bill_id, roll_call_id) update in place")
}

func countVotes(ctx context.Context, tx *sql.Tx) (int64, error) {
	var c int64
	err := tx.QueryRowContext(ctx, `SELECT count(*) FROM votes`).Scan(&c)
	return c, err
}

func insertAll(ctx context.Context, tx *sql.Tx, rows []VoteCSV) (inserted, skipped int, err error) {
	// Votes referencing unknown members or bills are skipped, not fatal:
	// bulk files routinely cover the whole chamber while a database may
	// hold a subset.
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO votes (id, member_id, bill_id, vote, vote_date, roll_call_id, session)
		SELECT $1, m.id, b.id, $4, $5, $6, $7
		FROM members m, bills b
		WHERE m.id = $2 AND b.id = $3
		ON CONFLICT (member_id, bill_id, roll_call_id)
		DO UPDATE SET vote = EXCLUDED.vote, vote_date = EXCLUDED.vote_date, session = EXCLUDED.session`)
	if err != nil {
		return 0, 0, err
	}
	defer stmt.Close()

	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, uuid.NewString(),
			r.MemberID, r.BillID, string(r.Vote), r.VoteDate, r.RollCallID, r.Session)
		if err != nil {
			return inserted, skipped, fmt.Errorf("upsert vote %s on %s: %w", r.MemberID, r.BillID, err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
