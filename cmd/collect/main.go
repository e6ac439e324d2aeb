package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/civicsignal/positions-backend/internal/db"
	"github.com/civicsignal/positions-backend/internal/legislature"
	"github.com/civicsignal/positions-backend/internal/legislature/congress"
	"github.com/civicsignal/positions-backend/internal/metadata"
)

// CLI flags
var (
	collectMembers = flag.Bool("members", false, "Collect current senate members")
	collectBills   = flag.Bool("bills", false, "Collect recent bills and tag issue-relevant ones")
	rollCall       = flag.Int("rollcall", 0, "Senate roll call number to collect votes from (requires -bill)")
	billID         = flag.String("bill", "", "Bill id to attach roll call votes to (e.g. hr5430-116)")
	congressNum    = flag.Int("congress", 118, "Congress number")
	session        = flag.Int("session", 1, "Senate session within the congress")
	billLimit      = flag.Int("limit", 250, "Maximum bills to fetch")
	issueSlug      = flag.String("issue", "trade-policy", "Issue slug used for bill tagging")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if !*collectMembers && !*collectBills && *rollCall == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *rollCall != 0 && *billID == "" {
		log.Fatal("-rollcall requires -bill")
	}

	client, err := congress.NewClient(congress.LoadFromEnv())
	if err != nil {
		log.Fatalf("Congress.gov client: %v", err)
	}

	db.Connect()
	legislature.Init()
	metadata.Init()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *collectMembers {
		if err := runCollectMembers(ctx, client); err != nil {
			log.Fatalf("Collect members: %v", err)
		}
	}
	if *collectBills {
		if err := runCollectBills(ctx, client); err != nil {
			log.Fatalf("Collect bills: %v", err)
		}
	}
	if *rollCall != 0 {
		if err := runCollectRollCall(ctx, client); err != nil {
			log.Fatalf("Collect roll call: %v", err)
		}
	}
}

func runCollectMembers(ctx context.Context, client *congress.Client) error {
	apiMembers, err := client.ListMembers(ctx, "Senate")
	if err != nil {
		return err
	}

	for _, api := range apiMembers {
		if err := legislature.UpsertMember(db.DB, congress.ToMember(api)); err != nil {
			return err
		}
	}

	log.Printf("Collected %d senate members", len(apiMembers))
	return metadata.Update(db.DB, "members", len(apiMembers), "congress_api", "")
}

func runCollectBills(ctx context.Context, client *congress.Client) error {
	apiBills, err := client.ListBills(ctx, *congressNum, *billLimit)
	if err != nil {
		return err
	}

	tagged := 0
	for _, api := range apiBills {
		bill := congress.ToBill(api, *issueSlug, congress.TradeKeywords)
		if len(bill.IssueTags) == 0 {
			continue
		}
		if err := legislature.UpsertBill(db.DB, bill); err != nil {
			return err
		}
		tagged++
		fmt.Printf("  %s: %s\n", bill.ID, bill.DisplayTitle())
	}

	log.Printf("Fetched %d bills, stored %d tagged %s", len(apiBills), tagged, *issueSlug)
	return metadata.Update(db.DB, "bills", tagged, "congress_api", "")
}

func runCollectRollCall(ctx context.Context, client *congress.Client) error {
	var bill legislature.Bill
	if err := db.DB.First(&bill, "id = ?", *billID).Error; err != nil {
		return fmt.Errorf("bill %s not in database, collect or seed it first: %w", *billID, err)
	}

	rc, err := client.FetchSenateRollCall(ctx, *congressNum, *session, *rollCall)
	if err != nil {
		return err
	}
	log.Printf("Roll call %s: %s (%d members)", rc.RollCallID(), rc.Question, len(rc.Members))

	var members []legislature.Member
	if err := db.DB.Where("chamber = ?", legislature.ChamberSenate).Find(&members).Error; err != nil {
		return err
	}

	voteDate := time.Now().UTC()
	if parsed, err := time.Parse("January 2, 2006, 03:04 PM", rc.Date); err == nil {
		voteDate = parsed
	}

	stored := 0
	unmatched := 0
	for _, mv := range rc.Members {
		member, ok := congress.MatchMember(members, mv.LastName, mv.State)
		if !ok {
			unmatched++
			continue
		}
		vote := legislature.Vote{
			MemberID:   member.ID,
			BillID:     bill.ID,
			Vote:       legislature.ParseVoteChoice(mv.VoteCast),
			VoteDate:   voteDate,
			RollCallID: rc.RollCallID(),
			Session:    rc.Session,
		}
		if err := legislature.UpsertVote(db.DB, vote); err != nil {
			return err
		}
		stored++
	}

	log.Printf("Stored %d votes on %s (%d unmatched members)", stored, bill.ID, unmatched)
	return metadata.Update(db.DB, "votes", stored, "congress_api", rc.RollCallID())
}
