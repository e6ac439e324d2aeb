package congress

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

// senateRollCallURL is the senate.gov LIS XML feed. Roll-call numbers are
// zero-padded to five digits.
const senateRollCallURL = "https://www.senate.gov/legislative/LIS/roll_call_votes/vote%d%d/vote_%d_%d_%05d.xml"

// RollCall is a parsed senate roll-call vote.
type RollCall struct {
	XMLName  xml.Name       `xml:"roll_call_vote"`
	Congress int            `xml:"congress"`
	Session  int            `xml:"session"`
	Number   int            `xml:"vote_number"`
	Date     string         `xml:"vote_date"`
	Question string         `xml:"vote_question_text"`
	Title    string         `xml:"vote_title"`
	Members  []RollCallVote `xml:"members>member"`
}

// RollCallVote is one member's position in a roll call. Members are
// identified by name and state, not bioguide id.
type RollCallVote struct {
	LastName  string `xml:"last_name"`
	FirstName string `xml:"first_name"`
	Party     string `xml:"party"`
	State     string `xml:"state"`
	VoteCast  string `xml:"vote_cast"`
}

// FetchSenateRollCall downloads and parses one senate roll-call vote.
// The client's rate limiter is shared with API calls so senate.gov is
// polled at the same pace.
func (c *Client) FetchSenateRollCall(ctx context.Context, congress, session, number int) (*RollCall, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf(senateRollCallURL, congress, session, congress, session, number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roll call %d/%d #%d: %w", congress, session, number, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roll call %d/%d #%d: status %d", congress, session, number, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var rc RollCall
	if err := xml.Unmarshal(body, &rc); err != nil {
		return nil, fmt.Errorf("roll call %d/%d #%d: parse: %w", congress, session, number, err)
	}
	return &rc, nil
}

// RollCallID is the stable identifier stored on votes, e.g. "s118-1-00123".
func (rc *RollCall) RollCallID() string {
	return fmt.Sprintf("s%d-%d-%05d", rc.Congress, rc.Session, rc.Number)
}
