package congress

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/civicsignal/positions-backend/internal/legislature"
)

// TradeKeywords flags a bill title as trade-relevant. Matching is
// case-insensitive substring search, same as the statement collector.
var TradeKeywords = []string{
	"tariff",
	"trade agreement",
	"trade promotion",
	"trade deficit",
	"trade remedy",
	"free trade",
	"customs",
	"import",
	"export",
	"dumping",
	"buy american",
	"made in america",
	"outsourcing",
	"offshoring",
	"usmca",
	"world trade organization",
}

// stateCodes maps the full state names Congress.gov returns onto the
// two-letter codes stored on members.
var stateCodes = map[string]string{
	"Alabama": "AL", "Alaska": "AK", "Arizona": "AZ", "Arkansas": "AR",
	"California": "CA", "Colorado": "CO", "Connecticut": "CT", "Delaware": "DE",
	"Florida": "FL", "Georgia": "GA", "Hawaii": "HI", "Idaho": "ID",
	"Illinois": "IL", "Indiana": "IN", "Iowa": "IA", "Kansas": "KS",
	"Kentucky": "KY", "Louisiana": "LA", "Maine": "ME", "Maryland": "MD",
	"Massachusetts": "MA", "Michigan": "MI", "Minnesota": "MN", "Mississippi": "MS",
	"Missouri": "MO", "Montana": "MT", "Nebraska": "NE", "Nevada": "NV",
	"New Hampshire": "NH", "New Jersey": "NJ", "New Mexico": "NM", "New York": "NY",
	"North Carolina": "NC", "North Dakota": "ND", "Ohio": "OH", "Oklahoma": "OK",
	"Oregon": "OR", "Pennsylvania": "PA", "Rhode Island": "RI", "South Carolina": "SC",
	"South Dakota": "SD", "Tennessee": "TN", "Texas": "TX", "Utah": "UT",
	"Vermont": "VT", "Virginia": "VA", "Washington": "WA", "West Virginia": "WV",
	"Wisconsin": "WI", "Wyoming": "WY", "District of Columbia": "DC",
	"Puerto Rico": "PR", "Guam": "GU", "American Samoa": "AS",
	"Virgin Islands": "VI", "Northern Mariana Islands": "MP",
}

// StateCode resolves a state value from the API, accepting either a full
// name or an already-coded value.
func StateCode(state string) string {
	if code, ok := stateCodes[state]; ok {
		return code
	}
	if len(state) == 2 {
		return strings.ToUpper(state)
	}
	return state
}

func partyCode(partyName string) legislature.Party {
	switch strings.ToLower(partyName) {
	case "democratic", "democrat":
		return legislature.PartyDemocrat
	case "republican":
		return legislature.PartyRepublican
	default:
		return legislature.PartyIndependent
	}
}

func currentChamber(m APIMember) string {
	items := m.Terms.Item
	if len(items) == 0 {
		return ""
	}
	return items[len(items)-1].Chamber
}

// splitName handles the "Last, First" form the member list uses.
func splitName(name string) (first, last string) {
	parts := strings.SplitN(name, ",", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
}

// ToMember converts an API member entry into the stored model.
func ToMember(api APIMember) legislature.Member {
	first, last := splitName(api.Name)

	chamber := legislature.ChamberSenate
	if strings.Contains(currentChamber(api), "House") {
		chamber = legislature.ChamberHouse
	}

	display := api.Name
	if first != "" && last != "" {
		display = first + " " + last
	}

	return legislature.Member{
		ID:        api.BioguideID,
		Name:      display,
		FirstName: first,
		LastName:  last,
		State:     StateCode(api.State),
		Party:     partyCode(api.PartyName),
		Chamber:   chamber,
		PhotoURL:  api.Depiction.ImageURL,
	}
}

// ToBill converts an API bill entry, tagging it with the issue slug when
// its title matches any of the keywords. Position indicators are left nil:
// they are a curation step, not a collection step.
func ToBill(api APIBill, issueSlug string, keywords []string) legislature.Bill {
	billType := strings.ToLower(api.Type)
	bill := legislature.Bill{
		ID:         billType + api.Number + "-" + strconv.Itoa(api.Congress),
		Congress:   api.Congress,
		BillType:   billType,
		BillNumber: api.Number,
		Title:      api.Title,
	}

	title := strings.ToLower(api.Title)
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			bill.IssueTags = []string{issueSlug}
			break
		}
	}

	if api.LatestAction.ActionDate != "" {
		if d, err := time.Parse("2006-01-02", api.LatestAction.ActionDate); err == nil {
			bill.LatestActionDate = &d
		}
	}

	return bill
}

var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldName lowercases a surname and strips diacritics so roll-call names
// ("Muñoz") match however the member list spelled them.
func FoldName(name string) string {
	folded, _, err := transform.String(nameFolder, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// MatchMember finds a member by folded last name and state. Roll-call
// files identify voters this way rather than by bioguide id.
func MatchMember(members []legislature.Member, lastName, state string) (legislature.Member, bool) {
	want := FoldName(lastName)
	wantState := StateCode(state)
	for _, m := range members {
		if FoldName(m.LastName) == want && m.State == wantState {
			return m, true
		}
	}
	return legislature.Member{}, false
}
