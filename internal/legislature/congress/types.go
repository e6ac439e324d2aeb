package congress

// API response shapes for the Congress.gov v3 endpoints we consume. Only
// the fields the transforms read are declared.

type memberListResponse struct {
	Members    []APIMember `json:"members"`
	Pagination pagination  `json:"pagination"`
}

type pagination struct {
	Count int     `json:"count"`
	Next  *string `json:"next"`
}

// APIMember is a member entry from GET /member.
type APIMember struct {
	BioguideID string `json:"bioguideId"`
	Name       string `json:"name"`
	State      string `json:"state"`
	PartyName  string `json:"partyName"`
	Depiction  struct {
		ImageURL string `json:"imageUrl"`
	} `json:"depiction"`
	Terms struct {
		Item []struct {
			Chamber   string `json:"chamber"`
			StartYear int    `json:"startYear"`
			EndYear   *int   `json:"endYear"`
		} `json:"item"`
	} `json:"terms"`
}

type billListResponse struct {
	Bills      []APIBill  `json:"bills"`
	Pagination pagination `json:"pagination"`
}

// APIBill is a bill entry from GET /bill/{congress}.
type APIBill struct {
	Congress     int    `json:"congress"`
	Type         string `json:"type"`
	Number       string `json:"number"`
	Title        string `json:"title"`
	LatestAction struct {
		ActionDate string `json:"actionDate"`
		Text       string `json:"text"`
	} `json:"latestAction"`
}
