package congress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Client is a REST client for the Congress.gov v3 API. Requests are rate
// limited so batch collection stays under the API's hourly quota.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Congress.gov API client from a validated config.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	reqURL := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}

const pageSize = 250

// ListMembers fetches all current members of the given chamber
// ("Senate" or "House of Representatives"), walking the paginated list.
func (c *Client) ListMembers(ctx context.Context, chamber string) ([]APIMember, error) {
	var members []APIMember

	offset := 0
	for {
		params := url.Values{}
		params.Set("currentMember", "true")
		params.Set("limit", strconv.Itoa(pageSize))
		params.Set("offset", strconv.Itoa(offset))

		var page memberListResponse
		if err := c.get(ctx, "/member", params, &page); err != nil {
			return nil, err
		}

		for _, m := range page.Members {
			if currentChamber(m) == chamber {
				members = append(members, m)
			}
		}

		offset += pageSize
		if page.Pagination.Next == nil || len(page.Members) == 0 {
			break
		}
	}

	return members, nil
}

// ListBills fetches up to limit recent bills for a congress.
func (c *Client) ListBills(ctx context.Context, congress, limit int) ([]APIBill, error) {
	var bills []APIBill

	offset := 0
	for len(bills) < limit {
		pageLimit := pageSize
		if remaining := limit - len(bills); remaining < pageLimit {
			pageLimit = remaining
		}
		params := url.Values{}
		params.Set("limit", strconv.Itoa(pageLimit))
		params.Set("offset", strconv.Itoa(offset))

		var page billListResponse
		if err := c.get(ctx, fmt.Sprintf("/bill/%d", congress), params, &page); err != nil {
			return nil, err
		}
		if len(page.Bills) == 0 {
			break
		}

		bills = append(bills, page.Bills...)
		offset += len(page.Bills)
		if page.Pagination.Next == nil {
			break
		}
	}

	if len(bills) > limit {
		bills = bills[:limit]
	}
	return bills, nil
}
