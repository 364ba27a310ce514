// Package address provides Swiss address autocompletion backed by the
// OpenPLZ API (https://www.openplzapi.org/en/switzerland/).
package address

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Locality is a Swiss city or town entry.
type Locality struct {
	PostalCode string `json:"postalCode"`
	Name       string `json:"name"`
	State      string `json:"state"` // canton
	District   string `json:"district,omitempty"`
}

// Street is a Swiss street entry.
type Street struct {
	Name       string `json:"name"`
	PostalCode string `json:"postalCode"`
	Locality   string `json:"locality"`
	State      string `json:"state"`
	District   string `json:"district,omitempty"`
}

// Suggestion is one autocomplete entry offered to the user.
type Suggestion struct {
	FullAddress string `json:"full_address"`
	Street      string `json:"street,omitempty"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
	State       string `json:"state"`
	Type        string `json:"type"` // "street" or "locality"
}

const (
	maxStreetSuggestions   = 8
	maxLocalitySuggestions = 5
	maxSuggestions         = 10
)

var postalQueryPattern = regexp.MustCompile(`^\d{1,4}$`)

// Client talks to an OpenPLZ-compatible API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SearchLocalities looks up localities by postal code when the query is a
// 1-4 digit number, by name otherwise. API failures degrade to a built-in
// table of common Swiss cities so autocompletion keeps working offline.
func (c *Client) SearchLocalities(ctx context.Context, query string) ([]Locality, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, nil
	}

	params := url.Values{}
	if postalQueryPattern.MatchString(query) {
		params.Set("postalCode", query)
	} else {
		params.Set("name", query)
	}

	var localities []Locality
	if err := c.get(ctx, "/ch/Localities", params, &localities); err != nil {
		log.Printf("[Address] locality search failed, using fallback: %v", err)
		return fallbackLocalities(query), nil
	}
	return localities, nil
}

// SearchStreets looks up streets within a locality, optionally narrowed by a
// street name fragment.
func (c *Client) SearchStreets(ctx context.Context, locality, postalCode, streetQuery string) ([]Street, error) {
	if locality == "" || postalCode == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("locality", locality)
	params.Set("postalCode", postalCode)
	if q := strings.TrimSpace(streetQuery); q != "" {
		params.Set("street", q)
	}

	var streets []Street
	if err := c.get(ctx, "/ch/Streets", params, &streets); err != nil {
		log.Printf("[Address] street search failed: %v", err)
		return nil, nil
	}
	return streets, nil
}

// SearchStreetsByName looks up streets nationwide by name.
func (c *Client) SearchStreetsByName(ctx context.Context, streetQuery string) ([]Street, error) {
	streetQuery = strings.TrimSpace(streetQuery)
	if len(streetQuery) < 2 {
		return nil, nil
	}

	params := url.Values{}
	params.Set("name", streetQuery)

	var streets []Street
	if err := c.get(ctx, "/ch/Streets", params, &streets); err != nil {
		log.Printf("[Address] street name search failed: %v", err)
		return nil, nil
	}
	return streets, nil
}

// Suggestions combines street and locality search into one ranked list.
// Streets come first, localities already covered by a street entry are
// dropped, and the result is capped at ten entries.
func (c *Client) Suggestions(ctx context.Context, query string) ([]Suggestion, error) {
	suggestions := make([]Suggestion, 0, maxSuggestions)

	streets, _ := c.SearchStreetsByName(ctx, query)
	if len(streets) > maxStreetSuggestions {
		streets = streets[:maxStreetSuggestions]
	}
	for _, street := range streets {
		suggestions = append(suggestions, Suggestion{
			FullAddress: fmt.Sprintf("%s, %s %s", street.Name, street.PostalCode, street.Locality),
			Street:      street.Name,
			PostalCode:  street.PostalCode,
			City:        street.Locality,
			State:       street.State,
			Type:        "street",
		})
	}

	localities, _ := c.SearchLocalities(ctx, query)
	if len(localities) > maxLocalitySuggestions {
		localities = localities[:maxLocalitySuggestions]
	}
	for _, loc := range localities {
		if containsCity(suggestions, loc.PostalCode, loc.Name) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			FullAddress: fmt.Sprintf("%s %s", loc.PostalCode, loc.Name),
			PostalCode:  loc.PostalCode,
			City:        loc.Name,
			State:       loc.State,
			Type:        "locality",
		})
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions, nil
}

func containsCity(suggestions []Suggestion, postalCode, city string) bool {
	for _, s := range suggestions {
		if s.PostalCode == postalCode && s.City == city {
			return true
		}
	}
	return false
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
