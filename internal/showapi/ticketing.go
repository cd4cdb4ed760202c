package showapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"showbill/internal/models"
)

// DefaultShowLimit caps the number of listings requested per search.
const DefaultShowLimit = 20

// ListingsClient fetches show listings from the ticketing service.
type ListingsClient struct {
	baseURL    string
	apiKey     string
	city       string
	country    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewListingsClient creates a show listings client.
func NewListingsClient(cfg Config, log zerolog.Logger) *ListingsClient {
	return &ListingsClient{
		baseURL: cfg.ListingsBaseURL,
		apiKey:  cfg.ListingsAPIKey,
		city:    cfg.DefaultCity,
		country: cfg.DefaultCountry,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
		},
		log: log,
	}
}

// Listing service response structures
type listingSearchResponse struct {
	Shows []listingShow `json:"shows"`
}

type listingShow struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	URL         string              `json:"url"`
	Images      []listingImage      `json:"images"`
	Dates       listingDates        `json:"dates"`
	Venue       listingVenue        `json:"venue"`
	PriceRanges []listingPriceRange `json:"priceRanges"`
}

type listingImage struct {
	URL string `json:"url"`
}

type listingDates struct {
	Start struct {
		LocalDate string `json:"localDate"`
		LocalTime string `json:"localTime"`
	} `json:"start"`
}

type listingVenue struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type listingPriceRange struct {
	Min float64 `json:"min"`
}

// SearchShows looks up show listings for the keyword, with an optional genre
// filter. Failures degrade to an empty result, never an error.
func (c *ListingsClient) SearchShows(ctx context.Context, keyword, genre string) []models.ShowSummary {
	params := url.Values{
		"apikey":      []string{c.apiKey},
		"keyword":     []string{keyword},
		"city":        []string{c.city},
		"countryCode": []string{c.country},
		"size":        []string{fmt.Sprintf("%d", DefaultShowLimit)},
	}
	if genre != "" {
		params.Set("genre", genre)
	}

	var result listingSearchResponse
	if err := c.doRequest(ctx, params, &result); err != nil {
		c.log.Warn().Err(err).Str("keyword", keyword).Msg("show listing search failed")
		return []models.ShowSummary{}
	}

	shows := make([]models.ShowSummary, 0, len(result.Shows))
	for _, ls := range result.Shows {
		shows = append(shows, convertShow(ls))
	}
	return shows
}

func (c *ListingsClient) doRequest(ctx context.Context, params url.Values, result interface{}) error {
	apiURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listing service error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func convertShow(ls listingShow) models.ShowSummary {
	summary := models.ShowSummary{
		ID:    ls.ID,
		Title: ls.Name,
		Venue: ls.Venue.Name,
		Date:  ls.Dates.Start.LocalDate,
	}

	if len(ls.Images) > 0 {
		imageURL := ls.Images[0].URL
		summary.ImageURL = &imageURL
	}
	if len(ls.PriceRanges) > 0 {
		summary.StartingPrice = ls.PriceRanges[0].Min
	}

	return summary
}
