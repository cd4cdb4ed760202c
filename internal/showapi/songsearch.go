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

// SongClient fetches song previews from the track search service.
type SongClient struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewSongClient creates a song search client.
func NewSongClient(cfg Config, log zerolog.Logger) *SongClient {
	return &SongClient{
		baseURL: cfg.SongBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.timeout(),
		},
		log: log,
	}
}

type songSearchResponse struct {
	ResultCount int          `json:"resultCount"`
	Results     []songResult `json:"results"`
}

type songResult struct {
	TrackName  string `json:"trackName"`
	ArtistName string `json:"artistName"`
	PreviewURL string `json:"previewUrl"`
	ArtworkURL string `json:"artworkUrl100"`
}

// SearchTracks looks up tracks for the term. Failures degrade to an empty
// result, never an error.
func (c *SongClient) SearchTracks(ctx context.Context, term string) []models.Track {
	params := url.Values{
		"term":   []string{term},
		"entity": []string{"musicTrack"},
	}

	apiURL := c.baseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		c.log.Warn().Err(err).Msg("song search request failed")
		return []models.Track{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("term", term).Msg("song search failed")
		return []models.Track{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Str("status", resp.Status).Str("term", term).Msg("song search rejected")
		return []models.Track{}
	}

	var result songSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Warn().Err(fmt.Errorf("decode response: %w", err)).Msg("song search failed")
		return []models.Track{}
	}

	tracks := make([]models.Track, 0, len(result.Results))
	for _, sr := range result.Results {
		tracks = append(tracks, models.Track{
			Name:       sr.TrackName,
			Artist:     sr.ArtistName,
			PreviewURL: sr.PreviewURL,
			ArtworkURL: sr.ArtworkURL,
		})
	}
	return tracks
}
