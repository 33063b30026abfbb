package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	DefaultUserAgent    = "PassageLog/1.0" // Required by Nominatim ToS
)

// NominatimConfig configures the Nominatim client
type NominatimConfig struct {
	BaseURL        string
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
	RatePerSecond  float64
	Limit          int
	Region         Region
}

// Nominatim searches OpenStreetMap restricted to a region's viewbox and
// country codes.
type Nominatim struct {
	cfg        NominatimConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewNominatim creates a Nominatim client. Zero config values fall back to
// the public endpoint, one request per second and five results.
func NewNominatim(cfg NominatimConfig, logger *slog.Logger) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNominatimURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Nominatim{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		// Nominatim usage policy: at most one request per second
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		logger:  logger,
	}
}

// nominatimResponse is one element of the jsonv2 search response
type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search returns candidates for query. Results with unparseable
// coordinates are dropped.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(n.cfg.Limit))
	if len(n.cfg.Region.CountryCodes) > 0 {
		params.Set("countrycodes", strings.Join(n.cfg.Region.CountryCodes, ","))
	}
	if n.cfg.Region.Viewbox != "" {
		params.Set("viewbox", n.cfg.Region.Viewbox)
		params.Set("bounded", "1")
	}
	reqURL := fmt.Sprintf("%s?%s", n.cfg.BaseURL, params.Encode())

	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", n.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")
	if n.cfg.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", n.cfg.AcceptLanguage)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, body)
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
		lon, errLon := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
		if errLat != nil || errLon != nil {
			n.logger.Debug("dropping candidate with unparseable coordinates", "query", query, "lat", r.Lat, "lon", r.Lon)
			continue
		}
		candidates = append(candidates, Candidate{DisplayName: r.DisplayName, Lat: lat, Lon: lon})
	}

	n.logger.Debug("nominatim search", "query", query, "results", len(candidates))
	return candidates, nil
}
