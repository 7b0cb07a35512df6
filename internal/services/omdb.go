package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
	"golang.org/x/time/rate"
)

const (
	DefaultOMDbURL     = "https://www.omdbapi.com/"
	DefaultOMDbTimeout = 10 * time.Second

	// notAvailable is the sentinel OMDb uses for unknown values.
	notAvailable = "N/A"
)

// OMDbResponse is the subset of the OMDb title lookup payload the catalog uses.
type OMDbResponse struct {
	Response   string `json:"Response"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Poster     string `json:"Poster"`
	IMDbRating string `json:"imdbRating"`
	IMDbID     string `json:"imdbID"`
	Error      string `json:"Error"`
}

// OMDbOpts contains configuration options for creating an [OMDbService].
type OMDbOpts struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
	Logger            *log.Logger
}

// OMDbService implements [MetadataService] against the OMDb API.
type OMDbService struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewOMDbService creates a new OMDb client.
//
// The API key is not checked here; [OMDbService.Fetch] reports a missing key before any network call.
func NewOMDbService(opts OMDbOpts) *OMDbService {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOMDbURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOMDbTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &OMDbService{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    opts.BaseURL,
		timeout:    opts.Timeout,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// NewOMDbServiceFromConfig creates an [OMDbService] from the omdb section of [shared.Config].
func NewOMDbServiceFromConfig(c shared.OMDbConfig, logger *log.Logger) *OMDbService {
	return NewOMDbService(OMDbOpts{
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Timeout:           c.Timeout(),
		RequestsPerSecond: c.RequestsPerSecond,
		Logger:            logger,
	})
}

// Name returns the service name.
func (s *OMDbService) Name() string { return "OMDb" }

// Fetch looks up title on OMDb and normalizes the response.
//
// A single GET is issued, bounded by the configured timeout. Nothing is retried.
func (s *OMDbService) Fetch(ctx context.Context, title string) (*models.Record, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: OMDb API key is not configured", shared.ErrMissingCredentials)
	}

	reqID := shared.GenerateID()
	logger := shared.WithLogger(s.logger, "request_id", reqID, "title", title)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, networkError(title, err)
		}
	}

	endpoint, err := s.lookupURL(title)
	if err != nil {
		return nil, fmt.Errorf("%w: bad OMDb base URL: %v", shared.ErrInvalidConfig, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, networkError(title, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Debug("omdb request failed", "error", err)
		return nil, networkError(title, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	logger.Debug("omdb response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, networkError(title, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(title, fmt.Errorf("failed to read response: %w", err))
	}

	var payload OMDbResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, networkError(title, fmt.Errorf("failed to decode response: %w", err))
	}

	record, err := Normalize(title, payload)
	if err != nil {
		return nil, err
	}

	logger.Info("fetched metadata", "matched", record.Title, "year", record.Year)
	return record, nil
}

// lookupURL builds the title lookup URL with the t and apikey query parameters.
func (s *OMDbService) lookupURL(title string) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("t", title)
	q.Set("apikey", s.apiKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Normalize validates an OMDb payload and converts it to a [models.Record].
//
// The year keeps only its first four characters, so a series range such as "1999–2001" becomes 1999. This
// truncation is intentional. Unknown ratings become 0.0 and unknown posters or ids become nil.
func Normalize(query string, p OMDbResponse) (*models.Record, error) {
	if p.Response != "True" {
		return nil, notFoundError(query, strings.TrimSpace(p.Error))
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, incompleteError(query, "missing title")
	}

	year, err := parseYear(p.Year)
	if err != nil {
		return nil, incompleteError(query, err.Error())
	}

	return &models.Record{
		Title:     title,
		Year:      year,
		Rating:    parseRating(p.IMDbRating),
		PosterURL: optional(p.Poster),
		IMDbID:    optional(p.IMDbID),
	}, nil
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing year")
	}

	runes := []rune(s)
	if len(runes) > 4 {
		runes = runes[:4]
	}

	year, err := strconv.Atoi(string(runes))
	if err != nil {
		return 0, fmt.Errorf("unparseable year %q", s)
	}
	return year, nil
}

func parseRating(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == notAvailable {
		return 0.0
	}

	rating, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0
	}
	return rating
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || s == notAvailable {
		return nil
	}
	return &s
}
