package tapology

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/fightsync/fightsync/internal/platform/logging"
	"github.com/fightsync/fightsync/internal/platform/resilience"
	"github.com/fightsync/fightsync/internal/usecase"
)

const (
	defaultSiteBaseURL = "https://www.tapology.com"
	defaultListingPath = "/fightcenter"
	maxResponseBytes   = 6 << 20
)

var digitsRegex = regexp.MustCompile(`\d+`)
var errTapologyTransient = crerr.New("tapology transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	ExtractorURL   string
	SiteBaseURL    string
	ListingPath    string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the page-extraction service. Every call posts a page
// URL plus an embedded CSS schema and gets back the structured rows the
// schema selects.
type Client struct {
	httpClient     *http.Client
	extractURL     string
	siteBaseURL    string
	listingPath    string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	siteBaseURL := strings.TrimRight(strings.TrimSpace(cfg.SiteBaseURL), "/")
	if siteBaseURL == "" {
		siteBaseURL = defaultSiteBaseURL
	}
	listingPath := strings.TrimSpace(cfg.ListingPath)
	if listingPath == "" {
		listingPath = defaultListingPath
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		extractURL:     strings.TrimRight(strings.TrimSpace(cfg.ExtractorURL), "/") + "/extract",
		siteBaseURL:    siteBaseURL,
		listingPath:    listingPath,
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) ExtractEventListing(ctx context.Context, page int) (usecase.ScrapedListing, error) {
	if page < 1 {
		page = 1
	}

	raw, err := c.doExtract(ctx, c.listingPageURL(page), schemaEventListing)
	if err != nil {
		return usecase.ScrapedListing{}, fmt.Errorf("extract event listing page=%d: %w", page, err)
	}

	var envelopes []listingEnvelope
	if err := sonic.Unmarshal(raw, &envelopes); err != nil {
		return usecase.ScrapedListing{}, fmt.Errorf("decode event listing page=%d: %w", page, err)
	}

	listing := usecase.ScrapedListing{}
	for _, envelope := range envelopes {
		for _, item := range envelope.URLs {
			href := strings.TrimSpace(item.URL)
			if href == "" {
				continue
			}
			listing.Entries = append(listing.Entries, usecase.ListedEvent{
				URL:      c.ResolveURL(href),
				DateText: strings.TrimSpace(item.Date),
			})
		}
	}

	return listing, nil
}

func (c *Client) ExtractEvent(ctx context.Context, eventURL string) (*usecase.ScrapedEvent, error) {
	eventURL = strings.TrimSpace(eventURL)
	if eventURL == "" {
		return nil, fmt.Errorf("event url is required")
	}

	raw, err := c.doExtract(ctx, eventURL, schemaEvent)
	if err != nil {
		return nil, fmt.Errorf("extract event %s: %w", eventURL, err)
	}

	var envelopes []eventEnvelope
	if err := sonic.Unmarshal(raw, &envelopes); err != nil {
		return nil, fmt.Errorf("decode event %s: %w", eventURL, err)
	}
	if len(envelopes) == 0 || len(envelopes[0].Header) == 0 {
		return nil, fmt.Errorf("event %s: payload has no header", eventURL)
	}

	header := envelopes[0].Header[0]
	scraped := &usecase.ScrapedEvent{
		Header: usecase.ScrapedEventHeader{
			Name:      strings.TrimSpace(header.EventName),
			Promotion: strings.TrimSpace(header.Promotion),
			DateText:  strings.TrimSpace(header.Datetime),
			Venue:     strings.TrimSpace(header.Venue),
			Location:  strings.TrimSpace(header.Location),
			Broadcast: strings.TrimSpace(header.Broadcast),
			ImageURL:  strings.TrimSpace(header.ImgURL),
			BoutCount: parseLeadingInt(header.MMABouts),
		},
		Raw: raw,
	}

	for _, item := range envelopes[0].FightCard {
		scraped.Bouts = append(scraped.Bouts, usecase.ScrapedBout{
			Fighter1Name:  strings.TrimSpace(item.Fighter1),
			Fighter2Name:  strings.TrimSpace(item.Fighter2),
			Fighter1URL:   strings.TrimSpace(item.URLFighter1),
			Fighter2URL:   strings.TrimSpace(item.URLFighter2),
			WeightClass:   strings.TrimSpace(item.WeightClass),
			RoundsText:    strings.TrimSpace(item.Rounds),
			Result1:       strings.TrimSpace(item.ResultFighter1),
			Result2:       strings.TrimSpace(item.ResultFighter2),
			FinishBy:      strings.TrimSpace(item.FinishBy),
			FinishDetails: strings.TrimSpace(item.FinishByDetails),
			BoutOrder:     parseLeadingInt(item.BoutOrder),
		})
	}

	return scraped, nil
}

func (c *Client) ExtractFighterProfile(ctx context.Context, profileURL string) (*usecase.ScrapedProfile, error) {
	profileURL = strings.TrimSpace(profileURL)
	if profileURL == "" {
		return nil, fmt.Errorf("profile url is required")
	}

	raw, err := c.doExtract(ctx, profileURL, schemaFighterProfile)
	if err != nil {
		return nil, fmt.Errorf("extract fighter profile %s: %w", profileURL, err)
	}

	var envelopes []profileEnvelope
	if err := sonic.Unmarshal(raw, &envelopes); err != nil {
		return nil, fmt.Errorf("decode fighter profile %s: %w", profileURL, err)
	}
	if len(envelopes) == 0 || len(envelopes[0].BasicInfos) == 0 {
		return nil, fmt.Errorf("fighter profile %s: payload has no basic info", profileURL)
	}

	info := envelopes[0].BasicInfos[0]
	return &usecase.ScrapedProfile{
		Name:            strings.TrimSpace(info.Name),
		Nickname:        strings.TrimSpace(info.Nickname),
		AgeText:         strings.TrimSpace(info.Age),
		DateOfBirthText: strings.TrimSpace(info.DateOfBirth),
		HeightText:      strings.TrimSpace(info.Height),
		WeightClass:     strings.TrimSpace(info.WeightClass),
		LastWeighInText: strings.TrimSpace(info.LastWeightIn),
		LastFightText:   strings.TrimSpace(info.LastFightDate),
		Born:            strings.TrimSpace(info.Born),
		HeadCoach:       strings.TrimSpace(info.HeadCoach),
		OtherCoaches:    strings.TrimSpace(info.OtherCoaches),
		Affiliation:     strings.TrimSpace(info.Affiliation),
		Record:          strings.TrimSpace(info.ProMMARecord),
		StreakText:      strings.TrimSpace(info.CurrentMMAStreak),
		ImageURL:        strings.TrimSpace(envelopes[0].ProfileImgURL),
		Raw:             raw,
	}, nil
}

// ResolveURL turns a site-relative href into an absolute URL.
func (c *Client) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	base, err := url.Parse(c.siteBaseURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func (c *Client) listingPageURL(page int) string {
	pageURL := c.siteBaseURL + c.listingPath
	if strings.Contains(pageURL, "?") {
		return fmt.Sprintf("%s&page=%d", pageURL, page)
	}
	return fmt.Sprintf("%s?page=%d", pageURL, page)
}

type extractRequest struct {
	URL    string          `json:"url"`
	Schema json.RawMessage `json:"schema"`
}

func (c *Client) doExtract(ctx context.Context, pageURL string, schema []byte) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "tapology circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: extraction service is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	body, err := sonic.Marshal(extractRequest{URL: pageURL, Schema: schema})
	if err != nil {
		return nil, fmt.Errorf("encode extract request: %w", err)
	}

	out, err, _ := c.flight.Do(pageURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, body, pageURL)
		if c.circuitEnabled {
			if reqErr != nil && isTransientFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, body []byte, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.extractURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("content-type", "application/json")
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTapologyTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTapologyTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: extractor status=%d body=%s", errTapologyTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("extractor status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Second << attempt
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("extractor request failed")
	}
	c.logger.WarnContext(ctx, "tapology extraction failed", "url", pageURL, "error", lastErr)
	return nil, lastErr
}

func isTransientFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errTapologyTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func parseLeadingInt(text string) int {
	match := digitsRegex.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}
