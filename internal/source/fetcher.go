package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/riisdev/updatebot/internal/errorwrapper"

	"github.com/rs/zerolog"
)

// versionPayload is the JSON body served by the desktop version APIs.
// The comparison key is ClientVersionUpload.
type versionPayload struct {
	Version             string `json:"version"`
	ClientVersionUpload string `json:"clientVersionUpload"`
	BootstrapperVersion string `json:"bootstrapperVersion"`
}

// FetchResult is the normalized outcome of one fetch against a source.
type FetchResult struct {
	Version string
	Date    time.Time // zero unless the source has a date dimension
}

// Fetcher obtains raw version signals from upstream sources. It is
// stateless apart from the shared HTTP client and safe to re-invoke
// every tick.
type Fetcher struct {
	httpClient *http.Client
	logger     zerolog.Logger
	timeout    time.Duration
}

// NewFetcher creates a new Fetcher around the shared HTTP client.
func NewFetcher(client *http.Client, logger zerolog.Logger, timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: client,
		logger:     logger.With().Str("component", "Fetcher").Logger(),
		timeout:    timeout,
	}
}

// Fetch retrieves and extracts the current version signal for src. Every
// failure mode (network, status, decode, pattern, date) is returned as an
// error and leaves no side effects.
func (f *Fetcher) Fetch(ctx context.Context, src Source) (FetchResult, error) {
	body, err := f.get(ctx, src.URL)
	if err != nil {
		return FetchResult{}, err
	}

	switch src.Kind {
	case KindJSONAPI:
		return f.extractJSON(src, body)
	case KindScrapedPage:
		return f.extractScraped(src, body)
	default:
		return FetchResult{}, errorwrapper.NewError("unknown source kind %d for %s", src.Kind, src.Key)
	}
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("creating request for %s", url))
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Warn().Err(err).Str("url", url).Msg("HTTP request failed")
		return nil, errorwrapper.NewNetworkError(url, "HTTP request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Warn().Str("url", url).Int("status_code", resp.StatusCode).Msg("Received non-success HTTP status")
		return nil, errorwrapper.NewHTTPError(resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorwrapper.WrapError(err, fmt.Sprintf("reading response body from %s", url))
	}
	return body, nil
}

func (f *Fetcher) extractJSON(src Source, body []byte) (FetchResult, error) {
	var payload versionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return FetchResult{}, errorwrapper.WrapError(err, fmt.Sprintf("decoding version payload from %s", src.URL))
	}

	version := strings.TrimSpace(payload.ClientVersionUpload)
	if version == "" {
		return FetchResult{}, errorwrapper.NewExtractionError(src.URL, "version", "clientVersionUpload is empty")
	}

	f.logger.Debug().Str("source", src.Key).Str("version", version).Msg("Fetched version from JSON API")
	return FetchResult{Version: version}, nil
}

func (f *Fetcher) extractScraped(src Source, body []byte) (FetchResult, error) {
	content := string(body)

	versionMatch := src.VersionPattern.FindStringSubmatch(content)
	if len(versionMatch) < 2 {
		return FetchResult{}, errorwrapper.NewExtractionError(src.URL, "version", "pattern did not match")
	}
	version := strings.TrimSpace(versionMatch[1])
	if version == "" {
		return FetchResult{}, errorwrapper.NewExtractionError(src.URL, "version", "matched an empty version")
	}

	result := FetchResult{Version: version}

	if src.DatePattern != nil {
		dateMatch := src.DatePattern.FindStringSubmatch(content)
		if len(dateMatch) < 2 {
			return FetchResult{}, errorwrapper.NewExtractionError(src.URL, "date", "pattern did not match")
		}
		// A date that matches the marker but fits no allowed layout is
		// treated as a failed tick rather than a silent "older" value,
		// so a release with an unrecognized date format is retried
		// instead of skipped.
		parsed, ok := ParseDate(dateMatch[1])
		if !ok {
			return FetchResult{}, errorwrapper.NewExtractionError(src.URL, "date", fmt.Sprintf("unparseable date %q", dateMatch[1]))
		}
		result.Date = parsed
	}

	f.logger.Debug().
		Str("source", src.Key).
		Str("version", result.Version).
		Time("date", result.Date).
		Msg("Fetched version from storefront page")
	return result, nil
}
