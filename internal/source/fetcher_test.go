package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/riisdev/updatebot/internal/errorwrapper"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(&http.Client{}, zerolog.Nop(), 5*time.Second)
}

func TestFetch_JSONAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"0.672.0.6720420","clientVersionUpload":"version-abc123","bootstrapperVersion":"1.0"}`))
	}))
	defer server.Close()

	src := Source{Key: "Windows", Kind: KindJSONAPI, URL: server.URL}

	result, err := newTestFetcher().Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "version-abc123", result.Version)
	assert.True(t, result.Date.IsZero())
}

func TestFetch_JSONAPI_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src := Source{Key: "Windows", Kind: KindJSONAPI, URL: server.URL}

	_, err := newTestFetcher().Fetch(context.Background(), src)
	require.Error(t, err)

	var httpErr *errorwrapper.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestFetch_JSONAPI_DecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	src := Source{Key: "Mac", Kind: KindJSONAPI, URL: server.URL}

	_, err := newTestFetcher().Fetch(context.Background(), src)
	assert.Error(t, err)
}

func TestFetch_JSONAPI_EmptyVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"clientVersionUpload":"   "}`))
	}))
	defer server.Close()

	src := Source{Key: "Mac", Kind: KindJSONAPI, URL: server.URL}

	_, err := newTestFetcher().Fetch(context.Background(), src)
	var extractionErr *errorwrapper.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
}

func TestFetch_ScrapedPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><p>Version 2.672.512</p><time datetime="x">Jan 15, 2024</time></html>`))
	}))
	defer server.Close()

	src := Source{
		Key:            "IOS",
		Kind:           KindScrapedPage,
		URL:            server.URL,
		VersionPattern: regexp.MustCompile(`Version\s+(\d{1,4}\.\d{1,4}\.\d{1,5})`),
		DatePattern:    regexp.MustCompile(`<time[^>]*>(.*?)</time>`),
	}

	result, err := newTestFetcher().Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "2.672.512", result.Version)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), result.Date)
}

func TestFetch_ScrapedPage_NoDatePattern(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`Version 2.672.512`))
	}))
	defer server.Close()

	src := Source{
		Key:            "NoDate",
		Kind:           KindScrapedPage,
		URL:            server.URL,
		VersionPattern: regexp.MustCompile(`Version\s+(\d{1,4}\.\d{1,4}\.\d{1,5})`),
	}

	result, err := newTestFetcher().Fetch(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "2.672.512", result.Version)
	assert.True(t, result.Date.IsZero())
}

func TestFetch_ScrapedPage_VersionPatternMiss(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>nothing useful here</html>`))
	}))
	defer server.Close()

	src := Source{
		Key:            "IOS",
		Kind:           KindScrapedPage,
		URL:            server.URL,
		VersionPattern: regexp.MustCompile(`Version\s+(\d{1,4}\.\d{1,4}\.\d{1,5})`),
	}

	_, err := newTestFetcher().Fetch(context.Background(), src)
	var extractionErr *errorwrapper.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "version", extractionErr.What)
}

func TestFetch_ScrapedPage_UnparseableDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`Version 2.672.512 <time>three days ago</time>`))
	}))
	defer server.Close()

	src := Source{
		Key:            "IOS",
		Kind:           KindScrapedPage,
		URL:            server.URL,
		VersionPattern: regexp.MustCompile(`Version\s+(\d{1,4}\.\d{1,4}\.\d{1,5})`),
		DatePattern:    regexp.MustCompile(`<time[^>]*>(.*?)</time>`),
	}

	_, err := newTestFetcher().Fetch(context.Background(), src)
	var extractionErr *errorwrapper.ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "date", extractionErr.What)
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	src := Source{Key: "Windows", Kind: KindJSONAPI, URL: server.URL}
	fetcher := NewFetcher(&http.Client{}, zerolog.Nop(), 20*time.Millisecond)

	_, err := fetcher.Fetch(context.Background(), src)
	var netErr *errorwrapper.NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestDefaultSources(t *testing.T) {
	sources := DefaultSources()
	require.Len(t, sources, 6)

	seen := make(map[string]struct{})
	for _, src := range sources {
		_, dup := seen[src.Key]
		require.False(t, dup, "duplicate source key %s", src.Key)
		seen[src.Key] = struct{}{}

		if src.Kind == KindScrapedPage {
			assert.NotNil(t, src.VersionPattern, "source %s", src.Key)
			assert.True(t, src.HasDateDimension(), "source %s", src.Key)
		} else {
			assert.False(t, src.HasDateDimension(), "source %s", src.Key)
		}
	}
}

func TestPlayStoreVersionPattern(t *testing.T) {
	match := playStoreVersionPattern.FindStringSubmatch(`...,[["2.672.512"]],...`)
	require.Len(t, match, 2)
	assert.Equal(t, "2.672.512", match[1])
}

func TestPlayStoreDatePattern(t *testing.T) {
	content := `<div>Updated on</div><div class="xg1aie">Jan 10, 2024</div>`
	match := playStoreDatePattern.FindStringSubmatch(content)
	require.Len(t, match, 2)
	assert.Equal(t, "Jan 10, 2024", match[1])
}
