package source

import "regexp"

// Kind selects the fetch strategy for a source.
type Kind int

const (
	// KindJSONAPI reads the version verbatim from a JSON payload field.
	KindJSONAPI Kind = iota
	// KindScrapedPage extracts the version (and optionally a publish
	// date) from a storefront page with capture-group patterns.
	KindScrapedPage
)

// String returns string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindJSONAPI:
		return "json_api"
	case KindScrapedPage:
		return "scraped_page"
	default:
		return "unknown"
	}
}

// Source describes how to obtain a raw version signal from one upstream.
// Sources are immutable after startup; the deployment watches a fixed set.
type Source struct {
	Key            string // unique logical name, primary key in the store
	Name           string // display name used in alerts
	Kind           Kind
	URL            string
	VersionPattern *regexp.Regexp // scraped kind only; first capture group is the version
	DatePattern    *regexp.Regexp // optional; first capture group is the publish date
}

// HasDateDimension reports whether the source also yields a publish date,
// which additionally gates change detection.
func (s Source) HasDateDimension() bool {
	return s.DatePattern != nil
}

// Signal is the normalized result of one fetch.
type Signal struct {
	Version string
	Date    string // raw matched date text, empty without a date dimension
}

// Storefront extraction patterns shared by the default sources.
var (
	appStoreVersionPattern  = regexp.MustCompile(`Version\s+(\d{1,4}\.\d{1,4}\.\d{1,5})`)
	appStoreDatePattern     = regexp.MustCompile(`<time[^>]*>(.*?)</time>`)
	playStoreVersionPattern = regexp.MustCompile(`\["(\d{1,4}\.\d{1,4}\.\d{1,5})"\]`)
	playStoreDatePattern    = regexp.MustCompile(`Updated\s*on</div>\s*<div[^>]*>([^<]+)</div>`)
)

// DefaultSources returns the fixed set of watched upstreams for the
// reference deployment.
func DefaultSources() []Source {
	return []Source{
		{
			Key:  "Windows",
			Name: "Windows",
			Kind: KindJSONAPI,
			URL:  "https://clientsettings.roblox.com/v2/client-version/WindowsPlayer/channel/LIVE",
		},
		{
			Key:  "Mac",
			Name: "Mac",
			Kind: KindJSONAPI,
			URL:  "https://clientsettings.roblox.com/v2/client-version/MacPlayer/channel/LIVE",
		},
		{
			Key:            "IOS",
			Name:           "IOS",
			Kind:           KindScrapedPage,
			URL:            "https://apps.apple.com/us/app/roblox/id431946152?uo=4",
			VersionPattern: appStoreVersionPattern,
			DatePattern:    appStoreDatePattern,
		},
		{
			Key:            "IOS-VNG",
			Name:           "IOS-VNG",
			Kind:           KindScrapedPage,
			URL:            "https://apps.apple.com/vn/app/roblox-vn/id6474715805?uo=4",
			VersionPattern: appStoreVersionPattern,
			DatePattern:    appStoreDatePattern,
		},
		{
			Key:            "Android",
			Name:           "Android",
			Kind:           KindScrapedPage,
			URL:            "https://play.google.com/store/apps/details?id=com.roblox.client&hl=en",
			VersionPattern: playStoreVersionPattern,
			DatePattern:    playStoreDatePattern,
		},
		{
			Key:            "Android-VNG",
			Name:           "Android-VNG",
			Kind:           KindScrapedPage,
			URL:            "https://play.google.com/store/apps/details?id=com.roblox.client.vnggames&hl=en",
			VersionPattern: playStoreVersionPattern,
			DatePattern:    playStoreDatePattern,
		},
	}
}
