package domain

import (
	"net/url"
	"path"
	"strings"
)

// MediaKind classifies what a URL points at and therefore which fetch
// strategy handles it.
type MediaKind string

const (
	KindImage   MediaKind = "Image"
	KindYouTube MediaKind = "YouTube"
	KindTikTok  MediaKind = "TikTok"
	KindTwitter MediaKind = "Twitter"
	KindUnknown MediaKind = "Unknown"
)

var youtubeDomains = []string{
	"youtube.com", "youtu.be", "www.youtube.com", "m.youtube.com",
}

var tiktokDomains = []string{
	"tiktok.com", "www.tiktok.com", "vm.tiktok.com", "vt.tiktok.com", "m.tiktok.com",
}

var twitterDomains = []string{
	"twitter.com", "x.com", "www.twitter.com", "mobile.twitter.com",
}

var imageExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp", ".svg", ".ico",
}

// imageCDNHosts are hosts that serve images without an extension in the
// path, relying on a format query parameter instead.
var imageCDNHosts = []string{"pbs.twimg.com", "twimg.com"}

var imageFormatHints = []string{"format=jpg", "format=png", "format=webp"}

// Classify maps a URL string to a MediaKind. It is a total function:
// unrecognized input yields KindUnknown, never an error.
//
// Precedence matters. A Twitter CDN image URL also contains a Twitter
// domain, so video-platform rules are checked before post rules, and
// post rules before image rules.
func Classify(rawURL string) MediaKind {
	if rawURL == "" {
		return KindUnknown
	}
	lowered := strings.ToLower(rawURL)

	if containsAny(lowered, youtubeDomains) {
		return KindYouTube
	}
	if containsAny(lowered, tiktokDomains) {
		return KindTikTok
	}
	if IsTwitterPostURL(rawURL) {
		return KindTwitter
	}
	if IsImageURL(rawURL) {
		return KindImage
	}
	return KindUnknown
}

// IsImageURL reports whether the URL points at a direct image: either the
// path ends with a known image extension, or the host is a known image CDN
// and the query carries an explicit format hint.
func IsImageURL(rawURL string) bool {
	lowered := strings.ToLower(rawURL)
	parsed, err := url.Parse(lowered)
	if err != nil {
		return false
	}

	ext := path.Ext(parsed.Path)
	for _, imageExt := range imageExtensions {
		if ext == imageExt {
			return true
		}
	}

	for _, host := range imageCDNHosts {
		if strings.Contains(parsed.Host, host) {
			return containsAny(lowered, imageFormatHints)
		}
	}
	return false
}

// IsTwitterPostURL reports whether the URL is a Twitter/X post that might
// contain media. Whether the post actually holds a video is only known
// after the extractor probes it.
func IsTwitterPostURL(rawURL string) bool {
	lowered := strings.ToLower(rawURL)
	return containsAny(lowered, twitterDomains) && strings.Contains(lowered, "/status/")
}

// IsSupportedURL reports whether any fetch strategy can handle the URL.
func IsSupportedURL(rawURL string) bool {
	return Classify(rawURL) != KindUnknown
}

// FormatLimited reports whether the platform's extraction backend exposes
// an unreliable format ladder, forcing a single best-available request
// regardless of the requested quality.
func (k MediaKind) FormatLimited() bool {
	return k == KindTikTok || k == KindTwitter
}

// Video reports whether the kind is handled by the extractor-backed fetcher.
func (k MediaKind) Video() bool {
	return k == KindYouTube || k == KindTikTok || k == KindTwitter
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
