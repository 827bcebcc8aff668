package domain

// Quality is the requested download quality preset.
type Quality string

const (
	QualityAudio Quality = "audio"
	Quality4K    Quality = "4k"
	Quality2K    Quality = "2k"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	Quality360p  Quality = "360p"
	QualityBest  Quality = "best"
)

// formatSelectors maps quality presets to yt-dlp format selector strings.
// Video presets bound the stream height and merge in the best audio track.
var formatSelectors = map[Quality]string{
	QualityAudio: "bestaudio/best",
	Quality4K:    "bestvideo[height<=2160]+bestaudio/best[height<=2160]",
	Quality2K:    "bestvideo[height<=1440]+bestaudio/best[height<=1440]",
	Quality1080p: "bestvideo[height<=1080]+bestaudio/best[height<=1080]",
	Quality720p:  "bestvideo[height<=720]+bestaudio/best[height<=720]",
	Quality480p:  "bestvideo[height<=480]+bestaudio/best[height<=480]",
	Quality360p:  "bestvideo[height<=360]+bestaudio/best[height<=360]",
	QualityBest:  "best",
}

// ValidateQuality checks if a quality preset is one of the known values.
func ValidateQuality(q Quality) bool {
	_, ok := formatSelectors[q]
	return ok
}

// FormatSelector derives the extraction engine's format selector for a
// quality preset on a given platform. Audio-only requests win on every
// platform. Format-limited platforms otherwise get the single best
// available stream; their format ladders are unreliable. Unknown presets
// fall back to "best".
func FormatSelector(q Quality, kind MediaKind) string {
	if q == QualityAudio {
		return formatSelectors[QualityAudio]
	}
	if kind.FormatLimited() {
		return "best"
	}
	if selector, ok := formatSelectors[q]; ok {
		return selector
	}
	return "best"
}
