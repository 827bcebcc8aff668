package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSelector_HeightBoundedPresets(t *testing.T) {
	tests := []struct {
		quality Quality
		want    string
	}{
		{Quality4K, "bestvideo[height<=2160]+bestaudio/best[height<=2160]"},
		{Quality2K, "bestvideo[height<=1440]+bestaudio/best[height<=1440]"},
		{Quality1080p, "bestvideo[height<=1080]+bestaudio/best[height<=1080]"},
		{Quality720p, "bestvideo[height<=720]+bestaudio/best[height<=720]"},
		{Quality480p, "bestvideo[height<=480]+bestaudio/best[height<=480]"},
		{Quality360p, "bestvideo[height<=360]+bestaudio/best[height<=360]"},
		{QualityBest, "best"},
	}

	for _, tt := range tests {
		t.Run(string(tt.quality), func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSelector(tt.quality, KindYouTube))
		})
	}
}

func TestFormatSelector_AudioIgnoresPlatform(t *testing.T) {
	for _, kind := range []MediaKind{KindYouTube, KindTikTok, KindTwitter} {
		assert.Equal(t, "bestaudio/best", FormatSelector(QualityAudio, kind))
	}
}

func TestFormatSelector_FormatLimitedPlatformsForceBest(t *testing.T) {
	// TikTok and Twitter format ladders are unreliable, so video presets
	// are ignored entirely.
	for _, kind := range []MediaKind{KindTikTok, KindTwitter} {
		assert.Equal(t, "best", FormatSelector(Quality1080p, kind))
		assert.Equal(t, "best", FormatSelector(Quality4K, kind))
	}
}

func TestFormatSelector_UnknownPresetFallsBack(t *testing.T) {
	assert.Equal(t, "best", FormatSelector(Quality("8k"), KindYouTube))
}

func TestValidateQuality(t *testing.T) {
	for _, q := range []Quality{QualityAudio, Quality4K, Quality2K, Quality1080p, Quality720p, Quality480p, Quality360p, QualityBest} {
		assert.True(t, ValidateQuality(q), string(q))
	}
	assert.False(t, ValidateQuality(Quality("hd")))
	assert.False(t, ValidateQuality(Quality("")))
}
