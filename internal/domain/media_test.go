package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want MediaKind
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", KindYouTube},
		{"youtube short link", "https://youtu.be/dQw4w9WgXcQ", KindYouTube},
		{"youtube mobile", "https://m.youtube.com/watch?v=abc", KindYouTube},
		{"tiktok", "https://www.tiktok.com/@user/video/123", KindTikTok},
		{"tiktok short link", "https://vm.tiktok.com/ZM123/", KindTikTok},
		{"tiktok vt link", "https://vt.tiktok.com/ZS123/", KindTikTok},
		{"twitter status", "https://twitter.com/user/status/123", KindTwitter},
		{"x status", "https://x.com/user/status/123", KindTwitter},
		{"mobile twitter status", "https://mobile.twitter.com/user/status/123", KindTwitter},
		{"twitter profile without status", "https://twitter.com/user", KindUnknown},
		{"png", "https://example.com/cat.png", KindImage},
		{"jpeg uppercase", "https://example.com/CAT.JPEG", KindImage},
		{"gif", "https://example.com/a/b/anim.gif", KindImage},
		{"twitter cdn with format hint", "https://pbs.twimg.com/media/Fabc?format=jpg&name=large", KindImage},
		{"twitter cdn without hint", "https://pbs.twimg.com/media/Fabc", KindUnknown},
		{"random site", "https://example.com/page", KindUnknown},
		{"empty", "", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.url))
		})
	}
}

func TestClassify_PrecedenceOverlap(t *testing.T) {
	// A YouTube thumbnail URL ends in .jpg but carries a video-platform
	// domain; the platform rule wins.
	assert.Equal(t, KindYouTube, Classify("https://i.youtube.com/vi/abc/hqdefault.jpg"))

	// A Twitter post URL whose path happens to end in an image extension is
	// still a post.
	assert.Equal(t, KindTwitter, Classify("https://x.com/user/status/123/photo.png"))
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://example.com/photo.webp"))
	assert.True(t, IsImageURL("https://pbs.twimg.com/media/abc?format=png"))
	assert.False(t, IsImageURL("https://pbs.twimg.com/media/abc"))
	assert.False(t, IsImageURL("https://example.com/photo"))
}

func TestIsTwitterPostURL(t *testing.T) {
	assert.True(t, IsTwitterPostURL("https://twitter.com/user/status/123"))
	assert.True(t, IsTwitterPostURL("https://x.com/user/STATUS/123"))
	assert.False(t, IsTwitterPostURL("https://twitter.com/user"))
	assert.False(t, IsTwitterPostURL("https://example.com/status/123"))
}

func TestMediaKind_FormatLimited(t *testing.T) {
	assert.True(t, KindTikTok.FormatLimited())
	assert.True(t, KindTwitter.FormatLimited())
	assert.False(t, KindYouTube.FormatLimited())
	assert.False(t, KindImage.FormatLimited())
}

func TestMediaKind_Video(t *testing.T) {
	assert.True(t, KindYouTube.Video())
	assert.True(t, KindTikTok.Video())
	assert.True(t, KindTwitter.Video())
	assert.False(t, KindImage.Video())
	assert.False(t, KindUnknown.Video())
}
