// Package media decides how the closing media attachment is played back.
package media

import (
	"net/url"
	"strings"
)

// Kind selects the player used for an attachment.
type Kind string

const (
	// KindEmbed plays through the video platform's embedded player.
	KindEmbed Kind = "embed"
	// KindNative plays through an inline video element.
	KindNative Kind = "native"
)

const embedBase = "https://www.youtube.com/embed/"

// Attachment is a resolved media URL ready for rendering.
type Attachment struct {
	Kind        Kind   `json:"kind"`
	SourceURL   string `json:"sourceUrl"`
	PlaybackURL string `json:"playbackUrl"`
}

// Resolve dispatches raw to the embedded or native player. It reports false
// when no media is configured.
func Resolve(raw string) (Attachment, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Attachment{}, false
	}
	if IsVideoPlatformURL(raw) {
		return Attachment{Kind: KindEmbed, SourceURL: raw, PlaybackURL: EmbedURL(raw)}, true
	}
	return Attachment{Kind: KindNative, SourceURL: raw, PlaybackURL: raw}, true
}

// IsVideoPlatformURL reports whether raw points at the video platform.
func IsVideoPlatformURL(raw string) bool {
	return strings.Contains(raw, "youtube.com") || strings.Contains(raw, "youtu.be")
}

// EmbedURL rewrites a video platform URL to its autoplaying embed form.
// URLs it cannot make sense of are returned unchanged.
func EmbedURL(raw string) string {
	switch {
	case strings.Contains(raw, "youtu.be/"):
		id := raw[strings.Index(raw, "youtu.be/")+len("youtu.be/"):]
		if i := strings.IndexAny(id, "?#"); i >= 0 {
			id = id[:i]
		}
		id = strings.Trim(id, "/")
		if id == "" {
			return raw
		}
		return embedBase + id + "?autoplay=1"
	case strings.Contains(raw, "youtube.com/watch"):
		u, err := url.Parse(raw)
		if err != nil {
			return raw
		}
		id := u.Query().Get("v")
		if id == "" {
			return raw
		}
		return embedBase + id + "?autoplay=1"
	case strings.Contains(raw, "youtube.com/embed"):
		if strings.Contains(raw, "autoplay=1") {
			return raw
		}
		if strings.Contains(raw, "?") {
			return raw + "&autoplay=1"
		}
		return raw + "?autoplay=1"
	}
	return raw
}
