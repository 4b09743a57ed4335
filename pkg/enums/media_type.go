package enums

import (
	"fmt"
	"strings"
)

// MediaType classifies a stored asset by its MIME major type.
type MediaType string

const (
	MediaTypeImage MediaType = "IMAGE"
	MediaTypeVideo MediaType = "VIDEO"
	MediaTypeAudio MediaType = "AUDIO"
)

var validMediaTypes = []MediaType{
	MediaTypeImage,
	MediaTypeVideo,
	MediaTypeAudio,
}

// String returns the literal string for the type.
func (m MediaType) String() string {
	return string(m)
}

// IsValid reports whether the type is known.
func (m MediaType) IsValid() bool {
	for _, candidate := range validMediaTypes {
		if candidate == m {
			return true
		}
	}
	return false
}

// MediaTypes returns every known media type.
func MediaTypes() []MediaType {
	out := make([]MediaType, len(validMediaTypes))
	copy(out, validMediaTypes)
	return out
}

// ParseMediaType converts raw input into a MediaType.
func ParseMediaType(value string) (MediaType, error) {
	for _, candidate := range validMediaTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media type %q", value)
}

// MediaTypeFromMime infers the media type from the major part of a MIME type.
func MediaTypeFromMime(mimeType string) (MediaType, bool) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return MediaTypeImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return MediaTypeVideo, true
	case strings.HasPrefix(mimeType, "audio/"):
		return MediaTypeAudio, true
	}
	return "", false
}
