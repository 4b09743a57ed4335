package media

import (
	"mime"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/cropdev/crop-backend/pkg/enums"
)

const octetStream = "application/octet-stream"

var allowedMimeByType = map[enums.MediaType]*regexp.Regexp{
	enums.MediaTypeImage: regexp.MustCompile(`^image/(jpeg|jpg|png|gif|webp|svg\+xml)$`),
	enums.MediaTypeVideo: regexp.MustCompile(`^video/(mp4|webm|ogg|quicktime|x-msvideo)$`),
	enums.MediaTypeAudio: regexp.MustCompile(`^audio/(mpeg|mp3|wav|ogg|webm|aac)$`),
}

// resolveMimeType prefers the declared content type and falls back to
// sniffing the payload when the client sent none or a generic one.
func resolveMimeType(declared string, data []byte) string {
	if clean := normalizeMimeType(declared); clean != "" && clean != octetStream {
		return clean
	}
	if len(data) == 0 {
		return ""
	}
	return normalizeMimeType(mimetype.Detect(data).String())
}

func normalizeMimeType(value string) string {
	clean := strings.TrimSpace(value)
	if clean == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return ""
	}
	return strings.ToLower(mediaType)
}

// mimeAllowed reports whether mimeType passes the allow-list of mediaType.
func mimeAllowed(mediaType enums.MediaType, mimeType string) bool {
	re, ok := allowedMimeByType[mediaType]
	return ok && re.MatchString(mimeType)
}
