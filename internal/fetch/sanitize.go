package fetch

import (
	"mime"
	"regexp"
	"strings"
)

var (
	unsafeChars    = regexp.MustCompile(`[^\w\s-]`)
	collapseDashes = regexp.MustCompile(`[-\s]+`)
)

const maxBaseNameLen = 100

// SafeBaseName derives a filesystem-safe file stem from a video title,
// stripping characters illegal in path segments and capping length.
func SafeBaseName(title string) string {
	s := unsafeChars.ReplaceAllString(title, "")
	s = collapseDashes.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > maxBaseNameLen {
		s = s[:maxBaseNameLen]
	}
	if s == "" {
		return "video"
	}
	return s
}

// ExtensionForMime maps a stream mimeType to a file extension,
// defaulting to .bin when the subtype cannot be derived.
func ExtensionForMime(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ".bin"
	}
	parts := strings.SplitN(mediaType, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return ".bin"
	}
	sub := parts[1]
	// Common aliasing: mp4 audio lands in .m4a containers.
	if parts[0] == "audio" && sub == "mp4" {
		return ".m4a"
	}
	return "." + sub
}
