package client

import (
	"regexp"
	"strings"
)

var (
	videoIDPattern  = regexp.MustCompile(`^[0-9A-Za-z_-]{11}$`)
	watchURLPattern = regexp.MustCompile(`(?:v=|/shorts/|embed/|youtu\.be/)([0-9A-Za-z_-]{11})`)
)

// ExtractVideoID accepts either a raw eleven-character identifier or
// common watch/shorts/embed/short-link URL shapes. It never touches
// the network; unrecognized input fails immediately.
func ExtractVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrInvalidVideoID
	}
	if videoIDPattern.MatchString(s) {
		return s, nil
	}
	m := watchURLPattern.FindStringSubmatch(s)
	if len(m) == 2 {
		return m[1], nil
	}
	return "", ErrInvalidVideoID
}
