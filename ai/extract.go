package ai

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	dataURIPattern = regexp.MustCompile(`data:image/(png|jpeg|jpg|webp|gif);base64,([A-Za-z0-9+/=\s]+)`)
	base64Pattern  = regexp.MustCompile(`[A-Za-z0-9+/=\s]{100,}`)
	whitespace     = regexp.MustCompile(`\s+`)
)

// ExtractImage recovers an image a text model wrote into its answer, either
// as a complete data URI or as a bare base64 run. Returns "" when the text
// holds nothing that decodes to an image.
func ExtractImage(text string) string {
	if m := dataURIPattern.FindStringSubmatch(text); m != nil {
		if uri, ok := decodeImage(m[2]); ok {
			return uri
		}
	}
	for _, run := range base64Pattern.FindAllString(text, -1) {
		if uri, ok := decodeImage(run); ok {
			return uri
		}
	}
	return ""
}

// decodeImage drops trailing words until the rest decodes, models often
// wrap base64 over lines and keep talking after it.
func decodeImage(raw string) (string, bool) {
	fields := whitespace.Split(strings.TrimSpace(raw), -1)
	for n := len(fields); n > 0; n-- {
		clean := strings.Join(fields[:n], "")
		data, err := base64.StdEncoding.DecodeString(clean)
		if err != nil || len(data) == 0 {
			continue
		}
		mime := mimetype.Detect(data).String()
		if !strings.HasPrefix(mime, "image/") {
			continue
		}
		return "data:" + mime + ";base64," + clean, true
	}
	return "", false
}
