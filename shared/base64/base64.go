package base64

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const dataURIMarker = ";base64,"

// GetContentType extracts the MIME type from a data URI (data:<type>;base64,...).
func GetContentType(file string) string {
	start := len("data:")
	end := strings.Index(file, dataURIMarker)

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// Decode strips an optional data URI prefix and decodes the base64 payload.
func Decode(file string) ([]byte, error) {
	payload := file
	if idx := strings.Index(file, dataURIMarker); idx != -1 {
		payload = file[idx+len(dataURIMarker):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	return data, nil
}
