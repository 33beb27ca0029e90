package imaging

import (
	"encoding/base64"
	"os"
)

// EncodeBase64 reads an image file and returns its base64 wire encoding.
// When a padded -resized copy exists it is preferred, so the oracle and the
// reporting backend see the same pixels the diff mask was computed from.
func EncodeBase64(path string) (string, error) {
	candidate := ResizedPath(path)
	if _, err := os.Stat(candidate); err == nil {
		path = candidate
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ImageReadError{Path: path, Err: err}
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
