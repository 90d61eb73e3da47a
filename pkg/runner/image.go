package runner

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/stylist/pkg/domain"
	"github.com/gabriel-vasile/mimetype"
)

// ErrNotAnImage is returned when a capture file is not an image.
var ErrNotAnImage = errors.New("file is not an image")

// LoadImage resolves what the user typed at the photo step into an image reference.
// Data and http(s) URLs pass through; anything else is read as a file and
// encoded as a data URL with its detected media type.
func LoadImage(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", domain.ErrEmptyCapture
	}
	for _, prefix := range []string{"data:", "http://", "https://"} {
		if strings.HasPrefix(ref, prefix) {
			return ref, nil
		}
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return "", domain.ErrEmptyCapture
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotAnImage, mtype.String())
	}
	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
