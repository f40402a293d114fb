// Package media prepares binary record fields: it downsizes uploaded images
// and converts binary payloads to and from a portable, self-describing text
// encoding (a data URI) that embeds safely in JSON.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/adubois/patrontheque/internal/common"
	"github.com/disintegration/imaging"
)

// Compress decodes an image, scales it down proportionally so neither
// dimension exceeds maxWidth/maxHeight, and re-encodes it as JPEG at the
// given quality (1..100). Images already within bounds are never upscaled,
// only re-encoded.
func Compress(data []byte, maxWidth, maxHeight, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxWidth || bounds.Dy() > maxHeight {
		img = imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPortable encodes binary data as a data URI embedding its MIME type:
//
//	data:image/jpeg;base64,/9j/4AAQ...
func ToPortable(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FromPortable is the inverse of ToPortable: it extracts the MIME type and
// decodes the payload. The round trip is byte-identical, including for empty
// payloads.
func FromPortable(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing data prefix", common.ErrInvalidPortable)
	}

	mimeType, encoded, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, "", fmt.Errorf("%w: missing base64 marker", common.ErrInvalidPortable)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrInvalidPortable, err)
	}
	return data, mimeType, nil
}
