package services

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

const thumbnailWidth = 320

// GenerateThumbnail scales an uploaded image down to thumbnailWidth,
// keeping aspect ratio, and re-encodes it in the format its extension
// implies. Only raster images are supported; callers skip video and
// document uploads.
func GenerateThumbnail(data []byte, storageName string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decoding image")
	}

	thumb := resize.Resize(thumbnailWidth, 0, img, resize.Lanczos3)

	format, err := imaging.FormatFromFilename(storageName)
	if err != nil {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return nil, errors.Wrap(err, "encoding thumbnail")
	}
	return buf.Bytes(), nil
}

// ThumbName derives the thumbnail blob name from the storage name.
func ThumbName(storageName string) string {
	return "thumb_" + storageName
}
