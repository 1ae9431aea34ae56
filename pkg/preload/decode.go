package preload

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"path"
	"strings"
)

// validateImage reads the image header from r and drains the rest of the
// body so the transfer completes. Formats without a registered decoder
// (webp, avif, svg) are accepted when the content type says image/*.
func validateImage(rawURL string, r io.Reader, contentType string) error {
	_, _, err := image.DecodeConfig(r)
	if err != nil {
		if !errors.Is(err, image.ErrFormat) || !isImageType(contentType) {
			if errors.Is(err, image.ErrFormat) {
				err = ErrNotImage
			}
			return newFetchError(rawURL, "decode", err)
		}
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return newFetchError(rawURL, "request", err)
	}
	return nil
}

func isImageType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}

// typeByPath guesses a content type from the extension of a URL path,
// for transports that carry no headers.
func typeByPath(p string) string {
	return mime.TypeByExtension(strings.ToLower(path.Ext(p)))
}
