package utils

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"regexp"
	"strings"

	"github.com/nfnt/resize"
)

var whitespace = regexp.MustCompile(`\s+`)

// BaseName drops any directory part of an uploaded file name, "C:\\photos\\a.jpg" gives "a.jpg"
func BaseName(in string) string {
	in = strings.ReplaceAll(in, "\\", "/")
	if i := strings.LastIndex(in, "/"); i >= 0 {
		in = in[i+1:]
	}
	return strings.TrimSpace(in)
}

// SanitizeFileName restricts the characters in a file name, replacing everything
// that is not a letter, digit, '.', '-' or '_' with '_'. Directory components are dropped.
func SanitizeFileName(in string) string {
	in = BaseName(in)
	var name strings.Builder
	for i, c := range in {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
			(c == '.' && i > 0) || (c == '-') || (c == '_') {

			name.WriteRune(c)
		} else {
			// Replace all other characters with '_' (underscore)
			name.WriteString("_")
		}
	}
	if name.Len() == 0 {
		return "file"
	}
	return name.String()
}

// FillWhitespace replaces every whitespace run with a single '_', e.g. "Summer  Trip" -> "Summer_Trip"
func FillWhitespace(s string) string {
	return whitespace.ReplaceAllString(s, "_")
}

type ImageThumbConverted struct {
	ThumbSize int64
	NewX      uint16
	NewY      uint16
	OldX      uint16
	OldY      uint16
}

func CreateThumb(size uint, reader io.Reader, writer io.Writer) (result ImageThumbConverted, err error) {
	image, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	newImage := resize.Thumbnail(size, size, image, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, newImage, &jpeg.Options{Quality: 90}); err != nil {
		return
	}
	imageRect := newImage.Bounds().Size()
	result.NewX = uint16(imageRect.X)
	result.NewY = uint16(imageRect.Y)

	imageRect = image.Bounds().Size()
	result.OldX = uint16(imageRect.X)
	result.OldY = uint16(imageRect.Y)

	result.ThumbSize, err = io.Copy(writer, &newBuf)
	return
}
