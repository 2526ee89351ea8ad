package utils

import (
	"bytes"
	"crypto/rand"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/nfnt/resize"
)

// Sha512String hashes and encodes in hex the result
func Sha512String(s string) string {
	hash := sha512.New()
	hash.Write([]byte(s))
	return hex.EncodeToString(hash.Sum(nil))
}

func RandSalt(saltSize int) string {
	b := make([]byte, saltSize)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func FormatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// ParseID accepts only positive decimal IDs
func ParseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	return id, err == nil && id > 0
}

type ImageThumbConverted struct {
	ThumbSize int64
	NewX      int
	NewY      int
	OldX      int
	OldY      int
}

// CreateThumb fits the image in a size x size box and writes it as JPEG
func CreateThumb(size uint, reader io.Reader, writer io.Writer) (result ImageThumbConverted, err error) {
	original, _, err := image.Decode(reader)
	if err != nil {
		return result, err
	}
	var newBuf bytes.Buffer
	thumb := resize.Thumbnail(size, size, original, resize.Lanczos3)
	if err = jpeg.Encode(&newBuf, thumb, &jpeg.Options{Quality: 85}); err != nil {
		return
	}
	result.NewX = thumb.Bounds().Dx()
	result.NewY = thumb.Bounds().Dy()
	result.OldX = original.Bounds().Dx()
	result.OldY = original.Bounds().Dy()

	result.ThumbSize, err = io.Copy(writer, &newBuf)
	return
}
