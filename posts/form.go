package posts

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"
	"yatube/config"
	"yatube/models"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

const (
	messageInvalidImage = "Загрузите правильное изображение. Файл, который вы загрузили, поврежден или не является изображением."
	messageImageSize    = "Размер файла не должен превышать %d МБ."
)

// Errors are field level validation failures
type Errors = models.FieldErrors

// Upload is an uploaded file read into memory. Data may be one byte longer than the limit.
type Upload struct {
	Name string
	Data []byte
}

// Form holds the submitted values as typed by the user
type Form struct {
	Text       string  `form:"text"`
	Group      string  `form:"group"`
	ImageClear string  `form:"image-clear"`
	Image      *Upload `form:"-"`
}

// Fields are the cleaned values of a valid Form
type Fields struct {
	Text       string
	GroupID    *uint64
	Image      *Upload
	MimeType   string
	ClearImage bool
	Language   string
}

// FormFromPost pre-fills a form with the current values of p
func FormFromPost(p *models.Post) *Form {
	f := &Form{Text: p.Text}
	if p.GroupID != nil {
		f.Group = strconv.FormatUint(*p.GroupID, 10)
	}
	return f
}

// Validate checks the form the same way for create and edit
func (f *Form) Validate() (fields Fields, errs Errors) {
	fields.Text = strings.TrimSpace(f.Text)
	if fields.Text == "" {
		errs = append(errs, models.FieldError{Field: "text", Message: models.MessageRequired})
	}

	if group := strings.TrimSpace(f.Group); group != "" {
		id, err := strconv.ParseUint(group, 10, 64)
		if err == nil {
			_, err = models.GroupByID(id)
		}
		if err != nil {
			errs = append(errs, models.FieldError{Field: "group", Message: models.MessageInvalidChoice})
		} else {
			fields.GroupID = &id
		}
	}

	if f.Image != nil && len(f.Image.Data) > 0 {
		mimeType, message := checkImage(f.Image.Data)
		if message != "" {
			errs = append(errs, models.FieldError{Field: "image", Message: message})
		} else {
			fields.Image = f.Image
			fields.MimeType = mimeType
		}
	} else {
		fields.ClearImage = checked(f.ImageClear)
	}

	if len(errs) > 0 {
		return Fields{}, errs
	}
	fields.Language = detectLanguage(fields.Text)
	return fields, nil
}

// checked reads a checkbox value. Browsers send "on" unless the input sets its own value.
func checked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func checkImage(data []byte) (mimeType, message string) {
	if len(data) > config.MAX_IMAGE_SIZE {
		return "", fmt.Sprintf(messageImageSize, config.MAX_IMAGE_SIZE>>20)
	}
	mimeType = mimetype.Detect(data).String()
	if !lo.Contains(allowedImageTypes, mimeType) {
		return "", messageInvalidImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width < 1 || cfg.Height < 1 {
		return "", messageInvalidImage
	}
	// Decoding allocates by the declared size, not by the file size
	if int64(cfg.Width)*int64(cfg.Height) > int64(config.MAX_IMAGE_PIXELS) {
		return "", messageInvalidImage
	}
	return mimeType, ""
}
