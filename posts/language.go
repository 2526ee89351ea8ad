package posts

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	detector     lingua.LanguageDetector
	detectorOnce sync.Once
)

// detectLanguage returns the ISO 639-1 code of text, or "" when unsure
func detectLanguage(text string) string {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.Russian, lingua.Ukrainian, lingua.English, lingua.German, lingua.French, lingua.Spanish).
			WithMinimumRelativeDistance(0.1).
			Build()
	})
	language, ok := detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(language.IsoCode639_1().String())
}
