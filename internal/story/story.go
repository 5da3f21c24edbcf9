package story

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"

	"storyreel/internal/language"
	"storyreel/internal/textutil"
)

// MaxContentLength is the default cap on story content, in runes.
const MaxContentLength = 10000

// safeNameLimit bounds the title part of generated file names.
const safeNameLimit = 60

// Story is one harvested post.
type Story struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	Content    string `json:"content"`
	Score      int    `json:"score"`
	URL        string `json:"url"`
	CreatedUTC string `json:"created_utc"`
}

// Validate reports why a story cannot be narrated.
func (s Story) Validate(maxContentLength int) error {
	switch {
	case strings.TrimSpace(s.Title) == "":
		return fmt.Errorf("title is empty")
	case strings.TrimSpace(s.Author) == "":
		return fmt.Errorf("author is empty")
	case strings.TrimSpace(s.Content) == "":
		return fmt.Errorf("content is empty")
	}
	if maxContentLength > 0 {
		if n := utf8.RuneCountInString(s.Content); n > maxContentLength {
			return fmt.Errorf("content is %d characters, limit is %d", n, maxContentLength)
		}
	}
	return nil
}

// NarrationText is the text read aloud: title, byline, then the story.
func (s Story) NarrationText() string {
	return fmt.Sprintf("%s. By %s. %s", strings.TrimSpace(s.Title), strings.TrimSpace(s.Author), strings.TrimSpace(s.Content))
}

// SafeName is the title reduced to a file-name-safe token with underscores
// in place of spaces. Titles with nothing usable become "story".
func (s Story) SafeName() string {
	name := textutil.SanitizeFileName(s.Title)
	name = strings.Trim(strings.ReplaceAll(name, " ", "_"), "._")
	name = strings.TrimRight(textutil.TruncateRunes(name, safeNameLimit), "._-")
	if name == "" {
		return "story"
	}
	return name
}

// Language detects the content language; see DetectLanguage.
func (s Story) Language() string {
	return DetectLanguage(s.Content)
}

// DetectLanguage returns the ISO 639-1 code of text, or "" when the detector
// is not confident.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return language.ToISO2(info.Lang.Iso6393())
}
