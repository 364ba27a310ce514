// Package customtext decides whether an article accepts a personalised text
// (card messages, ribbon prints) and validates the entered text.
package customtext

import (
	"fmt"
	"strings"
)

// Config describes the text field shown for a personalisable article.
type Config struct {
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	MaxLength   int    `json:"max_length"`
	Required    bool   `json:"required"`
}

// byArticleName matches on a case-insensitive substring of the article name.
var byArticleName = map[string]Config{
	"karte": {
		Label:       "Kartentext",
		Placeholder: "Ihr persönlicher Kartentext...",
		MaxLength:   200,
		Required:    false,
	},
	"schleife": {
		Label:       "Schleifentext",
		Placeholder: "Text für die Schleife...",
		MaxLength:   50,
		Required:    false,
	},
}

// byCategoryTag matches an accounting tag, exact first, then as substring.
var byCategoryTag = map[string]Config{
	"Karten": {
		Label:       "Kartentext",
		Placeholder: "Ihr persönlicher Kartentext...",
		MaxLength:   200,
		Required:    false,
	},
	"Trauerkränze": {
		Label:       "Schleifentext",
		Placeholder: "Text für die Trauerschleife...",
		MaxLength:   60,
		Required:    false,
	},
}

// ConfigFor returns the text configuration for an article, matching the
// article name first and falling back to its accounting tags. The article
// accepts no custom text when ok is false.
func ConfigFor(articleName string, accountingTags []string) (Config, bool) {
	lowerName := strings.ToLower(articleName)
	for needle, cfg := range byArticleName {
		if strings.Contains(lowerName, needle) || strings.Contains(needle, lowerName) {
			return cfg, true
		}
	}

	for _, tag := range accountingTags {
		if cfg, ok := byCategoryTag[tag]; ok {
			return cfg, true
		}
		lowerTag := strings.ToLower(tag)
		for key, cfg := range byCategoryTag {
			lowerKey := strings.ToLower(key)
			if strings.Contains(lowerTag, lowerKey) || strings.Contains(lowerKey, lowerTag) {
				return cfg, true
			}
		}
	}
	return Config{}, false
}

// Validate checks text against the configuration and returns a user-facing
// message when it is rejected.
func (c Config) Validate(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if c.Required && trimmed == "" {
		return fmt.Sprintf("%s ist erforderlich", c.Label), false
	}
	if c.MaxLength > 0 && len([]rune(text)) > c.MaxLength {
		return fmt.Sprintf("%s darf maximal %d Zeichen lang sein", c.Label, c.MaxLength), false
	}
	return "", true
}
