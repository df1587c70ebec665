package domain

import (
	"regexp"
	"strings"
	"time"
)

const (
	TrendingLimit      = 10
	HashtagSearchLimit = 10
)

type Hashtag struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var hashtagPattern = regexp.MustCompile(`#\w+`)

// ExtractHashtags returns the lowercased tags found in text, keeping the
// leading '#'. A tag repeated in the same text is reported once.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllString(text, -1)
	tags := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		tag := strings.ToLower(m)
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
