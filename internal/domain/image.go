package domain

import "fmt"

// Group is one of the two fixed labels a record belongs to. It is decided by
// the search term that produced the page, never by image content.
type Group string

const (
	GroupArab    Group = "arab"
	GroupMizrahi Group = "mizrahi"
)

// Groups lists the two labels in a stable order.
var Groups = []Group{GroupArab, GroupMizrahi}

func (g Group) Valid() bool {
	return g == GroupArab || g == GroupMizrahi
}

func (g Group) String() string {
	return string(g)
}

// ImageRecord is a single portrait+biography pair served to the game.
type ImageRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl"`
	OriginalURL string `json:"originalUrl,omitempty"`
	SourceURL   string `json:"sourceUrl"`
	Group       Group  `json:"group"`
	BirthYear   *int   `json:"birthYear,omitempty"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
}

// NewImageID builds the record identifier from the article title and page ID.
// The pair is stable across runs, which is what makes history dedupe work.
func NewImageID(title string, pageID int64) string {
	return fmt.Sprintf("%s_%d", title, pageID)
}

// DailySet is the balanced, shuffled collection served for one calendar day.
type DailySet struct {
	Date   string        `json:"date"`
	Images []ImageRecord `json:"images"`
}

// Empty reports whether the set has no images to serve.
func (s DailySet) Empty() bool {
	return len(s.Images) == 0
}

// CountByGroup returns how many records in the set carry the given label.
func (s DailySet) CountByGroup(g Group) int {
	n := 0
	for _, img := range s.Images {
		if img.Group == g {
			n++
		}
	}
	return n
}
