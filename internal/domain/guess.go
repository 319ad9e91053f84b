package domain

import (
	"fmt"
	"time"
)

// Guess is a single user answer for one image.
type Guess struct {
	ImageID   string    `json:"imageId"`
	Guess     Group     `json:"guess"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate checks the fields a client must supply.
func (g Guess) Validate() error {
	if g.ImageID == "" {
		return fmt.Errorf("imageId is required")
	}
	if !g.Guess.Valid() {
		return fmt.Errorf("guess must be one of %q or %q", GroupArab, GroupMizrahi)
	}
	return nil
}

// CSV renders the guess as one audit log line.
func (g Guess) CSV() string {
	return fmt.Sprintf("%s,%s,%s,%t\n", g.Timestamp.Format(time.RFC3339), g.ImageID, g.Guess, g.Correct)
}
