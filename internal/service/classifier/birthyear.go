package classifier

import (
	"regexp"
	"strconv"
)

// Birth-year patterns in priority order: explicit birth phrasing first,
// generic four-digit year last. Each captures one 4-digit group.
var birthYearPatterns = []*regexp.Regexp{
	// "נולד בשנת 1948" / "נולדה בשנת 1948"
	regexp.MustCompile(`נולד(?:ה)?\s+בשנת\s+(\d{4})`),
	// "נולד ב-1975 בתל אביב" and similar birth announcements
	regexp.MustCompile(`נולד(?:ה)?\s+ב[^.\n]{0,60}?(\d{4})`),
	// parenthetical life span "(1923-1998)" or "(1923 - )"
	regexp.MustCompile(`\((\d{4})\s*[-–—]`),
	// "יליד 1956" / "ילידת שנת 1956"
	regexp.MustCompile(`יליד(?:ת)?\s+(?:שנת\s+)?(\d{4})`),
	// any standalone four-digit year
	regexp.MustCompile(`\b(\d{4})\b`),
}

// ExtractBirthYear scans the extract against the ordered pattern list and
// returns the first captured year inside the sane bound, or nil.
func (c *Classifier) ExtractBirthYear(extract string) *int {
	th := c.rules.Thresholds
	for _, pattern := range birthYearPatterns {
		m := pattern.FindStringSubmatch(extract)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if year >= th.MinYear && year <= th.MaxYear {
			return &year
		}
	}
	return nil
}
