// Package classifier decides whether a Wikipedia article is a human
// biography, from its lead extract and category titles alone. The policy is
// default-deny: ambiguous pages are excluded.
package classifier

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/rules"
)

// Result carries the verdict plus a diagnostic reason. The reason never
// drives control flow; it exists for logs and tests.
type Result struct {
	IsHuman   bool
	BirthYear *int
	Reason    string
}

type Classifier struct {
	rules  *rules.Ruleset
	logger *zap.Logger
}

func New(ruleset *rules.Ruleset, logger *zap.Logger) *Classifier {
	return &Classifier{rules: ruleset, logger: logger}
}

// Classify applies the ordered decision policy:
//
//  1. non-human category fragment            -> reject
//  2. count non-human keywords in title+extract
//  3. humanScore = 2x strong indicators + 1x human keywords
//  4. humanScore == 0                        -> reject
//  5. nonHuman/(nonHuman+humanScore) > 0.5   -> reject
//  6. human category fragment                -> accept
//  7. humanScore >= 3                        -> accept
//  8. otherwise                              -> reject
func (c *Classifier) Classify(title, extract string, categories []string) Result {
	th := c.rules.Thresholds

	if frag, ok := matchFragment(categories, c.rules.NonHumanCategoryFragments); ok {
		return c.verdict(title, false, nil, fmt.Sprintf("non-human category fragment: %s", frag))
	}

	text := title + " " + extract

	nonHumanCount := 0
	for _, kw := range c.rules.NonHumanKeywords {
		nonHumanCount += strings.Count(text, kw)
	}

	humanScore := 0
	for _, phrase := range c.rules.StrongHumanIndicators {
		humanScore += th.StrongIndicatorWeight * strings.Count(extract, phrase)
	}
	for _, kw := range c.rules.HumanKeywords {
		humanScore += th.KeywordWeight * strings.Count(text, kw)
	}

	if humanScore == 0 {
		return c.verdict(title, false, nil, "no positive evidence")
	}

	ratio := float64(nonHumanCount) / float64(nonHumanCount+humanScore)
	if ratio > th.NonHumanRatioMax {
		return c.verdict(title, false, nil, fmt.Sprintf("non-human ratio %.2f exceeds %.2f", ratio, th.NonHumanRatioMax))
	}

	if frag, ok := matchFragment(categories, c.rules.HumanCategoryFragments); ok {
		year := c.ExtractBirthYear(extract)
		return c.verdict(title, true, year, fmt.Sprintf("human category fragment: %s", frag))
	}

	if humanScore >= th.AcceptScore {
		year := c.ExtractBirthYear(extract)
		return c.verdict(title, true, year, fmt.Sprintf("human score %d", humanScore))
	}

	return c.verdict(title, false, nil, fmt.Sprintf("insufficient evidence (score %d)", humanScore))
}

// ClassifyWithMinBirthYear classifies first, then requires an extracted
// birth year of at least minBirthYear. Pages without a detectable year are
// rejected in this mode.
func (c *Classifier) ClassifyWithMinBirthYear(title, extract string, categories []string, minBirthYear int) Result {
	res := c.Classify(title, extract, categories)
	if !res.IsHuman {
		return res
	}
	if res.BirthYear == nil {
		return Result{IsHuman: false, Reason: "no birth year found"}
	}
	if *res.BirthYear < minBirthYear {
		return Result{
			IsHuman: false,
			Reason:  fmt.Sprintf("birth year %d before minimum %d", *res.BirthYear, minBirthYear),
		}
	}
	return res
}

func (c *Classifier) verdict(title string, isHuman bool, year *int, reason string) Result {
	c.logger.Debug("Article classified",
		zap.String("title", title),
		zap.Bool("is_human", isHuman),
		zap.String("reason", reason),
	)
	return Result{IsHuman: isHuman, BirthYear: year, Reason: reason}
}

func matchFragment(categories, fragments []string) (string, bool) {
	for _, cat := range categories {
		for _, frag := range fragments {
			if strings.Contains(cat, frag) {
				return frag, true
			}
		}
	}
	return "", false
}
