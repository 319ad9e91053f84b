// Package imagefilter judges whether an image URL plausibly points at a
// human portrait. Unlike the article classifier this filter is permissive:
// absence of negative evidence is acceptance.
package imagefilter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/constants"
	"github.com/omerhaim/origindaily/internal/rules"
)

var (
	thumbWidthRe = regexp.MustCompile(`/(\d+)px-`)
	filenameRe   = regexp.MustCompile(`(?i)/([^/]+)\.(jpe?g|png)$`)
)

type Config struct {
	MinWidth            int
	MinHeight           int
	MinAspectRatio      float64
	MaxAspectRatio      float64
	PreferredWidth      int
	HeightEstimateRatio float64
}

func DefaultConfig() Config {
	return Config{
		MinWidth:            constants.FilterConfig.MinWidth,
		MinHeight:           constants.FilterConfig.MinHeight,
		MinAspectRatio:      constants.FilterConfig.MinAspectRatio,
		MaxAspectRatio:      constants.FilterConfig.MaxAspectRatio,
		PreferredWidth:      constants.FilterConfig.PreferredWidth,
		HeightEstimateRatio: constants.FilterConfig.HeightEstimateRatio,
	}
}

// Verdict is the filter decision plus the dimensions it worked with
// (zero when indeterminate).
type Verdict struct {
	Accept bool
	Reason string
	Width  int
	Height int
}

type Filter struct {
	rules  *rules.Ruleset
	cfg    Config
	logger *zap.Logger
}

func New(ruleset *rules.Ruleset, cfg Config, logger *zap.Logger) *Filter {
	return &Filter{rules: ruleset, cfg: cfg, logger: logger}
}

// Evaluate decides accept/reject for an image URL. Declared dimensions (from
// API thumbnail metadata) take precedence over the width embedded in the
// URL; a missing height is estimated from the width at 4:3.
func (f *Filter) Evaluate(imageURL string, declaredWidth, declaredHeight int) Verdict {
	width := declaredWidth
	if width <= 0 {
		width = parseThumbWidth(imageURL)
	}
	height := declaredHeight
	if height <= 0 && width > 0 {
		height = int(float64(width) * f.cfg.HeightEstimateRatio)
	}

	// Size checks only apply when the URL gives us a size to check.
	if width > 0 {
		if width < f.cfg.MinWidth || height < f.cfg.MinHeight {
			return f.verdict(imageURL, false, fmt.Sprintf("too small: %dx%d", width, height), width, height)
		}
		aspect := float64(height) / float64(width)
		if aspect < f.cfg.MinAspectRatio || aspect > f.cfg.MaxAspectRatio {
			return f.verdict(imageURL, false, fmt.Sprintf("bad aspect ratio: %.2f", aspect), width, height)
		}
	}

	lower := strings.ToLower(imageURL)

	for _, kw := range f.rules.NonFaceKeywords {
		if strings.Contains(lower, kw) {
			return f.verdict(imageURL, false, fmt.Sprintf("non-face keyword: %s", kw), width, height)
		}
	}
	for _, kw := range f.rules.FaceKeywords {
		if strings.Contains(lower, kw) {
			return f.verdict(imageURL, true, fmt.Sprintf("face keyword: %s", kw), width, height)
		}
	}

	if m := filenameRe.FindStringSubmatch(imageURL); m != nil {
		filename := strings.ToLower(m[1])
		for _, part := range f.rules.HumanFilenameParts {
			if strings.Contains(filename, part) {
				return f.verdict(imageURL, true, fmt.Sprintf("filename keyword: %s", part), width, height)
			}
		}
		for _, part := range f.rules.NonFaceFilenameParts {
			if strings.Contains(filename, part) {
				return f.verdict(imageURL, false, fmt.Sprintf("non-face filename keyword: %s", part), width, height)
			}
		}
	}

	return f.verdict(imageURL, true, "no negative signals", width, height)
}

// UpscaleURL rewrites the embedded thumbnail width to the preferred size
// when the current width is smaller. Already large URLs pass through
// unchanged.
func (f *Filter) UpscaleURL(imageURL string) string {
	m := thumbWidthRe.FindStringSubmatchIndex(imageURL)
	if m == nil {
		return imageURL
	}
	width, err := strconv.Atoi(imageURL[m[2]:m[3]])
	if err != nil || width >= f.cfg.PreferredWidth {
		return imageURL
	}
	return imageURL[:m[2]] + strconv.Itoa(f.cfg.PreferredWidth) + imageURL[m[3]:]
}

func (f *Filter) verdict(imageURL string, accept bool, reason string, width, height int) Verdict {
	f.logger.Debug("Image evaluated",
		zap.String("url", imageURL),
		zap.Bool("accept", accept),
		zap.String("reason", reason),
	)
	return Verdict{Accept: accept, Reason: reason, Width: width, Height: height}
}

func parseThumbWidth(imageURL string) int {
	m := thumbWidthRe.FindStringSubmatch(imageURL)
	if m == nil {
		return 0
	}
	width, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return width
}
