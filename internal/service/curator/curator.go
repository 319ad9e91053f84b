// Package curator assembles the daily balanced image set: surname and
// category searches against Wikipedia, biography classification, image
// vetting, history dedupe, and a cascade of fallbacks so the game always
// has something to serve.
package curator

import (
	"context"
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/constants"
	"github.com/omerhaim/origindaily/internal/domain"
	"github.com/omerhaim/origindaily/internal/rules"
	"github.com/omerhaim/origindaily/internal/service/classifier"
	"github.com/omerhaim/origindaily/internal/service/imagefilter"
	"github.com/omerhaim/origindaily/internal/service/wikipedia"
	"github.com/omerhaim/origindaily/internal/util"
	apperrors "github.com/omerhaim/origindaily/pkg/errors"
)

// Gateway is the slice of the Wikipedia client the curator needs.
type Gateway interface {
	SearchByTerm(ctx context.Context, term string) ([]int64, error)
	PagesInCategory(ctx context.Context, category string) ([]wikipedia.PageRef, error)
	GetPageInfo(ctx context.Context, refs []wikipedia.PageRef, thumbnailSize int) (map[int64]wikipedia.PageInfo, error)
	ResolveImageURL(ctx context.Context, imageTitle string) (string, error)
}

// History is the archive of everything ever served.
type History interface {
	Contains(id string) (bool, error)
	ByGroup(group domain.Group, minBirthYear int) []domain.ImageRecord
	Append(records []domain.ImageRecord) error
}

type Config struct {
	ImagesPerCategory     int
	OverFetchFactor       int
	CategoryFetchFactor   float64
	MaxNamesPerGroup      int
	MaxCategoriesPerGroup int
	MinBirthYear          int
	RelaxYears            int
	FilterByBirthYear     bool
	ThumbnailSize         int
	DailyFilePath         string
}

func DefaultConfig() Config {
	return Config{
		ImagesPerCategory:     constants.CuratorConfig.ImagesPerCategory,
		OverFetchFactor:       constants.CuratorConfig.OverFetchFactor,
		CategoryFetchFactor:   constants.CuratorConfig.CategoryFetchFactor,
		MaxNamesPerGroup:      constants.CuratorConfig.MaxNamesPerGroup,
		MaxCategoriesPerGroup: constants.CuratorConfig.MaxCategoriesPerGroup,
		MinBirthYear:          constants.CuratorConfig.MinBirthYear,
		RelaxYears:            constants.CuratorConfig.RelaxYears,
		ThumbnailSize:         constants.APIConfig.ThumbnailSize,
		DailyFilePath:         "public/daily-images.json",
	}
}

type Service struct {
	gateway    Gateway
	history    History
	classifier *classifier.Classifier
	filter     *imagefilter.Filter
	rules      *rules.Ruleset
	cfg        Config
	logger     *zap.Logger

	mu    sync.RWMutex
	today domain.DailySet
}

func New(
	gateway Gateway,
	hist History,
	cls *classifier.Classifier,
	filter *imagefilter.Filter,
	ruleset *rules.Ruleset,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		gateway:    gateway,
		history:    hist,
		classifier: cls,
		filter:     filter,
		rules:      ruleset,
		cfg:        cfg,
		logger:     logger,
	}
}

// Today returns the currently served set.
func (s *Service) Today() domain.DailySet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.today
}

// LoadPersisted restores a previously generated set from disk so a restart
// does not reroll the day. A stale or missing file leaves the set empty.
func (s *Service) LoadPersisted() error {
	data, err := os.ReadFile(s.cfg.DailyFilePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return apperrors.NewStorageError("failed to read daily set", "load", s.cfg.DailyFilePath, err)
	}

	var set domain.DailySet
	if err := json.Unmarshal(data, &set); err != nil {
		s.logger.Warn("Daily set file is corrupt, ignoring", zap.Error(err))
		return nil
	}

	if set.Date != today() {
		s.logger.Info("Persisted daily set is stale", zap.String("date", set.Date))
		return nil
	}

	s.mu.Lock()
	s.today = set
	s.mu.Unlock()
	s.logger.Info("Restored daily set", zap.Int("images", len(set.Images)))
	return nil
}

// GenerateDaily builds and publishes the set for the current day. The run
// prefers the history cache, then live fetching, then one relaxed retry,
// then the hardcoded samples. An empty group fails the whole run, never
// just that group: the published set is either balanced live/cached data
// or the pure sample set.
func (s *Service) GenerateDaily(ctx context.Context) (domain.DailySet, error) {
	s.logger.Info("Generating daily images")
	start := time.Now()

	minYear := 0
	if s.cfg.FilterByBirthYear {
		minYear = s.cfg.MinBirthYear
	}

	images, fromSamples := s.collect(ctx, minYear)

	set := domain.DailySet{
		Date:   today(),
		Images: util.Shuffle(images),
	}

	s.mu.Lock()
	s.today = set
	s.mu.Unlock()

	// Sample records are placeholders, not served history: archiving them
	// would make the cache path replay them as real picks.
	if !fromSamples {
		if err := s.history.Append(set.Images); err != nil {
			s.logger.Warn("Failed to archive daily images", zap.Error(err))
		}
	}
	if err := s.persist(set); err != nil {
		s.logger.Warn("Failed to persist daily set", zap.Error(err))
	}

	s.logger.Info("Daily set ready",
		zap.Int("images", len(set.Images)),
		zap.Int("arab", set.CountByGroup(domain.GroupArab)),
		zap.Int("mizrahi", set.CountByGroup(domain.GroupMizrahi)),
		zap.Bool("from_samples", fromSamples),
		zap.Duration("took", time.Since(start)),
	)
	return set, nil
}

// collect gathers the run's records. The second return reports whether the
// run degraded to the sample set.
func (s *Service) collect(ctx context.Context, minYear int) ([]domain.ImageRecord, bool) {
	target := s.cfg.ImagesPerCategory

	// Cache path: only when the archive can cover every group is the run
	// served without network calls.
	cached := make(map[domain.Group][]domain.ImageRecord, len(domain.Groups))
	saturated := true
	for _, group := range domain.Groups {
		records := s.history.ByGroup(group, minYear)
		if len(records) < target {
			saturated = false
			break
		}
		cached[group] = records
	}
	if saturated {
		s.logger.Info("Serving all groups from history cache")
		var images []domain.ImageRecord
		for _, group := range domain.Groups {
			images = append(images, util.RandomSubset(cached[group], target)...)
		}
		return images, false
	}

	byGroup, complete := s.fetchAll(ctx, minYear)

	if !complete && s.cfg.FilterByBirthYear {
		relaxed := minYear - s.cfg.RelaxYears
		s.logger.Warn("A group came up empty, relaxing birth year bound for the whole run",
			zap.Int("min_birth_year", relaxed),
		)
		byGroup, complete = s.fetchAll(ctx, relaxed)
	}

	if !complete {
		s.logger.Warn("A group came up empty after all fetch paths, using sample images")
		return append([]domain.ImageRecord(nil), sampleRecords...), true
	}

	var images []domain.ImageRecord
	for _, group := range domain.Groups {
		images = append(images, util.RandomSubset(byGroup[group], target)...)
	}
	return images, false
}

// fetchAll runs the live fetch for every group. complete is false when any
// group yielded nothing, which fails the run as a whole.
func (s *Service) fetchAll(ctx context.Context, minYear int) (map[domain.Group][]domain.ImageRecord, bool) {
	seen := make(map[string]struct{})
	byGroup := make(map[domain.Group][]domain.ImageRecord, len(domain.Groups))
	complete := true
	for _, group := range domain.Groups {
		records := s.fetchGroup(ctx, group, minYear, seen)
		if len(records) == 0 {
			complete = false
		}
		byGroup[group] = records
	}
	return byGroup, complete
}

// fetchGroup drains the candidate stream until the over-fetch target is hit,
// so the final random pick has real slack to choose from.
func (s *Service) fetchGroup(ctx context.Context, group domain.Group, minYear int, seen map[string]struct{}) []domain.ImageRecord {
	overTarget := s.cfg.ImagesPerCategory * s.cfg.OverFetchFactor

	names := util.RandomSubset(s.rules.Surnames(group), s.cfg.MaxNamesPerGroup)
	var records []domain.ImageRecord
	for rec := range s.candidates(ctx, domain.NameTerms(group, names), minYear, seen) {
		records = append(records, rec)
		if len(records) >= overTarget {
			return records
		}
	}

	// Names alone rarely saturate the margin; categories fill the gap when
	// the haul is below the trigger multiple of the target.
	trigger := int(float64(s.cfg.ImagesPerCategory) * s.cfg.CategoryFetchFactor)
	if len(records) >= trigger {
		return records
	}

	categories := s.rules.Categories(group)
	if len(categories) > s.cfg.MaxCategoriesPerGroup {
		categories = categories[:s.cfg.MaxCategoriesPerGroup]
	}
	for rec := range s.candidates(ctx, domain.CategoryTerms(group, categories), minYear, seen) {
		records = append(records, rec)
		if len(records) >= overTarget {
			break
		}
	}
	return records
}

// candidates yields vetted, deduplicated records term by term. Consumers
// stop the underlying fetching simply by breaking out of the range loop.
func (s *Service) candidates(ctx context.Context, terms []domain.SearchTerm, minYear int, seen map[string]struct{}) iter.Seq[domain.ImageRecord] {
	return func(yield func(domain.ImageRecord) bool) {
		for _, term := range terms {
			if ctx.Err() != nil {
				return
			}
			records, err := s.fetchTerm(ctx, term, minYear)
			if err != nil {
				s.logger.Warn("Term fetch failed",
					zap.String("term", term.Value),
					zap.String("kind", string(term.Kind)),
					zap.Error(err),
				)
				continue
			}
			for _, rec := range records {
				if _, dup := seen[rec.ID]; dup {
					continue
				}
				served, err := s.history.Contains(rec.ID)
				if err != nil {
					// Repeating a face is better than serving nothing.
					s.logger.Warn("History lookup failed, keeping record", zap.String("id", rec.ID), zap.Error(err))
					served = false
				}
				if served {
					continue
				}
				seen[rec.ID] = struct{}{}
				if !yield(rec) {
					return
				}
			}
		}
	}
}

func (s *Service) fetchTerm(ctx context.Context, term domain.SearchTerm, minYear int) ([]domain.ImageRecord, error) {
	var refs []wikipedia.PageRef
	switch term.Kind {
	case domain.TermCategory:
		members, err := s.gateway.PagesInCategory(ctx, term.Value)
		if err != nil {
			return nil, err
		}
		refs = members
	default:
		ids, err := s.gateway.SearchByTerm(ctx, term.Value)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			refs = append(refs, wikipedia.PageRef{ID: id})
		}
	}
	if len(refs) == 0 {
		return nil, nil
	}

	pages, err := s.gateway.GetPageInfo(ctx, refs, s.cfg.ThumbnailSize)
	if err != nil {
		return nil, err
	}

	var records []domain.ImageRecord
	for _, page := range pages {
		var res classifier.Result
		if minYear > 0 {
			res = s.classifier.ClassifyWithMinBirthYear(page.Title, page.Extract, page.Categories, minYear)
		} else {
			res = s.classifier.Classify(page.Title, page.Extract, page.Categories)
		}
		if !res.IsHuman {
			continue
		}

		rec, ok := s.buildRecord(ctx, page, term.Group, res.BirthYear)
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// buildRecord picks an image for the page and runs it through the quality
// filter. The lead thumbnail wins; otherwise the first plausible photo from
// the page's media list is resolved.
func (s *Service) buildRecord(ctx context.Context, page wikipedia.PageInfo, group domain.Group, birthYear *int) (domain.ImageRecord, bool) {
	var (
		imageURL string
		width    int
		height   int
	)
	if page.Thumbnail != nil && page.Thumbnail.Source != "" {
		imageURL = page.Thumbnail.Source
		width = page.Thumbnail.Width
		height = page.Thumbnail.Height
	} else {
		title := firstPhotoTitle(page.Images)
		if title == "" {
			return domain.ImageRecord{}, false
		}
		resolved, err := s.gateway.ResolveImageURL(ctx, title)
		if err != nil || resolved == "" {
			return domain.ImageRecord{}, false
		}
		imageURL = resolved
	}

	upscaled := s.filter.UpscaleURL(imageURL)
	verdict := s.filter.Evaluate(upscaled, width, height)
	if !verdict.Accept {
		return domain.ImageRecord{}, false
	}

	rec := domain.ImageRecord{
		ID:        domain.NewImageID(page.Title, page.PageID),
		Title:     page.Title,
		ImageURL:  upscaled,
		SourceURL: page.URL,
		Group:     group,
		BirthYear: birthYear,
		Width:     verdict.Width,
		Height:    verdict.Height,
	}
	if upscaled != imageURL {
		rec.OriginalURL = imageURL
	}
	return rec, true
}

func (s *Service) persist(set domain.DailySet) error {
	if dir := filepath.Dir(s.cfg.DailyFilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperrors.NewStorageError("failed to create daily set directory", "persist", dir, err)
		}
	}
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return apperrors.NewStorageError("failed to encode daily set", "persist", s.cfg.DailyFilePath, err)
	}
	if err := os.WriteFile(s.cfg.DailyFilePath, data, 0o644); err != nil {
		return apperrors.NewStorageError("failed to write daily set", "persist", s.cfg.DailyFilePath, err)
	}
	return nil
}

// firstPhotoTitle returns the first media title that looks like a photo and
// not site furniture.
func firstPhotoTitle(titles []string) string {
	for _, title := range titles {
		lower := strings.ToLower(title)
		if !strings.HasSuffix(lower, ".jpg") && !strings.HasSuffix(lower, ".jpeg") && !strings.HasSuffix(lower, ".png") {
			continue
		}
		if strings.Contains(lower, "logo") || strings.Contains(lower, "icon") || strings.Contains(lower, "flag") || strings.Contains(lower, "map") {
			continue
		}
		return title
	}
	return ""
}

func today() string {
	return time.Now().Format("2006-01-02")
}
