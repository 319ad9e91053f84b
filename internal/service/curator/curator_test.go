package curator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/omerhaim/origindaily/internal/domain"
	"github.com/omerhaim/origindaily/internal/rules"
	"github.com/omerhaim/origindaily/internal/service/classifier"
	"github.com/omerhaim/origindaily/internal/service/history"
	"github.com/omerhaim/origindaily/internal/service/imagefilter"
	"github.com/omerhaim/origindaily/internal/service/wikipedia"
)

// fakeGateway fabricates distinct biography pages on demand and counts
// calls, so tests can assert which fetch paths ran. A fail predicate makes
// chosen terms error, simulating a partially dead upstream.
type fakeGateway struct {
	mu            sync.Mutex
	searchCalls   int
	categoryCalls int
	pageInfoCalls int
	resolveCalls  int

	nextID    int64
	perSearch int
	extract   func(id int64) string
	searchErr error
	fail      func(term string) bool
}

func defaultExtract(id int64) string {
	return fmt.Sprintf("הוא נולד בשנת 1960 בחיפה. הוא פוליטיקאי ישראלי וחבר כנסת. (עמוד %d)", id)
}

func (g *fakeGateway) SearchByTerm(_ context.Context, term string) ([]int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.searchCalls++
	if g.searchErr != nil {
		return nil, g.searchErr
	}
	if g.fail != nil && g.fail(term) {
		return nil, errors.New("term unavailable")
	}
	ids := make([]int64, 0, g.perSearch)
	for i := 0; i < g.perSearch; i++ {
		g.nextID++
		ids = append(ids, g.nextID)
	}
	return ids, nil
}

func (g *fakeGateway) PagesInCategory(_ context.Context, category string) ([]wikipedia.PageRef, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.categoryCalls++
	if g.fail != nil && g.fail(category) {
		return nil, errors.New("category unavailable")
	}
	var refs []wikipedia.PageRef
	for i := 0; i < g.perSearch; i++ {
		g.nextID++
		refs = append(refs, wikipedia.PageRef{ID: g.nextID})
	}
	return refs, nil
}

func (g *fakeGateway) GetPageInfo(_ context.Context, refs []wikipedia.PageRef, _ int) (map[int64]wikipedia.PageInfo, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pageInfoCalls++
	extract := g.extract
	if extract == nil {
		extract = defaultExtract
	}
	pages := make(map[int64]wikipedia.PageInfo, len(refs))
	for _, ref := range refs {
		if ref.ID == 0 {
			continue
		}
		pages[ref.ID] = wikipedia.PageInfo{
			PageID:     ref.ID,
			Title:      fmt.Sprintf("אישיות %d", ref.ID),
			Extract:    extract(ref.ID),
			URL:        fmt.Sprintf("https://he.wikipedia.org/?curid=%d", ref.ID),
			Categories: []string{"קטגוריה:אישים ישראלים"},
			Thumbnail: &wikipedia.Thumbnail{
				Source: fmt.Sprintf("https://upload.wikimedia.org/wikipedia/commons/thumb/a/ab/P%d.jpg/300px-P%d.jpg", ref.ID, ref.ID),
				Width:  300,
				Height: 225,
			},
		}
	}
	return pages, nil
}

func (g *fakeGateway) ResolveImageURL(_ context.Context, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resolveCalls++
	return "", nil
}

func (g *fakeGateway) calls() (int, int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.searchCalls, g.categoryCalls, g.pageInfoCalls
}

// flakyHistory fails lookups so the fail-open path can be exercised.
type flakyHistory struct {
	containsErr error
	served      map[string]bool
}

func (h *flakyHistory) Contains(id string) (bool, error) {
	if h.containsErr != nil {
		return false, h.containsErr
	}
	return h.served[id], nil
}

func (h *flakyHistory) ByGroup(domain.Group, int) []domain.ImageRecord { return nil }
func (h *flakyHistory) Append([]domain.ImageRecord) error              { return nil }

func newTestService(t *testing.T, gw Gateway, hist History, cfg Config) *Service {
	t.Helper()
	ruleset := rules.Default()
	logger := zap.NewNop()
	cls := classifier.New(ruleset, logger)
	filter := imagefilter.New(ruleset, imagefilter.DefaultConfig(), logger)
	return New(gw, hist, cls, filter, ruleset, cfg, logger)
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ImagesPerCategory = 2
	cfg.DailyFilePath = filepath.Join(t.TempDir(), "daily-images.json")
	return cfg
}

func newLoadedStore(t *testing.T) *history.Store {
	t.Helper()
	s := history.NewStore(filepath.Join(t.TempDir(), "history.json"), 1000, zap.NewNop())
	if err := s.Load(); err != nil {
		t.Fatalf("load history: %v", err)
	}
	return s
}

func archived(id string, group domain.Group) domain.ImageRecord {
	return domain.ImageRecord{
		ID:        id,
		Title:     id,
		ImageURL:  "https://example.org/" + id + ".jpg",
		SourceURL: "https://he.wikipedia.org/wiki/" + id,
		Group:     group,
	}
}

func TestGenerateDailyServedFromCacheWithoutNetwork(t *testing.T) {
	gw := &fakeGateway{perSearch: 3}
	store := newLoadedStore(t)
	if err := store.Append([]domain.ImageRecord{
		archived("a_1", domain.GroupArab),
		archived("a_2", domain.GroupArab),
		archived("a_3", domain.GroupArab),
		archived("m_1", domain.GroupMizrahi),
		archived("m_2", domain.GroupMizrahi),
		archived("m_3", domain.GroupMizrahi),
	}); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	svc := newTestService(t, gw, store, testConfig(t))
	set, err := svc.GenerateDaily(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	searches, cats, infos := gw.calls()
	if searches != 0 || cats != 0 || infos != 0 {
		t.Fatalf("expected zero network calls, got search=%d category=%d pageinfo=%d", searches, cats, infos)
	}
	if got := set.CountByGroup(domain.GroupArab); got != 2 {
		t.Fatalf("expected 2 arab images, got %d", got)
	}
	if got := set.CountByGroup(domain.GroupMizrahi); got != 2 {
		t.Fatalf("expected 2 mizrahi images, got %d", got)
	}
}

func TestGenerateDailyBalancesGroupsFromLiveFetch(t *testing.T) {
	gw := &fakeGateway{perSearch: 3}
	svc := newTestService(t, gw, newLoadedStore(t), testConfig(t))

	set, err := svc.GenerateDaily(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if got := set.CountByGroup(domain.GroupArab); got != 2 {
		t.Fatalf("expected 2 arab images, got %d", got)
	}
	if got := set.CountByGroup(domain.GroupMizrahi); got != 2 {
		t.Fatalf("expected 2 mizrahi images, got %d", got)
	}

	ids := make(map[string]bool)
	for _, rec := range set.Images {
		if ids[rec.ID] {
			t.Fatalf("duplicate record in set: %s", rec.ID)
		}
		ids[rec.ID] = true
		if rec.BirthYear == nil || *rec.BirthYear != 1960 {
			t.Fatalf("expected birth year 1960 on %s, got %v", rec.ID, rec.BirthYear)
		}
	}
}

func TestGenerateDailyFallsBackToSamples(t *testing.T) {
	gw := &fakeGateway{perSearch: 0, searchErr: errors.New("upstream down")}
	cfg := testConfig(t)
	store := newLoadedStore(t)
	svc := newTestService(t, gw, store, cfg)

	set, err := svc.GenerateDaily(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(set.Images) != 4 {
		t.Fatalf("expected the 4-record sample set, got %d records", len(set.Images))
	}
	for _, rec := range set.Images {
		if !strings.HasPrefix(rec.ID, "sample_") {
			t.Fatalf("unexpected record in fallback set: %s", rec.ID)
		}
	}

	// Sample records must not leak into the dedupe archive.
	if store.Len() != 0 {
		t.Fatalf("expected history untouched on fallback, got %d records", store.Len())
	}

	// The fallback set is still persisted for the rest of the day.
	data, err := os.ReadFile(cfg.DailyFilePath)
	if err != nil {
		t.Fatalf("expected persisted daily set: %v", err)
	}
	var persisted domain.DailySet
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("persisted set is not valid JSON: %v", err)
	}
	if len(persisted.Images) != len(set.Images) {
		t.Fatalf("persisted %d images, served %d", len(persisted.Images), len(set.Images))
	}
}

func TestGenerateDailyOneEmptyGroupFailsWholeRun(t *testing.T) {
	ruleset := rules.Default()
	arabTerms := make(map[string]bool)
	for _, name := range ruleset.Surnames(domain.GroupArab) {
		arabTerms[name] = true
	}
	for _, cat := range ruleset.Categories(domain.GroupArab) {
		arabTerms[cat] = true
	}

	// One group's terms all fail while the other serves biographies; the
	// run must still degrade to the pure sample set.
	gw := &fakeGateway{perSearch: 3, fail: func(term string) bool { return arabTerms[term] }}
	store := newLoadedStore(t)
	svc := newTestService(t, gw, store, testConfig(t))

	set, err := svc.GenerateDaily(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(set.Images) != 4 {
		t.Fatalf("expected the 4-record sample set, got %d records", len(set.Images))
	}
	for _, rec := range set.Images {
		if !strings.HasPrefix(rec.ID, "sample_") {
			t.Fatalf("live record mixed into fallback set: %s", rec.ID)
		}
	}
	if store.Len() != 0 {
		t.Fatalf("expected history untouched on fallback, got %d records", store.Len())
	}
}

func TestGenerateDailyPartialCacheFetchesBothGroupsLive(t *testing.T) {
	gw := &fakeGateway{perSearch: 3}
	store := newLoadedStore(t)
	// Only one group is saturated; the cache path must not serve a hybrid.
	if err := store.Append([]domain.ImageRecord{
		archived("a_1", domain.GroupArab),
		archived("a_2", domain.GroupArab),
		archived("a_3", domain.GroupArab),
	}); err != nil {
		t.Fatalf("seed history: %v", err)
	}
	svc := newTestService(t, gw, store, testConfig(t))

	set, err := svc.GenerateDaily(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	searches, _, _ := gw.calls()
	if searches == 0 {
		t.Fatal("expected live fetching when the cache covers only one group")
	}
	for _, rec := range set.Images {
		if rec.ID == "a_1" || rec.ID == "a_2" || rec.ID == "a_3" {
			t.Fatalf("cached record served alongside live fetch: %s", rec.ID)
		}
	}
	if got := set.CountByGroup(domain.GroupArab); got != 2 {
		t.Fatalf("expected 2 arab images, got %d", got)
	}
	if got := set.CountByGroup(domain.GroupMizrahi); got != 2 {
		t.Fatalf("expected 2 mizrahi images, got %d", got)
	}
}

func TestGenerateDailyRelaxesBirthYearBound(t *testing.T) {
	gw := &fakeGateway{
		perSearch: 3,
		extract: func(id int64) string {
			return fmt.Sprintf("הוא נולד בשנת 1820. הוא פוליטיקאי וחבר כנסת. (עמוד %d)", id)
		},
	}
	cfg := testConfig(t)
	cfg.FilterByBirthYear = true
	cfg.MinBirthYear = 1850
	cfg.RelaxYears = 50
	svc := newTestService(t, gw, newLoadedStore(t), cfg)

	set, err := svc.GenerateDaily(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if set.Empty() {
		t.Fatal("expected records from the relaxed retry")
	}
	for _, rec := range set.Images {
		if rec.BirthYear == nil || *rec.BirthYear != 1820 {
			t.Fatalf("expected relaxed-bound birth year 1820, got %v", rec.BirthYear)
		}
	}
}

func TestCandidatesKeepRecordWhenHistoryLookupFails(t *testing.T) {
	gw := &fakeGateway{perSearch: 2}
	hist := &flakyHistory{containsErr: errors.New("index unavailable")}
	svc := newTestService(t, gw, hist, testConfig(t))

	var got []domain.ImageRecord
	seen := make(map[string]struct{})
	for rec := range svc.candidates(context.Background(), domain.NameTerms(domain.GroupArab, []string{"טיבי"}), 0, seen) {
		got = append(got, rec)
	}

	if len(got) != 2 {
		t.Fatalf("expected lookup failure to keep records, got %d", len(got))
	}
}

func TestCandidatesSkipServedRecords(t *testing.T) {
	gw := &fakeGateway{perSearch: 2}
	hist := &flakyHistory{served: map[string]bool{"אישיות 1_1": true}}
	svc := newTestService(t, gw, hist, testConfig(t))

	var got []domain.ImageRecord
	seen := make(map[string]struct{})
	for rec := range svc.candidates(context.Background(), domain.NameTerms(domain.GroupArab, []string{"טיבי"}), 0, seen) {
		got = append(got, rec)
	}

	if len(got) != 1 {
		t.Fatalf("expected the served record to be skipped, got %d", len(got))
	}
	if got[0].ID != "אישיות 2_2" {
		t.Fatalf("unexpected record: %s", got[0].ID)
	}
}

func TestLoadPersistedRestoresTodayOnly(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(t, &fakeGateway{}, newLoadedStore(t), cfg)

	set := domain.DailySet{
		Date:   time.Now().Format("2006-01-02"),
		Images: []domain.ImageRecord{archived("a_1", domain.GroupArab)},
	}
	data, _ := json.Marshal(set)
	if err := os.WriteFile(cfg.DailyFilePath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := svc.LoadPersisted(); err != nil {
		t.Fatalf("load persisted: %v", err)
	}
	if svc.Today().Empty() {
		t.Fatal("expected today's set to be restored")
	}

	// A stale file must not leak into the new day.
	stale := domain.DailySet{Date: "2000-01-01", Images: set.Images}
	data, _ = json.Marshal(stale)
	if err := os.WriteFile(cfg.DailyFilePath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	svc2 := newTestService(t, &fakeGateway{}, newLoadedStore(t), cfg)
	if err := svc2.LoadPersisted(); err != nil {
		t.Fatalf("load persisted: %v", err)
	}
	if !svc2.Today().Empty() {
		t.Fatal("expected stale set to be ignored")
	}
}
