package suggest

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"propshot-backend/internal/analytics"
	"propshot-backend/internal/models"
)

type stubAnalyzer struct {
	results map[string]*models.ImageAnalysisResult
}

func (s *stubAnalyzer) BatchAnalyze(imageURLs []string) map[string]*models.ImageAnalysisResult {
	out := make(map[string]*models.ImageAnalysisResult, len(imageURLs))
	for _, url := range imageURLs {
		if r, ok := s.results[url]; ok {
			out[url] = r
		} else {
			out[url] = &models.ImageAnalysisResult{ImageURL: url, SceneType: models.SceneUnknown}
		}
	}
	return out
}

type stubRuleStore struct {
	rules   []models.SuggestionRule
	err     error
	fetches int
}

func (s *stubRuleStore) EnabledRules() ([]models.SuggestionRule, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.rules, nil
}

type stubSegmentStore struct {
	mu       sync.Mutex
	segments map[uuid.UUID]string
	saves    int
}

func newStubSegmentStore() *stubSegmentStore {
	return &stubSegmentStore{segments: map[uuid.UUID]string{}}
}

func (s *stubSegmentStore) Segment(userID uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.segments[userID], nil
}

func (s *stubSegmentStore) SaveSegment(userID uuid.UUID, segment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.segments[userID] = segment
	return nil
}

type stubInteractionStore struct {
	saved []*models.SuggestionInteraction
}

func (s *stubInteractionStore) SaveInteraction(interaction *models.SuggestionInteraction) error {
	s.saved = append(s.saved, interaction)
	return nil
}

type captureSink struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (s *captureSink) Record(event analytics.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) recorded() []analytics.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]analytics.Event(nil), s.events...)
}

func emptyRoomRule(name string, threshold int, weight float64) models.SuggestionRule {
	return models.SuggestionRule{
		ID:               uuid.New(),
		Name:             name,
		Enabled:          true,
		TriggerType:      "image_analysis",
		TriggerThreshold: threshold,
		Weight:           weight,
		Conditions:       models.RuleConditions{RequiresEmptyRoom: boolPtr(true)},
		Actions: []models.RuleAction{{
			Type:  "upsell",
			Title: "Stage these empty rooms",
			CTA:   "Add virtual staging",
		}},
	}
}

func emptyRoomResults(count int, confidence float64) map[string]*models.ImageAnalysisResult {
	out := map[string]*models.ImageAnalysisResult{}
	for i := 0; i < count; i++ {
		url := fmt.Sprintf("https://img/%d.jpg", i)
		out[url] = &models.ImageAnalysisResult{
			ImageURL:   url,
			SceneType:  models.SceneEmptyRoom,
			Confidence: confidence,
		}
	}
	return out
}

func urlsOf(results map[string]*models.ImageAnalysisResult) []string {
	urls := make([]string, 0, len(results))
	for url := range results {
		urls = append(urls, url)
	}
	return urls
}

func newTestEngine(analyzer Analyzer, rules RuleStore) (*Engine, *stubSegmentStore, *stubInteractionStore) {
	segments := newStubSegmentStore()
	interactions := &stubInteractionStore{}
	engine := NewEngine(analyzer, rules, segments, interactions, analytics.LogSink{})
	return engine, segments, interactions
}

func TestGetSuggestions_RuleFires(t *testing.T) {
	results := emptyRoomResults(3, 0.9)
	rules := &stubRuleStore{rules: []models.SuggestionRule{emptyRoomRule("virtual_staging_upsell", 2, 10)}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	suggestions, segment := engine.GetSuggestions(uuid.New(), urlsOf(results), "")

	require.Len(t, suggestions, 1)
	assert.Contains(t, segments, segment)

	s := suggestions[0]
	assert.Equal(t, "virtual_staging_upsell", s.Type)
	assert.Equal(t, "Stage these empty rooms", s.Title)
	assert.InDelta(t, 0.9, s.Confidence, 1e-9)
	assert.InDelta(t, 9.0, s.Priority, 1e-9) // weight 10 * avg confidence 0.9
	assert.Equal(t, segment, s.Segment)
}

func TestGetSuggestions_BelowThreshold(t *testing.T) {
	results := emptyRoomResults(1, 0.9)
	rules := &stubRuleStore{rules: []models.SuggestionRule{emptyRoomRule("virtual_staging_upsell", 2, 10)}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	suggestions, _ := engine.GetSuggestions(uuid.New(), urlsOf(results), "")

	assert.Empty(t, suggestions)
}

func TestGetSuggestions_BelowConfidenceFloor(t *testing.T) {
	// Interior scenes with low clutter still match a negated-clutter rule,
	// but the averaged confidence stays below the floor.
	results := map[string]*models.ImageAnalysisResult{}
	for i := 0; i < 3; i++ {
		url := fmt.Sprintf("https://img/%d.jpg", i)
		results[url] = &models.ImageAnalysisResult{
			ImageURL:     url,
			SceneType:    models.SceneInterior,
			ClutterScore: 0.3,
			Confidence:   0.75,
		}
	}
	rule := models.SuggestionRule{
		ID:               uuid.New(),
		Name:             "decluttering_upsell",
		Enabled:          true,
		TriggerType:      "image_analysis",
		TriggerThreshold: 1,
		Weight:           5,
		Conditions:       models.RuleConditions{RequiresCluttered: boolPtr(false)},
		Actions:          []models.RuleAction{{Type: "upsell", Title: "Declutter"}},
	}
	rules := &stubRuleStore{rules: []models.SuggestionRule{rule}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	// Cluttered-condition confidence is the clutter score (0.3), below 0.7.
	suggestions, _ := engine.GetSuggestions(uuid.New(), urlsOf(results), "")

	assert.Empty(t, suggestions)
}

func TestGetSuggestions_CapsAndSortsByPriority(t *testing.T) {
	results := emptyRoomResults(3, 0.9)
	rules := &stubRuleStore{rules: []models.SuggestionRule{
		emptyRoomRule("rule_low", 1, 2),
		emptyRoomRule("rule_top", 1, 20),
		emptyRoomRule("rule_mid", 1, 8),
		emptyRoomRule("rule_dropped", 1, 1),
	}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	suggestions, _ := engine.GetSuggestions(uuid.New(), urlsOf(results), "")

	require.Len(t, suggestions, 3)
	assert.GreaterOrEqual(t, suggestions[0].Priority, suggestions[1].Priority)
	assert.GreaterOrEqual(t, suggestions[1].Priority, suggestions[2].Priority)
	assert.InDelta(t, 18.0, suggestions[0].Priority, 1e-9)
}

func TestGetSuggestions_AnalyticsOnlyForEmittedSuggestions(t *testing.T) {
	results := emptyRoomResults(3, 0.9)
	rules := &stubRuleStore{rules: []models.SuggestionRule{
		emptyRoomRule("rule_low", 1, 2),
		emptyRoomRule("rule_top", 1, 20),
		emptyRoomRule("rule_mid", 1, 8),
		emptyRoomRule("rule_dropped", 1, 1),
	}}
	sink := &captureSink{}
	engine := NewEngine(&stubAnalyzer{results: results}, rules, newStubSegmentStore(), &stubInteractionStore{}, sink)

	suggestions, _ := engine.GetSuggestions(uuid.New(), urlsOf(results), "")
	require.Len(t, suggestions, 3)

	// Emission events are recorded off the request goroutine.
	assert.Eventually(t, func() bool {
		return len(sink.recorded()) == 3
	}, time.Second, 10*time.Millisecond)

	for _, event := range sink.recorded() {
		assert.Equal(t, "suggestion_emitted", event.Name)
		assert.NotEqual(t, "rule_dropped", event.Properties["rule"])
	}
}

func TestGetSuggestions_ConcurrentCallers(t *testing.T) {
	results := emptyRoomResults(2, 0.9)
	rules := &stubRuleStore{rules: []models.SuggestionRule{emptyRoomRule("virtual_staging_upsell", 1, 10)}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			suggestions, segment := engine.GetSuggestions(uuid.New(), urlsOf(results), "")
			assert.Len(t, suggestions, 1)
			assert.Contains(t, segments, segment)
		}()
	}
	wg.Wait()
}

func TestGetSuggestions_SegmentAssignedOnceAndPersisted(t *testing.T) {
	results := emptyRoomResults(1, 0.9)
	rules := &stubRuleStore{rules: nil}
	engine, segmentStore, _ := newTestEngine(&stubAnalyzer{results: results}, rules)
	userID := uuid.New()

	_, first := engine.GetSuggestions(userID, urlsOf(results), "")
	_, second := engine.GetSuggestions(userID, urlsOf(results), "")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, segmentStore.saves)
}

func TestGetSuggestions_VariantOverridesActions(t *testing.T) {
	results := emptyRoomResults(2, 0.9)
	rule := emptyRoomRule("virtual_staging_upsell", 1, 10)
	variantActions := []models.RuleAction{{
		Type:         "discount",
		Title:        "20% off staging this week",
		DiscountCode: "STAGE20",
	}}
	rule.Variants = map[string]models.RuleVariant{}
	for _, segment := range segments {
		rule.Variants[segment] = models.RuleVariant{Actions: variantActions}
	}
	rules := &stubRuleStore{rules: []models.SuggestionRule{rule}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	suggestions, _ := engine.GetSuggestions(uuid.New(), urlsOf(results), "")

	require.Len(t, suggestions, 1)
	assert.Equal(t, "20% off staging this week", suggestions[0].Title)
	assert.Equal(t, "STAGE20", suggestions[0].DiscountCode)
	// The variant swaps copy and discount only; the type stays the rule name.
	assert.Equal(t, "virtual_staging_upsell", suggestions[0].Type)
}

func TestEnabledRules_CachedForFiveMinutes(t *testing.T) {
	results := emptyRoomResults(1, 0.9)
	rules := &stubRuleStore{rules: []models.SuggestionRule{emptyRoomRule("r", 1, 1)}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.SetNow(func() time.Time { return now })

	engine.GetSuggestions(uuid.New(), urlsOf(results), "")
	engine.GetSuggestions(uuid.New(), urlsOf(results), "")
	assert.Equal(t, 1, rules.fetches)

	now = now.Add(4 * time.Minute)
	engine.GetSuggestions(uuid.New(), urlsOf(results), "")
	assert.Equal(t, 1, rules.fetches)

	now = now.Add(2 * time.Minute)
	engine.GetSuggestions(uuid.New(), urlsOf(results), "")
	assert.Equal(t, 2, rules.fetches)
}

func TestEnabledRules_ServesStaleOnRefreshFailure(t *testing.T) {
	results := emptyRoomResults(2, 0.9)
	rules := &stubRuleStore{rules: []models.SuggestionRule{emptyRoomRule("r", 1, 1)}}
	engine, _, _ := newTestEngine(&stubAnalyzer{results: results}, rules)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine.SetNow(func() time.Time { return now })

	first, _ := engine.GetSuggestions(uuid.New(), urlsOf(results), "")
	require.Len(t, first, 1)

	rules.err = errors.New("database down")
	now = now.Add(10 * time.Minute)

	second, _ := engine.GetSuggestions(uuid.New(), urlsOf(results), "")
	assert.Len(t, second, 1)
}

func TestTrackInteraction(t *testing.T) {
	engine, _, interactions := newTestEngine(&stubAnalyzer{}, &stubRuleStore{})
	userID := uuid.New()

	engine.TrackInteraction(userID, "rule-123-456", models.InteractionClick, map[string]any{"source": "checkout"})

	require.Len(t, interactions.saved, 1)
	saved := interactions.saved[0]
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, "rule-123-456", saved.SuggestionID)
	assert.Equal(t, models.InteractionClick, saved.Action)
}
