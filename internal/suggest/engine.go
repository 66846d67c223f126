// Package suggest evaluates promotional suggestion rules against analyzed
// property photos and emits a ranked list of upsell suggestions.
package suggest

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"propshot-backend/internal/analytics"
	"propshot-backend/internal/models"
)

const (
	ruleCacheTTL   = 5 * time.Minute
	minConfidence  = 0.7
	maxSuggestions = 3
)

// Segments available for A/B assignment.
var segments = []string{"A", "B", "C"}

type RuleStore interface {
	EnabledRules() ([]models.SuggestionRule, error)
}

type SegmentStore interface {
	Segment(userID uuid.UUID) (string, error)
	SaveSegment(userID uuid.UUID, segment string) error
}

type InteractionStore interface {
	SaveInteraction(interaction *models.SuggestionInteraction) error
}

type Analyzer interface {
	BatchAnalyze(imageURLs []string) map[string]*models.ImageAnalysisResult
}

// Engine holds its rule cache as owned state and is constructed with its
// dependencies rather than reached through a global.
type Engine struct {
	analyzer     Analyzer
	rules        RuleStore
	segments     SegmentStore
	interactions InteractionStore
	sink         analytics.Sink

	now func() time.Time

	mu          sync.Mutex
	cachedRules []models.SuggestionRule
	lastFetch   time.Time
}

func NewEngine(analyzer Analyzer, rules RuleStore, segments SegmentStore, interactions InteractionStore, sink analytics.Sink) *Engine {
	return &Engine{
		analyzer:     analyzer,
		rules:        rules,
		segments:     segments,
		interactions: interactions,
		sink:         sink,
		now:          time.Now,
	}
}

// SetNow overrides the engine clock. Tests only.
func (e *Engine) SetNow(now func() time.Time) { e.now = now }

// GetSuggestions analyzes the given image URLs, evaluates all enabled rules
// and returns at most three suggestions ordered by descending priority,
// together with the caller's A/B segment. Failures along the way degrade to
// fewer (or no) suggestions, never to an error.
func (e *Engine) GetSuggestions(userID uuid.UUID, imageURLs []string, propertyType string) ([]models.Suggestion, string) {
	segment := e.segmentFor(userID)

	results := e.analyzer.BatchAnalyze(imageURLs)
	features := make([]ImageFeatures, 0, len(results))
	for _, r := range results {
		if !r.Usable() {
			continue
		}
		features = append(features, FeaturesOf(r))
	}

	type candidate struct {
		suggestion models.Suggestion
		rule       models.SuggestionRule
		matches    int
	}
	var candidates []candidate
	for _, rule := range e.enabledRules() {
		conditions, actions := e.activeRule(rule, segment)
		if len(conditions) == 0 {
			continue
		}

		matches, avgConfidence := evaluateRule(conditions, features, propertyType)
		if matches < rule.TriggerThreshold || avgConfidence < minConfidence {
			continue
		}

		candidates = append(candidates, candidate{
			suggestion: e.buildSuggestion(rule, actions, avgConfidence, segment),
			rule:       rule,
			matches:    matches,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].suggestion.Priority > candidates[j].suggestion.Priority
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	// Only suggestions that survive the cap count as emitted.
	var suggestions []models.Suggestion
	for _, c := range candidates {
		suggestions = append(suggestions, c.suggestion)
		e.logEmitted(userID, c.rule, c.suggestion.Confidence, len(imageURLs), c.matches, segment)
	}

	return suggestions, segment
}

// TrackInteraction records a view/click/dismiss on an emitted suggestion.
// Failures are logged locally and swallowed.
func (e *Engine) TrackInteraction(userID uuid.UUID, suggestionID, action string, metadata map[string]any) {
	interaction := &models.SuggestionInteraction{
		ID:           uuid.New(),
		UserID:       userID,
		SuggestionID: suggestionID,
		Action:       action,
		Metadata:     metadata,
		CreatedAt:    e.now(),
	}

	if e.interactions != nil {
		if err := e.interactions.SaveInteraction(interaction); err != nil {
			log.Printf("failed to save suggestion interaction: %v", err)
		}
	}

	if err := e.sink.Record(analytics.Event{
		Name:   "suggestion_" + action,
		UserID: userID.String(),
		Properties: map[string]any{
			"suggestion_id": suggestionID,
			"metadata":      metadata,
		},
		At: e.now(),
	}); err != nil {
		log.Printf("failed to record interaction event: %v", err)
	}
}

// evaluateRule counts images matching all conditions and averages, over the
// matching images only, the confidences of the feature flags the rule
// actually checks.
func evaluateRule(conditions []Condition, features []ImageFeatures, propertyType string) (int, float64) {
	matches := 0
	confidenceSum := 0.0

	for _, f := range features {
		matched := true
		for _, c := range conditions {
			if !c.Matches(f, propertyType) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		matches++
		confidenceSum += imageConfidence(conditions, f)
	}

	if matches == 0 {
		return 0, 0
	}
	return matches, confidenceSum / float64(matches)
}

// imageConfidence is the mean confidence of the feature flags a rule checks
// for one matching image. Rules that check no flags (property type or object
// conditions only) fall back to the image's overall confidence.
func imageConfidence(conditions []Condition, f ImageFeatures) float64 {
	sum, n := 0.0, 0
	for _, c := range conditions {
		key := c.confidenceKey()
		if key == "" {
			continue
		}
		sum += f.Confidence[key]
		n++
	}
	if n == 0 {
		return f.Confidence["overall"]
	}
	return sum / float64(n)
}

// enabledRules returns the cached rule list, refreshing it when the
// 5-minute staleness window has lapsed. A failed refresh serves the stale
// list rather than failing the request.
func (e *Engine) enabledRules() []models.SuggestionRule {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cachedRules != nil && e.now().Sub(e.lastFetch) < ruleCacheTTL {
		return e.cachedRules
	}
	if e.rules == nil {
		return e.cachedRules
	}

	rules, err := e.rules.EnabledRules()
	if err != nil {
		log.Printf("failed to refresh suggestion rules, serving stale list: %v", err)
		return e.cachedRules
	}

	e.cachedRules = rules
	e.lastFetch = e.now()
	return e.cachedRules
}

// activeRule resolves the conditions and actions in effect for a segment:
// a matching variant overrides the base values for this evaluation only.
func (e *Engine) activeRule(rule models.SuggestionRule, segment string) ([]Condition, []models.RuleAction) {
	conditions := rule.Conditions
	actions := rule.Actions

	if variant, ok := rule.Variants[segment]; ok {
		if variant.Conditions != nil {
			conditions = *variant.Conditions
		}
		if len(variant.Actions) > 0 {
			actions = variant.Actions
		}
	}

	return conditionsOf(conditions), actions
}

// segmentFor returns the user's persisted A/B segment, assigning one
// uniformly at random on first use.
func (e *Engine) segmentFor(userID uuid.UUID) string {
	if e.segments == nil {
		return segments[0]
	}

	segment, err := e.segments.Segment(userID)
	if err != nil {
		log.Printf("failed to load A/B segment for %s: %v", userID, err)
		return segments[0]
	}
	if segment != "" {
		return segment
	}

	// The top-level rand functions are safe for concurrent use; the engine
	// is shared across request goroutines.
	segment = segments[rand.Intn(len(segments))]
	if err := e.segments.SaveSegment(userID, segment); err != nil {
		log.Printf("failed to persist A/B segment for %s: %v", userID, err)
	}
	return segment
}

func (e *Engine) buildSuggestion(rule models.SuggestionRule, actions []models.RuleAction, avgConfidence float64, segment string) models.Suggestion {
	s := models.Suggestion{
		ID:         fmt.Sprintf("%s-%d", rule.ID, e.now().UnixMilli()),
		Type:       rule.Name,
		Priority:   rule.Weight * avgConfidence,
		RuleID:     rule.ID.String(),
		Confidence: avgConfidence,
		Segment:    segment,
	}

	// Type stays the rule name regardless of what the actions carry; clients
	// key interaction tracking off it.
	for _, a := range actions {
		if s.Title == "" && a.Title != "" {
			s.Title = a.Title
			s.Description = a.Description
			s.CTA = a.CTA
		}
		if s.DiscountCode == "" && a.DiscountCode != "" {
			s.DiscountCode = a.DiscountCode
			s.DiscountAmount = a.DiscountAmount
			s.DiscountExpiry = a.DiscountExpiry
		}
	}

	return s
}

// logEmitted reports one emitted suggestion to the analytics sink without
// blocking the caller.
func (e *Engine) logEmitted(userID uuid.UUID, rule models.SuggestionRule, avgConfidence float64, imageCount, matchCount int, segment string) {
	event := analytics.Event{
		Name:   "suggestion_emitted",
		UserID: userID.String(),
		Properties: map[string]any{
			"rule":        rule.Name,
			"confidence":  avgConfidence,
			"image_count": imageCount,
			"match_count": matchCount,
			"segment":     segment,
		},
		At: e.now(),
	}
	go func() {
		if err := e.sink.Record(event); err != nil {
			log.Printf("failed to record suggestion event: %v", err)
		}
	}()
}
