package analysis

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"propshot-backend/internal/models"
	"propshot-backend/internal/vision"
)

type stubClassifier struct {
	mu       sync.Mutex
	calls    int
	maxBatch int
	inFlight int
	err      error
}

func (s *stubClassifier) Classify(imageURL string, analysisTypes []string) (*vision.AnalyzeResponse, error) {
	s.mu.Lock()
	s.calls++
	s.inFlight++
	if s.inFlight > s.maxBatch {
		s.maxBatch = s.inFlight
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.err != nil {
		return nil, s.err
	}
	return &vision.AnalyzeResponse{
		SceneType:  models.SceneInterior,
		Confidence: 0.9,
		AnalysisID: "an-" + imageURL,
	}, nil
}

type stubStore struct {
	mu     sync.Mutex
	stored map[string]*models.ImageAnalysisResult
}

func newStubStore() *stubStore {
	return &stubStore{stored: map[string]*models.ImageAnalysisResult{}}
}

func (s *stubStore) LatestAnalysis(imageURL string) (*models.ImageAnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stored[imageURL], nil
}

func (s *stubStore) SaveAnalysis(result *models.ImageAnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored[result.ImageURL] = result
	return nil
}

func TestAnalyze_CachesResult(t *testing.T) {
	classifier := &stubClassifier{}
	g := NewGateway(classifier, newStubStore())

	first := g.Analyze("https://img/1.jpg", false)
	second := g.Analyze("https://img/1.jpg", false)

	assert.Equal(t, 1, classifier.calls)
	assert.Same(t, first, second)
}

func TestAnalyze_ForceRefreshBypassesCache(t *testing.T) {
	classifier := &stubClassifier{}
	g := NewGateway(classifier, newStubStore())

	g.Analyze("https://img/1.jpg", false)
	g.Analyze("https://img/1.jpg", true)

	assert.Equal(t, 2, classifier.calls)
}

func TestAnalyze_StoreHitSkipsClassifier(t *testing.T) {
	classifier := &stubClassifier{}
	store := newStubStore()
	store.stored["https://img/1.jpg"] = &models.ImageAnalysisResult{
		ImageURL:   "https://img/1.jpg",
		SceneType:  models.SceneExterior,
		Confidence: 0.8,
	}
	g := NewGateway(classifier, store)

	result := g.Analyze("https://img/1.jpg", false)

	assert.Equal(t, 0, classifier.calls)
	assert.Equal(t, models.SceneExterior, result.SceneType)
}

func TestAnalyze_FailureYieldsSentinel(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("upstream down")}
	g := NewGateway(classifier, newStubStore())

	result := g.Analyze("https://img/1.jpg", false)

	assert.Equal(t, models.SceneUnknown, result.SceneType)
	assert.Zero(t, result.Confidence)
	assert.False(t, result.Usable())
}

func TestAnalyze_PersistsToStore(t *testing.T) {
	store := newStubStore()
	g := NewGateway(&stubClassifier{}, store)

	g.Analyze("https://img/1.jpg", false)

	assert.NotNil(t, store.stored["https://img/1.jpg"])
}

func TestBatchAnalyze_CoversAllURLsInBoundedBatches(t *testing.T) {
	classifier := &stubClassifier{}
	g := NewGateway(classifier, newStubStore())

	urls := make([]string, 7)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://img/%d.jpg", i)
	}

	results := g.BatchAnalyze(urls)

	assert.Len(t, results, 7)
	for _, url := range urls {
		assert.NotNil(t, results[url])
	}
	assert.Equal(t, 7, classifier.calls)
	assert.LessOrEqual(t, classifier.maxBatch, batchSize)
}

func TestClearCache(t *testing.T) {
	classifier := &stubClassifier{}
	g := NewGateway(classifier, nil)

	g.Analyze("https://img/1.jpg", false)
	g.ClearCache()
	g.Analyze("https://img/1.jpg", false)

	assert.Equal(t, 2, classifier.calls)
}
