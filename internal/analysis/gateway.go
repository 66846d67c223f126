// Package analysis provides the image-analysis gateway: a remote classifier
// call fronted by an in-memory cache and a database-backed persistence
// fallback.
package analysis

import (
	"log"
	"sync"
	"time"

	"propshot-backend/internal/models"
	"propshot-backend/internal/vision"
)

// batchSize bounds concurrent classification calls.
const batchSize = 5

// Classifier is the remote classification call. *vision.Client implements it.
type Classifier interface {
	Classify(imageURL string, analysisTypes []string) (*vision.AnalyzeResponse, error)
}

// Store persists analysis results; the durable source of truth behind the
// in-memory cache.
type Store interface {
	LatestAnalysis(imageURL string) (*models.ImageAnalysisResult, error)
	SaveAnalysis(result *models.ImageAnalysisResult) error
}

// Gateway owns its cache as state and is constructed with its dependencies;
// it is not a process-wide singleton.
type Gateway struct {
	classifier Classifier
	store      Store

	mu    sync.Mutex
	cache map[string]*models.ImageAnalysisResult
}

func NewGateway(classifier Classifier, store Store) *Gateway {
	return &Gateway{
		classifier: classifier,
		store:      store,
		cache:      make(map[string]*models.ImageAnalysisResult),
	}
}

// Analyze resolves the analysis for one image URL: memory cache, then
// durable store, then the remote classifier. Any failure yields the sentinel
// result instead of an error; callers must treat it as "no usable signal".
func (g *Gateway) Analyze(imageURL string, forceRefresh bool) *models.ImageAnalysisResult {
	if !forceRefresh {
		g.mu.Lock()
		cached, ok := g.cache[imageURL]
		g.mu.Unlock()
		if ok {
			return cached
		}

		if g.store != nil {
			stored, err := g.store.LatestAnalysis(imageURL)
			if err == nil && stored != nil {
				g.put(imageURL, stored)
				return stored
			}
		}
	}

	resp, err := g.classifier.Classify(imageURL, vision.DefaultAnalysisTypes)
	if err != nil {
		log.Printf("image analysis failed for %s: %v", imageURL, err)
		return sentinelResult(imageURL)
	}

	result := &models.ImageAnalysisResult{
		ImageURL:        imageURL,
		SceneType:       resp.SceneType,
		TimeOfDay:       resp.TimeOfDay,
		ClutterScore:    resp.ClutterScore,
		DetectedObjects: resp.DetectedObjects,
		Confidence:      resp.Confidence,
		AnalysisID:      resp.AnalysisID,
		CreatedAt:       time.Now(),
	}

	if g.store != nil {
		if err := g.store.SaveAnalysis(result); err != nil {
			log.Printf("failed to persist analysis for %s: %v", imageURL, err)
		}
	}

	g.put(imageURL, result)
	return result
}

// BatchAnalyze processes URLs in fixed-size batches. Calls inside a batch
// run concurrently and are individually fault-isolated; batches are awaited
// sequentially.
func (g *Gateway) BatchAnalyze(imageURLs []string) map[string]*models.ImageAnalysisResult {
	results := make(map[string]*models.ImageAnalysisResult, len(imageURLs))
	var resultsMu sync.Mutex

	for start := 0; start < len(imageURLs); start += batchSize {
		end := start + batchSize
		if end > len(imageURLs) {
			end = len(imageURLs)
		}

		var wg sync.WaitGroup
		for _, url := range imageURLs[start:end] {
			wg.Add(1)
			go func(url string) {
				defer wg.Done()
				result := g.Analyze(url, false)
				resultsMu.Lock()
				results[url] = result
				resultsMu.Unlock()
			}(url)
		}
		wg.Wait()
	}

	return results
}

// ClearCache empties the in-memory cache; the durable store is untouched.
func (g *Gateway) ClearCache() {
	g.mu.Lock()
	g.cache = make(map[string]*models.ImageAnalysisResult)
	g.mu.Unlock()
}

func (g *Gateway) put(imageURL string, result *models.ImageAnalysisResult) {
	g.mu.Lock()
	g.cache[imageURL] = result
	g.mu.Unlock()
}

func sentinelResult(imageURL string) *models.ImageAnalysisResult {
	return &models.ImageAnalysisResult{
		ImageURL:        imageURL,
		SceneType:       models.SceneUnknown,
		ClutterScore:    0,
		DetectedObjects: []string{},
		Confidence:      0,
		CreatedAt:       time.Now(),
	}
}
