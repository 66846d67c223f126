// Package analytics defines the event sink used by the suggestion engine.
// Sink failures are always logged and swallowed; emitting analytics must
// never block or fail a user-facing request.
package analytics

import (
	"log"
	"time"
)

type Event struct {
	Name       string         `json:"name"`
	UserID     string         `json:"user_id,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
	At         time.Time      `json:"at"`
}

type Sink interface {
	Record(event Event) error
}

// Recorder is the persistence half of a StoreSink; the database client
// implements it.
type Recorder interface {
	RecordAnalyticsEvent(name, userID string, properties map[string]any, at time.Time) error
}

// StoreSink persists events to the durable store.
type StoreSink struct {
	recorder Recorder
}

func NewStoreSink(recorder Recorder) *StoreSink {
	return &StoreSink{recorder: recorder}
}

func (s *StoreSink) Record(event Event) error {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	return s.recorder.RecordAnalyticsEvent(event.Name, event.UserID, event.Properties, event.At)
}

// LogSink writes events to the process log. Used when no database is
// configured.
type LogSink struct{}

func (LogSink) Record(event Event) error {
	log.Printf("analytics: %s user=%s props=%v", event.Name, event.UserID, event.Properties)
	return nil
}
