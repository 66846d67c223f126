package supabase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"propshot-backend/internal/supabase"
)

func TestPhotoPath(t *testing.T) {
	userID := uuid.New()
	now := time.Date(2025, 3, 14, 9, 26, 53, 589793238, time.UTC)

	got := supabase.PhotoPath(userID, "living-room.png", now)

	want := fmt.Sprintf("photos/%s/%d.png", userID.String(), now.UnixNano())
	assert.Equal(t, want, got)
}

func TestPhotoPath_NoExtension(t *testing.T) {
	userID := uuid.New()
	now := time.Now()

	got := supabase.PhotoPath(userID, "IMG0042", now)

	assert.Equal(t, fmt.Sprintf("photos/%s/%d.jpg", userID.String(), now.UnixNano()), got)
}

func TestPhotoPath_DistinctWithinSecond(t *testing.T) {
	userID := uuid.New()
	base := time.Now()

	first := supabase.PhotoPath(userID, "a.jpg", base)
	second := supabase.PhotoPath(userID, "a.jpg", base.Add(time.Nanosecond))

	assert.NotEqual(t, first, second)
}
