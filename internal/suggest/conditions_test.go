package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"propshot-backend/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestFeaturesOf(t *testing.T) {
	tests := []struct {
		name   string
		result models.ImageAnalysisResult
		want   ImageFeatures
	}{
		{
			name: "confident empty room",
			result: models.ImageAnalysisResult{
				SceneType:  models.SceneEmptyRoom,
				Confidence: 0.92,
			},
			want: ImageFeatures{EmptyRoom: true},
		},
		{
			name: "empty room below confidence floor",
			result: models.ImageAnalysisResult{
				SceneType:  models.SceneEmptyRoom,
				Confidence: 0.65,
			},
			want: ImageFeatures{},
		},
		{
			name: "cluttered uses raw score regardless of confidence",
			result: models.ImageAnalysisResult{
				SceneType:    models.SceneInterior,
				ClutterScore: 0.6,
				Confidence:   0.2,
			},
			want: ImageFeatures{Cluttered: true},
		},
		{
			name: "twilight exterior",
			result: models.ImageAnalysisResult{
				SceneType:  models.SceneExterior,
				TimeOfDay:  "Twilight",
				Confidence: 0.88,
			},
			want: ImageFeatures{Exterior: true, EveningShot: true},
		},
		{
			name: "daytime exterior is not an evening shot",
			result: models.ImageAnalysisResult{
				SceneType:  models.SceneExterior,
				TimeOfDay:  "day",
				Confidence: 0.88,
			},
			want: ImageFeatures{Exterior: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FeaturesOf(&tt.result)
			assert.Equal(t, tt.want.EmptyRoom, got.EmptyRoom)
			assert.Equal(t, tt.want.Cluttered, got.Cluttered)
			assert.Equal(t, tt.want.Exterior, got.Exterior)
			assert.Equal(t, tt.want.EveningShot, got.EveningShot)
		})
	}
}

func TestConditionsOf_AbsentFieldsProduceNoConditions(t *testing.T) {
	assert.Empty(t, conditionsOf(models.RuleConditions{}))

	conds := conditionsOf(models.RuleConditions{
		RequiresEmptyRoom: boolPtr(true),
		PropertyType:      "condo",
		RequiredObjects:   []string{"sofa"},
	})
	assert.Len(t, conds, 3)
}

func TestConditionMatches(t *testing.T) {
	features := ImageFeatures{
		EmptyRoom: true,
		Exterior:  false,
		Objects:   []string{"Sofa", "lamp", "rug"},
	}

	assert.True(t, Condition{Kind: CondEmptyRoom, Expect: true}.Matches(features, ""))
	assert.False(t, Condition{Kind: CondEmptyRoom, Expect: false}.Matches(features, ""))

	// Negated condition matches when the flag is off.
	assert.True(t, Condition{Kind: CondExterior, Expect: false}.Matches(features, ""))

	assert.True(t, Condition{Kind: CondPropertyType, PropertyType: "Condo"}.Matches(features, "condo"))
	assert.False(t, Condition{Kind: CondPropertyType, PropertyType: "house"}.Matches(features, "condo"))

	assert.True(t, Condition{Kind: CondRequiredObjects, RequiredObjects: []string{"sofa", "rug"}}.Matches(features, ""))
	assert.False(t, Condition{Kind: CondRequiredObjects, RequiredObjects: []string{"sofa", "piano"}}.Matches(features, ""))
}
