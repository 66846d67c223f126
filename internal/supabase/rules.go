package supabase

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"propshot-backend/internal/models"
)

const ruleColumns = `id, name, description, enabled, trigger_type, trigger_threshold,
	weight, priority, conditions, actions, variants, created_at, updated_at`

func scanRule(row interface{ Scan(...any) error }) (*models.SuggestionRule, error) {
	var rule models.SuggestionRule
	var conditions, actions, variants []byte
	err := row.Scan(
		&rule.ID, &rule.Name, &rule.Description, &rule.Enabled,
		&rule.TriggerType, &rule.TriggerThreshold, &rule.Weight, &rule.Priority,
		&conditions, &actions, &variants,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &rule.Conditions); err != nil {
			return nil, fmt.Errorf("failed to decode rule conditions: %w", err)
		}
	}
	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &rule.Actions); err != nil {
			return nil, fmt.Errorf("failed to decode rule actions: %w", err)
		}
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &rule.Variants); err != nil {
			return nil, fmt.Errorf("failed to decode rule variants: %w", err)
		}
	}

	return &rule, nil
}

// EnabledRules returns enabled rules ordered by descending stored priority.
func (d *DatabaseClient) EnabledRules() ([]models.SuggestionRule, error) {
	return d.listRules(`WHERE enabled = TRUE`)
}

func (d *DatabaseClient) ListRules() ([]models.SuggestionRule, error) {
	return d.listRules(``)
}

func (d *DatabaseClient) listRules(where string) ([]models.SuggestionRule, error) {
	rows, err := d.db.Query(`
		SELECT ` + ruleColumns + `
		FROM suggestion_rules ` + where + `
		ORDER BY priority DESC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestion rules: %w", err)
	}
	defer rows.Close()

	var rules []models.SuggestionRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	return rules, rows.Err()
}

func (d *DatabaseClient) SaveRule(rule *models.SuggestionRule) error {
	conditions, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("failed to encode rule conditions: %w", err)
	}
	actions, err := json.Marshal(rule.Actions)
	if err != nil {
		return fmt.Errorf("failed to encode rule actions: %w", err)
	}
	variants, err := json.Marshal(rule.Variants)
	if err != nil {
		return fmt.Errorf("failed to encode rule variants: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO suggestion_rules (id, name, description, enabled, trigger_type,
			trigger_threshold, weight, priority, conditions, actions, variants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			enabled = EXCLUDED.enabled,
			trigger_type = EXCLUDED.trigger_type,
			trigger_threshold = EXCLUDED.trigger_threshold,
			weight = EXCLUDED.weight,
			priority = EXCLUDED.priority,
			conditions = EXCLUDED.conditions,
			actions = EXCLUDED.actions,
			variants = EXCLUDED.variants,
			updated_at = NOW()
	`, rule.ID, rule.Name, rule.Description, rule.Enabled, rule.TriggerType,
		rule.TriggerThreshold, rule.Weight, rule.Priority, conditions, actions, variants)
	if err != nil {
		return fmt.Errorf("failed to save suggestion rule: %w", err)
	}
	return nil
}

func (d *DatabaseClient) DeleteRule(ruleID uuid.UUID) error {
	_, err := d.db.Exec(`DELETE FROM suggestion_rules WHERE id = $1`, ruleID)
	return err
}

// Segment returns the user's A/B segment, or "" when none is assigned yet.
func (d *DatabaseClient) Segment(userID uuid.UUID) (string, error) {
	var segment string
	err := d.db.QueryRow(`
		SELECT segment FROM ab_test_segments WHERE user_id = $1
	`, userID).Scan(&segment)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get segment: %w", err)
	}
	return segment, nil
}

func (d *DatabaseClient) SaveSegment(userID uuid.UUID, segment string) error {
	_, err := d.db.Exec(`
		INSERT INTO ab_test_segments (user_id, segment)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, segment)
	return err
}

func (d *DatabaseClient) SaveInteraction(interaction *models.SuggestionInteraction) error {
	metadata, err := json.Marshal(interaction.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode interaction metadata: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO suggestion_interactions (id, user_id, suggestion_id, action, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, interaction.ID, interaction.UserID, interaction.SuggestionID,
		interaction.Action, metadata, interaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save interaction: %w", err)
	}
	return nil
}

func (d *DatabaseClient) CountInteractionsByAction() (map[string]int, error) {
	rows, err := d.db.Query(`
		SELECT action, COUNT(*) FROM suggestion_interactions GROUP BY action
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count interactions: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("failed to scan interaction count: %w", err)
		}
		counts[action] = count
	}
	return counts, rows.Err()
}

// LatestAnalysis fetches the most recent stored classification for a URL.
// A miss returns (nil, nil).
func (d *DatabaseClient) LatestAnalysis(imageURL string) (*models.ImageAnalysisResult, error) {
	var result models.ImageAnalysisResult
	var objects []byte
	err := d.db.QueryRow(`
		SELECT image_url, scene_type, time_of_day, clutter_score, detected_objects,
		       confidence, analysis_id, created_at
		FROM image_analysis
		WHERE image_url = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, imageURL).Scan(
		&result.ImageURL, &result.SceneType, &result.TimeOfDay, &result.ClutterScore,
		&objects, &result.Confidence, &result.AnalysisID, &result.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if len(objects) > 0 {
		if err := json.Unmarshal(objects, &result.DetectedObjects); err != nil {
			return nil, fmt.Errorf("failed to decode detected objects: %w", err)
		}
	}

	return &result, nil
}

func (d *DatabaseClient) SaveAnalysis(result *models.ImageAnalysisResult) error {
	objects, err := json.Marshal(result.DetectedObjects)
	if err != nil {
		return fmt.Errorf("failed to encode detected objects: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO image_analysis (image_url, scene_type, time_of_day, clutter_score,
			detected_objects, confidence, analysis_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, result.ImageURL, result.SceneType, result.TimeOfDay, result.ClutterScore,
		objects, result.Confidence, result.AnalysisID, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (d *DatabaseClient) RecordAnalyticsEvent(name, userID string, properties map[string]any, at time.Time) error {
	props, err := json.Marshal(properties)
	if err != nil {
		return fmt.Errorf("failed to encode event properties: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO analytics_events (id, name, user_id, properties, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), name, userID, props, at)
	if err != nil {
		return fmt.Errorf("failed to record analytics event: %w", err)
	}
	return nil
}
