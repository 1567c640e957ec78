package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
	"github.com/JonnyWalker81/habitrack/backend/pkg/supabase"
)

type evidenceRepository struct {
	client *supabase.Client
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(client *supabase.Client) EvidenceRepository {
	return &evidenceRepository{client: client}
}

func (r *evidenceRepository) Create(ctx context.Context, evidence *models.Evidence) (*models.Evidence, error) {
	metadata := evidence.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	data := map[string]interface{}{
		"habit_log_id":  evidence.HabitLogID,
		"habit_id":      evidence.HabitID,
		"user_id":       evidence.UserID,
		"evidence_type": evidence.Type,
		"file_url":      evidence.FileURL,
		"file_size":     evidence.FileSize,
		"metadata":      metadata,
		"description":   evidence.Description,
	}

	body, err := r.client.Insert(ctx, "habit_evidence", data)
	if err != nil {
		return nil, fmt.Errorf("failed to create evidence: %w", err)
	}

	var rows []models.Evidence
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no evidence returned")
	}

	return &rows[0], nil
}

func (r *evidenceRepository) GetByLogID(ctx context.Context, logID string) ([]models.Evidence, error) {
	query := map[string]interface{}{
		"habit_log_id": fmt.Sprintf("eq.%s", logID),
		"order":        "created_at.asc",
	}

	body, err := r.client.Query(ctx, "habit_evidence", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}

	var rows []models.Evidence
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return rows, nil
}

// CountByHabitID returns how much evidence is attached to a habit's logs
func (r *evidenceRepository) CountByHabitID(ctx context.Context, habitID string) (int, error) {
	query := map[string]interface{}{
		"habit_id": fmt.Sprintf("eq.%s", habitID),
		"select":   "id",
	}

	body, err := r.client.Query(ctx, "habit_evidence", query)
	if err != nil {
		return 0, fmt.Errorf("failed to count evidence: %w", err)
	}

	var rows []struct{ ID string }
	if err := json.Unmarshal(body, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return len(rows), nil
}
