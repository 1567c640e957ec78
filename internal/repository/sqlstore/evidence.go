package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonnyWalker81/habitrack/backend/internal/models"
)

type evidenceRepository struct {
	s *Store
}

func (r *evidenceRepository) Create(ctx context.Context, evidence *models.Evidence) (*models.Evidence, error) {
	metadata := evidence.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	encoded, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	var fileSize sql.NullInt64
	if evidence.FileSize != nil {
		fileSize = sql.NullInt64{Int64: *evidence.FileSize, Valid: true}
	}

	out := *evidence
	if out.ID == "" {
		out.ID = newID()
	}
	out.Metadata = metadata
	out.CreatedAt = time.Now().UTC()

	_, err = r.s.exec(ctx, `
		INSERT INTO habit_evidence (id, habit_log_id, habit_id, user_id, evidence_type, file_url,
			file_size, metadata, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		out.ID, out.HabitLogID, out.HabitID, out.UserID, string(out.Type), out.FileURL,
		fileSize, string(encoded), nullString(out.Description), formatTime(out.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to create evidence: %w", err)
	}

	return &out, nil
}

func (r *evidenceRepository) GetByLogID(ctx context.Context, logID string) ([]models.Evidence, error) {
	rows, err := r.s.query(ctx, `
		SELECT id, habit_log_id, habit_id, user_id, evidence_type, file_url, file_size, metadata,
			description, created_at
		FROM habit_evidence WHERE habit_log_id = ? ORDER BY created_at ASC`, logID)
	if err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}
	defer rows.Close()

	var out []models.Evidence
	for rows.Next() {
		var e models.Evidence
		var evidenceType, metadata, createdAt string
		var fileSize sql.NullInt64
		var description sql.NullString

		if err := rows.Scan(&e.ID, &e.HabitLogID, &e.HabitID, &e.UserID, &evidenceType, &e.FileURL,
			&fileSize, &metadata, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}

		e.Type = models.EvidenceType(evidenceType)
		if fileSize.Valid {
			e.FileSize = &fileSize.Int64
		}
		e.Description = stringPtr(description)
		if err := json.Unmarshal([]byte(metadata), &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to get evidence: %w", err)
	}

	return out, nil
}

func (r *evidenceRepository) CountByHabitID(ctx context.Context, habitID string) (int, error) {
	var n int
	if err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM habit_evidence WHERE habit_id = ?`, habitID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count evidence: %w", err)
	}
	return n, nil
}
