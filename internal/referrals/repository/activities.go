package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"usahudhomes_backend/internal/referrals/domain"
)

// AppendActivity inserts one audit record. Activities are append-only.
func (r *Repo) AppendActivity(ctx context.Context, params AppendActivityParams) error {
	var metadata []byte
	if len(params.Metadata) > 0 {
		encoded, err := json.Marshal(params.Metadata)
		if err != nil {
			return fmt.Errorf("encode activity metadata: %w", err)
		}
		metadata = encoded
	}

	query := `
		INSERT INTO activities (consultation_id, agent_id, activity_type, description, metadata)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		params.ConsultationID, params.AgentID, string(params.Type), params.Description, metadata,
	)
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}

	return nil
}

// ListActivities returns a consultation's audit trail, oldest first.
func (r *Repo) ListActivities(ctx context.Context, consultationID uuid.UUID) ([]domain.Activity, error) {
	query := `
		SELECT id, consultation_id, agent_id, activity_type, description, metadata, created_at
		FROM activities
		WHERE consultation_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, consultationID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var results []domain.Activity
	for rows.Next() {
		var activity domain.Activity
		var activityType string
		var metadata []byte

		err := rows.Scan(
			&activity.ID, &activity.ConsultationID, &activity.AgentID,
			&activityType, &activity.Description, &metadata, &activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		activity.Type = domain.ActivityType(activityType)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &activity.Metadata); err != nil {
				return nil, fmt.Errorf("decode activity metadata: %w", err)
			}
		}

		results = append(results, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}

	return results, nil
}
