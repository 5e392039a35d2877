package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL audit repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Record stores an event.
func (r *PostgresRepository) Record(ctx context.Context, event Event) error {
	query := `
		INSERT INTO access_events (
			id, patient_id, subject, action, outcome, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.PatientID,
		event.Subject,
		event.Action,
		event.Outcome,
		event.OccurredAt,
	)
	return err
}

// ListByPatient retrieves events for a patient, newest first.
func (r *PostgresRepository) ListByPatient(ctx context.Context, patientID string, opts ListOptions) ([]Event, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, patient_id, subject, action, outcome, occurred_at
		FROM access_events
		WHERE patient_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		err := rows.Scan(
			&event.ID,
			&event.PatientID,
			&event.Subject,
			&event.Action,
			&event.Outcome,
			&event.OccurredAt,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
