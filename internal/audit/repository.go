package audit

import "context"

// ListOptions contains options for listing audit events.
type ListOptions struct {
	Limit int
}

// Repository defines the interface for audit event persistence.
type Repository interface {
	// Record stores an event.
	Record(ctx context.Context, event Event) error

	// ListByPatient retrieves events for a patient, newest first.
	ListByPatient(ctx context.Context, patientID string, opts ListOptions) ([]Event, error)
}
