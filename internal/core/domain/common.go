package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// InvariantError reports which engine invariant a rejected mutation violated
// and, where useful, the entity that triggered it. It always wraps into the
// apperrors.ErrValidation family at the service boundary.
type InvariantError struct {
	Invariant string // short invariant name, e.g. "normal-balance", "cyclic-hierarchy"
	Detail    string
}

func (e *InvariantError) Error() string {
	if e.Detail == "" {
		return "invariant violated: " + e.Invariant
	}
	return "invariant violated: " + e.Invariant + ": " + e.Detail
}
