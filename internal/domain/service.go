package domain

import "time"

// Service status constants.
const (
	StatusOffered  = "offered"
	StatusHired    = "hired"
	StatusSettled  = "settled"
	StatusRefunded = "refunded"
)

// Service represents a freelance service offering tracked by the ledger.
// Price is in the smallest currency unit.
type Service struct {
	ID           int64     `json:"id"`
	FreelancerID string    `json:"freelancer_id"`
	ClientID     *string   `json:"client_id,omitempty"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Price        int64     `json:"price"`
	Status       string    `json:"status"`
	Rating       int       `json:"rating"`
	Deadline     time.Time `json:"deadline"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidStatuses returns all valid service statuses.
func ValidStatuses() []string {
	return []string{StatusOffered, StatusHired, StatusSettled, StatusRefunded}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions defines which status transitions are valid.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		StatusOffered:  {StatusHired},
		StatusHired:    {StatusSettled, StatusRefunded},
		StatusSettled:  {},
		StatusRefunded: {},
	}
}

// CanTransitionTo checks if the service can transition to the target status.
func (s *Service) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[s.Status]
	if !ok {
		return false
	}
	for _, st := range allowed {
		if st == target {
			return true
		}
	}
	return false
}

// IsActive reports whether the service has not reached a terminal status.
func (s *Service) IsActive() bool {
	return s.Status == StatusOffered || s.Status == StatusHired
}

// FundsHeld reports whether client funds are currently held for the service.
func (s *Service) FundsHeld() bool {
	return s.Status == StatusHired
}

// IsPaid reports whether the freelancer has been paid. It becomes true when
// the payment is released and never reverts.
func (s *Service) IsPaid() bool {
	return s.Status == StatusSettled
}

// IsRated reports whether the client has rated the service.
func (s *Service) IsRated() bool {
	return s.Rating > 0
}

// DeadlineReached reports whether the delivery deadline has passed at the
// given instant.
func (s *Service) DeadlineReached(now time.Time) bool {
	return !now.Before(s.Deadline)
}
