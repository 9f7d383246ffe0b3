package domain

import "time"

// EscrowAccount holds the funds deposited for a single service.
type EscrowAccount struct {
	ServiceID int64     `json:"service_id"`
	Balance   int64     `json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EscrowMovement records a change in an escrow balance. Movements are
// append-only; the account balance is the net of its movements.
type EscrowMovement struct {
	ID        string    `json:"id"`
	ServiceID int64     `json:"service_id"`
	Amount    int64     `json:"amount"`
	Direction string    `json:"direction"`
	Recipient string    `json:"recipient,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Escrow movement directions.
const (
	MovementCredit  = "credit"
	MovementRelease = "release"
	MovementRefund  = "refund"
)

// ValidMovementDirections returns the set of valid movement directions.
func ValidMovementDirections() []string {
	return []string{MovementCredit, MovementRelease, MovementRefund}
}

// IsValidMovementDirection checks whether the given direction is a valid
// escrow movement direction.
func IsValidMovementDirection(direction string) bool {
	for _, d := range ValidMovementDirections() {
		if d == direction {
			return true
		}
	}
	return false
}
