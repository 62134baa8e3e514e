package domain

import "time"

type TransactionType string

const (
	TransactionDonation  TransactionType = "donation"
	TransactionRoutine   TransactionType = "routine"
	TransactionEmergency TransactionType = "emergency"
)

// Transaction records one accepted inventory mutation. Transactions are
// created only by the allocation engine and are never updated or deleted.
type Transaction struct {
	ID        string
	Type      TransactionType
	BloodType BloodType
	Units     int
	Timestamp time.Time
	Notes     string
}
