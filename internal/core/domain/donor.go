package domain

import "time"

// Donor is not retained beyond producing a donation transaction.
type Donor struct {
	DonorID      string
	FullName     string
	BloodType    BloodType
	DonationDate time.Time
}
