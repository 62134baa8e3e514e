package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownBloodType = errors.New("unknown blood type")

// BloodType is one of the 8 recognized ABO/Rh blood types.
type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// AllBloodTypes lists every recognized blood type in display order.
var AllBloodTypes = []BloodType{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

// ParseBloodType validates a raw string from the wire.
func ParseBloodType(s string) (BloodType, error) {
	bt := BloodType(s)
	if !bt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBloodType, s)
	}
	return bt, nil
}

func (b BloodType) Valid() bool {
	switch b {
	case APositive, ANegative, BPositive, BNegative,
		ABPositive, ABNegative, OPositive, ONegative:
		return true
	}
	return false
}
