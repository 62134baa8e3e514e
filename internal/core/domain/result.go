package domain

// AlternativeStock pairs a compatible donor type with its live availability.
type AlternativeStock struct {
	BloodType BloodType
	Available int
}

// Result is the outcome of one allocation engine operation. UnitsProvided is
// set on successful distributions; Alternatives is set when a routine request
// fails on stock. Whether an alternative can cover the requested quantity is
// the caller's decision.
type Result struct {
	Success       bool
	Message       string
	UnitsProvided int
	Alternatives  []AlternativeStock
}
