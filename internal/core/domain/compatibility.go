package domain

// compatibleRecipients maps a donor blood type to the recipient types it can
// serve. This is the fixed ABO/Rh relation; it is asymmetric and must not be
// re-derived from antigen logic.
var compatibleRecipients = map[BloodType][]BloodType{
	APositive:  {APositive, ABPositive},
	ANegative:  {APositive, ANegative, ABPositive, ABNegative},
	BPositive:  {BPositive, ABPositive},
	BNegative:  {BPositive, BNegative, ABPositive, ABNegative},
	ABPositive: {ABPositive},
	ABNegative: {ABPositive, ABNegative},
	OPositive:  {APositive, BPositive, ABPositive, OPositive},
	ONegative:  {APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative},
}

// rarityOrder ranks blood types rarest first. Used only to order alternative
// suggestions, never to gate whether a transfusion is permitted.
var rarityOrder = []BloodType{ONegative, ABNegative, ANegative, BNegative, ABPositive, BPositive, APositive, OPositive}

// CanDonate reports whether donor blood may be given to a recipient of the
// given type.
func CanDonate(donor, recipient BloodType) bool {
	for _, r := range compatibleRecipients[donor] {
		if r == recipient {
			return true
		}
	}
	return false
}

// RarityRank returns the position of t in the fixed rarity order; 0 is the
// rarest type.
func RarityRank(t BloodType) int {
	for i, r := range rarityOrder {
		if r == t {
			return i
		}
	}
	return len(rarityOrder)
}

// AlternativesFor returns every donor type whose blood can serve the
// requested type, rarest first. It does not consult live inventory.
func AlternativesFor(requested BloodType) []BloodType {
	var alts []BloodType
	for _, donor := range rarityOrder {
		if CanDonate(donor, requested) {
			alts = append(alts, donor)
		}
	}
	return alts
}
