package payout

// Withdrawable converts a count of approved weekly proofs into the amount a
// driver can withdraw right now.
//
// The campaign's earningPerDriver covers the full duration; each approved
// weekly proof unlocks one week's slice of it:
//
//	durationInWeeks = duration / 7
//	pricePerWeek    = earningPerDriver / durationInWeeks
//	withdrawable    = pricePerWeek * approvedProofs
//
// All arithmetic is integer division in minor units, matching how the rate
// was priced. One proof of tolerance is allowed beyond the duration to cover
// a final partial week; anything past that is a conflict.
func Withdrawable(durationDays int, earningPerDriver, approvedProofs int64) (int64, error) {
	if durationDays <= 0 || earningPerDriver <= 0 {
		return 0, ErrMissingRate
	}

	durationInWeeks := int64(durationDays / 7)
	if durationInWeeks == 0 {
		return 0, ErrMissingRate
	}

	if approvedProofs == 0 {
		return 0, ErrNoProofFound
	}
	if approvedProofs > durationInWeeks+1 {
		return 0, ErrTooManyProofs
	}

	pricePerWeek := earningPerDriver / durationInWeeks
	return pricePerWeek * approvedProofs, nil
}
