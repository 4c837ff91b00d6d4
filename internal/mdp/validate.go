package mdp

// #region validator

// ValidTransitions reports whether the dense container t, addressed as
// t[s][a][s1] with dimensions states×actions×states, is a valid probability
// function: every value in [0,1] and every (s,a) row summing to 1 within
// Epsilon. The row-sum check uses an absolute-difference tolerance because
// summed floating values rarely hit 1.0 bit-for-bit.
//
// The container's dimensions are not checked; a short container is a caller
// contract violation.
func ValidTransitions(t [][][]float64, states, actions int) bool {
	for s := 0; s < states; s++ {
		for a := 0; a < actions; a++ {
			var sum float64
			for s1 := 0; s1 < states; s1++ {
				v := t[s][a][s1]
				if v < 0 || v > 1 {
					return false
				}
				sum += v
			}
			if !equalSmall(sum, 1) {
				return false
			}
		}
	}
	return true
}

// validDiscount reports whether d is a usable discount factor.
func validDiscount(d float64) bool {
	return d >= 0 && d <= 1
}

// #endregion validator
