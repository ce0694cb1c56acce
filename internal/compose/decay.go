package compose

import "time"

// DecayWeight returns the salience multiplier for a memory of the given age:
// 1/(1 + rate*age_seconds). It is 1.0 at age zero and strictly decreasing in
// age for any positive rate, so a strictly older memory never outweighs a
// newer one. Negative ages (clock skew) are treated as zero.
func DecayWeight(rate float64, age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	if rate < 0 {
		rate = 0
	}
	return 1.0 / (1.0 + rate*age.Seconds())
}
