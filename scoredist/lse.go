// Package scoredist implements the dynamic-programming score-distribution
// machinery shared by FIMO and TOMTOM: a numerically stable log-domain
// addition (LogSumExp2), a binned weighted median, and the PWM-to-score
// mapper that turns a LogPWM into a discretized tail probability table.
package scoredist

import "math"

// LogSumExp2 computes log2(2^x + 2^y) on the extended reals without
// overflowing when |x-y| is large.
//
// Both inputs -Inf returns -Inf (the zero of the log-domain semiring);
// either input +Inf returns +Inf. Otherwise the larger of the two is
// factored out before exponentiating, so only the (non-positive)
// difference n-m is ever exponentiated.
func LogSumExp2(x, y float64) float64 {
	if math.IsInf(x, -1) && math.IsInf(y, -1) {
		return math.Inf(-1)
	}
	if math.IsInf(x, 1) || math.IsInf(y, 1) {
		return math.Inf(1)
	}
	m, n := x, y
	if n > m {
		m, n = n, m
	}
	return m + math.Log2(math.Exp2(n-m)+1)
}
