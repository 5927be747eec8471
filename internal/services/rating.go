package services

// RoundOneDecimal returns sum/n rounded half-up to one decimal place. The
// arithmetic stays in integers so the same ratings always produce the same
// float64, whatever order they arrived in.
func RoundOneDecimal(sum, n int64) float64 {
	if n <= 0 {
		return 0
	}
	tenths := (20*sum + n) / (2 * n)
	return float64(tenths) / 10
}
