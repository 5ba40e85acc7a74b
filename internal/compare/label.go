package compare

// Quality labels are presentation policy only: thresholds over the report's
// numeric fields, with no effect on the metrics themselves.

// CERLabel buckets a character error rate percentage.
func CERLabel(cer float64) string {
	switch {
	case cer < 5:
		return "excellent"
	case cer < 10:
		return "good"
	case cer < 20:
		return "fair"
	default:
		return "poor"
	}
}

// EMRLabel buckets an exact-match rate percentage.
func EMRLabel(emr float64) string {
	switch {
	case emr > 90:
		return "excellent"
	case emr > 80:
		return "good"
	default:
		return "needs improvement"
	}
}
