package stats

// Health is the repository rollup shown on the overview.
type Health string

const (
	HealthGood     Health = "good"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
	HealthUnknown  Health = "unknown"
)

// Classify applies the fixed thresholds: good at 80% with nothing
// running, warning at 50% or while anything runs, critical below.
func Classify(s Summary) Health {
	switch {
	case s.Total == 0:
		return HealthUnknown
	case s.SuccessRate >= 80 && s.Running == 0:
		return HealthGood
	case s.SuccessRate >= 50 || s.Running > 0:
		return HealthWarning
	default:
		return HealthCritical
	}
}
