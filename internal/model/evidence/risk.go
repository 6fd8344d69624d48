package evidence

// RiskLevel is the backend's per-turn severity label.
type RiskLevel string

const (
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// MonitoringLabel is shown while the backend has not reported a level.
const MonitoringLabel = "Monitoring..."

// Label returns the text to display for the level.
func (r RiskLevel) Label() string {
	if r == "" {
		return MonitoringLabel
	}
	return string(r)
}

// Alert reports whether the level warrants the alert treatment.
// The comparison is exact: "high" is not an alert.
func (r RiskLevel) Alert() bool {
	return r == RiskHigh || r == RiskCritical
}
