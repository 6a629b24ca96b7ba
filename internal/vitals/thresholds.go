package vitals

// Status is the alert state of a dashboard card.
type Status int

const (
	// StatusLoading means the value has not been reported yet.
	StatusLoading Status = iota
	StatusNormal
	StatusAlert
)

// String returns a human-readable status string.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusNormal:
		return "normal"
	case StatusAlert:
		return "alert"
	default:
		return "unknown"
	}
}

// IsOutOfRange reports whether a present value lies strictly outside the
// bound. Missing values are never out of range, and comparisons against a
// NaN side are always false.
func IsOutOfRange(value *float64, b Bound) bool {
	if value == nil {
		return false
	}
	v := *value
	return v < b.Min || v > b.Max
}

// GroupStatus evaluates one display group against the config.
// The presion group needs both components before it is evaluated and
// alerts when either one is out of its own range.
func GroupStatus(g Group, r Reading, cfg RangeConfig) Status {
	metrics := g.Metrics()
	if len(metrics) == 0 {
		return StatusLoading
	}

	for _, m := range metrics {
		if r.Value(m) == nil {
			return StatusLoading
		}
	}

	for _, m := range metrics {
		if IsOutOfRange(r.Value(m), cfg[m]) {
			return StatusAlert
		}
	}
	return StatusNormal
}

// Evaluate returns the status of every display group.
func Evaluate(r Reading, cfg RangeConfig) map[Group]Status {
	out := make(map[Group]Status, len(Groups))
	for _, g := range Groups {
		out[g] = GroupStatus(g, r, cfg)
	}
	return out
}
