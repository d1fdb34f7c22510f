package signal

// Severity bounds. Out-of-range values are clamped, never rejected.
const (
	MinSeverity     = 0.5
	MaxSeverity     = 2.0
	DefaultSeverity = 1.0
)

// Normalized is a signal in canonical form with its resolved numeric
// contribution to its category score.
type Normalized struct {
	Signal
	Contribution float64 `json:"contribution"`
}

// ClampSeverity forces a severity multiplier into [MinSeverity, MaxSeverity].
func ClampSeverity(severity float64) float64 {
	if severity < MinSeverity {
		return MinSeverity
	}
	if severity > MaxSeverity {
		return MaxSeverity
	}
	return severity
}

// Normalize validates and defaults a raw signal and computes its
// contribution: baseScore(type) * clamp(severity). A zero severity means the
// field was absent and defaults to 1.0. A missing or unrecognized category
// is routed to CategoryOther.
func Normalize(s Signal) Normalized {
	if s.Severity == 0 {
		s.Severity = DefaultSeverity
	}
	s.Severity = ClampSeverity(s.Severity)
	s.Category = ParseCategory(string(s.Category))

	return Normalized{
		Signal:       s,
		Contribution: s.Type.BaseScore() * s.Severity,
	}
}

// NormalizeAll normalizes a batch preserving input order.
func NormalizeAll(signals []Signal) []Normalized {
	if len(signals) == 0 {
		return nil
	}
	out := make([]Normalized, 0, len(signals))
	for _, s := range signals {
		out = append(out, Normalize(s))
	}
	return out
}
