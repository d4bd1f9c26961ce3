package device

import "strings"

// Snapshot is the telemetry a web client sends with each chat request.
// WhatsApp and Telegram provide no telemetry, so their handlers pass nil.
type Snapshot struct {
	Connection Connection `json:"connection"`
	Battery    Battery    `json:"battery"`
}

type Connection struct {
	DownlinkMbps  float64 `json:"downlink"`
	EffectiveType string  `json:"effectiveType"`
	RoundTripMs   float64 `json:"rtt"`
}

type Battery struct {
	LevelPct float64 `json:"level"`
	Charging bool    `json:"charging"`
}

// Evaluate reports whether the system should operate in degraded mode.
// A nil snapshot means no telemetry and therefore no degradation.
// Pure function: same snapshot, same answer.
func Evaluate(s *Snapshot) bool {
	if s == nil {
		return false
	}

	b := s.Battery
	c := s.Connection
	effectiveType := strings.ToLower(c.EffectiveType)

	switch {
	case b.LevelPct < 10:
		return true
	case b.LevelPct < 20 && !b.Charging:
		return true
	case effectiveType == "slow-2g" || effectiveType == "2g":
		return true
	case effectiveType == "3g" && (c.DownlinkMbps < 1.5 || c.RoundTripMs > 300):
		return true
	case effectiveType == "4g" && (c.DownlinkMbps < 2 || c.RoundTripMs > 250):
		return true
	case effectiveType == "wifi" && c.DownlinkMbps < 5:
		return true
	}

	return false
}
