package device

import "testing"

func snapshot(level float64, charging bool, effectiveType string, downlink, rtt float64) *Snapshot {
	return &Snapshot{
		Connection: Connection{
			DownlinkMbps:  downlink,
			EffectiveType: effectiveType,
			RoundTripMs:   rtt,
		},
		Battery: Battery{
			LevelPct: level,
			Charging: charging,
		},
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		status   *Snapshot
		degraded bool
	}{
		{
			name:     "nil snapshot is never degraded",
			status:   nil,
			degraded: false,
		},
		{
			name:     "critically low battery overrides a perfect connection",
			status:   snapshot(5, true, "wifi", 100, 10),
			degraded: true,
		},
		{
			name:     "battery just below 10 while charging",
			status:   snapshot(9, true, "wifi", 50, 20),
			degraded: true,
		},
		{
			name:     "low battery not charging",
			status:   snapshot(15, false, "wifi", 50, 20),
			degraded: true,
		},
		{
			name:     "low battery but charging stays normal",
			status:   snapshot(15, true, "wifi", 50, 20),
			degraded: false,
		},
		{
			name:     "slow-2g always degrades",
			status:   snapshot(90, true, "slow-2g", 0.1, 2000),
			degraded: true,
		},
		{
			name:     "2g always degrades",
			status:   snapshot(90, true, "2g", 0.3, 800),
			degraded: true,
		},
		{
			name:     "3g with low downlink",
			status:   snapshot(80, true, "3g", 1.0, 100),
			degraded: true,
		},
		{
			name:     "3g with high rtt",
			status:   snapshot(80, true, "3g", 3.0, 400),
			degraded: true,
		},
		{
			name:     "healthy 3g",
			status:   snapshot(80, true, "3g", 2.0, 200),
			degraded: false,
		},
		{
			name:     "4g with low downlink",
			status:   snapshot(80, true, "4g", 1.0, 100),
			degraded: true,
		},
		{
			name:     "4g with high rtt",
			status:   snapshot(80, true, "4g", 10, 300),
			degraded: true,
		},
		{
			name:     "healthy 4g",
			status:   snapshot(80, true, "4g", 10, 50),
			degraded: false,
		},
		{
			name:     "slow wifi",
			status:   snapshot(80, true, "wifi", 4.9, 10),
			degraded: true,
		},
		{
			name:     "healthy wifi charging full battery",
			status:   snapshot(100, true, "wifi", 50, 10),
			degraded: false,
		},
		{
			name:     "healthy wifi at the battery boundary",
			status:   snapshot(20, false, "wifi", 5, 10),
			degraded: false,
		},
		{
			name:     "effective type is case insensitive",
			status:   snapshot(80, true, "WiFi", 2, 10),
			degraded: true,
		},
		{
			name:     "unknown effective type with good battery",
			status:   snapshot(80, true, "5g", 0.1, 1000),
			degraded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.status); got != tt.degraded {
				t.Errorf("Evaluate() = %v, want %v", got, tt.degraded)
			}
		})
	}
}

// Battery below 10% must degrade regardless of every connection field.
func TestEvaluateLowBatteryDominates(t *testing.T) {
	types := []string{"", "slow-2g", "2g", "3g", "4g", "wifi", "5g"}
	for _, et := range types {
		for _, charging := range []bool{true, false} {
			if !Evaluate(snapshot(9.9, charging, et, 1000, 1)) {
				t.Errorf("Evaluate(level=9.9, charging=%v, type=%q) = false, want true", charging, et)
			}
		}
	}
}
