package recommend

import "github.com/albanecoiffe/health-data-coach/schema"

type sessionProfile struct {
	label string
	data  schema.SessionDataProfile
}

// sessionProfiles describes each session type from the observed history.
var sessionProfiles = map[schema.SessionType]sessionProfile{
	schema.EasySession: {
		label: "Easy run",
		data: schema.SessionDataProfile{
			AvgDurationMin: 38, AvgDistanceKm: 5.7,
			LowIntensityPct: 0.92, HighIntensityPct: 0.08,
			MinDurationMin: 25, MaxDurationMin: 50,
			MinDistanceKm: 3.5, MaxDistanceKm: 8,
		},
	},
	schema.EnduranceSession: {
		label: "Endurance run",
		data: schema.SessionDataProfile{
			AvgDurationMin: 76, AvgDistanceKm: 11.8,
			LowIntensityPct: 0.91, HighIntensityPct: 0.09,
			MinDurationMin: 60, MaxDurationMin: 110,
			MinDistanceKm: 9, MaxDistanceKm: 18,
		},
	},
	schema.IntensitySession: {
		label: "Intensity session",
		data: schema.SessionDataProfile{
			AvgDurationMin: 66, AvgDistanceKm: 11.1,
			LowIntensityPct: 0.44, HighIntensityPct: 0.56,
			MinDurationMin: 45, MaxDurationMin: 85,
			MinDistanceKm: 7, MaxDistanceKm: 15,
		},
	},
}

// Enrich expands plan entries into descriptive records. Types without a
// profile are dropped.
func Enrich(plan []schema.SessionType) []schema.PlannedSession {
	out := make([]schema.PlannedSession, 0, len(plan))
	for _, t := range plan {
		p, ok := sessionProfiles[t]
		if !ok {
			continue
		}
		out = append(out, schema.PlannedSession{Type: t, Label: p.label, DataProfile: p.data})
	}
	return out
}
