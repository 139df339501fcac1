package recommend

import (
	"fmt"

	"github.com/albanecoiffe/health-data-coach/core/risk"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// Risk probability below which a plan without intensity gets one.
const LowRiskThreshold = 0.30

// weekTemplates are the ordered session types proposed for each week cluster.
var weekTemplates = map[int][]schema.SessionType{
	0: {schema.EasySession, schema.EnduranceSession, schema.EasySession, schema.IntensitySession, schema.EnduranceSession},
	1: {schema.IntensitySession, schema.EasySession, schema.EnduranceSession, schema.IntensitySession, schema.EasySession},
	2: {schema.EasySession, schema.EasySession, schema.EnduranceSession, schema.EasySession, schema.IntensitySession},
}

// fallbackTemplate is used when the dominant cluster has no template.
var fallbackTemplate = []schema.SessionType{
	schema.EasySession, schema.EnduranceSession, schema.EasySession, schema.IntensitySession, schema.EasySession,
}

// TemplateFor returns the template of a week cluster.
func TemplateFor(cluster int) ([]schema.SessionType, error) {
	t, ok := weekTemplates[cluster]
	if !ok {
		return nil, fmt.Errorf("cluster %d: %w", cluster, schema.ErrUnknownClusterTemplate)
	}
	return t, nil
}

// BuildBasePlan cycles through template until the plan has target entries.
func BuildBasePlan(template []schema.SessionType, target int) []schema.SessionType {
	if len(template) == 0 {
		template = fallbackTemplate
	}
	plan := make([]schema.SessionType, 0, max(target, 0))
	for i := 0; i < target; i++ {
		plan = append(plan, template[i%len(template)])
	}
	return plan
}

// AdjustForRisk returns a copy of plan adapted to the average risk. High risk
// turns every intensity slot into an easy one. Low risk adds an intensity slot
// in last position when there is none. Moderate risk keeps the plan.
func AdjustForRisk(plan []schema.SessionType, avgRisk float64) []schema.SessionType {
	adjusted := append([]schema.SessionType(nil), plan...)
	switch {
	case avgRisk > risk.HighThreshold:
		for i, t := range adjusted {
			if t == schema.IntensitySession {
				adjusted[i] = schema.EasySession
			}
		}
	case avgRisk < LowRiskThreshold && len(adjusted) > 0 && !contains(adjusted, schema.IntensitySession):
		adjusted[len(adjusted)-1] = schema.IntensitySession
	}
	return adjusted
}

// SubtractDone removes one plan entry per done session of the same type.
// The earliest matching entries go first, so the result does not depend on
// the order of done. Done types absent from the plan are ignored.
func SubtractDone(plan, done []schema.SessionType) []schema.SessionType {
	pending := make(map[schema.SessionType]int, len(done))
	for _, t := range done {
		pending[t]++
	}
	out := make([]schema.SessionType, 0, len(plan))
	for _, t := range plan {
		if pending[t] > 0 {
			pending[t]--
			continue
		}
		out = append(out, t)
	}
	return out
}

// FitToRemaining truncates plan to remaining entries, padding with easy sessions.
func FitToRemaining(plan []schema.SessionType, remaining int) []schema.SessionType {
	remaining = max(remaining, 0)
	out := make([]schema.SessionType, 0, remaining)
	out = append(out, plan[:min(len(plan), remaining)]...)
	for len(out) < remaining {
		out = append(out, schema.EasySession)
	}
	return out
}

func contains(plan []schema.SessionType, t schema.SessionType) bool {
	for _, p := range plan {
		if p == t {
			return true
		}
	}
	return false
}
