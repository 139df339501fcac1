// Package classify labels training weeks and running sessions with the
// pretrained clustering models.
package classify

import (
	"github.com/albanecoiffe/health-data-coach/internal/models"
	"github.com/albanecoiffe/health-data-coach/schema"
)

// LabeledWeek is a week with its predicted cluster.
type LabeledWeek struct {
	Week      schema.WeekAggregate
	Cluster   int
	Character schema.WeekCharacter
}

// Classifier wraps the week and session models of a bundle.
// It is immutable and safe for concurrent use.
type Classifier struct {
	week    models.ClusterModel
	session models.ClusterModel
}

// New returns a Classifier backed by the given bundle.
func New(bundle *models.Bundle) *Classifier {
	return &Classifier{week: bundle.Week, session: bundle.Session}
}

// ClassifyWeeks labels every complete week. Incomplete weeks are skipped.
func (c *Classifier) ClassifyWeeks(weeks []schema.WeekAggregate) []LabeledWeek {
	labeled := make([]LabeledWeek, 0, len(weeks))
	for _, w := range weeks {
		f, err := WeekFeaturesOf(w)
		if err != nil {
			continue
		}
		cluster, err := c.week.Predict(f.Vector())
		if err != nil {
			continue
		}
		labeled = append(labeled, LabeledWeek{Week: w, Cluster: cluster, Character: schema.CharacterOf(cluster)})
	}
	return labeled
}

// LabelSessions returns one profile per session. Sessions with incomplete
// features, or whose cluster has no known type, stay unlabeled.
func (c *Classifier) LabelSessions(sessions []schema.RawSession) []schema.SessionProfile {
	profiles := make([]schema.SessionProfile, len(sessions))
	for i, s := range sessions {
		profiles[i] = schema.SessionProfile{Session: s}

		f, err := SessionFeaturesOf(s)
		if err != nil {
			continue
		}
		cluster, err := c.session.Predict(f.Vector())
		if err != nil {
			continue
		}
		if t, ok := schema.SessionLabels[cluster]; ok {
			profiles[i].Type = t
			profiles[i].Labeled = true
		}
	}
	return profiles
}

// DominantCluster returns the most frequent cluster, the lowest id on ties.
// It reports false when there are no labeled weeks.
func DominantCluster(weeks []LabeledWeek) (int, bool) {
	if len(weeks) == 0 {
		return 0, false
	}
	counts := make(map[int]int)
	for _, w := range weeks {
		counts[w.Cluster]++
	}
	best, bestCount := 0, 0
	for cluster, n := range counts {
		if n > bestCount || (n == bestCount && cluster < best) {
			best, bestCount = cluster, n
		}
	}
	return best, true
}
