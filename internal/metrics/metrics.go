package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ChallengesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todok_challenges_created_total",
			Help: "Challenges created, by category",
		},
		[]string{"category"},
	)
	ChallengesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todok_challenges_completed_total",
			Help: "Challenges completed, by category",
		},
		[]string{"category"},
	)
	XPAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "todok_xp_awarded_total",
			Help: "Experience points awarded",
		},
	)
	LevelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "todok_level_ups_total",
			Help: "Level-up transitions",
		},
	)
	Reflections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todok_reflections_total",
			Help: "Reflections recorded, by whether a feed entry was published",
		},
		[]string{"published"},
	)
	FeedCheers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todok_feed_cheers_total",
			Help: "Cheers applied to feed items, by item source",
		},
		[]string{"source"},
	)
	Encouragements = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todok_encouragement_requests_total",
			Help: "Collaborator requests, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
)

// Register adds the domain collectors to the default registry. Call once from main.
func Register() {
	prometheus.MustRegister(
		ChallengesCreated,
		ChallengesCompleted,
		XPAwarded,
		LevelUps,
		Reflections,
		FeedCheers,
		Encouragements,
	)
}
