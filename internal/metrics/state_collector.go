package metrics

import "github.com/prometheus/client_golang/prometheus"

// StateStats is a point-in-time snapshot of the in-memory state.
type StateStats struct {
	Projects      int
	Modules       int
	UserStories   int
	Tasks         int
	Sprints       int
	Teams         int
	Users         int
	ActiveTimers  int
	JournalBuffer int
}

// StateStatFunc returns in-memory state counts without importing the stores.
type StateStatFunc func() StateStats

// stateCollector implements prometheus.Collector for aggregate state gauges.
type stateCollector struct {
	statFunc StateStatFunc

	entitiesDesc     *prometheus.Desc
	activeTimersDesc *prometheus.Desc
	journalDesc      *prometheus.Desc
}

// NewStateCollector creates a collector that exposes entity-count gauges.
func NewStateCollector(statFunc StateStatFunc) prometheus.Collector {
	return &stateCollector{
		statFunc: statFunc,
		entitiesDesc: prometheus.NewDesc(
			"cadence_entities",
			"Number of entities held in the in-memory store.",
			[]string{"entity"}, nil,
		),
		activeTimersDesc: prometheus.NewDesc(
			"cadence_active_timers",
			"Number of users with a running or paused timer.",
			nil, nil,
		),
		journalDesc: prometheus.NewDesc(
			"cadence_journal_buffer_events",
			"Number of audit events buffered and not yet flushed.",
			nil, nil,
		),
	}
}

// Describe sends the descriptors of each metric to the channel.
func (c *stateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entitiesDesc
	ch <- c.activeTimersDesc
	ch <- c.journalDesc
}

// Collect fetches state counts and sends them as metrics.
func (c *stateCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.statFunc()
	ch <- prometheus.MustNewConstMetric(c.entitiesDesc, prometheus.GaugeValue, float64(s.Projects), "project")
	ch <- prometheus.MustNewConstMetric(c.entitiesDesc, prometheus.GaugeValue, float64(s.Modules), "module")
	ch <- prometheus.MustNewConstMetric(c.entitiesDesc, prometheus.GaugeValue, float64(s.UserStories), "user_story")
	ch <- prometheus.MustNewConstMetric(c.entitiesDesc, prometheus.GaugeValue, float64(s.Tasks), "task")
	ch <- prometheus.MustNewConstMetric(c.entitiesDesc, prometheus.GaugeValue, float64(s.Sprints), "sprint")
	ch <- prometheus.MustNewConstMetric(c.entitiesDesc, prometheus.GaugeValue, float64(s.Teams), "team")
	ch <- prometheus.MustNewConstMetric(c.entitiesDesc, prometheus.GaugeValue, float64(s.Users), "user")
	ch <- prometheus.MustNewConstMetric(c.activeTimersDesc, prometheus.GaugeValue, float64(s.ActiveTimers))
	ch <- prometheus.MustNewConstMetric(c.journalDesc, prometheus.GaugeValue, float64(s.JournalBuffer))
}
