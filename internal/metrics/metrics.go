package metrics

import (
	"context"
	"time"

	"catalog/harvester/internal/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
)

var (
	tableRowsDesc = prometheus.NewDesc(
		"harvester_table_rows",
		"Current row count of each harvested table",
		[]string{"table"},
		nil,
	)
)

const collectTimeout = 5 * time.Second

// TableCollector is a custom Prometheus collector that counts table rows on
// each scrape.
type TableCollector struct {
	stats repository.StatsRepository
}

func NewTableCollector(stats repository.StatsRepository) *TableCollector {
	return &TableCollector{stats: stats}
}

// Describe sends the metric descriptor to the channel.
func (c *TableCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- tableRowsDesc
}

// Collect emits one gauge per existing table.
func (c *TableCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), collectTimeout)
	defer cancel()

	counts, err := c.stats.CountRows(ctx)
	if err != nil {
		log.Errorf("❌ Failed to collect table row metrics: %v", err)
		return
	}
	for table, count := range counts {
		ch <- prometheus.MustNewConstMetric(
			tableRowsDesc,
			prometheus.GaugeValue,
			float64(count),
			table,
		)
	}
}

// NewRegistry returns a registry with the table collector and the standard
// Go runtime and process collectors.
func NewRegistry(stats repository.StatsRepository) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		NewTableCollector(stats),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}
