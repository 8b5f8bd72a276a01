package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStats struct {
	counts map[string]int64
	err    error
}

func (s *fakeStats) CountRows(ctx context.Context) (map[string]int64, error) {
	return s.counts, s.err
}

func TestTableCollectorReportsRowCounts(t *testing.T) {
	collector := NewTableCollector(&fakeStats{counts: map[string]int64{
		"brandData": 12,
		"trendData": 3,
	}})

	expected := `
# HELP harvester_table_rows Current row count of each harvested table
# TYPE harvester_table_rows gauge
harvester_table_rows{table="brandData"} 12
harvester_table_rows{table="trendData"} 3
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected), "harvester_table_rows"))
}

func TestTableCollectorSkipsOnError(t *testing.T) {
	collector := NewTableCollector(&fakeStats{err: errors.New("connection refused")})
	assert.Equal(t, 0, testutil.CollectAndCount(collector))
}
