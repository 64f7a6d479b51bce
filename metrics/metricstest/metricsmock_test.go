package metricstest

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/sitetree/metrics"
)

func TestMockMetrics(t *testing.T) {
	now := time.Now()
	m := &MockMetrics{Now: now}

	t.Run("measure", func(t *testing.T) {
		m.MeasureLookup(now.Add(-2 * time.Second))
		m.MeasureResponse(404, "", now.Add(-time.Second))

		d, ok := m.Measure(KeyLookup)
		require.True(t, ok)
		assert.Equal(t, []time.Duration{2 * time.Second}, d)

		d, ok = m.Measure(fmt.Sprintf(KeyResponse, 404, ""))
		require.True(t, ok)
		assert.Equal(t, []time.Duration{time.Second}, d)
	})

	t.Run("counters", func(t *testing.T) {
		m.IncNotFound(false)
		m.IncNotFound(true)
		m.IncNotFound(true)
		m.IncRebuild(metrics.RebuildFailure)
		m.IncSuspension()

		for key, expected := range map[string]int64{
			KeyNotFound:       1,
			KeyNotFoundStrict: 2,
			KeySuspension:     1,
			fmt.Sprintf(KeyRebuild, metrics.RebuildFailure): 1,
		} {
			v, ok := m.Counter(key)
			assert.True(t, ok, key)
			assert.Equal(t, expected, v, key)
		}

		_, ok := m.Counter(fmt.Sprintf(KeyRebuild, metrics.RebuildSuccess))
		assert.False(t, ok)
	})

	t.Run("gauges", func(t *testing.T) {
		m.UpdateRoutes(3)
		m.UpdatePages(4)
		m.UpdateRoutes(5)

		v, ok := m.Gauge(KeyRoutes)
		assert.True(t, ok)
		assert.Equal(t, 5.0, v)

		v, ok = m.Gauge(KeyPages)
		assert.True(t, ok)
		assert.Equal(t, 4.0, v)
	})
}
