package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	// Should not panic
	m.Counter("test", 1)
	m.Gauge("test", 1.0)
	m.Timing("test", time.Second)
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("Counter with tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("requests", 1, T("op", "list"))
		m.Counter("requests", 1, T("op", "create"))
		m.Counter("requests", 1, T("op", "list"))

		assert.Equal(t, int64(2), m.GetCounter("requests", T("op", "list")))
		assert.Equal(t, int64(1), m.GetCounter("requests", T("op", "create")))
		assert.Equal(t, int64(0), m.GetCounter("requests"))
	})

	t.Run("tag order does not matter", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter("requests", 1, T("a", "1"), T("b", "2"))
		assert.Equal(t, int64(1), m.GetCounter("requests", T("b", "2"), T("a", "1")))
	})

	t.Run("Gauge", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("tasks", 3)
		m.Gauge("tasks", 5)
		assert.Equal(t, 5.0, m.GetGauge("tasks"))
	})

	t.Run("Timing", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Timing("latency", 10*time.Millisecond)
		m.Timing("latency", 20*time.Millisecond)
		assert.Len(t, m.GetTimings("latency"), 2)
	})
}

func TestTimeOperationResult(t *testing.T) {
	m := NewInMemoryMetrics()
	ctx := context.Background()

	v, err := TimeOperationResult(ctx, Discard(), m, "refresh", func() (int, error) { return 3, nil })
	assert.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = TimeOperationResult(ctx, Discard(), m, "refresh", func() (int, error) { return 0, errors.New("down") })
	assert.Error(t, err)

	assert.Equal(t, int64(1), m.GetCounter(MetricOperationTotal, T(OperationKey, "refresh"), T(OutcomeKey, "ok")))
	assert.Equal(t, int64(1), m.GetCounter(MetricOperationErrors, T(OperationKey, "refresh"), T(OutcomeKey, "error")))
}

func TestTimeOperationResult_Tags(t *testing.T) {
	m := NewInMemoryMetrics()

	_, err := TimeOperationResult(context.Background(), Discard(), m, "store.list", func() (int, error) { return 1, nil }, T("method", "GET"))
	assert.NoError(t, err)

	assert.Equal(t, int64(1), m.GetCounter(MetricOperationTotal, T("method", "GET"), T(OperationKey, "store.list"), T(OutcomeKey, "ok")))
	assert.Zero(t, m.GetCounter(MetricOperationTotal, T(OperationKey, "store.list"), T(OutcomeKey, "ok")))
	assert.Len(t, m.GetTimings(MetricOperationDuration, T(OperationKey, "store.list"), T(OutcomeKey, "ok"), T("method", "GET")), 1)
}
