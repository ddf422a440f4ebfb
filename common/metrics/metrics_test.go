package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()

	err := prometheus.Register(CommandCounter)
	var already prometheus.AlreadyRegisteredError
	require.ErrorAs(t, err, &already)

	FinalizeCounter.WithLabelValues("iterator", "test").Inc()
	assert.Equal(t, float64(1), testutil.ToFloat64(FinalizeCounter.WithLabelValues("iterator", "test")))

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "corekv_iterator_finalize_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}
