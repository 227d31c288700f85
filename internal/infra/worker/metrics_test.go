package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterQueueDepth(t *testing.T) {
	depth := 0
	g := RegisterQueueDepth(prometheus.NewRegistry(), func() int { return depth })

	assert.Equal(t, float64(0), testutil.ToFloat64(g))
	depth = 3
	assert.Equal(t, float64(3), testutil.ToFloat64(g))
}
