package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewLifecycle(reg)
	require.NoError(t, err)

	m.Transition("DOWNLOAD", "applied")
	m.Transition("DOWNLOAD", "applied")
	m.Transition("CANCEL", "expired")
	m.AuditGap("ARCHIVE")
	m.OrphanedObject()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("DOWNLOAD", "applied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("CANCEL", "expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditGaps.WithLabelValues("ARCHIVE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orphanedObjects))
}

func TestLifecycle_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewLifecycle(reg)
	require.NoError(t, err)

	_, err = NewLifecycle(reg)
	assert.Error(t, err)
}
