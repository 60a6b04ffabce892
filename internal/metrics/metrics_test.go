package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(apiRequestsTotal.WithLabelValues("GET", "/states", "200"))
	RecordAPIRequest("GET", "/states", 200, 20*time.Millisecond)
	after := testutil.ToFloat64(apiRequestsTotal.WithLabelValues("GET", "/states", "200"))

	assert.Equal(t, before+1, after)
}

func TestRecordLocationPoll(t *testing.T) {
	before := testutil.ToFloat64(locationPollsTotal.WithLabelValues("aws", "provisioning"))
	RecordLocationPoll("aws", "provisioning")
	RecordLocationPoll("aws", "provisioning")

	assert.Equal(t, before+2, testutil.ToFloat64(locationPollsTotal.WithLabelValues("aws", "provisioning")))
}

func TestWriteFile(t *testing.T) {
	RecordRegistrationStep("register-cluster", "done")
	RecordLocationWait("azure", "ok", 12*time.Second)

	path := filepath.Join(t.TempDir(), "statehub.prom")
	require.NoError(t, WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "statehub_registration_steps_total")
	assert.Contains(t, string(data), "statehub_reconciler_location_wait_duration_seconds")
}
