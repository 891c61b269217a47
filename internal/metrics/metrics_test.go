package metrics

import (
	"errors"
	"testing"
	"time"

	"assetdesk/internal/listing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounters(t *testing.T) {
	m := New()

	m.Derivation("assets")
	m.Derivation("assets")
	m.StaleDiscarded("assets")
	m.MutationObserved("assets", listing.OpCreate, nil)
	m.MutationObserved("assets", listing.OpCreate, &listing.DuplicateError{Kind: "asset", Field: "serialnumber", Value: "X"})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.derivations.WithLabelValues("assets")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stale.WithLabelValues("assets")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("assets", listing.OpCreate, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("assets", listing.OpCreate, string(listing.FailureDuplicate))))
}

func TestQueryObserved(t *testing.T) {
	m := New()
	m.QueryObserved("manufacturers", 12*time.Millisecond, nil)
	m.QueryObserved("manufacturers", time.Second, errors.New("boom"))

	assert.Equal(t, 1, testutil.CollectAndCount(m.queryDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queryErrors.WithLabelValues("manufacturers", string(listing.FailureInternal))))
}

func TestRegistryGathers(t *testing.T) {
	m := New()
	m.RequestObserved("GET", "/v1/:kind", 200, 5*time.Millisecond)
	m.JobRun("snapshot", nil)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["assetdesk_http_requests_total"])
	assert.True(t, names["assetdesk_job_runs_total"])
	assert.True(t, names["go_goroutines"])
}
