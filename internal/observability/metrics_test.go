package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("/todos", "GET", "200").Inc()
	HTTPRequestDuration.WithLabelValues("/todos", "GET").Observe(0.05)
	AuthOutcomesTotal.WithLabelValues("ok").Inc()
	JWKSRefreshTotal.WithLabelValues("success").Inc()
	CognitoCallsTotal.WithLabelValues("initiate_auth", "success").Inc()

	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestsTotal), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(AuthOutcomesTotal), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(JWKSRefreshTotal), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(CognitoCallsTotal), 1)
}

func TestAuthOutcomeCounter(t *testing.T) {
	before := testutil.ToFloat64(AuthOutcomesTotal.WithLabelValues("missing_token"))

	AuthOutcomesTotal.WithLabelValues("missing_token").Inc()

	after := testutil.ToFloat64(AuthOutcomesTotal.WithLabelValues("missing_token"))
	assert.Equal(t, before+1, after)
}
