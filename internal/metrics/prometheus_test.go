package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/tradedesk/internal/modules/calendar"
)

func TestObserveEvaluation(t *testing.T) {
	r := New()

	r.ObserveEvaluation("status", time.Millisecond, nil)
	r.ObserveEvaluation("status", time.Millisecond, nil)
	r.ObserveEvaluation("status", time.Millisecond, &calendar.DataError{Reason: "gap"})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.evaluations.WithLabelValues("status", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("status", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("data")))
}

func TestRecordPoll(t *testing.T) {
	r := New()
	at := time.Date(2024, 1, 16, 14, 30, 0, 0, time.UTC)

	r.RecordPoll(nil, at)
	r.RecordPoll(errors.New("boom"), time.Time{})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.polls.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.polls.WithLabelValues("error")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(r.lastSnapshot))
}

func TestStreamClients(t *testing.T) {
	r := New()

	r.StreamConnected()
	r.StreamConnected()
	r.StreamDisconnected()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.streamClients))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "configuration", ErrorKind(&calendar.ConfigurationError{Timezone: "x", Err: errors.New("bad")}))
	assert.Equal(t, "data", ErrorKind(&calendar.DataError{Reason: "gap"}))
	assert.Equal(t, "range", ErrorKind(&calendar.RangeError{Field: "minutes", Value: -1}))
	assert.Equal(t, "other", ErrorKind(errors.New("other")))
}

func TestHandler(t *testing.T) {
	r := New()
	r.ObserveEvaluation("alerts", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `tradedesk_evaluations_total{operation="alerts",result="ok"} 1`)
}
