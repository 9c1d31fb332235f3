package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
)

func TestRecordReplay(t *testing.T) {
	before := testutil.ToFloat64(replayAnomalies.WithLabelValues("KOSPI"))

	RecordReplay("KOSPI", 2)
	RecordReplay("KOSPI", 0)

	assert.Equal(t, before+2, testutil.ToFloat64(replayAnomalies.WithLabelValues("KOSPI")))
}

func TestRecordRefresh(t *testing.T) {
	settled := testutil.ToFloat64(quoteRefresh.WithLabelValues(Settled))
	cancelled := testutil.ToFloat64(quoteRefresh.WithLabelValues(Cancelled))
	observed := sampleCount(t)

	RecordRefresh(Settled, 120*time.Millisecond)
	RecordRefresh(Cancelled, time.Second)

	assert.Equal(t, settled+1, testutil.ToFloat64(quoteRefresh.WithLabelValues(Settled)))
	assert.Equal(t, cancelled+1, testutil.ToFloat64(quoteRefresh.WithLabelValues(Cancelled)))
	assert.Equal(t, observed+1, sampleCount(t), "only the settled cycle is timed")
}

func sampleCount(t *testing.T) uint64 {
	t.Helper()
	var m dto.Metric
	if err := quoteFetch.Write(&m); err != nil {
		t.Fatal(err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestSetUnavailable(t *testing.T) {
	SetUnavailable(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(quotesUnavailable))
	SetUnavailable(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(quotesUnavailable))
}
