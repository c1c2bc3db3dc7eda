package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ImportQueued("sites")
	m.ImportRunning()
	m.ImportFinished("sites", "completed", time.Second, true)
	m.ObserveRow("sites", "added")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler: want=503 got=%d", rec.Code)
	}
}

func TestImportLifecycleGauges(t *testing.T) {
	m := New()
	m.ImportQueued("cells")
	m.ImportQueued("cells")
	m.ImportRunning()
	if got := testutil.ToFloat64(m.importsQueued); got != 1 {
		t.Fatalf("queued: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.importsRunning); got != 1 {
		t.Fatalf("running: want=1 got=%v", got)
	}
	m.ImportFinished("cells", "completed", 2*time.Second, true)
	m.ImportFinished("cells", "failed", 0, false)
	if got := testutil.ToFloat64(m.importsRunning) + testutil.ToFloat64(m.importsQueued); got != 0 {
		t.Fatalf("gauges after finish: want=0 got=%v", got)
	}
	if got := testutil.ToFloat64(m.importsFinished.WithLabelValues("cells", "failed")); got != 1 {
		t.Fatalf("finished{failed}: want=1 got=%v", got)
	}
}

func TestHandlerExposesRowCounters(t *testing.T) {
	m := New()
	m.ObserveRow("sites", "added")
	m.ObserveRow("sites", "added")
	m.ObserveRow("sites", "failed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	if !strings.Contains(body, `netinv_import_rows_total{entity="sites",outcome="added"} 2`) {
		t.Fatalf("metrics body missing row counter:\n%s", body)
	}
}
