package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveScanDuration("pattern", 3*time.Millisecond)
	pr.IncDocument(ResultSuccess)
	pr.AddLinks("css", 2)
	pr.AddLinks("css", 1)
	pr.AddLinks("js", 0)
	pr.AddSkipped(4)
	pr.AddUnresolved(1)

	require.Equal(t, 3.0, testutil.ToFloat64(pr.links.WithLabelValues("css")))
	require.Equal(t, 1.0, testutil.ToFloat64(pr.documents.WithLabelValues("success")))
	require.Equal(t, 4.0, testutil.ToFloat64(pr.skipped))
	require.Equal(t, 1.0, testutil.ToFloat64(pr.unresolved))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncDocument(ResultFailed)

	path := filepath.Join(t.TempDir(), "resourcescan.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `resourcescan_documents_total{result="failed"} 1`))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveScanDuration("token", time.Second)
	r.IncDocument(ResultSuccess)
	r.AddLinks("other", 1)
	r.AddSkipped(1)
	r.AddUnresolved(1)
}
