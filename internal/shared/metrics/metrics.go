package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	previewRenderedTotal atomic.Uint64
	resumeSavedTotal     atomic.Uint64
	resumeRejectedTotal  atomic.Uint64
	photoStoredTotal     atomic.Uint64
	sessionsOpenedTotal  atomic.Uint64
	sessionsClosedTotal  atomic.Uint64

	exportsTotal = newLabeledCounter()

	liveHandles func() int

	exportDuration = newHistogram([]float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
)

// IncPreviewRendered increments the preview render counter.
func IncPreviewRendered() {
	previewRenderedTotal.Add(1)
}

// IncResumeSaved increments the saved counter.
func IncResumeSaved() {
	resumeSavedTotal.Add(1)
}

// IncResumeRejected counts saves refused by validation.
func IncResumeRejected() {
	resumeRejectedTotal.Add(1)
}

// IncPhotoStored counts pending photos written to the object store.
func IncPhotoStored() {
	photoStoredTotal.Add(1)
}

// IncSessionOpened increments the editor session counter.
func IncSessionOpened() {
	sessionsOpenedTotal.Add(1)
}

// IncSessionClosed counts sessions torn down explicitly or by the sweeper.
func IncSessionClosed() {
	sessionsClosedTotal.Add(1)
}

// IncExport counts one export in the given format.
func IncExport(format string) {
	exportsTotal.Inc(format)
}

// ObserveExportDurationMs records an export duration in milliseconds.
func ObserveExportDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	exportDuration.Observe(value)
}

// SetLiveHandlesFunc registers the gauge source for live photo handles.
func SetLiveHandlesFunc(fn func() int) {
	liveHandles = fn
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "preview_rendered_total", "Total preview renders", previewRenderedTotal.Load())
	writeCounter(&buf, "resume_saved_total", "Total resumes saved", resumeSavedTotal.Load())
	writeCounter(&buf, "resume_rejected_total", "Total saves rejected by validation", resumeRejectedTotal.Load())
	writeCounter(&buf, "photo_stored_total", "Total photos written to object storage", photoStoredTotal.Load())
	writeCounter(&buf, "editor_sessions_opened_total", "Total editor sessions opened", sessionsOpenedTotal.Load())
	writeCounter(&buf, "editor_sessions_closed_total", "Total editor sessions closed", sessionsClosedTotal.Load())
	writeLabeledCounter(&buf, "resume_exports_total", "Total exports by format", "format", exportsTotal.Snapshot())
	if fn := liveHandles; fn != nil {
		writeGauge(&buf, "photo_handles_live", "Photo display handles currently issued", fn())
	}
	writeHistogram(&buf, "export_duration_ms", "Export duration in milliseconds", exportDuration.Snapshot())
	return buf.String()
}

type labeledCounter struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newLabeledCounter() *labeledCounter {
	return &labeledCounter{values: make(map[string]uint64)}
}

func (l *labeledCounter) Inc(label string) {
	l.mu.Lock()
	l.values[label]++
	l.mu.Unlock()
}

func (l *labeledCounter) Snapshot() map[string]uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]uint64, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket it fits; writeHistogram accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeGauge(buf *bytes.Buffer, name, help string, value int) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s gauge\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
