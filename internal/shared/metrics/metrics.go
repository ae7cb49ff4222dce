package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	extractionStartedTotal  atomic.Uint64
	extractionNativeTotal   atomic.Uint64
	extractionFallbackTotal atomic.Uint64
	extractionOCRTotal      atomic.Uint64
	extractionEmptyTotal    atomic.Uint64
	roundsStartedTotal      atomic.Uint64
	roundLockRejectedTotal  atomic.Uint64

	extractionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncExtractionStarted increments the extraction-started counter.
func IncExtractionStarted() {
	extractionStartedTotal.Add(1)
}

// IncExtractionNative counts extractions satisfied by the native text layer.
func IncExtractionNative() {
	extractionNativeTotal.Add(1)
}

// IncExtractionFallback counts extractions that needed the secondary engine.
func IncExtractionFallback() {
	extractionFallbackTotal.Add(1)
}

// IncExtractionOCR counts extractions that fell through to AI OCR.
func IncExtractionOCR() {
	extractionOCRTotal.Add(1)
}

// IncExtractionEmpty counts extractions where every stage came back empty.
func IncExtractionEmpty() {
	extractionEmptyTotal.Add(1)
}

// IncRoundStarted counts dispute rounds started.
func IncRoundStarted() {
	roundsStartedTotal.Add(1)
}

// IncRoundLockRejected counts start-round attempts rejected by the 30-day lock.
func IncRoundLockRejected() {
	roundLockRejectedTotal.Add(1)
}

// ObserveExtractionDurationMs records an extraction duration in milliseconds.
func ObserveExtractionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	extractionDuration.Observe(value)
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
	writeCounter(&buf, "extraction_started_total", "Total report extractions started", extractionStartedTotal.Load())
	writeCounter(&buf, "extraction_native_total", "Extractions resolved by the native PDF text layer", extractionNativeTotal.Load())
	writeCounter(&buf, "extraction_fallback_total", "Extractions that used the secondary PDF engine", extractionFallbackTotal.Load())
	writeCounter(&buf, "extraction_ocr_total", "Extractions that used AI OCR", extractionOCRTotal.Load())
	writeCounter(&buf, "extraction_empty_total", "Extractions where all stages produced no usable text", extractionEmptyTotal.Load())
	writeCounter(&buf, "rounds_started_total", "Dispute rounds started", roundsStartedTotal.Load())
	writeCounter(&buf, "round_lock_rejected_total", "Start-round attempts rejected by the round lock", roundLockRejectedTotal.Load())
	writeHistogram(&buf, "extraction_duration_ms", "Report extraction duration in milliseconds", extractionDuration.Snapshot())
	return buf.String()
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
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
