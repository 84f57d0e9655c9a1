package metrics_test

import (
	"testing"

	"github.com/okian/tally/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given the metrics registry", t, func() {
		Convey("When fetching the registry", func() {
			reg := metrics.GetRegistry()

			Convey("Then it is initialized and gatherable", func() {
				So(reg, ShouldNotBeNil)

				families, err := reg.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When recording pipeline events", func() {
			Convey("Then counters accept updates without panicking", func() {
				So(metrics.RecordReportAccepted, ShouldNotPanic)
				So(metrics.RecordReportDuplicate, ShouldNotPanic)
				So(metrics.RecordScoreComputed, ShouldNotPanic)
				So(metrics.RecordScoringError, ShouldNotPanic)
				So(metrics.RecordStoreUpdate, ShouldNotPanic)
				So(metrics.RecordStoreError, ShouldNotPanic)
				So(metrics.RecordQueueEnqueue, ShouldNotPanic)
				So(metrics.RecordQueueDequeue, ShouldNotPanic)
				So(metrics.RecordWorkerError, ShouldNotPanic)
			})

			Convey("Then labeled counters accept any label value", func() {
				So(func() { metrics.RecordParseFallback("value_text") }, ShouldNotPanic)
				So(func() { metrics.RecordParseFallback("weight_default") }, ShouldNotPanic)
				So(func() { metrics.RecordQueueEnqueueError("queue_full") }, ShouldNotPanic)
				So(func() { metrics.RecordHTTPRequest("scores", "POST", "202") }, ShouldNotPanic)
				So(func() { metrics.RecordHTTPRequestDuration("scores", "POST", "202", 12.5) }, ShouldNotPanic)
			})

			Convey("Then gauges and histograms accept updates", func() {
				So(func() { metrics.UpdateTotalAccounts(10) }, ShouldNotPanic)
				So(func() { metrics.UpdateQueueSize(5) }, ShouldNotPanic)
				So(func() { metrics.UpdateQueueCapacity(100) }, ShouldNotPanic)
				So(func() { metrics.UpdateQueueUtilization(0.05) }, ShouldNotPanic)
				So(func() { metrics.UpdateWorkerCount(4) }, ShouldNotPanic)
				So(func() { metrics.RecordScoringLatency(3.5) }, ShouldNotPanic)
				So(func() { metrics.RecordWorkerProcessingLatency(7.0) }, ShouldNotPanic)
				So(func() { metrics.UpdateSystemMemoryUsage(1 << 20) }, ShouldNotPanic)
				So(func() { metrics.UpdateSystemGoroutineCount(42) }, ShouldNotPanic)
			})
		})
	})
}
