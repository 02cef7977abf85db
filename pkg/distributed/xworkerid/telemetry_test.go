package xworkerid_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/xuid/pkg/distributed/xworkerid"
)

type telemetryHarness struct {
	reader *sdkmetric.ManualReader
	spans  *tracetest.SpanRecorder
	opts   []xworkerid.Option
}

func newTelemetryHarness(t *testing.T) *telemetryHarness {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	t.Cleanup(func() {
		ctx := context.Background()
		assert.NoError(t, mp.Shutdown(ctx))
		assert.NoError(t, tp.Shutdown(ctx))
	})
	return &telemetryHarness{
		reader: reader,
		spans:  spans,
		opts:   []xworkerid.Option{xworkerid.WithMeterProvider(mp), xworkerid.WithTracerProvider(tp)},
	}
}

// outcomes 返回 xworkerid.assign 计数器按 outcome 聚合的值。
func (h *telemetryHarness) outcomes(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "xworkerid.assign" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				v, _ := dp.Attributes.Value("outcome")
				out[v.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestTelemetry_Outcomes(t *testing.T) {
	ctx := context.Background()
	h := newTelemetryHarness(t)
	mem := xworkerid.NewMemoryStore()

	a := initialize(t, mem, "10.0.0.5", h.opts...)
	_, err := a.AssignWorkerID(ctx) // created
	require.NoError(t, err)
	_, err = a.AssignWorkerID(ctx) // warm
	require.NoError(t, err)

	// adopted
	fs := newFaultStore(mem)
	var once sync.Once
	fs.before = func(op, p string, _ xworkerid.CreateMode) {
		if op == "create" && p == "/uid/storage/10.0.0.6" {
			once.Do(func() {
				_, err := mem.Create(ctx, p, "/uid/workNode/workid-0000000099", xworkerid.Persistent)
				require.NoError(t, err)
			})
		}
	}
	adopter, err := xworkerid.NewAllocator(fs, xworkerid.DefaultConfig(),
		append(h.opts, xworkerid.WithHostResolver(xworkerid.StaticHost("10.0.0.6")))...)
	require.NoError(t, err)
	id, err := adopter.AssignWorkerID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)

	// error
	_, err = initialize(t, mem, "a/b", h.opts...).AssignWorkerID(ctx)
	require.Error(t, err)

	assert.Equal(t, map[string]int64{
		"created": 1,
		"warm":    1,
		"adopted": 1,
		"error":   1,
	}, h.outcomes(t))
}

func TestTelemetry_Spans(t *testing.T) {
	ctx := context.Background()
	h := newTelemetryHarness(t)

	a := initialize(t, xworkerid.NewMemoryStore(), "10.0.0.5", h.opts...)
	_, err := a.AssignWorkerID(ctx)
	require.NoError(t, err)

	fs := newFaultStore(xworkerid.NewMemoryStore()).fail("exists", errBoom)
	_, err = xworkerid.Initialize(ctx, fs, xworkerid.DefaultConfig(), h.opts...)
	require.Error(t, err)

	ended := h.spans.Ended()
	require.Len(t, ended, 3)

	assert.Equal(t, "xworkerid.EnsureNamespace", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)

	assign := ended[1]
	assert.Equal(t, "xworkerid.AssignWorkerID", assign.Name())
	attrs := map[string]string{}
	for _, kv := range assign.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "/uid", attrs["xworkerid.root"])
	assert.Equal(t, "1", attrs["xworkerid.worker_id"])
	assert.Equal(t, "created", attrs["xworkerid.outcome"])

	failed := ended[2]
	assert.Equal(t, "xworkerid.EnsureNamespace", failed.Name())
	assert.Equal(t, codes.Error, failed.Status().Code)
}
