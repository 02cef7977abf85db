package xworkerid

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/omeyang/xuid/pkg/distributed/xworkerid"

// outcome 分配结果，作为指标属性。
type outcome string

const (
	outcomeWarm    outcome = "warm"    // 映射已存在，直接复用
	outcomeCreated outcome = "created" // 新建顺序节点并写入映射
	outcomeAdopted outcome = "adopted" // 条件创建失败，采用其他进程写入的映射
	outcomeError   outcome = "error"
)

type telemetry struct {
	tracer  trace.Tracer
	assigns metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	assigns, err := mp.Meter(instrumentationName).Int64Counter(
		"xworkerid.assign",
		metric.WithDescription("worker id assignments by outcome"),
		metric.WithUnit("{assignment}"),
	)
	if err != nil {
		return nil, fmt.Errorf("xworkerid: create counter: %w", err)
	}

	return &telemetry{
		tracer:  tp.Tracer(instrumentationName),
		assigns: assigns,
	}, nil
}

func (t *telemetry) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// finish 记录结果并结束 span。
func (t *telemetry) finish(ctx context.Context, span trace.Span, res outcome, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("xworkerid.outcome", string(res)))
	t.assigns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(res))))
	span.End()
}
