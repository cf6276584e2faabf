package xmetrics

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/omeyang/streamlog/pkg/observability/xstream"
)

const (
	metricEvents = "streamlog.events"
	metricErrors = "streamlog.errors"

	attrKind        = "kind"
	attrLevel       = "level"
	attrDestination = "destination"
	attrReason      = "reason"
)

// 错误原因取值
const (
	ReasonOpen        = "open"
	ReasonWrite       = "write"
	ReasonClose       = "close"
	ReasonNotWritable = "not_writable"
	ReasonOther       = "other"
)

// EventCounter 统计 xstream 事件。Handle 可以并发调用。
type EventCounter struct {
	events        metric.Int64Counter
	errors        metric.Int64Counter
	noDestination bool
}

// NewEventCounter 创建事件计数器。
func NewEventCounter(opts ...Option) (*EventCounter, error) {
	cfg := &config{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	events, err := meter.Int64Counter(
		metricEvents,
		metric.WithDescription("logger lifecycle and message events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateCounter, metricEvents, err)
	}

	errs, err := meter.Int64Counter(
		metricErrors,
		metric.WithDescription("per-destination stream errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCreateCounter, metricErrors, err)
	}

	return &EventCounter{
		events:        events,
		errors:        errs,
		noDestination: cfg.noDestination,
	}, nil
}

// Handle 记录一个事件，可直接作为 xstream.Handler 使用。
func (c *EventCounter) Handle(e xstream.Event) {
	ctx := context.Background()

	attrs := make([]attribute.KeyValue, 0, 3)
	attrs = append(attrs, attribute.String(attrKind, e.Kind.String()))

	switch e.Kind {
	case xstream.KindMessageReceived, xstream.KindMessageLogged:
		attrs = append(attrs, attribute.String(attrLevel, levelName(e.Level)))
	case xstream.KindError:
		if !c.noDestination {
			attrs = append(attrs, attribute.String(attrDestination, e.Destination))
		}
		errAttrs := []attribute.KeyValue{attribute.String(attrReason, Reason(e.Err))}
		if !c.noDestination {
			errAttrs = append(errAttrs, attribute.String(attrDestination, e.Destination))
		}
		c.errors.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	}

	c.events.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Attach 订阅 bus 的全部事件，返回取消订阅函数。
func (c *EventCounter) Attach(bus *xstream.Bus) (detach func()) {
	if bus == nil {
		return func() {}
	}
	return bus.SubscribeAll(c.Handle)
}

// Reason 把 KindError 事件携带的错误归类为 reason 属性取值。
func Reason(err error) string {
	switch {
	case errors.Is(err, xstream.ErrNotWritable):
		return ReasonNotWritable
	case errors.Is(err, xstream.ErrSinkOpen):
		return ReasonOpen
	case errors.Is(err, xstream.ErrSinkWrite):
		return ReasonWrite
	case errors.Is(err, xstream.ErrSinkClose):
		return ReasonClose
	default:
		return ReasonOther
	}
}

// levelName 返回小写级别名，与配置文件中的写法一致
func levelName(l xstream.Level) string {
	b, err := l.MarshalText()
	if err != nil {
		return "unknown"
	}
	return string(b)
}
