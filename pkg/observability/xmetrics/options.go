package xmetrics

import "go.opentelemetry.io/otel/metric"

const defaultInstrumentationName = "github.com/omeyang/streamlog/xmetrics"

type config struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
	noDestination       bool
}

// Option 定义 EventCounter 的配置选项。
type Option func(*config)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *config) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// WithoutDestination 不记录 destination 属性。
func WithoutDestination() Option {
	return func(cfg *config) {
		cfg.noDestination = true
	}
}
