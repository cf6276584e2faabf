// Package xmetrics 把 xstream 事件转换为 OpenTelemetry 指标。
//
// # 使用示例
//
//	counter, err := xmetrics.NewEventCounter()
//	if err != nil {
//		return err
//	}
//	detach := counter.Attach(logger.Bus())
//	defer detach()
//
// 默认使用 otel.GetMeterProvider()，可通过 WithMeterProvider 指定。
//
// # 指标命名
//
//   - streamlog.events：全部事件，属性 kind，消息事件附带 level，错误事件附带 destination
//   - streamlog.errors：错误事件，属性 reason（open/write/close/not_writable/other）与 destination
//
// destination 的取值来自配置，基数通常很小；目的地很多时用 WithoutDestination 关闭。
package xmetrics
