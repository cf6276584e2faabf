// Package xstream 提供多目标分级日志：一条日志消息扇出到多个独立管理的输出流。
//
// # 组成
//
//   - [Level]: 固定的有序严重级别 debug(0) < info(1) < warn(2) < fatal(3)
//   - [Handle]: 单个目的地（通常是文件路径）及其独占的可写 sink
//   - [Bus]: 事件总线，按订阅顺序同步投递 [Event]
//   - 流集合协调器：批量打开/关闭 Handle，并把 N 个独立完成归并为一次聚合事件
//   - [Logger]: 阈值过滤、时间戳格式化、扇出写入、Open/Close/Reopen
//
// # 生命周期
//
// [New] 创建 Logger 后立即发起第一轮打开。每个 Handle 在独立 goroutine 中打开，
// 单个失败只产生一次 [KindError] 事件，不影响其他目的地；全部完成后恰好触发一次
// [KindOpened]。[Logger.Close] 对称地触发恰好一次 [KindClosed]。
// [Logger.Reopen] 先完整关闭再打开，用于配合外部轮转（如 SIGHUP）。
//
// Open/Close/Reopen 都是非阻塞的，返回在聚合事件和回调执行完毕后关闭的 channel。
// 多个周期请求按提交顺序串行执行，不会交叠。
//
// # 事件
//
// 每次 [Logger.Log] 调用都会触发 [KindMessageReceived]（无论是否被过滤），
// 通过阈值的消息额外触发 [KindMessageLogged]。对非 Open 状态的 Handle 写入
// 不会真正写入，而是触发携带 [ErrNotWritable] 的 [KindError]。
//
// Handler 可能在打开/关闭的完成 goroutine 中被调用，实现必须并发安全。
//
// # 写入回调
//
// [Logger.Log] 的回调在每个写入成功的目的地上各调用一次，而不是每次 Log 调用一次。
// 两个目的地的 Logger 对同一条消息会调用两次回调，应将其理解为"已提交给某个 sink"。
//
// # 输出格式
//
//	Mon, 02 Jan 2006 15:04:05 GMT - WARN: message
//
// 时间为 UTC，每次写入一行，sink 以追加模式打开。
package xstream
