// Package xrun 提供基于 errgroup + context 的进程生命周期管理。
//
// # 概述
//
// 一个 streamlog 进程通常同时运行几件事：读取输入并写日志、
// 监听 SIGHUP 触发 Reopen、监视配置文件、等待 SIGINT/SIGTERM 退出。
// xrun 把它们作为服务放进同一个 [Group]：任一服务返回错误或收到终止信号时，
// context 被取消，其余服务监听 ctx.Done() 退出。
//
// # 快速开始
//
//	g, ctx := xrun.NewGroup(context.Background(), xrun.WithName("streamlog"))
//
//	// SIGHUP：重新打开全部日志文件，配合 logrotate
//	g.Go(xrun.OnSignal([]os.Signal{syscall.SIGHUP}, func(ctx context.Context, _ os.Signal) error {
//	    <-logger.Reopen(nil)
//	    return nil
//	}))
//
//	// SIGINT/SIGTERM：结束 Group，Wait 返回 *SignalError
//	g.Go(xrun.StopOnSignal(xrun.DefaultStopSignals()))
//
//	g.Go(func(ctx context.Context) error {
//	    return pump(ctx, os.Stdin, logger)
//	})
//
//	err := g.Wait()
//	if errors.Is(err, xrun.ErrSignal) {
//	    // 正常退出
//	}
//
// 只需要"运行直到收到终止信号"时使用 [Run]。
//
// # 退出原因
//
// Wait 返回第一个非 nil 错误。普通的 context 取消被过滤为 nil，
// 但通过 Cancel(cause) 或信号设置的退出原因会保留，调用方可以据此决定退出码。
package xrun
