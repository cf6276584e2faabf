// Package xconf 加载 streamlog 的配置文件，基于 koanf 实现。
//
// # 配置结构
//
//	level: info              # 阈值：debug/info/warn/fatal
//	destinations:            # 目的地列表（文件路径）
//	  - /var/log/app/app.log
//	  - /var/log/app/audit.log
//	rotation:                # 可选；max_size_mb 为 0 时使用普通追加文件，由外部轮转
//	  max_size_mb: 100
//	  max_backups: 7
//	  max_age_days: 30
//	  compress: true
//	  local_time: false
//
// # 支持的格式
//
//   - YAML（推荐）：.yaml, .yml
//   - JSON：.json
//
// Load 根据扩展名识别格式，Parse 需要显式指定格式（适用于 K8s ConfigMap 等场景）。
// 两者都会先填充默认值，再覆盖文件中的字段，最后调用 Validate。
//
// # 配置监视
//
// Watch 基于 fsnotify 监视配置文件所在目录，内置防抖，支持 vim/emacs 原子写入。
// 每次变更重新执行 Load，并把结果交给回调：
//
//	w, err := xconf.Watch(path, func(cfg *xconf.Config, err error) {
//	    if err != nil {
//	        return // 保留旧配置
//	    }
//	    _ = logger.SetLevel(cfg.Threshold())
//	})
//	w.StartAsync()
//	defer w.Stop()
package xconf
