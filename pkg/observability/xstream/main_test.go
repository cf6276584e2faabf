package xstream

import (
	"testing"

	"go.uber.org/goleak"
)

// 每个 Handle 的打开/关闭都在独立 goroutine 中完成，测试结束时不应残留
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
