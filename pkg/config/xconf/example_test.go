package xconf_test

import (
	"fmt"

	"github.com/omeyang/streamlog/pkg/config/xconf"
)

func ExampleParse() {
	data := []byte(`
level: warn
destinations:
  - /var/log/app/app.log
rotation:
  max_size_mb: 64
`)
	cfg, err := xconf.Parse(data, xconf.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(cfg.Threshold(), cfg.Destinations, cfg.Rotation.MaxSizeMB)
	// Output:
	// WARN [/var/log/app/app.log] 64
}
