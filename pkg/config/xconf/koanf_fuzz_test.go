package xconf

import (
	"testing"
)

func FuzzParse(f *testing.F) {
	f.Add([]byte("level: info\ndestinations: [a.log]\n"), true)
	f.Add([]byte(`{"level":"warn","rotation":{"max_size_mb":10}}`), false)
	f.Add([]byte(""), true)
	f.Add([]byte("::"), true)

	f.Fuzz(func(t *testing.T, data []byte, yaml bool) {
		format := FormatJSON
		if yaml {
			format = FormatYAML
		}
		cfg, err := Parse(data, format)
		if err != nil {
			return
		}
		if verr := cfg.Validate(); verr != nil {
			t.Fatalf("Parse returned config failing Validate: %v", verr)
		}
	})
}
