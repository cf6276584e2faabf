package xconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/omeyang/streamlog/pkg/observability/xrotate"
	"github.com/omeyang/streamlog/pkg/observability/xstream"
)

// Format 定义配置文件格式。
type Format string

// 支持的配置格式。
const (
	// FormatYAML YAML 格式（推荐用于 K8s ConfigMap）。
	FormatYAML Format = "yaml"

	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Config streamlog 配置。
type Config struct {
	// Level 阈值名称，默认 "info"。
	Level string `koanf:"level"`

	// Destinations 目的地列表，按顺序打开。
	Destinations []string `koanf:"destinations"`

	// Rotation 内置轮转配置。
	Rotation Rotation `koanf:"rotation"`
}

// Rotation 内置轮转配置，字段含义与 xrotate.NewLumberjack 的选项一致。
// MaxSizeMB 为 0 表示不启用内置轮转。
type Rotation struct {
	MaxSizeMB  int  `koanf:"max_size_mb"`
	MaxBackups int  `koanf:"max_backups"`
	MaxAgeDays int  `koanf:"max_age_days"`
	Compress   bool `koanf:"compress"`
	LocalTime  bool `koanf:"local_time"`
}

// Default 返回默认配置：info 阈值、无目的地、不启用内置轮转。
func Default() *Config {
	return &Config{
		Level: "info",
		Rotation: Rotation{
			MaxBackups: xrotate.DefaultMaxBackups,
			MaxAgeDays: xrotate.DefaultMaxAgeDays,
		},
	}
}

// Validate 校验配置，所有问题以 errors.Join 合并后包装 ErrInvalidConfig 返回。
func (c *Config) Validate() error {
	var errs []error

	if _, err := xstream.ParseLevel(c.Level); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]struct{}, len(c.Destinations))
	for i, dest := range c.Destinations {
		if strings.TrimSpace(dest) == "" {
			errs = append(errs, fmt.Errorf("destinations[%d] is empty", i))
			continue
		}
		if _, dup := seen[dest]; dup {
			errs = append(errs, fmt.Errorf("destinations[%d] duplicates %q", i, dest))
			continue
		}
		seen[dest] = struct{}{}
	}

	r := c.Rotation
	if r.MaxSizeMB < 0 {
		errs = append(errs, fmt.Errorf("rotation.max_size_mb must be >= 0, got %d", r.MaxSizeMB))
	}
	if r.MaxBackups < 0 {
		errs = append(errs, fmt.Errorf("rotation.max_backups must be >= 0, got %d", r.MaxBackups))
	}
	if r.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("rotation.max_age_days must be >= 0, got %d", r.MaxAgeDays))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Threshold 返回解析后的阈值。已通过 Validate 的配置不会失败；
// 名称无效时返回 xstream.LevelInfo。
func (c *Config) Threshold() xstream.Level {
	level, err := xstream.ParseLevel(c.Level)
	if err != nil {
		return xstream.LevelInfo
	}
	return level
}

// Opener 按轮转配置选择 sink 打开方式：
// MaxSizeMB 为 0 时使用普通追加文件，否则使用 lumberjack 按大小轮转。
func (r Rotation) Opener() xstream.Opener {
	if r.MaxSizeMB == 0 {
		return xrotate.FileOpener()
	}
	return xrotate.LumberjackOpener(
		xrotate.WithMaxSize(r.MaxSizeMB),
		xrotate.WithMaxBackups(r.MaxBackups),
		xrotate.WithMaxAge(r.MaxAgeDays),
		xrotate.WithCompress(r.Compress),
		xrotate.WithLocalTime(r.LocalTime),
	)
}
