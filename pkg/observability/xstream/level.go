package xstream

import (
	"fmt"
	"strconv"
	"strings"
)

// Level 日志严重级别，数值即排名，越大越严重
type Level uint8

// 固定的级别集合，按严重程度升序
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelFatal
)

var levelNames = [...]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelFatal: "FATAL",
}

// Levels 返回全部级别（升序）。每次调用返回新切片。
func Levels() []Level {
	return []Level{LevelDebug, LevelInfo, LevelWarn, LevelFatal}
}

// Valid 报告 l 是否属于固定级别集合
func (l Level) Valid() bool {
	return int(l) < len(levelNames)
}

// Rank 返回级别排名
func (l Level) Rank() int {
	return int(l)
}

// String 返回大写级别名，也是输出行中的级别字段。
// 未知级别返回 "Level(n)"。
func (l Level) String() string {
	if !l.Valid() {
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// MarshalText 实现 encoding.TextMarshaler 接口
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, uint8(l))
	}
	return []byte(strings.ToLower(levelNames[l])), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler 接口
func (l *Level) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel 按名称解析级别（大小写不敏感，自动 TrimSpace）。
// 支持 debug/info/warn/warning/fatal。
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// LevelOf 按排名查找级别
func LevelOf(rank int) (Level, error) {
	if rank < 0 || rank >= len(levelNames) {
		return LevelInfo, fmt.Errorf("%w: rank %d", ErrUnknownLevel, rank)
	}
	return Level(rank), nil
}
