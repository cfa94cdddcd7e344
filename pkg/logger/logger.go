package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Config 日志配置
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr 或文件路径
}

var (
	mu      sync.RWMutex
	slogger = slog.New(slog.DiscardHandler)
	closer  io.Closer
)

// Init 按配置重建全局 logger，可重复调用
func Init(cfg Config) error {
	var (
		w       io.Writer
		noColor = true
		c       io.Closer
	)
	switch strings.ToLower(cfg.Output) {
	case "", "stdout":
		w = colorable.NewColorable(os.Stdout)
		noColor = !isatty.IsTerminal(os.Stdout.Fd())
	case "stderr":
		w = colorable.NewColorable(os.Stderr)
		noColor = !isatty.IsTerminal(os.Stderr.Fd())
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", cfg.Output, err)
		}
		w, c = f, f
	}
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		if c != nil {
			_ = c.Close()
		}
		return err
	}
	var h slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    noColor,
		})
	}
	install(slog.New(h), c)
	return nil
}

// InitWithWriter 输出到任意 writer，不带颜色，主要用于测试
func InitWithWriter(w io.Writer, level string) error {
	lv, err := ParseLevel(level)
	if err != nil {
		return err
	}
	install(slog.New(tint.NewHandler(w, &tint.Options{Level: lv, NoColor: true})), nil)
	return nil
}

func install(l *slog.Logger, c io.Closer) {
	mu.Lock()
	defer mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
	slogger = l
	closer = c
}

// ParseLevel 解析日志级别，空串视为 INFO
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "", "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Slog 返回当前 logger，供链表等组件注入
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return slogger
}

func Debug(msg string, args ...any) {
	Slog().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Slog().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Slog().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Slog().Error(msg, args...)
}

func Fatal(msg string, args ...any) {
	Slog().Error(msg, args...)
	os.Exit(1)
}
