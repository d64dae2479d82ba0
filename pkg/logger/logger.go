// Package logger 基于zerolog的结构化日志
//
// 进程启动时调用一次Setup，之后业务代码统一通过
// github.com/rs/zerolog/log 或 log.Ctx(ctx) 取日志器。
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options 日志配置
type Options struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// Setup 初始化全局日志器
// 返回的close函数用于关闭日志文件（输出到stdout/stderr时为空操作）
func Setup(opts Options) (zerolog.Logger, func() error, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	out, closeFn, err := openOutput(opts.Output)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	if strings.EqualFold(opts.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.EnableCaller {
		ctx = ctx.Caller()
	}
	l := ctx.Logger()

	log.Logger = l
	// 没有注入请求级日志器的context（如后台任务）回落到全局日志器
	zerolog.DefaultContextLogger = &log.Logger

	return l, closeFn, nil
}

func parseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("无效的日志级别 %q: %w", level, err)
	}
	return l, nil
}

func openOutput(output string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch output {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	default:
		f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		return f, f.Close, nil
	}
}
