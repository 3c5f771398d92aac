package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/MrSnakeDoc/linkvault/internal/printer"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level string    // "debug","info","warn","error"
	JSON  bool      // JSON output (server, CI)
	Color bool      // colorize (console)
	Out   io.Writer // default os.Stdout
}

var (
	mu       sync.RWMutex
	zlog     *zap.SugaredLogger
	out      io.Writer = os.Stdout
	p        *printer.ColorPrinter
	curLevel = zapcore.InfoLevel
	curOpts  Options
	ready    atomic.Bool
)

// Configure sets up the global logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	configureLocked(opts)
}

func configureLocked(opts Options) {
	if opts.Out != nil {
		out = opts.Out
	}
	curOpts = opts
	curOpts.Out = out

	var enc zapcore.Encoder
	if opts.JSON {
		// server logs keep time and level, console output stays bare like a CLI
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encCfg.CallerKey = ""
		encCfg.MessageKey = "msg"
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "msg"})
	}

	level := parseLevel(opts.Level)
	ws := zapcore.AddSync(writerAdapter{out})
	core := zapcore.NewCore(enc, ws, level)

	zlog = zap.New(core).Sugar()
	p = printer.New(opts.Color && !opts.JSON)

	ready.Store(true)
}

// SetLevel adjusts current level at runtime ("debug","info","warn","error").
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	opts := curOpts
	opts.Level = level
	configureLocked(opts)
}

// SetOutput replaces the logger writer (use io.Discard in tests).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stdout
	}
	opts := curOpts
	opts.Out = w
	opts.Level = curLevel.String()
	configureLocked(opts)
}

// UseTestMode silences logs during tests.
func UseTestMode() {
	Configure(Options{
		Level: "error",
		Out:   io.Discard,
	})
}

// Out returns the current output writer (for tables).
func Out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return out
}

// ---- Public logging API ----

func Info(msg string, args ...interface{})     { emit(zapcore.InfoLevel, "✨ ", msg, args, nil) }
func Success(msg string, args ...interface{})  { emit(zapcore.InfoLevel, "✅ ", msg, args, nil) }
func LogError(msg string, args ...interface{}) { emit(zapcore.ErrorLevel, "❌ ", msg, args, nil) }
func Warn(msg string, args ...interface{})     { emit(zapcore.WarnLevel, "⚠️ ", msg, args, nil) }
func Debug(msg string, args ...interface{})    { emit(zapcore.DebugLevel, "🛠️ ", msg, args, nil) }

// Entry carries structured fields (request id, route...) into every line it logs.
type Entry struct {
	fields []interface{}
}

// With returns an Entry bound to the given key/value pairs.
func With(kv ...interface{}) *Entry {
	return &Entry{fields: append([]interface{}(nil), kv...)}
}

// With extends the entry with more key/value pairs.
func (e *Entry) With(kv ...interface{}) *Entry {
	return &Entry{fields: append(append([]interface{}(nil), e.fields...), kv...)}
}

func (e *Entry) Info(msg string, args ...interface{})  { emit(zapcore.InfoLevel, "✨ ", msg, args, e.fields) }
func (e *Entry) Warn(msg string, args ...interface{})  { emit(zapcore.WarnLevel, "⚠️ ", msg, args, e.fields) }
func (e *Entry) Error(msg string, args ...interface{}) { emit(zapcore.ErrorLevel, "❌ ", msg, args, e.fields) }
func (e *Entry) Debug(msg string, args ...interface{}) { emit(zapcore.DebugLevel, "🛠️ ", msg, args, e.fields) }

// ---- Tables ----

func CreateTable(headers []string) *tablewriter.Table {
	mu.RLock()
	defer mu.RUnlock()
	t := tablewriter.NewTable(out)
	t.Header(headers)
	return t
}

// ---- internals ----

type writerAdapter struct{ w io.Writer }

func (wa writerAdapter) Write(p []byte) (int, error) { return wa.w.Write(p) }

func emit(level zapcore.Level, icon, msg string, args []interface{}, fields []interface{}) {
	if !ensureReady() {
		return
	}
	mu.RLock()
	defer mu.RUnlock()

	text := msg
	if len(args) > 0 {
		text = fmt.Sprintf(msg, args...)
	}
	if !curOpts.JSON {
		text = icon + text
	}

	switch level {
	case zapcore.DebugLevel:
		zlog.Debugw(p.Debug("%s", text), fields...)
	case zapcore.WarnLevel:
		zlog.Warnw(p.Warning("%s", text), fields...)
	case zapcore.ErrorLevel:
		zlog.Errorw(p.Error("%s", text), fields...)
	default:
		if icon == "✅ " {
			zlog.Infow(p.Success("%s", text), fields...)
			return
		}
		zlog.Infow(p.Info("%s", text), fields...)
	}
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		curLevel = zapcore.DebugLevel
	case "info", "":
		curLevel = zapcore.InfoLevel
	case "warn":
		curLevel = zapcore.WarnLevel
	case "error":
		curLevel = zapcore.ErrorLevel
	default:
		curLevel = zapcore.InfoLevel
	}
	return curLevel
}

func ensureReady() bool {
	if !ready.Load() {
		return false
	}
	return p != nil && zlog != nil
}
