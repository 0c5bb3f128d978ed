package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-feecting/internal/logging"
	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// Level is the severity attached to an entry.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "INFO"
}

// ParseLevel maps a config level name onto a Level. Unknown names map to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Options configures the provider. Zero values write to stderr at debug level.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
}

type sink struct {
	mu       sync.Mutex
	out      io.Writer
	now      func() time.Time
	minLevel Level
}

// NewProvider returns a provider writing one `ts LEVEL msg k=v ...` line per entry.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{
		out:      opts.Writer,
		now:      opts.TimeFunc,
		minLevel: LevelDebug,
	}
	if s.out == nil {
		s.out = os.Stderr
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.MinLevel != nil {
		s.minLevel = *opts.MinLevel
	}
	return s
}

func (s *sink) GetLogger(name string) interfaces.Logger {
	return &logger{sink: s, fields: map[string]any{"logger": name}}
}

type logger struct {
	sink   *sink
	fields map[string]any
	ctx    context.Context
}

var (
	_ interfaces.Logger       = (*logger)(nil)
	_ interfaces.FieldsLogger = (*logger)(nil)
)

func (l *logger) Trace(msg string, args ...any) { l.write(LevelTrace, msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.write(LevelDebug, msg, args) }
func (l *logger) Info(msg string, args ...any)  { l.write(LevelInfo, msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.write(LevelWarn, msg, args) }
func (l *logger) Error(msg string, args ...any) { l.write(LevelError, msg, args) }
func (l *logger) Fatal(msg string, args ...any) { l.write(LevelFatal, msg, args) }

func (l *logger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return &logger{sink: l.sink, fields: merged, ctx: l.ctx}
}

func (l *logger) WithContext(ctx context.Context) interfaces.Logger {
	return &logger{sink: l.sink, fields: l.fields, ctx: ctx}
}

func (l *logger) write(level Level, msg string, args []any) {
	if l.sink == nil || level < l.sink.minLevel {
		return
	}

	fields := maps.Clone(l.fields)
	if fields == nil {
		fields = map[string]any{}
	}
	maps.Copy(fields, logging.ContextFields(l.ctx))
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields[fmt.Sprintf("arg_%d", i/2)] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok || key == "" {
			key = fmt.Sprintf("arg_%d", i/2)
		}
		fields[key] = args[i+1]
	}

	line := render(l.sink.now().UTC(), level, msg, fields)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	_, _ = io.WriteString(l.sink.out, line)
}

func render(ts time.Time, level Level, msg string, fields map[string]any) string {
	var b strings.Builder
	b.WriteString(ts.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(level.String())
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		b.WriteByte(' ')
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(renderValue(fields[key]))
	}
	b.WriteByte('\n')
	return b.String()
}

func renderValue(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		s = v
	case time.Time:
		s = v.UTC().Format(time.RFC3339Nano)
	case error:
		s = v.Error()
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return `""`
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.Quote(s)
	}
	return s
}
