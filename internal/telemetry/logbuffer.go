package telemetry

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogBuffer retains the last N formatted log lines for the status endpoint.
// Writes never block logging; the ring simply overwrites the oldest line.
type LogBuffer struct {
	mu      sync.Mutex
	entries []string
	next    int
	filled  bool
}

// NewLogBuffer returns a ring holding up to capacity lines.
func NewLogBuffer(capacity int) *LogBuffer {
	if capacity <= 0 {
		capacity = 100
	}
	return &LogBuffer{entries: make([]string, capacity)}
}

func (b *LogBuffer) add(line string) {
	b.mu.Lock()
	b.entries[b.next] = line
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.filled = true
	}
	b.mu.Unlock()
}

// Tail returns up to n lines, oldest first.
func (b *LogBuffer) Tail(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var lines []string
	if b.filled {
		lines = append(lines, b.entries[b.next:]...)
	}
	lines = append(lines, b.entries[:b.next]...)
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

type bufferCore struct {
	zapcore.LevelEnabler
	enc zapcore.Encoder
	buf *LogBuffer
}

func (c *bufferCore) With(fields []zapcore.Field) zapcore.Core {
	clone := c.enc.Clone()
	for _, f := range fields {
		f.AddTo(clone)
	}
	return &bufferCore{LevelEnabler: c.LevelEnabler, enc: clone, buf: c.buf}
}

func (c *bufferCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *bufferCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	line, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	c.buf.add(strings.TrimRight(line.String(), "\n"))
	line.Free()
	return nil
}

func (c *bufferCore) Sync() error { return nil }

// NewLogger builds the production zap logger at the given level, teeing
// every entry into buf.
func NewLogger(level string, buf *LogBuffer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		tee := &bufferCore{
			LevelEnabler: lvl,
			enc:          zapcore.NewJSONEncoder(cfg.EncoderConfig),
			buf:          buf,
		}
		return zapcore.NewTee(core, tee)
	}))
	if err != nil {
		return nil, err
	}
	return logger, nil
}
