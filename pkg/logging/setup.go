package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogOpts struct {
	Verbose bool

	// Encoding selects "console" (default) or "json".
	Encoding string

	DefaultLevels map[string]zapcore.Level

	HadWarnings *atomic.Bool
	HadErrors   *atomic.Bool
}

func (opts LogOpts) Encoder() zapcore.Encoder {
	switch opts.Encoding {
	case "json":
		if opts.Verbose {
			return zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig())
		}
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console", "":
		return NewConsoleEncoder(opts.Verbose, opts.HadWarnings, opts.HadErrors)
	default:
		panic(fmt.Errorf("unknown encoding %q", opts.Encoding))
	}
}

// EntryLeveller wires per-module levels, overridable at runtime with
// LOG_LEVEL=module=level,module2=level2.
func (opts LogOpts) EntryLeveller(core zapcore.Core) zapcore.Core {
	levels := opts.DefaultLevels
	if levelEnv, ok := os.LookupEnv("LOG_LEVEL"); ok {
		values := strings.Split(levelEnv, ",")
		levels = make(map[string]zapcore.Level, len(values))
		for _, v := range values {
			k, v, ok := strings.Cut(v, "=")
			if !ok {
				continue
			}
			var lvl zapcore.Level
			if err := lvl.UnmarshalText([]byte(v)); err != nil {
				continue
			}
			levels[k] = lvl
		}
	}

	if len(levels) > 0 {
		core = NewEntryLeveller(core, levels)
	}
	return core
}

func (opts LogOpts) NewCore(w zapcore.WriteSyncer) zapcore.Core {
	leveller := zap.NewAtomicLevel()
	if opts.Verbose {
		leveller.SetLevel(zap.DebugLevel)
	} else {
		leveller.SetLevel(zap.InfoLevel)
	}

	core := zapcore.NewCore(opts.Encoder(), w, leveller)
	return opts.EntryLeveller(core)
}

func (opts LogOpts) NewLogger() *zap.Logger {
	return zap.New(opts.NewCore(os.Stderr))
}
