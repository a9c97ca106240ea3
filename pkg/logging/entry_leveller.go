package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// EntryLeveller is a zapcore.Core that filters entries by logger name,
// similar to Log4j or python's logging module. Levels configured for a
// module apply to its submodules unless overridden; resolved names are
// cached so the prefix walk happens once per logger.
type EntryLeveller struct {
	zapcore.Core

	levels sync.Map // map[string]zapcore.Level
}

func NewEntryLeveller(core zapcore.Core, levels map[string]zapcore.Level) *EntryLeveller {
	el := &EntryLeveller{Core: core}
	for module, level := range levels {
		el.levels.Store(module, level)
	}
	return el
}

func (el *EntryLeveller) With(f []zapcore.Field) zapcore.Core {
	next := &EntryLeveller{Core: el.Core.With(f)}
	el.levels.Range(func(k, v interface{}) bool {
		next.levels.Store(k, v)
		return true
	})
	return next
}

func (el *EntryLeveller) checkModule(e zapcore.Entry, ce *zapcore.CheckedEntry, module string) (*zapcore.CheckedEntry, bool) {
	level, ok := el.levels.Load(module)
	if !ok {
		return nil, false
	}
	el.levels.Store(e.LoggerName, level)
	if e.Level < level.(zapcore.Level) {
		return nil, true
	}
	return ce.AddCore(e, el), true
}

func (el *EntryLeveller) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ce, ok := el.checkModule(e, ce, e.LoggerName); ok {
		return ce
	}
	if e.LoggerName == "" {
		return el.Core.Check(e, ce)
	}

	nameParts := strings.Split(e.LoggerName, ".")
	for i := len(nameParts) - 1; i > 0; i-- {
		if ce, ok := el.checkModule(e, ce, strings.Join(nameParts[:i], ".")); ok {
			return ce
		}
	}
	if ce, ok := el.checkModule(e, ce, ""); ok {
		return ce
	}
	return el.Core.Check(e, ce)
}
