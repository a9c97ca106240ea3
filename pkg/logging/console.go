package logging

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/fatih/color"
	"github.com/pborman/ansi"
	"go.uber.org/atomic"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var (
	pool = buffer.NewPool()

	levelColours = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel:  color.New(color.FgMagenta),
		zapcore.InfoLevel:   color.New(color.FgHiGreen),
		zapcore.WarnLevel:   color.New(color.FgHiYellow, color.Bold),
		zapcore.ErrorLevel:  color.New(color.FgHiRed, color.Bold),
		zapcore.DPanicLevel: color.New(color.FgHiRed, color.Bold),
		zapcore.PanicLevel:  color.New(color.FgHiRed, color.Bold),
		zapcore.FatalLevel:  color.New(color.FgHiRed, color.Bold),
	}

	levelWidth int
	levelFmt   string

	nameColour = color.New(color.FgHiCyan, color.Faint)
)

func init() {
	for l := range levelColours {
		if ll := len(l.String()); levelWidth < ll {
			levelWidth = ll
		}
	}
	levelFmt = fmt.Sprintf("%%%ds", levelWidth)
}

// fieldColumn is where structured fields start on a line, when they fit.
const fieldColumn = 80

// ConsoleEncoder renders human-oriented log lines: coloured level and
// message, structured fields right-aligned, error fields as an indented
// block under the entry. It also records whether any warnings or errors
// were emitted so the CLI can pick its exit message.
type ConsoleEncoder struct {
	Verbose     bool
	HadWarnings *atomic.Bool
	HadErrors   *atomic.Bool

	// renders the structured context fields; everything visual happens in
	// EncodeEntry.
	zapcore.Encoder
}

func NewConsoleEncoder(verbose bool, hadWarnings *atomic.Bool, hadErrors *atomic.Bool) *ConsoleEncoder {
	if hadWarnings == nil {
		hadWarnings = atomic.NewBool(false)
	}
	if hadErrors == nil {
		hadErrors = atomic.NewBool(false)
	}
	return &ConsoleEncoder{
		Verbose:     verbose,
		HadWarnings: hadWarnings,
		HadErrors:   hadErrors,
		Encoder:     zapcore.NewJSONEncoder(zapcore.EncoderConfig{}),
	}
}

func (enc *ConsoleEncoder) Clone() zapcore.Encoder {
	return &ConsoleEncoder{
		Verbose:     enc.Verbose,
		HadWarnings: enc.HadWarnings,
		HadErrors:   enc.HadErrors,
		Encoder:     enc.Encoder.Clone(),
	}
}

func (enc *ConsoleEncoder) EncodeEntry(ent zapcore.Entry, fieldList []zapcore.Field) (*buffer.Buffer, error) {
	line := pool.Get()

	if ent.Level >= zapcore.WarnLevel {
		enc.HadWarnings.Store(true)
	}
	if ent.Level >= zapcore.ErrorLevel {
		enc.HadErrors.Store(true)
	}

	colour := levelColours[ent.Level]
	if colour == nil {
		colour = levelColours[zapcore.PanicLevel]
	}

	if enc.Verbose {
		colour.Fprintf(line, levelFmt, ent.Level.String())
		line.AppendByte(' ')
		if ent.LoggerName != "" {
			nameColour.Fprintf(line, "%s ", ent.LoggerName)
		}
	}

	var errField error
	rest := make([]zapcore.Field, 0, len(fieldList))
	for _, f := range fieldList {
		if f.Type == zapcore.ErrorType {
			errField = f.Interface.(error)
			continue
		}
		rest = append(rest, f)
	}

	colour.Fprint(line, ent.Message)

	if len(rest) > 0 {
		fields, err := enc.Encoder.Clone().EncodeEntry(zapcore.Entry{}, rest)
		if err != nil {
			line.Free()
			return nil, err
		}
		text := strings.TrimSpace(fields.String())
		fields.Free()
		padding := fieldColumn - printableWidth(line.String()) - printableWidth(text)
		if padding < 1 {
			padding = 1
		}
		line.AppendString(strings.Repeat(" ", padding))
		line.AppendString(text)
	}
	line.AppendByte('\n')

	if errField != nil {
		errFmt := "%v"
		if enc.Verbose {
			errFmt = "%+v"
		}
		for _, errLine := range strings.Split(fmt.Sprintf("ERROR: "+errFmt, errField), "\n") {
			colour.Fprintf(line, "| %s", errLine)
			line.AppendByte('\n')
		}
	}
	return line, nil
}

// printableWidth is the rendered width of s, ignoring ansi colour codes.
func printableWidth(s string) (c int) {
	if stripped, err := ansi.Strip([]byte(s)); err == nil {
		s = string(stripped)
	}
	for _, r := range s {
		switch {
		case unicode.IsPrint(r):
			c++

		case r == '\t':
			c += 4 // assume 4-width tabs
		}
	}
	return
}
