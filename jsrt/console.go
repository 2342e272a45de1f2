package jsrt

import (
	"log/slog"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
)

type LogLevel int

const (
	LogLevelLog LogLevel = iota
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "log"
	}
}

// LogFunc receives console output of the scripts.
type LogFunc func(level LogLevel, message string)

// SlogSink forwards script console output to the default slog logger.
func SlogSink(level LogLevel, message string) {
	switch level {
	case LogLevelWarn:
		slog.Warn(message, slog.String("source", "script"))
	case LogLevelError:
		slog.Error(message, slog.String("source", "script"))
	default:
		slog.Info(message, slog.String("source", "script"))
	}
}

// printer implements console.Printer on top of a LogFunc
type printer struct {
	log LogFunc
}

func (p printer) Log(message string) {
	p.log(LogLevelLog, message)
}

func (p printer) Warn(message string) {
	p.log(LogLevelWarn, message)
}

func (p printer) Error(message string) {
	p.log(LogLevelError, message)
}

func registerConsole(vm *goja.Runtime) error {
	console.Enable(vm)
	return nil
}
