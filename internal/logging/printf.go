package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// exit is replaced in tests.
var exit = os.Exit

// PrintfLogger adapts a Logger to libraries that log with Printf and Fatalf,
// such as goose. Printf lines go out at info level; Fatalf logs at error
// level and exits the process.
type PrintfLogger struct {
	log Logger
}

func NewPrintfLogger(l Logger, component string) *PrintfLogger {
	return &PrintfLogger{log: l.With("component", component)}
}

func (p *PrintfLogger) Printf(format string, v ...any) {
	p.log.Info(context.Background(), printfMessage(format, v))
}

func (p *PrintfLogger) Fatalf(format string, v ...any) {
	p.log.Error(context.Background(), printfMessage(format, v))
	exit(1)
}

func printfMessage(format string, v []any) string {
	return strings.TrimSpace(fmt.Sprintf(format, v...))
}
