package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errUnknownCommand = errors.New("unknown command")

// execIface is the command surface the REPL drives. The real App type
// satisfies it; tests can provide a lightweight stub.
type execIface interface {
	// Commands lists the commands available in the current view.
	Commands() []string
	// Exec runs one command. It returns errUnknownCommand for names it
	// does not know.
	Exec(ctx context.Context, name string, args []string) error
}

// runREPL starts the read–eval–print loop of the dashboard.
//
// It reads a line from scanner, takes the first token as the command and
// the rest as its arguments, and dispatches to a. "help" lists the commands
// of the current view; "exit" and "quit" leave. Command errors are printed
// and the loop carries on, so one failed write never ends the session.
// The loop also ends on scanner EOF or when ctx is cancelled.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("paystream %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: " + strings.Join(a.Commands(), ", ") + ", help, exit")

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			err := a.Exec(ctx, cmd, args)
			switch {
			case errors.Is(err, errUnknownCommand):
				printlnFn("Unknown command:", cmd)
			case err != nil:
				printlnFn("Error:", err.Error())
			}
		}
	}
}
