package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	signedIn(ctx context.Context) bool
	SignIn(ctx context.Context) error
	SocialSignIn(ctx context.Context, provider string) error
	WhoAmI(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	OpenMedia(ctx context.Context, id string) error
	Comment(ctx context.Context, text string) error
	SignOut(ctx context.Context) error
}

// guarded commands need a stored access token.
var guarded = map[string]bool{
	"whoami":  true,
	"account": true,
	"media":   true,
	"comment": true,
}

// runREPL starts a simple read–eval–print loop for the OSP CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// A guarded command without a session sends the user to sign-in instead of
// running. Errors returned by command handlers are ignored here; handlers
// print their own messages.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("osp %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if guarded[cmd] && !a.signedIn(ctx) {
			printlnFn("Please sign in to continue.")
			_ = a.SignIn(ctx)
			continue
		}

		switch cmd {
		case "help":
			if a.signedIn(ctx) {
				printlnFn("Available commands: whoami, account, media <id>, comment <text>, signout, exit")
			} else {
				printlnFn("Available commands: signin, social <google|apple>, exit")
			}

		case "signin":
			_ = a.SignIn(ctx)

		case "social":
			if len(args) != 1 {
				printlnFn("Usage: social <google|apple>")
				continue
			}
			_ = a.SocialSignIn(ctx, args[0])

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "account":
			_ = a.DeleteAccount(ctx)

		case "media":
			if len(args) != 1 {
				printlnFn("Usage: media <id>")
				continue
			}
			_ = a.OpenMedia(ctx, args[0])

		case "comment":
			if len(args) == 0 {
				printlnFn("Usage: comment <text>")
				continue
			}
			_ = a.Comment(ctx, strings.Join(args, " "))

		case "signout":
			_ = a.SignOut(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
