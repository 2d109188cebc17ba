package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	List(ctx context.Context) error
	Mine(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Attach(ctx context.Context, id, path string) error
	Download(ctx context.Context, id string) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from reader until EOF, "exit" or "quit".
//
//	Not logged in:
//	  help | register | login | exit
//
//	Logged in:
//	  help | (l)ist | mine | show <id> | create | edit <id> | delete <id>
//	  attach <id> <file> | download <id> | logout | exit
//
// Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "gb %s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: (l)ist, mine, show <id>, create, edit <id>, delete <id>, attach <id> <file>, download <id>, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "mine":
			cmdErr = a.Mine(ctx)

		case "show":
			cmdErr = withID(args, "show <id>", func(id string) error { return a.Show(ctx, id) })

		case "create":
			cmdErr = a.Create(ctx)

		case "edit":
			cmdErr = withID(args, "edit <id>", func(id string) error { return a.Edit(ctx, id) })

		case "delete":
			cmdErr = withID(args, "delete <id>", func(id string) error { return a.Delete(ctx, id) })

		case "attach":
			if len(args) != 2 {
				cmdErr = errUsage("attach <id> <file>")
			} else {
				cmdErr = a.Attach(ctx, args[0], args[1])
			}

		case "download":
			cmdErr = withID(args, "download <id>", func(id string) error { return a.Download(ctx, id) })

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}

type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

func errUsage(u string) error { return usageError(u) }

func withID(args []string, usage string, fn func(id string) error) error {
	if len(args) != 1 {
		return errUsage(usage)
	}
	return fn(args[0])
}
