package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	s := ""
	if u := a.session.CurrentUser(); u != nil {
		s = u.Name + " "
	}
	s = s + string(a.Mode())
	return fmt.Sprintf("(%s)", s)
}

// Root runs the command loop until the user exits or stdin closes.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Patronthèque - catalogue de patrons de crochet (type 'help' for commands)")

	for {
		fmt.Printf("pat %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.help()
		case "l", "list":
			_ = a.list(ctx, args)
		case "show":
			_ = a.show(ctx, args)
		case "add":
			_ = a.add(ctx)
		case "delete":
			_ = a.delete(ctx, args)
		case "seed":
			_ = a.seed(ctx)
		case "login":
			_ = a.login(ctx)
		case "connect":
			_ = a.connect(ctx)
		case "logout":
			_ = a.logout(ctx)
		case "sync":
			_ = a.sync(ctx)
		case "fetch":
			_ = a.fetch(ctx)
		case "clearcache":
			a.clearCache()
		case "activate":
			a.activate()
		case "status":
			_ = a.status(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}

func (a *App) help() {
	fmt.Println("Catalog: (l)ist [category|level <value>], show <id>, add, delete <id>, seed")
	fmt.Println("Account: login, connect, logout")
	fmt.Println("Sync:    sync, fetch")
	fmt.Println("Cache:   clearcache, activate")
	fmt.Println("Other:   status, help, exit")
}
