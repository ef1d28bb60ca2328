// cmd/studyhub/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dalemusser/studyhub/internal/app/bootstrap"
	"github.com/dalemusser/studyhub/internal/app/gateway"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	roomstore "github.com/dalemusser/studyhub/internal/app/store/rooms"
	"github.com/dalemusser/studyhub/internal/app/system/notify"
	"github.com/dalemusser/studyhub/internal/app/system/paging"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	_, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	deps := bootstrap.BuildDeps(appCfg, logger)
	if err := run(context.Background(), appCfg, deps, positionalArgs(os.Args[1:])); err != nil {
		fmt.Fprintln(os.Stderr, "studyhub:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg bootstrap.AppConfig, deps *bootstrap.Deps, args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	switch args[0] {
	case "login":
		return login(ctx, deps, args[1:])
	case "logout":
		return deps.Session.Clear()
	case "whoami":
		return whoami(deps)
	case "groups":
		return groups(ctx, cfg, deps, args[1:])
	case "rooms":
		return rooms(ctx, deps, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// positionalArgs drops flag tokens, which WAFFLE's config loader has
// already consumed, leaving just the subcommand and its arguments.
func positionalArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			continue
		}
		out = append(out, a)
	}
	return out
}

func usage() {
	fmt.Println(`usage: studyhub <command>

  login <email>                    sign in and store the session token
  logout                           forget the session token
  whoami                           show the signed-in user
  groups list [page]               list study groups, one page at a time
  groups show <id>                 refetch one group and show its details
  groups create <name> <desc> [emails...]
  groups delete <id>
  rooms list <group-id>            list the rooms of a group
  rooms create <group-id> <name>`)
}

func login(ctx context.Context, deps *bootstrap.Deps, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: login <email>")
	}
	fmt.Print("Password: ")
	pw, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	creds, err := deps.API.Login(ctx, args[0], strings.TrimSpace(pw))
	if err != nil {
		deps.Notify.Show(notify.KindError, errorBody(err))
		return err
	}
	if err := deps.Session.SetToken(creds.Token); err != nil {
		return err
	}
	deps.Notify.Show(notify.KindSuccess, "Signed in as "+creds.User.Name)
	flush(deps.Notify)
	return nil
}

func whoami(deps *bootstrap.Deps) error {
	user, ok := deps.Session.CurrentUser()
	if !ok {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}

func groups(ctx context.Context, cfg bootstrap.AppConfig, deps *bootstrap.Deps, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: groups list|create|delete")
	}
	switch args[0] {
	case "list":
		page := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("page %q is not a number", args[1])
			}
			page = n
		}
		if err := deps.Groups.List(ctx); err != nil {
			deps.Notify.Show(notify.KindError, errorBody(err))
			flush(deps.Notify)
			return err
		}
		return printGroupPage(deps.Groups, page, cfg.PageSize)

	case "show":
		if len(args) != 2 {
			return fmt.Errorf("usage: groups show <id>")
		}
		g, err := deps.Groups.Refresh(ctx, args[1])
		if err != nil {
			deps.Notify.Show(notify.KindError, errorBody(err))
			flush(deps.Notify)
			return err
		}
		fmt.Printf("%s\n%s\n", g.Name, g.Description)
		for _, m := range g.Members {
			fmt.Printf("  %s <%s>\n", m.Name, m.Email)
		}
		return nil

	case "create":
		if len(args) < 3 {
			return fmt.Errorf("usage: groups create <name> <desc> [emails...]")
		}
		created, err := deps.Groups.Create(ctx, groupstore.Draft{
			Name:         args[1],
			Description:  args[2],
			MemberEmails: args[3:],
		})
		if err != nil {
			deps.Notify.Show(notify.KindError, errorBody(err))
			flush(deps.Notify)
			return err
		}
		deps.Notify.Show(notify.KindSuccess, "Group created successfully")
		flush(deps.Notify)
		fmt.Println(created.ID)
		return nil

	case "delete":
		if len(args) != 2 {
			return fmt.Errorf("usage: groups delete <id>")
		}
		if err := deps.Groups.Remove(ctx, args[1]); err != nil {
			deps.Notify.Show(notify.KindError, errorBody(err))
			flush(deps.Notify)
			return err
		}
		deps.Notify.Show(notify.KindSuccess, "Group deleted successfully")
		flush(deps.Notify)
		return nil

	default:
		return fmt.Errorf("unknown groups command %q", args[0])
	}
}

func rooms(ctx context.Context, deps *bootstrap.Deps, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rooms list|create <group-id> ...")
	}
	deps.Rooms.SetGroup(args[1])

	switch args[0] {
	case "list":
		if err := deps.Rooms.List(ctx); err != nil {
			deps.Notify.Show(notify.KindError, errorBody(err))
			flush(deps.Notify)
			return err
		}
		for _, r := range deps.Rooms.Snapshot().Items {
			fmt.Printf("%s  %s\n", r.ID, r.Name)
		}
		return nil

	case "create":
		if len(args) != 3 {
			return fmt.Errorf("usage: rooms create <group-id> <name>")
		}
		created, err := deps.Rooms.Create(ctx, roomstore.Draft{Name: args[2]})
		if err != nil {
			deps.Notify.Show(notify.KindError, errorBody(err))
			flush(deps.Notify)
			return err
		}
		deps.Notify.Show(notify.KindSuccess, "Room created successfully")
		flush(deps.Notify)
		fmt.Println(created.ID)
		return nil

	default:
		return fmt.Errorf("unknown rooms command %q", args[0])
	}
}

// printGroupPage renders one page of the group list with the same
// pagination the web client shows.
func printGroupPage(store *groupstore.Store, page, limit int) error {
	window, meta := groupWindow(store.Snapshot().Items, page, limit)
	for _, g := range window {
		fmt.Printf("%s  %-24s %d members\n", g.ID, g.Name, len(g.Members))
	}
	fmt.Println(paging.FormatInfo(meta))
	fmt.Println(pageBar(meta.Page, meta.TotalPages))
	return nil
}

// groupWindow paginates the collection, falling back to the nearest
// valid page when the requested one is out of range.
func groupWindow(items []models.Group, page, limit int) ([]models.Group, paging.Meta) {
	window, meta := paging.Paginate(items, page, limit)
	if !paging.IsValidPage(page, meta.TotalPages) {
		window, meta = paging.Paginate(items, paging.SafePage(page, meta.TotalPages), limit)
	}
	return window, meta
}

// pageBar renders the ellipsized page strip, e.g. "1 ... 4 [5] 6 ... 10".
func pageBar(current, totalPages int) string {
	parts := make([]string, 0, 8)
	for _, p := range paging.RangeWithEllipsis(current, totalPages, 2) {
		switch {
		case p == paging.Ellipsis:
			parts = append(parts, "...")
		case p == current:
			parts = append(parts, fmt.Sprintf("[%d]", p))
		default:
			parts = append(parts, strconv.Itoa(p))
		}
	}
	return strings.Join(parts, " ")
}

// errorBody keeps notification text to the operator-facing message.
func errorBody(err error) string {
	var ge *gateway.Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	return err.Error()
}

// flush prints the visible notification the way the popup would show
// it. The CLI has no long-lived UI loop, so each command drains once.
func flush(s *notify.Scheduler) {
	n, ok := s.Visible()
	if !ok {
		return
	}
	fmt.Printf("%s: %s\n", n.Title, n.Body)
	s.Dismiss()
}
