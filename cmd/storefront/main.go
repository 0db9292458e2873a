// Command storefront is the local-first Sales Matrix client.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/goccy/go-json"

	"github.com/salesmatrix/sales-matrix/internal/account"
	"github.com/salesmatrix/sales-matrix/internal/ai"
	"github.com/salesmatrix/sales-matrix/internal/catalog"
	"github.com/salesmatrix/sales-matrix/internal/chat"
	"github.com/salesmatrix/sales-matrix/internal/config"
	"github.com/salesmatrix/sales-matrix/internal/kvstore/badgerkv"
	"github.com/salesmatrix/sales-matrix/internal/otp"
	"github.com/salesmatrix/sales-matrix/internal/presence"
	"github.com/salesmatrix/sales-matrix/internal/remote"
	"github.com/salesmatrix/sales-matrix/internal/session"
	"github.com/salesmatrix/sales-matrix/internal/shop"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// ---- data dir ----

func dataDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "salesmatrix")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "salesmatrix")
}

// ---- utils ----

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func usage() {
	fmt.Fprintf(os.Stderr, `storefront CLI
Usage:
  storefront [-data DIR] [-remote URL] <cmd> [args]

Commands:
  version
  signup     -u <username> -e <email> -p <password>    (sends a code)
  verify     -u <username> -e <email> -p <password> -code <code>
  login      -u <username-or-email> -p <password>
  logout
  whoami
  users
  activities
  set-username  -u <new name>
  set-password  -p <new password>
  set-picture   -file <image>
  products   [-search q] [-min n] [-max n] [-rating n] [-sort mode]
  cart       [add -id N | rm -id N]
  wishlist   [toggle -id N | rm -id N]
  compare    [toggle -id N]
  chat       -with <user> [-send <text>]
  contacts   [toggle -u <user>]
  presence   -u <user>
  beat       [-for <duration>]
  ai         [-ask <text> | -clear]
`)
	os.Exit(2)
}

// app bundles the client services over one open store.
type app struct {
	store     *badgerkv.Store
	sessions  *session.Manager
	accounts  *account.Service
	catalog   *catalog.Provider
	shop      *shop.Lists
	chat      *chat.Session
	presence  *presence.Tracker
	assistant *ai.Assistant
}

func newApp(dir, remoteURL string) (*app, error) {
	store, err := badgerkv.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger := zap.NewNop()
	mirror := remote.New(remoteURL, &http.Client{})
	sessions := session.New(store)
	codes := otp.New(store, mirror, logger)
	return &app{
		store:     store,
		sessions:  sessions,
		accounts:  account.New(store, mirror, sessions, codes, logger),
		catalog:   catalog.New(store, mirror, logger),
		shop:      shop.New(store),
		chat:      chat.New(store),
		presence:  presence.New(store, mirror, logger),
		assistant: ai.New(store, mirror, logger),
	}, nil
}

func (a *app) close() { _ = a.store.Close() }

// currentUsername fails the process when nobody is signed in.
func (a *app) currentUsername() string {
	name, ok := a.sessions.CurrentName()
	if !ok {
		fail(fmt.Errorf("not logged in"))
	}
	return name
}

// main dispatches subcommands against the local store and the optional mirror.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	defDir := cfg.Client.DataDir
	if defDir == "" {
		defDir = dataDir()
	}

	// global flags
	dir := flag.String("data", defDir, "data directory")
	remoteURL := flag.String("remote", cfg.Client.RemoteURL, "mirror base URL (empty = offline)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	if cmd == "version" {
		fmt.Printf("storefront %s (%s)\n", version, buildDate)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(*dir, *remoteURL)
	if err != nil {
		fail(err)
	}
	defer a.close()

	switch cmd {

	case "signup":
		fs := flag.NewFlagSet("signup", flag.ExitOnError)
		u := fs.String("u", "", "username")
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *e == "" || *p == "" {
			fail(fmt.Errorf("need -u, -e and -p"))
		}
		code, err := a.accounts.BeginSignup(ctx, *u, *e, *p)
		if err != nil {
			fail(err)
		}
		// The code prints here when no mailer is reachable; the mirror
		// delivers it by email when one is.
		fmt.Printf("verification code sent to %s (code: %s)\n", *e, code)

	case "verify":
		fs := flag.NewFlagSet("verify", flag.ExitOnError)
		u := fs.String("u", "", "username")
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		code := fs.String("code", "", "verification code")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *e == "" || *p == "" || *code == "" {
			fail(fmt.Errorf("need -u, -e, -p and -code"))
		}
		user, err := a.accounts.CompleteSignup(ctx, *u, *e, *p, *code)
		if err != nil {
			fail(err)
		}
		fmt.Printf("welcome, %s\n", user.Username)

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		u := fs.String("u", "", "username or email")
		p := fs.String("p", "", "password")
		_ = fs.Parse(flag.Args()[1:])
		if *u == "" || *p == "" {
			fail(fmt.Errorf("need -u and -p"))
		}
		user, err := a.accounts.LogIn(ctx, *u, *p)
		if err != nil {
			fail(err)
		}
		_ = a.presence.Heartbeat(ctx, user.Username)
		fmt.Printf("hi, %s\n", user.Username)

	case "logout":
		if err := a.accounts.LogOut(); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "whoami":
		user, ok := a.sessions.Current()
		if !ok {
			fail(fmt.Errorf("not logged in"))
		}
		printJSON(user)

	case "users":
		cmdUsers(ctx, a)
	case "activities":
		printJSON(a.accounts.Activities())
	case "set-username":
		cmdSetUsername(ctx, a, flag.Args()[1:])
	case "set-password":
		cmdSetPassword(ctx, a, flag.Args()[1:])
	case "set-picture":
		cmdSetPicture(ctx, a, flag.Args()[1:])
	case "products":
		cmdProducts(ctx, a, flag.Args()[1:])
	case "cart":
		cmdCart(ctx, a, flag.Args()[1:])
	case "wishlist":
		cmdWishlist(ctx, a, flag.Args()[1:])
	case "compare":
		cmdCompare(ctx, a, flag.Args()[1:])
	case "chat":
		cmdChat(a, flag.Args()[1:])
	case "contacts":
		cmdContacts(a, flag.Args()[1:])
	case "presence":
		cmdPresence(a, flag.Args()[1:])
	case "beat":
		cmdBeat(ctx, a, flag.Args()[1:])
	case "ai":
		cmdAI(ctx, a, flag.Args()[1:])
	default:
		usage()
	}
}

// cmdBeat keeps the heartbeat loop running for the signed-in user.
func cmdBeat(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("beat", flag.ExitOnError)
	dur := fs.Duration("for", 0, "how long to run (0 = until interrupted)")
	_ = fs.Parse(args)

	name := a.currentUsername()
	runCtx := ctx
	if *dur > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, *dur)
		defer cancel()
	}
	fmt.Printf("heartbeating as %s every %s\n", name, presence.HeartbeatInterval)
	a.presence.Run(runCtx, name)
}

func cmdPresence(a *app, args []string) {
	fs := flag.NewFlagSet("presence", flag.ExitOnError)
	u := fs.String("u", "", "username")
	_ = fs.Parse(args)
	if *u == "" {
		fail(fmt.Errorf("need -u"))
	}
	last, ok := a.presence.LastSeen(*u)
	out := map[string]any{"username": *u, "online": a.presence.Online(*u)}
	if ok {
		out["lastSeen"] = last.UTC().Format(time.RFC3339)
	}
	printJSON(out)
}
