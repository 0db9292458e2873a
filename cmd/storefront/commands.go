package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/salesmatrix/sales-matrix/internal/catalog"
)

func cmdUsers(ctx context.Context, a *app) {
	type row struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Online   bool   `json:"online"`
	}
	rows := []row{}
	for _, u := range a.accounts.Users(ctx) {
		rows = append(rows, row{
			Username: u.Username,
			Email:    u.Email,
			Online:   a.presence.Online(u.Username),
		})
	}
	printJSON(rows)
}

func cmdSetUsername(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("set-username", flag.ExitOnError)
	u := fs.String("u", "", "new username")
	_ = fs.Parse(args)
	if *u == "" {
		fail(fmt.Errorf("need -u"))
	}
	if err := a.accounts.UpdateUsername(ctx, *u); err != nil {
		fail(err)
	}
	fmt.Println("ok")
}

func cmdSetPassword(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("set-password", flag.ExitOnError)
	p := fs.String("p", "", "new password")
	_ = fs.Parse(args)
	if *p == "" {
		fail(fmt.Errorf("need -p"))
	}
	if err := a.accounts.UpdatePassword(ctx, *p); err != nil {
		fail(err)
	}
	fmt.Println("ok")
}

func cmdSetPicture(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("set-picture", flag.ExitOnError)
	file := fs.String("file", "", "image file")
	_ = fs.Parse(args)
	if *file == "" {
		fail(fmt.Errorf("need -file"))
	}
	raw, err := os.ReadFile(*file)
	if err != nil {
		fail(err)
	}
	mt := mime.TypeByExtension(filepath.Ext(*file))
	if mt == "" {
		mt = "application/octet-stream"
	}
	uri := "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(raw)
	if err := a.accounts.UpdatePicture(ctx, uri); err != nil {
		fail(err)
	}
	fmt.Println("ok")
}

func cmdProducts(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	search := fs.String("search", "", "name/description query")
	min := fs.Float64("min", 0, "minimum price")
	max := fs.Float64("max", -1, "maximum price (-1 = unbounded)")
	rating := fs.Int("rating", 0, "minimum rating")
	sortMode := fs.String("sort", "", "price-asc|price-desc|rating|newest")
	id := fs.Int("id", 0, "show a single product")
	_ = fs.Parse(args)

	products := a.catalog.Load(ctx)
	if *id != 0 {
		p, ok := catalog.FindByID(products, *id)
		if !ok {
			fail(fmt.Errorf("product %d not found", *id))
		}
		printJSON(p)
		return
	}
	if *search != "" {
		products = catalog.Search(products, *search)
	}
	products = catalog.FilterByPrice(products, *min, *max)
	if *rating > 0 {
		products = catalog.FilterByRating(products, *rating)
	}
	if *sortMode != "" {
		products = catalog.SortBy(products, *sortMode)
	}
	printJSON(products)
}

// requireID parses a mandatory -id flag.
func requireID(fs *flag.FlagSet, args []string) int {
	id := fs.Int("id", 0, "product id")
	_ = fs.Parse(args)
	if *id == 0 {
		fail(fmt.Errorf("need -id"))
	}
	return *id
}

func cmdCart(ctx context.Context, a *app, args []string) {
	if len(args) == 0 {
		printJSON(a.shop.Cart())
		return
	}
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("cart add", flag.ExitOnError)
		id := requireID(fs, args[1:])
		p, ok := catalog.FindByID(a.catalog.Load(ctx), id)
		if !ok {
			fail(fmt.Errorf("product %d not found", id))
		}
		if err := a.shop.AddToCart(p); err != nil {
			fail(err)
		}
		fmt.Printf("cart: %d items\n", a.shop.CartCount())
	case "rm":
		fs := flag.NewFlagSet("cart rm", flag.ExitOnError)
		id := requireID(fs, args[1:])
		if err := a.shop.RemoveFromCart(id); err != nil {
			fail(err)
		}
		fmt.Printf("cart: %d items\n", a.shop.CartCount())
	default:
		fail(fmt.Errorf("cart: unknown subcommand %q", args[0]))
	}
}

func cmdWishlist(ctx context.Context, a *app, args []string) {
	if len(args) == 0 {
		printJSON(a.shop.Wishlist())
		return
	}
	switch args[0] {
	case "toggle":
		fs := flag.NewFlagSet("wishlist toggle", flag.ExitOnError)
		id := requireID(fs, args[1:])
		p, ok := catalog.FindByID(a.catalog.Load(ctx), id)
		if !ok {
			fail(fmt.Errorf("product %d not found", id))
		}
		added, err := a.shop.ToggleWishlist(p)
		if err != nil {
			fail(err)
		}
		if added {
			fmt.Println("added")
		} else {
			fmt.Println("removed")
		}
	case "rm":
		fs := flag.NewFlagSet("wishlist rm", flag.ExitOnError)
		id := requireID(fs, args[1:])
		if err := a.shop.RemoveFromWishlist(id); err != nil {
			fail(err)
		}
		fmt.Println("removed")
	default:
		fail(fmt.Errorf("wishlist: unknown subcommand %q", args[0]))
	}
}

func cmdCompare(ctx context.Context, a *app, args []string) {
	if len(args) == 0 {
		printJSON(a.shop.Compare())
		return
	}
	if args[0] != "toggle" {
		fail(fmt.Errorf("compare: unknown subcommand %q", args[0]))
	}
	fs := flag.NewFlagSet("compare toggle", flag.ExitOnError)
	id := requireID(fs, args[1:])
	p, ok := catalog.FindByID(a.catalog.Load(ctx), id)
	if !ok {
		fail(fmt.Errorf("product %d not found", id))
	}
	added, err := a.shop.ToggleCompare(p)
	if err != nil {
		fail(err)
	}
	if added {
		fmt.Println("added")
	} else {
		fmt.Println("removed")
	}
}

func cmdChat(a *app, args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	with := fs.String("with", "", "peer username")
	send := fs.String("send", "", "message text")
	_ = fs.Parse(args)
	if *with == "" {
		fail(fmt.Errorf("need -with"))
	}
	me := a.currentUsername()
	if *send != "" {
		if err := a.chat.Send(me, *with, *send); err != nil {
			fail(err)
		}
	}
	printJSON(a.chat.History(me, *with))
}

func cmdContacts(a *app, args []string) {
	if len(args) == 0 {
		printJSON(a.chat.SavedContacts())
		return
	}
	if args[0] != "toggle" {
		fail(fmt.Errorf("contacts: unknown subcommand %q", args[0]))
	}
	fs := flag.NewFlagSet("contacts toggle", flag.ExitOnError)
	u := fs.String("u", "", "username")
	_ = fs.Parse(args[1:])
	if *u == "" {
		fail(fmt.Errorf("need -u"))
	}
	saved, err := a.chat.ToggleContact(*u)
	if err != nil {
		fail(err)
	}
	if saved {
		fmt.Println("saved")
	} else {
		fmt.Println("removed")
	}
}

func cmdAI(ctx context.Context, a *app, args []string) {
	fs := flag.NewFlagSet("ai", flag.ExitOnError)
	ask := fs.String("ask", "", "question text")
	clear := fs.Bool("clear", false, "clear the conversation")
	_ = fs.Parse(args)

	if *clear {
		if err := a.assistant.ClearHistory(); err != nil {
			fail(err)
		}
		fmt.Println("cleared")
		return
	}
	if *ask != "" {
		fmt.Println(a.assistant.Ask(ctx, *ask))
		return
	}
	printJSON(a.assistant.History())
}
