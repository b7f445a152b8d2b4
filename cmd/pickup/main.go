package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"

	"github.com/RoyceAzure/lab/pickup/internal/cart"
	"github.com/RoyceAzure/lab/pickup/internal/client"
	"github.com/RoyceAzure/lab/pickup/internal/constants"
	"github.com/RoyceAzure/lab/pickup/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

const usage = `usage: pickup [flags] <command> [args]

commands:
  menu                          列出菜單
  add <id> [qty]                加入購物車
  remove <n>                    移除第 n 行 (從 1 開始)
  cart                          顯示購物車
  clear                         清空購物車
  checkout -name N -phone P     送出訂單
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type cli struct {
	api *client.Client
	acc *cart.Accumulator
	out io.Writer
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("pickup", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { fmt.Fprint(out, usage); fs.PrintDefaults() }

	server := fs.String("server", envOr("PICKUP_SERVER", "http://localhost:3000"), "ordering server base url")
	cartDir := fs.String("cart-dir", envOr("PICKUP_CART_DIR", defaultCartDir()), "directory for the local cart file")
	cartKey := fs.String("cart-key", constants.DefaultCartKey, "cart key")
	redisAddr := fs.String("redis", os.Getenv("PICKUP_CART_REDIS"), "keep the cart in redis instead of a local file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	var store cart.Store
	if *redisAddr != "" {
		rc := redis.NewClient(&redis.Options{Addr: *redisAddr})
		defer rc.Close()
		store = cart.NewRedisStore(rc)
	} else {
		fileStore, err := cart.NewFileStore(*cartDir)
		if err != nil {
			return err
		}
		store = fileStore
	}

	c := &cli{
		api: client.New(*server),
		acc: cart.NewAccumulator(store, *cartKey),
		out: out,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "menu":
		return c.menu(ctx)
	case "add":
		return c.add(ctx, rest)
	case "remove":
		return c.remove(ctx, rest)
	case "cart":
		return c.show(ctx)
	case "clear":
		if err := c.acc.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "cart cleared")
		return nil
	case "checkout":
		return c.checkout(ctx, rest)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *cli) menu(ctx context.Context) error {
	items, err := c.api.Menu(ctx)
	if err != nil {
		return err
	}
	category := ""
	for _, it := range items {
		if it.Category != category {
			category = it.Category
			fmt.Fprintf(c.out, "\n%s\n", category)
		}
		fmt.Fprintf(c.out, "  %3d  %-24s %8s\n", it.ID, it.Name, model.Cents(it.PriceCents))
	}
	return nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: add <id> [qty]")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}
	qty := int64(1)
	if len(args) == 2 {
		qty, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
	}

	// 名稱只用來顯示, 價格在下單時由伺服器計算
	items, err := c.api.Menu(ctx)
	if err != nil {
		return err
	}
	name := ""
	for _, it := range items {
		if it.ID == id {
			name = it.Name
			break
		}
	}
	if name == "" {
		return fmt.Errorf("item %d is not on the menu", id)
	}

	lines, err := c.acc.Add(ctx, id, name, qty)
	if err != nil {
		return err
	}
	added := lines[len(lines)-1]
	fmt.Fprintf(c.out, "added %d x %s\n", added.Quantity, added.Name)
	return nil
}

func (c *cli) remove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: remove <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid line number %q", args[0])
	}
	if _, err := c.acc.Remove(ctx, n-1); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "removed line %d\n", n)
	return nil
}

func (c *cli) show(ctx context.Context) error {
	lines, err := c.acc.Lines(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(c.out, "cart is empty")
		return nil
	}
	var total int64
	for i, l := range lines {
		fmt.Fprintf(c.out, "%2d. %3d x %s\n", i+1, l.Quantity, l.Name)
		total += l.Quantity
	}
	fmt.Fprintf(c.out, "%d item(s)\n", total)
	return nil
}

func (c *cli) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(c.out)
	name := fs.String("name", "", "name for the pick-up order")
	phone := fs.String("phone", "", "contact phone")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payload, err := c.acc.OrderPayload(ctx)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return errors.New("cart is empty")
	}

	res, err := c.api.PlaceOrder(ctx, *name, *phone, payload)
	if err != nil {
		return err
	}

	// 只有下單成功才清空
	if err := c.acc.Clear(ctx); err != nil {
		return fmt.Errorf("order %s placed but cart was not cleared: %w", res.OrderID, err)
	}
	fmt.Fprintf(c.out, "order %s placed, total %s\n", res.OrderID, model.Cents(res.TotalCents))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultCartDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".pickup"
	}
	return filepath.Join(dir, "pickup")
}
