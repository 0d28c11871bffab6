// Command cartctl drives a persisted shopping cart from the shell:
//
//	cartctl list
//	cartctl add ID
//	cartctl remove ID
//	cartctl set ID AMOUNT
//	cartctl reset
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstore/internal/catalog"
	"github.com/nikolayk812/cartstore/internal/config"
	"github.com/nikolayk812/cartstore/internal/domain"
	"github.com/nikolayk812/cartstore/internal/logger"
	"github.com/nikolayk812/cartstore/internal/notify"
	"github.com/nikolayk812/cartstore/internal/port"
	"github.com/nikolayk812/cartstore/internal/repository"
	"github.com/nikolayk812/cartstore/internal/store"
	"github.com/nikolayk812/cartstore/internal/tracing"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
	exitSetup    = 3
)

var errUsage = errors.New("usage: cartctl list | add ID | remove ID | set ID AMOUNT | reset")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, err := parseCommand(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return exitSetup
	}

	log := logger.New(logger.Options{Service: "cartctl", Level: cfg.LogLevel, Out: stderr})

	shutdown, err := tracing.Init(ctx, tracing.Options{
		Service:  "cartctl",
		Version:  "v1.0.0",
		Exporter: cfg.TraceExporter,
		Endpoint: cfg.OTLPEndpoint,
		Out:      stderr,
	})
	if err != nil {
		log.WithError(err).Error("init tracing")
		return exitSetup
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.WithError(err).Warn("shutdown tracing")
		}
	}()

	cache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		log.WithError(err).WithField("backend", cfg.CacheBackend).Error("open cache")
		return exitSetup
	}
	defer closeCache()

	if cmd.name == "reset" {
		return reset(ctx, cache, cfg.CacheKey, stdout, log)
	}

	client, err := catalog.NewClient(cfg.CatalogURL, cfg.CatalogTimeout, catalog.WithLogger(log))
	if err != nil {
		log.WithError(err).Error("catalog client")
		return exitSetup
	}

	s := store.New(ctx, client, cache,
		store.WithKey(cfg.CacheKey),
		store.WithCurrency(cfg.Currency),
		store.WithLogger(log),
	)

	switch cmd.name {
	case "add":
		err = s.AddItem(ctx, cmd.productID)
	case "remove":
		err = s.RemoveItem(ctx, cmd.productID)
	case "set":
		err = s.SetAmount(ctx, cmd.productID, cmd.amount)
	}

	if notify.NewToaster(stderr, log).Notify(err) {
		return exitRejected
	}

	printCart(stdout, s, cfg.Locale)
	return exitOK
}

type command struct {
	name      string
	productID int64
	amount    int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errUsage
	}

	cmd := command{name: args[0]}

	want := map[string]int{"list": 1, "reset": 1, "add": 2, "remove": 2, "set": 3}
	n, ok := want[cmd.name]
	if !ok || len(args) != n {
		return command{}, errUsage
	}

	if n >= 2 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return command{}, fmt.Errorf("product id[%s]: %w", args[1], err)
		}
		cmd.productID = id
	}
	if n == 3 {
		amount, err := strconv.Atoi(args[2])
		if err != nil {
			return command{}, fmt.Errorf("amount[%s]: %w", args[2], err)
		}
		cmd.amount = amount
	}

	return cmd, nil
}

func openCache(ctx context.Context, cfg config.Config) (port.PersistentCache, func(), error) {
	noop := func() {}

	switch cfg.CacheBackend {
	case config.BackendMemory:
		return repository.NewMemoryCache(), noop, nil
	case config.BackendFile:
		cache, err := repository.NewFileCache(cfg.CacheDir)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewFileCache: %w", err)
		}
		return cache, noop, nil
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return repository.NewPostgresCache(pool, cfg.CacheTTL), pool.Close, nil
	case config.BackendRedis:
		client := repository.NewRedisClient(cfg.RedisAddr)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedisCache(client, cfg.CacheTTL), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("cache backend[%s] is not supported", cfg.CacheBackend)
	}
}

func reset(ctx context.Context, cache port.PersistentCache, key string, stdout io.Writer, log logrus.FieldLogger) int {
	deleter, ok := cache.(interface {
		Delete(ctx context.Context, key string) (bool, error)
	})
	if !ok {
		log.Error("cache backend cannot delete entries")
		return exitSetup
	}

	deleted, err := deleter.Delete(ctx, key)
	if err != nil {
		log.WithError(err).Error("delete cart")
		return exitSetup
	}

	if deleted {
		fmt.Fprintln(stdout, "cart cleared")
	} else {
		fmt.Fprintln(stdout, "cart already empty")
	}
	return exitOK
}

func printCart(w io.Writer, s *store.Store, locale language.Tag) {
	cart := s.Cart()
	if len(cart.Items) == 0 {
		fmt.Fprintln(w, "cart is empty")
		return
	}

	total := s.Total()
	money := func(item domain.LineItem) string {
		return domain.Money{Amount: item.Subtotal(), Currency: total.Currency}.Format(locale)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCT\tAMOUNT\tSUBTOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", item.ID, item.Title, item.Amount, money(item))
	}
	fmt.Fprintf(tw, "\t%d item(s)\t\t%s\n", s.Count(), total.Format(locale))
	_ = tw.Flush()
}
