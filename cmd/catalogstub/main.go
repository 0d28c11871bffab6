// Command catalogstub serves the catalog REST API from a JSON seed so the
// cart can be exercised without a real backend.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikolayk812/cartstore/internal/catalog/catalogstub"
	"github.com/nikolayk812/cartstore/internal/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:embed seed.json
var defaultSeed []byte

func main() {
	addr := flag.String("addr", ":3333", "listen address")
	seedPath := flag.String("seed", "", "seed file, defaults to the built-in catalog")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.New(logger.Options{Service: "catalogstub", Level: *level})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := loadCatalog(*seedPath)
	if err != nil {
		log.WithError(err).Fatal("load seed")
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           otelhttp.NewHandler(c.Router(), "catalogstub"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithField("addr", *addr).Info("catalog stub listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("serve")
	}
}

func loadCatalog(path string) (*catalogstub.Catalog, error) {
	var r io.Reader = bytes.NewReader(defaultSeed)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("os.Open: %w", err)
		}
		defer f.Close()
		r = f
	}

	return catalogstub.LoadSeed(r)
}
