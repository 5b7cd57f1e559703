package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/spiritual"
	"github.com/aretw0/spiritual/internal/adapters/file"
	"github.com/aretw0/spiritual/internal/adapters/redis"
	"github.com/aretw0/spiritual/internal/config"
	"github.com/aretw0/spiritual/pkg/adapters/loam"
	"github.com/aretw0/spiritual/pkg/adapters/memory"
	"github.com/aretw0/spiritual/pkg/ports"
	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

// newEngine builds the engine from configuration. closeFn releases the
// store connection, if any.
func (c *cli) newEngine(reg prometheus.Registerer) (eng *spiritual.Engine, closeFn func() error, err error) {
	closeFn = func() error { return nil }
	opts := []spiritual.Option{spiritual.WithLogger(c.logger)}

	switch c.cfg.Store {
	case config.StoreFile:
		if err := c.cfg.EnsureDirs(); err != nil {
			return nil, nil, err
		}
		opts = append(opts, spiritual.WithProfileStore(file.New(c.cfg.Profiles(), file.WithLogger(c.logger))))
	case config.StoreRedis:
		store := redis.New(c.cfg.Redis.Addr, c.cfg.Redis.Password, c.cfg.Redis.DB,
			redis.WithPrefix(c.cfg.Redis.Prefix),
			redis.WithTTL(c.cfg.Redis.TTL),
		)
		closeFn = store.Close
		opts = append(opts,
			spiritual.WithProfileStore(store),
			spiritual.WithLocker(redis.NewLocker(store.Client(), c.cfg.Redis.Prefix)),
		)
	case config.StoreMemory:
		opts = append(opts, spiritual.WithProfileStore(memory.NewStore()))
	}

	source, err := c.catalogSource()
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	opts = append(opts, spiritual.WithCatalogSource(source))

	key, err := c.cfg.Key()
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	if key != nil {
		opts = append(opts, spiritual.WithEncryption(key))
	}
	if reg != nil {
		opts = append(opts, spiritual.WithMetrics(reg))
	}

	eng, err = spiritual.New(opts...)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return eng, closeFn, nil
}

func (c *cli) catalogSource() (ports.CatalogSource, error) {
	switch c.cfg.Catalog {
	case config.CatalogLoam:
		return loam.Open(c.cfg.CatalogDir)
	case config.CatalogFile:
		return file.NewSource(c.cfg.CatalogDir), nil
	}
	return nil, fmt.Errorf("%w: unknown catalog %q", config.ErrInvalidConfig, c.cfg.Catalog)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// colorProfile picks colors for terminals and plain text otherwise.
func colorProfile(w io.Writer) termenv.Profile {
	if isTerminal(w) {
		return termenv.EnvColorProfile()
	}
	return termenv.Ascii
}
