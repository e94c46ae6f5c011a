package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/01moynul/bookstore-cart/internal/backup"
	"github.com/01moynul/bookstore-cart/internal/cart"
	"github.com/01moynul/bookstore-cart/internal/cartapi"
	"github.com/01moynul/bookstore-cart/internal/catalog"
	"github.com/01moynul/bookstore-cart/internal/config"
	"github.com/01moynul/bookstore-cart/internal/database"
	"github.com/01moynul/bookstore-cart/internal/logger"
	"github.com/01moynul/bookstore-cart/internal/notify"
	"github.com/01moynul/bookstore-cart/internal/reconcile"
	"github.com/01moynul/bookstore-cart/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// sessionKey holds the logged-in session next to the cart backups.
const sessionKey = "cartctl_session"

// app is the cart core wired for one cartctl invocation.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	out     io.Writer
	kv      storage.Storage
	closeKV func() error

	http    *http.Client
	client  *cartapi.Client
	catalog *catalog.Snapshot
	store   *cart.Store
	session cartapi.Session
}

// openApp builds the app from .env and the process environment.
func openApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	zl, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	kv, closeKV, err := openStorage(ctx, cfg.Client)
	if err != nil {
		return nil, err
	}
	return newApp(ctx, cfg, zl, kv, closeKV, out)
}

// openStorage selects the durable key/value backend.
func openStorage(ctx context.Context, cfg config.ClientConfig) (storage.Storage, func() error, error) {
	switch cfg.Storage {
	case "sqlite":
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		kv := storage.NewSQL(db, storage.DialectSQLite)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return kv, db.Close, nil

	case "mysql":
		db, err := database.OpenDB(database.DriverMySQL, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open mysql storage: %w", err)
		}
		kv := storage.NewSQL(db, storage.DialectMySQL)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return kv, db.Close, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return storage.NewRedis(rdb, cfg.RedisPrefix), rdb.Close, nil

	case "memory":
		return storage.NewMemory(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown CART_STORAGE %q", cfg.Storage)
	}
}

func newApp(ctx context.Context, cfg config.Config, zl *zap.Logger, kv storage.Storage, closeKV func() error, out io.Writer) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  zl,
		out:     out,
		kv:      kv,
		closeKV: closeKV,
		http:    &http.Client{Timeout: cfg.Client.Timeout},
	}

	a.client = cartapi.NewClient(cfg.Client.APIURL,
		cartapi.WithHTTPClient(a.http),
		cartapi.WithToken(func() string { return a.session.Token }),
		cartapi.WithLogger(zl.Named("cartapi")),
	)

	bk := backup.NewStore(kv)
	a.catalog = catalog.NewSnapshot(kv)
	a.store = cart.NewStore(cart.Deps{
		Remote:     a.client,
		Backup:     bk,
		Reconciler: reconcile.New(bk, a.catalog, reconcile.WithLogger(zl.Named("reconcile"))),
		Notifier:   printer{w: out, log: notify.Log{Logger: zl.Named("notice")}},
		Localizer:  notify.NewLocalizer(cfg.Lang),
		Logger:     zl.Named("cart"),
	})

	if err := a.loadSession(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.closeKV()
}

// resume logs the stored session back into the cart, which loads it.
func (a *app) resume(ctx context.Context) error {
	if a.session.UserID == "" {
		return nil
	}
	return a.store.Login(ctx, a.session.UserID)
}

func (a *app) loadSession(ctx context.Context) error {
	raw, found, err := a.kv.Get(ctx, sessionKey)
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}
	if !found {
		return nil
	}
	if err := json.Unmarshal(raw, &a.session); err != nil {
		a.logger.Warn("discarding unreadable session", zap.Error(err))
		a.session = cartapi.Session{}
	}
	return nil
}

func (a *app) saveSession(ctx context.Context, s cartapi.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := a.kv.Set(ctx, sessionKey, raw); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	a.session = s
	return nil
}

func (a *app) clearSession(ctx context.Context) error {
	a.session = cartapi.Session{}
	return a.kv.Remove(ctx, sessionKey)
}

// printer shows notices on the command's output and records them in the log.
type printer struct {
	w   io.Writer
	log notify.Log
}

func (p printer) Notify(n notify.Notice) {
	fmt.Fprintf(p.w, "[%s] %s\n", n.Level, n.Message)
	p.log.Notify(n)
}

// errNotLoggedIn is reported by commands that need a session.
var errNotLoggedIn = errors.New("not logged in: run 'cartctl login' first")
