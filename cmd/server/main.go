package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/matst80/telbridge/internal/bridge"
	"github.com/matst80/telbridge/internal/obs"
	"github.com/matst80/telbridge/internal/ratelimit"
	"github.com/matst80/telbridge/internal/registry"
)

var ready atomic.Bool

func main() {
	flag.Parse()
	if cfg.Debug {
		obs.EnableDebug(true)
	}
	obs.Info("server.start", obs.Fields{"listen": cfg.ListenAddr, "backend": cfg.BackendAddr, "metrics": cfg.MetricsAddr})

	store, err := registry.NewStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		obs.Error("registry.store", obs.Fields{"err": err.Error()})
		os.Exit(1)
	}

	bridgeCfg := bridge.Config{
		BackendAddr:  cfg.BackendAddr,
		DialTimeout:  cfg.DialTimeout,
		PollInterval: cfg.PollInterval,
		TerminalType: cfg.TerminalType,
	}
	var reg *registry.Registry
	reg = registry.New(store, func(sess registry.Session, conn net.Conn) {
		bridge.New(bridgeCfg, sess, conn, reg.Mailbox()).Run()
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		obs.Error("listen.client", obs.Fields{"err": err.Error(), "addr": cfg.ListenAddr})
		os.Exit(1)
	}
	defer ln.Close()

	go startMetricsServer(cfg.MetricsAddr, store)

	limiter := ratelimit.NewConnLimiter(cfg.GlobalConnRate, cfg.PerIPConnRate, cfg.ConnBurst)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); reg.Run(ctx) }()
	wg.Add(1)
	go func() { defer wg.Done(); acceptClients(ctx, ln, reg, limiter) }()

	ready.Store(true)
	obs.Info("server.ready", obs.Fields{})

	<-ctx.Done()
	obs.Info("server.shutdown.signal", obs.Fields{})
	ready.Store(false)
	_ = ln.Close()
	wg.Wait()
	obs.Info("server.shutdown.complete", obs.Fields{})
}

// acceptClients hands every accepted socket to the registry actor as a
// Connect message; the actor mints the session and starts its bridge.
func acceptClients(ctx context.Context, ln net.Listener, reg *registry.Registry, limiter *ratelimit.ConnLimiter) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		c, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				obs.Error("accept.temp", obs.Fields{"err": err.Error()})
				continue
			}
			return
		}
		if ip := remoteIP(c); !limiter.Allow(ip) {
			obs.Warn("accept.rate_limited", obs.Fields{"addr": ip})
			obs.ErrorsTotal.WithLabelValues("rate_limited").Inc()
			_ = c.Close()
			continue
		}
		reg.Mailbox().Send(registry.Connect{Conn: c})
	}
}

func remoteIP(c net.Conn) string {
	if ra := c.RemoteAddr(); ra != nil {
		if host, _, err := net.SplitHostPort(ra.String()); err == nil {
			return host
		}
		return ra.String()
	}
	return ""
}
