package main

import (
	"flag"
	"time"
)

// Config holds all runtime configuration derived from flags (future: env vars / file).
type Config struct {
	ListenAddr     string
	BackendAddr    string
	DialTimeout    time.Duration
	PollInterval   time.Duration
	TerminalType   string
	MetricsAddr    string
	Debug          bool
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	GlobalConnRate int
	PerIPConnRate  int
	ConnBurst      int
}

var cfg Config

// init registers flags into the global flag set. main() simply parses and uses cfg.
func init() {
	flag.StringVar(&cfg.ListenAddr, "listen", ":9000", "address for inbound client connections")
	flag.StringVar(&cfg.BackendAddr, "backend", "127.0.0.1:2727", "telnet backend address sessions are bridged to")
	flag.DurationVar(&cfg.DialTimeout, "dial-timeout", 10*time.Second, "time limit for establishing the backend leg of a session")
	flag.DurationVar(&cfg.PollInterval, "poll-interval", 5*time.Millisecond, "per-direction socket poll window inside a bridge loop")
	flag.StringVar(&cfg.TerminalType, "terminal-type", "ansi-bbs", "terminal type reported in terminal-type subnegotiations")
	flag.StringVar(&cfg.MetricsAddr, "metrics", ":9100", "metrics and health listen address")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable debug logs")
	flag.StringVar(&cfg.RedisAddr, "redis", "", "optional redis address for mirroring the session table")
	flag.StringVar(&cfg.RedisPassword, "redis-password", "", "redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", 0, "redis database number")
	flag.IntVar(&cfg.GlobalConnRate, "max-conn-rate", 0, "global new-connection rate per second (0 = unlimited)")
	flag.IntVar(&cfg.PerIPConnRate, "max-conn-rate-per-ip", 0, "per-source-IP new-connection rate per second (0 = unlimited)")
	flag.IntVar(&cfg.ConnBurst, "conn-burst", 10, "burst size for connection rate limiting")
	flag.Parse()
}
