package main

import "flag"

// Config holds mock backend runtime configuration.
type Config struct {
	ListenAddr string
	Echo       bool
}

var cfg Config

// init registers all mock backend flags into the default flag set.
func init() {
	flag.StringVar(&cfg.ListenAddr, "listen", "127.0.0.1:2727", "address to serve the fake telnet backend on")
	flag.BoolVar(&cfg.Echo, "echo", true, "echo received data back through the gateway")
	flag.Parse()
}
