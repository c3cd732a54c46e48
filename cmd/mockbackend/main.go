// mockbackend is a stand-in telnet service for exercising the gateway
// locally: it negotiates the options a BBS front door typically wants,
// prints a CP437 banner and echoes whatever arrives.
package main

import (
	"flag"
	"log"
	"net"

	"github.com/matst80/telbridge/internal/telnet"
)

func main() {
	flag.Parse()
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		log.Fatalf("listen on %s: %v", cfg.ListenAddr, err)
	}
	log.Printf("mock telnet backend listening on %s", cfg.ListenAddr)
	for {
		c, err := ln.Accept()
		if err != nil {
			log.Printf("accept: %v", err)
			continue
		}
		go handleConn(c)
	}
}

func handleConn(c net.Conn) {
	defer c.Close()
	log.Printf("gateway connected: %s", c.RemoteAddr())

	// Ask for the options a BBS front door usually wants.
	for _, neg := range [][2]byte{
		{telnet.Do, telnet.OptTerminalType},
		{telnet.Do, telnet.OptSendLocation},
		{telnet.Will, telnet.OptEcho},
		{telnet.Will, telnet.OptSuppressGoAhead},
	} {
		if _, err := c.Write([]byte{telnet.IAC, neg[0], neg[1]}); err != nil {
			log.Printf("negotiate write: %v", err)
			return
		}
	}

	if _, err := c.Write(banner()); err != nil {
		log.Printf("banner write: %v", err)
		return
	}

	var p telnet.Parser
	buf := make([]byte, 256)
	for {
		n, err := c.Read(buf)
		if err != nil {
			log.Printf("gateway gone: %v", err)
			return
		}
		for _, ev := range p.Feed(buf[:n]) {
			switch ev.Kind {
			case telnet.EventData:
				if cfg.Echo {
					if _, err := c.Write(telnet.EscapeIAC(ev.Data)); err != nil {
						log.Printf("echo write: %v", err)
						return
					}
				}
			case telnet.EventNegotiation:
				log.Printf("negotiation from %s: %s %s", c.RemoteAddr(), telnet.ActionName(ev.Command), telnet.OptionName(ev.Option))
			case telnet.EventSubnegotiation:
				log.Printf("subnegotiation %s: %q", telnet.OptionName(ev.Option), ev.Data)
			}
		}
	}
}

// banner builds a double-line CP437 box around the greeting, the kind of
// bytes a real BBS would serve.
func banner() []byte {
	const text = " telbridge mock backend "
	width := len(text)
	b := make([]byte, 0, (width+4)*3)
	b = append(b, 0xC9)
	for i := 0; i < width; i++ {
		b = append(b, 0xCD)
	}
	b = append(b, 0xBB, '\r', '\n', 0xBA)
	b = append(b, []byte(text)...)
	b = append(b, 0xBA, '\r', '\n', 0xC8)
	for i := 0; i < width; i++ {
		b = append(b, 0xCD)
	}
	b = append(b, 0xBC, '\r', '\n')
	return b
}
