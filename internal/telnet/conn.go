package telnet

import (
	"net"
	"time"
)

// Conn is a client-side telnet connection. Reads are deadline-bounded polls
// so callers can interleave them with other socket work without blocking.
type Conn struct {
	c      net.Conn
	parser Parser
	queue  []Event
	rbuf   []byte
}

// Dial connects to a telnet peer with a bounded timeout.
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return NewConn(c), nil
}

// NewConn wraps an established connection.
func NewConn(c net.Conn) *Conn {
	return &Conn{c: c, rbuf: make([]byte, 256)}
}

// ReadEvent returns the next decoded event, waiting at most wait for new
// bytes. When nothing arrives it returns an EventNoData event with nil error;
// read failures other than a deadline expiry are returned to the caller.
func (c *Conn) ReadEvent(wait time.Duration) (Event, error) {
	if ev, ok := c.pop(); ok {
		return ev, nil
	}
	_ = c.c.SetReadDeadline(time.Now().Add(wait))
	n, err := c.c.Read(c.rbuf)
	if n > 0 {
		c.queue = append(c.queue, c.parser.Feed(c.rbuf[:n])...)
	}
	if ev, ok := c.pop(); ok {
		return ev, nil
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return Event{Kind: EventNoData}, nil
		}
		return Event{}, err
	}
	return Event{Kind: EventNoData}, nil
}

func (c *Conn) pop() (Event, bool) {
	if len(c.queue) == 0 {
		return Event{}, false
	}
	ev := c.queue[0]
	c.queue = c.queue[1:]
	return ev, true
}

// Write sends data bytes with IAC escaping applied.
func (c *Conn) Write(data []byte) error {
	_, err := c.c.Write(EscapeIAC(data))
	return err
}

// Negotiate sends IAC + action + option.
func (c *Conn) Negotiate(cmd, opt byte) error {
	_, err := c.c.Write([]byte{IAC, cmd, opt})
	return err
}

// Subnegotiate sends an IAC SB ... IAC SE block with an escaped payload.
func (c *Conn) Subnegotiate(opt byte, payload []byte) error {
	buf := make([]byte, 0, 5+len(payload))
	buf = append(buf, IAC, SB, opt)
	buf = append(buf, EscapeIAC(payload)...)
	buf = append(buf, IAC, SE)
	_, err := c.c.Write(buf)
	return err
}

// Close releases the underlying socket.
func (c *Conn) Close() error { return c.c.Close() }
