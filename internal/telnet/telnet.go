// Package telnet implements the subset of the telnet wire protocol the
// gateway needs: IAC command framing, option negotiation and subnegotiation
// blocks, plus a non-blocking client connection to a telnet backend.
package telnet

// Telnet command codes.
const (
	IAC  byte = 255 // Interpret As Command
	Will byte = 251
	Wont byte = 252
	Do   byte = 253
	Dont byte = 254
	SB   byte = 250 // subnegotiation begin
	SE   byte = 240 // subnegotiation end
	GA   byte = 249 // go ahead
	NOP  byte = 241
)

// Telnet option codes recognized by the gateway.
const (
	OptBinary          byte = 0
	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
	OptSendLocation    byte = 23
	OptTerminalType    byte = 24
)

// OptionName returns a short label for metrics and logs.
func OptionName(opt byte) string {
	switch opt {
	case OptBinary:
		return "binary"
	case OptEcho:
		return "echo"
	case OptSuppressGoAhead:
		return "suppress-go-ahead"
	case OptSendLocation:
		return "send-location"
	case OptTerminalType:
		return "terminal-type"
	}
	return "other"
}

// ActionName returns a short label for a negotiation command byte.
func ActionName(cmd byte) string {
	switch cmd {
	case Will:
		return "will"
	case Wont:
		return "wont"
	case Do:
		return "do"
	case Dont:
		return "dont"
	}
	return "unknown"
}

// EventKind discriminates parser output.
type EventKind int

const (
	EventNoData EventKind = iota
	EventData
	EventNegotiation
	EventSubnegotiation
	EventCommand
)

// Event is one unit of decoded telnet input.
type Event struct {
	Kind    EventKind
	Command byte   // negotiation action or bare IAC command
	Option  byte   // for negotiation and subnegotiation events
	Data    []byte // for data and subnegotiation events
}

// EscapeIAC doubles IAC bytes so arbitrary data can cross the wire.
func EscapeIAC(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		out = append(out, b)
		if b == IAC {
			out = append(out, IAC)
		}
	}
	return out
}
