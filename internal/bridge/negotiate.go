package bridge

import "github.com/matst80/telbridge/internal/telnet"

// SubnegKind names the payload a reply must be followed by, if any.
type SubnegKind int

const (
	SubnegNone SubnegKind = iota
	SubnegLocation
	SubnegTerminalType
)

// Reply is the outbound answer to one inbound negotiation. A zero Action
// means the option is left unanswered.
type Reply struct {
	Action byte
	Subneg SubnegKind
}

// Decide maps an inbound (action, option) pair to the reciprocal response.
// Send-location and terminal-type are informational options answered
// affirmatively with payload; echo defaults to off unless requested;
// suppress-go-ahead and binary are accepted in both directions since the
// bridge is a plain byte pipe once established. Every other option is
// ignored. The table is stateless: repeated offers get the same answer.
func Decide(action, option byte) Reply {
	switch option {
	case telnet.OptSendLocation:
		switch action {
		case telnet.Do:
			return Reply{Action: telnet.Will, Subneg: SubnegLocation}
		case telnet.Dont:
			return Reply{Action: telnet.Wont}
		}
	case telnet.OptEcho:
		switch action {
		case telnet.Do:
			return Reply{Action: telnet.Will}
		case telnet.Dont:
			return Reply{Action: telnet.Wont}
		case telnet.Will:
			return Reply{Action: telnet.Do}
		case telnet.Wont:
			return Reply{Action: telnet.Dont}
		}
	case telnet.OptSuppressGoAhead, telnet.OptBinary:
		switch action {
		case telnet.Do, telnet.Dont:
			return Reply{Action: telnet.Will}
		case telnet.Will, telnet.Wont:
			return Reply{Action: telnet.Do}
		}
	case telnet.OptTerminalType:
		if action == telnet.Do {
			return Reply{Action: telnet.Will, Subneg: SubnegTerminalType}
		}
	}
	return Reply{}
}
