package telnet

// Parser is an incremental decoder for the telnet byte stream. It is fed raw
// reads in whatever chunks the socket yields and emits complete events;
// sequences split across reads are carried in the parser state.
type Parser struct {
	state  int
	cmd    byte
	subOpt byte
	data   []byte
	sub    []byte
}

const (
	stData = iota
	stIAC
	stNeg
	stSubOpt
	stSub
	stSubIAC
)

// Feed consumes a chunk of raw input and returns the events completed by it.
// Plain data accumulated within the chunk is flushed as a single Data event;
// nothing is held back across calls except incomplete IAC sequences.
func (p *Parser) Feed(in []byte) []Event {
	var events []Event
	flush := func() {
		if len(p.data) > 0 {
			events = append(events, Event{Kind: EventData, Data: p.data})
			p.data = nil
		}
	}
	for _, b := range in {
		switch p.state {
		case stData:
			if b == IAC {
				p.state = stIAC
			} else {
				p.data = append(p.data, b)
			}
		case stIAC:
			switch b {
			case IAC: // escaped data byte
				p.data = append(p.data, IAC)
				p.state = stData
			case Will, Wont, Do, Dont:
				p.cmd = b
				p.state = stNeg
			case SB:
				p.state = stSubOpt
			default:
				flush()
				events = append(events, Event{Kind: EventCommand, Command: b})
				p.state = stData
			}
		case stNeg:
			flush()
			events = append(events, Event{Kind: EventNegotiation, Command: p.cmd, Option: b})
			p.state = stData
		case stSubOpt:
			p.subOpt = b
			p.sub = nil
			p.state = stSub
		case stSub:
			if b == IAC {
				p.state = stSubIAC
			} else {
				p.sub = append(p.sub, b)
			}
		case stSubIAC:
			switch b {
			case IAC: // escaped payload byte
				p.sub = append(p.sub, IAC)
				p.state = stSub
			case SE:
				flush()
				events = append(events, Event{Kind: EventSubnegotiation, Option: p.subOpt, Data: p.sub})
				p.sub = nil
				p.state = stData
			default:
				// Stray IAC inside a subnegotiation; drop it and keep collecting.
				p.state = stSub
			}
		}
	}
	flush()
	return events
}
