package oob

// Telnet protocol constants.
const (
	IAC  byte = 255 // Interpret As Command
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250 // Subnegotiation Begin
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240 // Subnegotiation End

	TeloptEcho byte = 1
	TeloptGMCP byte = 201
	TeloptMSSP byte = 70

	// MSSP variable/value markers.
	MSSPVar byte = 1
	MSSPVal byte = 2
)

// EchoOff asks the client to stop echoing typed characters, so passwords
// are not shown.
func EchoOff() []byte { return []byte{IAC, WILL, TeloptEcho} }

// EchoOn restores local echo.
func EchoOn() []byte { return []byte{IAC, WONT, TeloptEcho, '\r', '\n'} }

// Strip removes telnet commands, subnegotiations and control characters
// other than tab from a received line. Bytes of multi-byte encodings pass
// through untouched.
func Strip(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == IAC && i+1 < len(b):
			switch b[i+1] {
			case IAC:
				out = append(out, IAC)
				i++
			case SB:
				// skip to IAC SE
				j := i + 2
				for j+1 < len(b) && !(b[j] == IAC && b[j+1] == SE) {
					j++
				}
				i = j + 1
			case DO, DONT, WILL, WONT:
				i += 2
			default:
				i++
			}
		case c == IAC:
		case c < 32 && c != '\t':
		case c == 127:
		default:
			out = append(out, c)
		}
	}
	return out
}
