// Package oob handles the telnet side channel: option negotiation, echo
// control for password prompts, GMCP structured messages and MSSP status
// for MUD crawlers.
package oob

// Capabilities tracks which telnet options a connection has agreed to.
type Capabilities struct {
	GMCP bool // GMCP (telopt 201) negotiated
	MSSP bool // MSSP (telopt 70) requested
}

// HasAny returns true if any option was negotiated.
func (c *Capabilities) HasAny() bool {
	return c != nil && (c.GMCP || c.MSSP)
}
