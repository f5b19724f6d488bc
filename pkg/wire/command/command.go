package command

// Size is the fixed size of a command field in the message header.
// Shorter commands are padded with trailing NUL bytes on the wire.
const Size = 12

// Type represents a message command name.
type Type string

// Viable commands. Commands not listed here pass through the
// dispatcher untouched.
const (
	Version    Type = "version"
	Verack     Type = "verack"
	Ping       Type = "ping"
	Pong       Type = "pong"
	GetHeaders Type = "getheaders"
	Headers    Type = "headers"
	Inv        Type = "inv"
)
