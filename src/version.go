package ohm

// Version of the tools, distinct from the over the air ModeID: code can
// move without the protocol moving.
const Version = "1.0.0"
