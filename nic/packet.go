// Package nic simulates a packet-switched network of machines. Every node
// runs its own clone of one program, is told its address on boot, and then
// exchanges packets of the form (destination, X, Y) through a router. A NAT
// listens on a reserved address and wakes the network when it goes idle.
//
// Routing is cooperative: each Round steps every node exactly once, in
// address order.
package nic

import "fmt"

// Default network parameters.
const (
	DefaultSize       = 50
	DefaultNATAddress = 255
	DefaultIdleInput  = -1
)

// Packet is one message between nodes. A node emits it as three consecutive
// outputs and receives X then Y as two consecutive inputs.
type Packet struct {
	Dest int64 `cbor:"1,keyasint"`
	X    int64 `cbor:"2,keyasint"`
	Y    int64 `cbor:"3,keyasint"`
}

func (p Packet) String() string {
	return fmt.Sprintf("%d<-(%d,%d)", p.Dest, p.X, p.Y)
}
