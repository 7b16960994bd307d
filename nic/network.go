package nic

import (
	"context"
	"errors"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/intcode/vm"
)

var (
	// ErrBoot is returned when a node does not ask for its address first.
	ErrBoot = errors.New("nic: node did not request its address on boot")

	// ErrAllHalted is returned when every node has halted and nothing can
	// change any more.
	ErrAllHalted = errors.New("nic: every node has halted")

	// ErrDeadlock is returned when the network is idle, nothing was sent in
	// the last round, and the NAT holds no packet to wake it with.
	ErrDeadlock = errors.New("nic: network is idle with nothing left to deliver")
)

// Config describes a network. Start from DefaultConfig; Trace, Metrics and
// Logger are optional.
type Config struct {
	Size       int   // number of nodes, addressed 0..Size-1
	NATAddress int64 // address the NAT listens on
	IdleInput  int64 // value a node reads when it has nothing queued

	Trace   *Trace
	Metrics *Metrics
	Logger  commonlog.Logger
}

// DefaultConfig returns a 50-node network with the NAT at 255 and -1 as the
// idle input.
func DefaultConfig() Config {
	return Config{
		Size:       DefaultSize,
		NATAddress: DefaultNATAddress,
		IdleInput:  DefaultIdleInput,
	}
}

// ---------------------------------------------------------------------------
// node: one machine plus its input and output framing
// ---------------------------------------------------------------------------

type node struct {
	addr    int64
	machine *vm.Machine
	queue   []Packet // delivered, not yet read
	pending []int64  // rest of the packet currently being read
	out     []int64  // partial packet being written
	polling bool     // last input was the idle value and nothing was sent since
	halted  bool
}

func (n *node) idle() bool {
	if n.halted {
		return len(n.queue) == 0
	}
	return n.polling && len(n.queue) == 0 && len(n.pending) == 0 && len(n.out) == 0
}

// step advances the node's machine to its next event and returns a packet if
// that event completed one.
func (n *node) step(idleInput int64) (*Packet, error) {
	if n.halted {
		return nil, nil
	}
	o, err := n.machine.Step()
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", n.addr, err)
	}

	switch o.Kind {
	case vm.Halted:
		n.halted = true
	case vm.NeedsInput:
		v := idleInput
		switch {
		case len(n.pending) > 0:
			v, n.pending = n.pending[0], n.pending[1:]
			n.polling = false
		case len(n.queue) > 0:
			p := n.queue[0]
			n.queue = n.queue[1:]
			v, n.pending = p.X, []int64{p.Y}
			n.polling = false
		default:
			n.polling = true
		}
		if err := o.Request.Supply(v); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.addr, err)
		}
	case vm.Output:
		n.polling = false
		n.out = append(n.out, o.Value)
		if len(n.out) == 3 {
			p := Packet{Dest: n.out[0], X: n.out[1], Y: n.out[2]}
			n.out = n.out[:0]
			return &p, nil
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Network
// ---------------------------------------------------------------------------

// Network is a fixed pool of nodes and the router between them.
type Network struct {
	cfg   Config
	nodes []*node
	round uint64

	nat *Packet // last packet received by the NAT, not yet resent
}

// Boot loads program once and clones it for every node, then hands each node
// its address.
func Boot(program vm.Program, cfg Config, opts ...vm.Option) (*Network, error) {
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("nic: invalid network size %d", cfg.Size)
	}
	if cfg.NATAddress >= 0 && cfg.NATAddress < int64(cfg.Size) {
		return nil, fmt.Errorf("nic: NAT address %d collides with a node", cfg.NATAddress)
	}
	if cfg.Logger == nil {
		cfg.Logger = commonlog.GetLogger("intcode.nic")
	}
	base := vm.Load(program, opts...)

	n := &Network{cfg: cfg, nodes: make([]*node, cfg.Size)}
	for i := range n.nodes {
		m := base.Clone()
		o, err := m.Step()
		if err != nil {
			return nil, fmt.Errorf("nic: boot node %d: %w", i, err)
		}
		if o.Kind != vm.NeedsInput {
			return nil, fmt.Errorf("%w (node %d got %s)", ErrBoot, i, o.Kind)
		}
		if err := o.Request.Supply(int64(i)); err != nil {
			return nil, fmt.Errorf("nic: boot node %d: %w", i, err)
		}
		n.nodes[i] = &node{addr: int64(i), machine: m}
	}
	cfg.Logger.Debugf("booted %d nodes, NAT at %d", cfg.Size, cfg.NATAddress)
	return n, nil
}

// Size returns the number of nodes.
func (n *Network) Size() int { return len(n.nodes) }

// Rounds returns the number of completed rounds.
func (n *Network) Rounds() uint64 { return n.round }

// NAT returns the packet the NAT is holding, if any.
func (n *Network) NAT() (Packet, bool) {
	if n.nat == nil {
		return Packet{}, false
	}
	return *n.nat, true
}

// Send queues a packet for delivery as if a node had sent it.
func (n *Network) Send(p Packet) error {
	return n.route(-1, p)
}

// Idle reports whether every node is polling for input with nothing queued
// and nothing half read or half written. Halted nodes with an empty queue
// count as idle.
func (n *Network) Idle() bool {
	for _, nd := range n.nodes {
		if !nd.idle() {
			return false
		}
	}
	return true
}

// Halted reports whether every node has halted.
func (n *Network) Halted() bool {
	for _, nd := range n.nodes {
		if !nd.halted {
			return false
		}
	}
	return true
}

// Round steps every node once, in address order, and routes the packets
// they complete. It returns those packets.
func (n *Network) Round() ([]Packet, error) {
	var sent []Packet
	for _, nd := range n.nodes {
		p, err := nd.step(n.cfg.IdleInput)
		if err != nil {
			return sent, fmt.Errorf("nic: round %d: %w", n.round, err)
		}
		if p == nil {
			continue
		}
		sent = append(sent, *p)
		if err := n.route(nd.addr, *p); err != nil {
			return sent, err
		}
	}
	n.round++
	n.cfg.Metrics.round(n.Idle())
	return sent, nil
}

func (n *Network) route(src int64, p Packet) error {
	switch {
	case p.Dest == n.cfg.NATAddress:
		pc := p
		n.nat = &pc
		n.cfg.Metrics.natReceived()
		n.cfg.Logger.Debugf("round %d: NAT received %s from %d", n.round, p, src)
	case p.Dest >= 0 && p.Dest < int64(len(n.nodes)):
		dst := n.nodes[p.Dest]
		dst.queue = append(dst.queue, p)
		n.cfg.Metrics.routed()
	default:
		n.cfg.Metrics.dropped()
		n.cfg.Logger.Warningf("round %d: dropping %s from %d: no such address", n.round, p, src)
		return n.cfg.Trace.record(n.round, src, p, true)
	}
	return n.cfg.Trace.record(n.round, src, p, false)
}

// stalled reports whether the network can make no further progress on its
// own. Idle nodes only react to packets, so an idle round that sent nothing,
// with no packet held by the NAT, repeats forever.
func (n *Network) stalled(sent []Packet) bool {
	return len(sent) == 0 && n.nat == nil && n.Idle()
}

// FirstNATPacket runs rounds until some node sends a packet to the NAT
// address and returns that packet.
func (n *Network) FirstNATPacket(ctx context.Context) (Packet, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Packet{}, err
		}
		sent, err := n.Round()
		if err != nil {
			return Packet{}, err
		}
		for _, p := range sent {
			if p.Dest == n.cfg.NATAddress {
				return p, nil
			}
		}
		if n.Halted() {
			return Packet{}, ErrAllHalted
		}
		if n.stalled(sent) {
			return Packet{}, fmt.Errorf("%w (round %d)", ErrDeadlock, n.round)
		}
	}
}

// RunNAT runs the network with the NAT active: whenever the network is idle
// the NAT resends the last packet it received to address 0. It returns the
// first Y value the NAT delivers twice in a row.
func (n *Network) RunNAT(ctx context.Context) (int64, error) {
	var (
		lastY    int64
		haveLast bool
	)
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		sent, err := n.Round()
		if err != nil {
			return 0, err
		}
		if n.Halted() {
			return 0, ErrAllHalted
		}
		if n.stalled(sent) {
			return 0, fmt.Errorf("%w (round %d)", ErrDeadlock, n.round)
		}
		if n.nat == nil || !n.Idle() {
			continue
		}

		p := *n.nat
		n.nat = nil
		if haveLast && p.Y == lastY {
			n.cfg.Logger.Infof("round %d: NAT delivered Y=%d twice in a row", n.round, p.Y)
			return p.Y, nil
		}
		lastY, haveLast = p.Y, true

		wake := Packet{Dest: 0, X: p.X, Y: p.Y}
		n.cfg.Metrics.natWakeup()
		n.cfg.Logger.Debugf("round %d: network idle, NAT sends %s", n.round, wake)
		if err := n.route(n.cfg.NATAddress, wake); err != nil {
			return 0, err
		}
	}
}
