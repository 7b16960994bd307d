package nic

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts network activity. A nil *Metrics records nothing.
type Metrics struct {
	Rounds         prometheus.Counter
	IdleRounds     prometheus.Counter
	PacketsRouted  prometheus.Counter
	PacketsDropped prometheus.Counter
	NATPackets     prometheus.Counter
	NATWakeups     prometheus.Counter
}

// NewMetrics creates the network counters and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "intcode",
			Subsystem: "nic",
			Name:      name,
			Help:      help,
		})
	}
	m := &Metrics{
		Rounds:         counter("rounds_total", "Scheduling rounds in which every node was stepped once."),
		IdleRounds:     counter("idle_rounds_total", "Rounds after which the whole network was idle."),
		PacketsRouted:  counter("packets_routed_total", "Packets delivered to a node's input queue."),
		PacketsDropped: counter("packets_dropped_total", "Packets addressed to no node and not to the NAT."),
		NATPackets:     counter("nat_packets_total", "Packets received by the NAT."),
		NATWakeups:     counter("nat_wakeups_total", "Packets the NAT resent to address 0 on idle."),
	}
	err := errors.Join(
		reg.Register(m.Rounds),
		reg.Register(m.IdleRounds),
		reg.Register(m.PacketsRouted),
		reg.Register(m.PacketsDropped),
		reg.Register(m.NATPackets),
		reg.Register(m.NATWakeups),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

func (m *Metrics) round(idle bool) {
	if m == nil {
		return
	}
	inc(m.Rounds)
	if idle {
		inc(m.IdleRounds)
	}
}

func (m *Metrics) routed() {
	if m != nil {
		inc(m.PacketsRouted)
	}
}

func (m *Metrics) dropped() {
	if m != nil {
		inc(m.PacketsDropped)
	}
}

func (m *Metrics) natReceived() {
	if m != nil {
		inc(m.NATPackets)
	}
}

func (m *Metrics) natWakeup() {
	if m != nil {
		inc(m.NATWakeups)
	}
}
