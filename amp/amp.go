// Package amp runs chains of amplifier machines. Every amplifier is a clone
// of one loaded program; each is given its phase setting as first input and
// then fed the previous amplifier's output. The last amplifier feeds the
// first, so a chain built from a single-pass program simply ends after one
// lap.
package amp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/chazu/intcode/vm"
)

// ErrNoSignal is returned when the chain halts before any amplifier has
// produced an output.
var ErrNoSignal = errors.New("amp: chain halted without producing a signal")

// amplifier is one stage of a chain.
type amplifier struct {
	machine   *vm.Machine
	phase     int64
	phaseSent bool
}

// next feeds signal to the amplifier and returns its next output. ok is
// false once the amplifier has halted.
func (a *amplifier) next(signal int64) (int64, bool, error) {
	return vm.NextOutput(a.machine, func() (int64, error) {
		if !a.phaseSent {
			a.phaseSent = true
			return a.phase, nil
		}
		return signal, nil
	})
}

// Chain is a ring of amplifiers.
type Chain struct {
	amps []*amplifier
}

// NewChain clones base once per phase setting.
func NewChain(base *vm.Machine, phases []int64) *Chain {
	c := &Chain{amps: make([]*amplifier, len(phases))}
	for i, p := range phases {
		c.amps[i] = &amplifier{machine: base.Clone(), phase: p}
	}
	return c
}

// Run sends signal 0 into the first amplifier and keeps passing outputs
// around the ring until an amplifier halts. It returns the last signal
// produced.
func (c *Chain) Run() (int64, error) {
	if len(c.amps) == 0 {
		return 0, ErrNoSignal
	}
	var (
		signal   int64
		produced bool
	)
	for i := 0; ; i = (i + 1) % len(c.amps) {
		out, ok, err := c.amps[i].next(signal)
		if err != nil {
			return 0, fmt.Errorf("amp: amplifier %d: %w", i, err)
		}
		if !ok {
			break
		}
		signal, produced = out, true
	}
	if !produced {
		return 0, ErrNoSignal
	}
	return signal, nil
}

// Run is shorthand for NewChain(base, phases).Run().
func Run(base *vm.Machine, phases []int64) (int64, error) {
	return NewChain(base, phases).Run()
}

// Result is the best phase ordering found by MaxSignal.
type Result struct {
	Signal int64
	Phases []int64
}

// MaxSignal runs a chain for every ordering of phaseSet and returns the
// largest final signal. Orderings are evaluated in parallel, each on its own
// clones of base. Ties go to the ordering that comes first in
// lexicographic order of phaseSet indices.
func MaxSignal(ctx context.Context, base *vm.Machine, phaseSet []int64) (Result, error) {
	n := len(phaseSet)
	if n == 0 {
		return Result{}, ErrNoSignal
	}
	perms := combin.Permutations(n, n)
	signals := make([]int64, len(perms))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, perm := range perms {
		i, perm := i, perm
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := Run(base, orderOf(phaseSet, perm))
			if err != nil {
				return fmt.Errorf("phases %v: %w", orderOf(phaseSet, perm), err)
			}
			signals[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	best := Result{Signal: math.MinInt64}
	bestIdx := -1
	for i, s := range signals {
		if bestIdx < 0 || s > best.Signal || (s == best.Signal && lexLess(perms[i], perms[bestIdx])) {
			best.Signal = s
			bestIdx = i
		}
	}
	best.Phases = orderOf(phaseSet, perms[bestIdx])
	return best, nil
}

func orderOf(set []int64, perm []int) []int64 {
	out := make([]int64, len(perm))
	for i, idx := range perm {
		out[i] = set[idx]
	}
	return out
}

func lexLess(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
