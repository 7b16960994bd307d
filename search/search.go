// Package search brute-forces the two input registers of a program: every
// candidate (noun, verb) pair is patched into a fresh clone, run to halt, and
// the result register compared against a target.
package search

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/intcode/vm"
)

// ErrNotFound is returned when no candidate produces the target.
var ErrNotFound = errors.New("search: no noun/verb pair produces the target")

var log = commonlog.GetLogger("intcode.search")

// Options controls which registers are patched and read.
type Options struct {
	Max           int64 // candidates range over [0, Max] for both registers
	NounAddress   int64
	VerbAddress   int64
	ResultAddress int64
	Workers       int // 0 means GOMAXPROCS
}

// DefaultOptions patches addresses 1 and 2 with values 0..99 and reads the
// result from address 0.
func DefaultOptions() Options {
	return Options{Max: 99, NounAddress: 1, VerbAddress: 2, ResultAddress: 0}
}

// Answer is a matching pair.
type Answer struct {
	Noun int64
	Verb int64
}

// Code returns 100*noun + verb.
func (a Answer) Code() int64 {
	return 100*a.Noun + a.Verb
}

// Evaluate patches noun and verb into a clone of base, runs it to halt and
// returns the result register. A program that asks for input fails with
// vm.ErrInputExhausted.
func Evaluate(base *vm.Machine, noun, verb int64, opts Options) (int64, error) {
	m := base.Clone()
	m.Write(opts.NounAddress, noun)
	m.Write(opts.VerbAddress, verb)
	if _, err := vm.Run(m); err != nil {
		return 0, err
	}
	return m.Read(opts.ResultAddress), nil
}

// FindInputs returns the pair with the lowest noun, then lowest verb, whose
// result equals target. Nouns are searched in parallel; base itself is never
// stepped and must not be stepped by the caller while the search runs.
//
// A candidate that fails to run (a validation error, or a request for input)
// is skipped and logged; patched registers often produce garbage programs.
func FindInputs(ctx context.Context, base *vm.Machine, target int64, opts Options) (Answer, error) {
	if opts.Max < 0 {
		return Answer{}, fmt.Errorf("search: invalid range [0, %d]", opts.Max)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// hits[noun] holds the lowest matching verb, or -1.
	hits := make([]int64, opts.Max+1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for noun := int64(0); noun <= opts.Max; noun++ {
		noun := noun
		hits[noun] = -1
		g.Go(func() error {
			for verb := int64(0); verb <= opts.Max; verb++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				got, err := Evaluate(base, noun, verb, opts)
				if err != nil {
					log.Debugf("noun=%d verb=%d: %v", noun, verb, err)
					continue
				}
				if got == target {
					hits[noun] = verb
					return nil
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Answer{}, err
	}

	for noun, verb := range hits {
		if verb >= 0 {
			return Answer{Noun: int64(noun), Verb: verb}, nil
		}
	}
	return Answer{}, ErrNotFound
}
