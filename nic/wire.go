package nic

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// cborEncMode uses canonical mode so identical runs produce identical trace
// bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("nic: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Record is one routed packet in a trace.
type Record struct {
	Session uuid.UUID `cbor:"1,keyasint"`
	Round   uint64    `cbor:"2,keyasint"`
	Src     int64     `cbor:"3,keyasint"`
	Packet  Packet    `cbor:"4,keyasint"`
	Dropped bool      `cbor:"5,keyasint,omitempty"`
}

// Trace writes a stream of CBOR-encoded records.
type Trace struct {
	session uuid.UUID
	enc     *cbor.Encoder
	count   int
}

// NewTrace starts a trace session writing to w.
func NewTrace(w io.Writer) *Trace {
	return &Trace{session: uuid.New(), enc: cborEncMode.NewEncoder(w)}
}

// Session identifies the run the trace belongs to.
func (t *Trace) Session() uuid.UUID { return t.session }

// Count returns the number of records written.
func (t *Trace) Count() int { return t.count }

func (t *Trace) record(round uint64, src int64, p Packet, dropped bool) error {
	if t == nil {
		return nil
	}
	rec := Record{Session: t.session, Round: round, Src: src, Packet: p, Dropped: dropped}
	if err := t.enc.Encode(&rec); err != nil {
		return fmt.Errorf("nic: trace: %w", err)
	}
	t.count++
	return nil
}

// ReadTrace decodes every record in r.
func ReadTrace(r io.Reader) ([]Record, error) {
	dec := cbor.NewDecoder(r)
	var recs []Record
	for {
		var rec Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return recs, fmt.Errorf("nic: read trace record %d: %w", len(recs), err)
		}
		recs = append(recs, rec)
	}
}
