// Package stream implements the incremental/streaming parser of
// spec.md §4.4: it accepts successive byte chunks, maintains cross-chunk
// lexical state (depth, in-string, escape-pending), and emits events to a
// caller-supplied consumer as soon as they are determinable, delegating
// fully-buffered top-level values to package parser.
//
// Grounded on the channel/callback-driven incremental decoder in
// other_examples' xenking/jstream decoder (MetaValue emission at a
// configured depth), adapted from a channel-based API to the typed
// control-flow signal spec.md §9's redesign notes prescribe in place of a
// bare bool callback.
package stream

import (
	"go.jsontk.dev/jsontk/jsonerr"
	"go.jsontk.dev/jsontk/parser"
	"go.jsontk.dev/jsontk/value"
)

// EventKind identifies the kind of a streaming Event.
type EventKind int

const (
	ObjectStart EventKind = iota
	ObjectEnd
	ArrayStart
	ArrayEnd
	ValueEvent
	ErrorEvent
	EOFEvent
)

var eventNames = [...]string{
	ObjectStart: "OBJECT_START", ObjectEnd: "OBJECT_END",
	ArrayStart: "ARRAY_START", ArrayEnd: "ARRAY_END",
	ValueEvent: "VALUE", ErrorEvent: "ERROR", EOFEvent: "EOF",
}

func (k EventKind) String() string {
	if int(k) >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}

	return "unknown"
}

// Event is a single notification delivered to a Consumer.
type Event struct {
	Kind  EventKind
	Value *value.Value // set when Kind == ValueEvent
	Err   error        // set when Kind == ErrorEvent
}

// Control is the typed control-flow signal a Consumer returns, replacing
// the bare bool callback spec.md §9's redesign notes flag as ambiguous.
type Control int

const (
	// Continue tells the driver to keep processing subsequent bytes.
	Continue Control = iota
	// Abort tells the driver to tear down its buffer and stop at the next
	// opportunity.
	Abort
)

// Consumer receives streaming Events and decides whether to continue.
type Consumer func(Event) Control

// Limits bound chunk size, buffered-document size, and nesting depth
// (spec.md §4.4).
type Limits struct {
	MaxChunkSize int
	MaxDocSize   int
	MaxDepth     int
}

const oneHundredMiB = 100 * 1024 * 1024

// DefaultLimits matches spec.md §4.4 exactly.
func DefaultLimits() Limits {
	return Limits{MaxChunkSize: oneHundredMiB, MaxDocSize: oneHundredMiB, MaxDepth: 256}
}

type phase int

const (
	phaseWaiting phase = iota
	phaseContainer
	phaseScalarString
	phaseScalarLiteral
)

// Driver is the cross-chunk state machine of spec.md §4.4.
type Driver struct {
	consumer Consumer
	limits   Limits

	phase         phase
	buf           []byte
	depth         int
	inString      bool
	escapePending bool
	containerOpen byte // '{' or '[' for the currently buffering container
	aborted       bool
	fatal         bool
}

// New returns a Driver that delivers events to consumer using
// [DefaultLimits].
func New(consumer Consumer) *Driver {
	return &Driver{consumer: consumer, limits: DefaultLimits()}
}

// WithLimits overrides the default limits.
func (d *Driver) WithLimits(l Limits) *Driver {
	d.limits = l

	return d
}

// Feed processes one chunk of input, emitting events as they become
// determinable. Returns Abort if the consumer requested early stop or a
// fatal error occurred; Continue otherwise.
func (d *Driver) Feed(chunk []byte) Control {
	if d.aborted || d.fatal {
		return Abort
	}

	if len(chunk) > d.limits.MaxChunkSize {
		return d.emitFatal(jsonerr.NewNonPositional(jsonerr.OutOfMemory, "chunk exceeds %d bytes", d.limits.MaxChunkSize))
	}

	for i := 0; i < len(chunk); i++ {
		if d.processByte(chunk[i]) == Abort {
			return Abort
		}
	}

	return Continue
}

// Close signals clean end of input. Any value still buffering is a
// genuine (non-recoverable) UNEXPECTED_EOF, since no more bytes are
// coming; an already-complete state simply emits EOF.
func (d *Driver) Close() Control {
	if d.aborted || d.fatal {
		return Abort
	}

	if d.phase == phaseScalarLiteral {
		// A bare literal/number with no trailing delimiter completes at
		// EOF -- this is the only phase that can validly end here.
		if ctrl := d.finishBuffer(); ctrl == Abort {
			return Abort
		}
	} else if d.phase != phaseWaiting {
		return d.emitFatal(jsonerr.NewNonPositional(jsonerr.UnexpectedEOF, "input ended mid-value"))
	}

	return d.emit(Event{Kind: EOFEvent})
}

func (d *Driver) emit(ev Event) Control {
	ctrl := d.consumer(ev)
	if ctrl == Abort {
		d.aborted = true
	}

	return ctrl
}

func (d *Driver) emitFatal(err error) Control {
	d.fatal = true
	d.emit(Event{Kind: ErrorEvent, Err: err})

	return Abort
}

func isWhitespace(b byte) bool {
	return b == 0x20 || b == 0x09 || b == 0x0A || b == 0x0D
}

func isScalarLiteralByte(b byte) bool {
	switch {
	case b >= '0' && b <= '9':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b == '.' || b == '-' || b == '+' || b == 'E':
		return true
	default:
		return false
	}
}

func (d *Driver) processByte(b byte) Control {
	switch d.phase {
	case phaseWaiting:
		return d.startValue(b)
	case phaseContainer:
		return d.feedContainerByte(b)
	case phaseScalarString:
		return d.feedScalarStringByte(b)
	case phaseScalarLiteral:
		if isScalarLiteralByte(b) {
			if len(d.buf)+1 > d.limits.MaxDocSize {
				return d.emitFatal(jsonerr.NewNonPositional(jsonerr.OutOfMemory, "document exceeds %d bytes", d.limits.MaxDocSize))
			}

			d.buf = append(d.buf, b)

			return Continue
		}

		// b terminates the scalar without being consumed by it.
		if ctrl := d.finishBuffer(); ctrl == Abort {
			return Abort
		}

		return d.processByte(b)
	default:
		return Continue
	}
}

func (d *Driver) startValue(b byte) Control {
	if isWhitespace(b) {
		return Continue
	}

	switch b {
	case '{', '[':
		d.phase = phaseContainer
		d.containerOpen = b
		d.depth = 1
		d.buf = []byte{b}

		kind := ObjectStart
		if b == '[' {
			kind = ArrayStart
		}

		return d.emit(Event{Kind: kind})
	case '"':
		d.phase = phaseScalarString
		d.inString = true
		d.buf = []byte{b}

		return Continue
	default:
		d.phase = phaseScalarLiteral
		d.buf = []byte{b}

		return Continue
	}
}

func (d *Driver) feedContainerByte(b byte) Control {
	d.buf = append(d.buf, b)

	if len(d.buf) > d.limits.MaxDocSize {
		return d.emitFatal(jsonerr.NewNonPositional(jsonerr.OutOfMemory, "document exceeds %d bytes", d.limits.MaxDocSize))
	}

	if d.inString {
		switch {
		case d.escapePending:
			d.escapePending = false
		case b == '\\':
			d.escapePending = true
		case b == '"':
			d.inString = false
		}

		return Continue
	}

	switch b {
	case '"':
		d.inString = true

		return Continue
	case '{', '[':
		d.depth++
		if d.depth > d.limits.MaxDepth {
			return d.emitFatal(jsonerr.NewNonPositional(jsonerr.StackOverflow, "stream nesting exceeds %d", d.limits.MaxDepth))
		}

		return Continue
	case '}', ']':
		d.depth--
		if d.depth == 0 {
			return d.finishBuffer()
		}

		return Continue
	default:
		return Continue
	}
}

func (d *Driver) feedScalarStringByte(b byte) Control {
	d.buf = append(d.buf, b)

	if len(d.buf) > d.limits.MaxDocSize {
		return d.emitFatal(jsonerr.NewNonPositional(jsonerr.OutOfMemory, "document exceeds %d bytes", d.limits.MaxDocSize))
	}

	switch {
	case d.escapePending:
		d.escapePending = false
	case b == '\\':
		d.escapePending = true
	case b == '"':
		d.inString = false

		return d.finishBuffer()
	}

	return Continue
}

// finishBuffer parses the accumulated buffer as a complete top-level
// value, emits VALUE (and, for containers, the matching *_END event), and
// resets the driver to phaseWaiting. A parser error here is always fatal:
// by construction the buffer is already balanced/terminated, so
// UNEXPECTED_EOF cannot occur (that case is handled by Feed simply
// returning Continue while phase != phaseWaiting and more bytes are
// awaited).
func (d *Driver) finishBuffer() Control {
	buf := d.buf
	wasContainer := d.phase == phaseContainer
	openByte := d.containerOpen

	d.phase = phaseWaiting
	d.buf = nil
	d.depth = 0
	d.inString = false
	d.escapePending = false
	d.containerOpen = 0

	v, err := parser.Parse(buf)
	if err != nil {
		return d.emitFatal(err)
	}

	if ctrl := d.emit(Event{Kind: ValueEvent, Value: v}); ctrl == Abort {
		return Abort
	}

	if wasContainer {
		endKind := ObjectEnd
		if openByte == '[' {
			endKind = ArrayEnd
		}

		return d.emit(Event{Kind: endKind})
	}

	return Continue
}
