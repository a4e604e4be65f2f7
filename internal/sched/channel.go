// Package sched implements the cooperative strand scheduler spec.md 4.4/5
// describes: MPMC channels, strand spawn/weave/resume/cancel, and the
// spawn-closure registry. Go's native goroutine scheduler already provides
// the M:N multiplexing spec.md asks for, so a "strand" here is a goroutine
// parked on a channel at every documented suspension point, rather than a
// hand-rolled green-thread runtime; grounded on channel.rs's "zero mutex,
// no global registry" design translated onto Go channels.
package sched

import (
	"github.com/google/uuid"

	"github.com/funvibe/seqc/internal/value"
)

// Channel is an MPMC channel cell: value.ChannelHandle's concrete backing.
// Wraps a native Go channel rather than reimplementing May's mpmc queue —
// Go channels are already MPMC and already cooperatively schedule blocked
// goroutines without parking an OS thread, which is exactly the guarantee
// channel.rs documents ("NEVER block OS threads").
type Channel struct {
	id   string
	ch   chan value.Value
	done chan struct{}
}

// channelBufferSize bounds the reference runtime's "unbounded" channel;
// original_source's May mpmc::channel() is genuinely unbounded, which Go's
// native chan cannot express without a custom queue. A bounded buffer is
// an intentional simplification for this reference runtime, documented
// here rather than silently diverging from the spec's wording.
const channelBufferSize = 1024

func NewChannel() *Channel {
	return &Channel{id: uuid.NewString(), ch: make(chan value.Value, channelBufferSize), done: make(chan struct{})}
}

func (c *Channel) ID() string { return c.id }

// Send implements chan.send: ( value Channel -- Bool ). Returns false if
// the channel has been closed rather than panicking — "errors are values,
// not crashes" per channel.rs's documented contract.
func (c *Channel) Send(v value.Value) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.ch <- v.Clone():
		return true
	case <-c.done:
		return false
	}
}

// Receive implements chan.receive: ( Channel -- value Bool ). Multiple
// goroutines may call Receive concurrently on the same Channel (MPMC);
// each sent value is delivered to exactly one receiver, which a native Go
// channel already guarantees.
func (c *Channel) Receive() (value.Value, bool) {
	select {
	case v, ok := <-c.ch:
		if !ok {
			return value.Value{}, false
		}
		return v, true
	case <-c.done:
		select {
		case v, ok := <-c.ch:
			if ok {
				return v, true
			}
		default:
		}
		return value.Value{}, false
	}
}

// Close implements chan.close: ( Channel -- ). Idempotent.
func (c *Channel) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
}

var _ value.ChannelHandle = (*Channel)(nil)
