package runtime

import (
	"github.com/funvibe/seqc/internal/sched"
	"github.com/funvibe/seqc/internal/stack"
	"github.com/funvibe/seqc/internal/value"
)

// ChanMake implements chan.make: ( -- Channel ). Grounded on channel.rs's
// patch_seq_make_channel; the Arc<ChannelData> wrap there becomes a
// value.Handle wrapping a *sched.Channel here.
func ChanMake(s *stack.Stack) {
	ch := sched.NewChannel()
	h := value.NewHandle()
	h.Channel = ch
	s.Push(value.Value{Tag: value.TagChannel, Heap: h})
}

// ChanClose implements chan.close: ( Channel -- ). Releases the stack
// cell's reference and, if this was the last reference, closes the
// underlying channel so blocked receivers observe failure.
func ChanClose(s *stack.Stack) {
	v := s.Pop()
	if v.Tag == value.TagChannel && v.Heap != nil {
		if ch, ok := v.Heap.Channel.(*sched.Channel); ok && v.Heap.Release() {
			ch.Close()
		}
	}
}

// ChanSend implements chan.send: ( value Channel -- Bool ). A type
// mismatch on the channel slot degrades to Bool(false) rather than
// panicking, matching channel.rs's "errors are values, not crashes"
// contract.
func ChanSend(s *stack.Stack) {
	chanVal := s.Pop()
	ch, ok := channelOf(chanVal)
	if !ok {
		if s.Depth() > 0 {
			s.Drop()
		}
		s.Push(value.BoolVal(false))
		return
	}
	if s.Depth() == 0 {
		s.Push(value.BoolVal(false))
		return
	}
	msg := s.Pop()
	s.Push(value.BoolVal(ch.Send(msg)))
}

// ChanReceive implements chan.receive: ( Channel -- value Bool ).
func ChanReceive(s *stack.Stack) {
	chanVal := s.Pop()
	ch, ok := channelOf(chanVal)
	if !ok {
		s.Push(value.IntVal(0))
		s.Push(value.BoolVal(false))
		return
	}
	v, ok := ch.Receive()
	if !ok {
		s.Push(value.IntVal(0))
		s.Push(value.BoolVal(false))
		return
	}
	s.Push(v)
	s.Push(value.BoolVal(true))
}

func channelOf(v value.Value) (*sched.Channel, bool) {
	if v.Tag != value.TagChannel || v.Heap == nil {
		return nil, false
	}
	ch, ok := v.Heap.Channel.(*sched.Channel)
	return ch, ok
}
