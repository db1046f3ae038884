package sgml

import "context"

// Stream offers a channel-based, generic way to walk an already-parsed
// document tree: it hands each element named tagName to decode and yields
// the results one at a time, so a caller doesn't have to collect every
// decoded record at once. It is not incremental parsing: the whole tree
// is built by Parser before a Stream is created over it.
type Stream[T any] struct {
	root    *Node
	tagName string
	decode  func(*Node) (T, error)
}

// NewStream builds a Stream over an already-parsed document root. decode
// converts one matching element into a T; a decode error is dropped from
// the stream rather than aborting it, since one malformed record
// shouldn't stop the rest from being read.
func NewStream[T any](root *Node, tagName string, decode func(*Node) (T, error)) *Stream[T] {
	return &Stream[T]{root: root, tagName: tagName, decode: decode}
}

// Iter is a convenience wrapper around IterWithContext using
// context.Background().
func (s *Stream[T]) Iter() <-chan T {
	return s.IterWithContext(context.Background())
}

// IterWithContext yields one decoded T per matching element, stopping
// early if ctx is canceled.
func (s *Stream[T]) IterWithContext(ctx context.Context) <-chan T {
	ch := make(chan T)
	go func() {
		defer close(ch)
		for _, elem := range s.root.Filter(NameIs(s.tagName), -1) {
			select {
			case <-ctx.Done():
				return
			default:
			}
			v, err := s.decode(elem)
			if err != nil {
				continue
			}
			select {
			case ch <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
