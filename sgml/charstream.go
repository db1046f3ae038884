package sgml

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Whence selects the reference point for Seek, matching io.Seeker's
// constants under readable names.
type Whence int

const (
	SeekStart Whence = iota
	SeekCurrent
	SeekEnd
)

// CharStream is a random-access character source with push-back, absolute
// seek/tell, in-place substring replacement, and a rolling read buffer. It
// is the substrate the tokenizer, element parser, and declaration parser
// all read from; entity expansion works by splicing new text directly into
// it and repositioning the cursor so the splice is re-read.
//
// Positions are rune indices, not byte offsets, so they stay stable across
// the multi-byte UTF-8 text this parser accepts.
type CharStream struct {
	runes []rune
	pos   int

	// rolling window bookkeeping: every Seek or SliceReplace invalidates the
	// window [winStart, winStart+winSize) by restarting it at the cursor.
	// Since the whole buffer lives in memory already, the window is purely
	// an accounting no-op layered over the in-memory slice, kept so that a
	// future file-backed implementation can reuse the same invalidation
	// contract without changing callers.
	winStart, winSize int

	path string // backing file path, "" if not file-backed
	lock *fileLock
}

// NewCharStream wraps literal text as a CharStream with no backing file;
// the advisory lock is a no-op in this case since there is nothing to lock.
func NewCharStream(text string) *CharStream {
	return &CharStream{runes: []rune(text), winSize: 4096}
}

// OpenCharStream reads path into memory and backs the stream with an
// advisory sibling .lock file for the duration of operations that touch
// the underlying file.
func OpenCharStream(path string) (*CharStream, error) {
	lock := newFileLock(path)
	if err := lock.Acquire(true, 0); err != nil {
		return nil, err
	}
	defer lock.Release()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &CharStream{
		runes:   []rune(string(data)),
		winSize: 4096,
		path:    path,
		lock:    lock,
	}, nil
}

// Next consumes and returns the next character, and ok=false at end of
// stream.
func (s *CharStream) Next() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	r := s.runes[s.pos]
	s.pos++
	return r, true
}

// Peek returns the next character without consuming it.
func (s *CharStream) Peek() (rune, bool) {
	if s.pos >= len(s.runes) {
		return 0, false
	}
	return s.runes[s.pos], true
}

// Tell returns the current cursor position.
func (s *CharStream) Tell() int { return s.pos }

// Seek repositions the cursor relative to whence, invalidating the rolling
// window's validity bookkeeping.
func (s *CharStream) Seek(pos int, whence Whence) {
	switch whence {
	case SeekStart:
		s.pos = pos
	case SeekCurrent:
		s.pos += pos
	case SeekEnd:
		s.pos = len(s.runes) + pos
	}
	if s.pos < 0 {
		s.pos = 0
	}
	s.invalidateWindow()
}

// Read returns the next n characters (fewer at end of stream) and advances
// the cursor past them.
func (s *CharStream) Read(n int) string {
	end := s.pos + n
	if end > len(s.runes) {
		end = len(s.runes)
	}
	out := string(s.runes[s.pos:end])
	s.pos = end
	return out
}

// ReadTo reads and consumes characters up to (not including) the first
// occurrence of delim, or returns UnexpectedEOFError if the stream ends
// first.
func (s *CharStream) ReadTo(delim rune) (string, error) {
	start := s.pos
	for s.pos < len(s.runes) {
		if s.runes[s.pos] == delim {
			out := string(s.runes[start:s.pos])
			return out, nil
		}
		s.pos++
	}
	s.pos = start
	return "", &UnexpectedEOFError{Delim: string(delim)}
}

// SliceReplace edits the underlying buffer in place, replacing
// runes[start:end] with newText and repositioning the cursor to start so
// that the next Next() yields the first character of newText. This is the
// mechanism entity expansion uses to splice a resolved reference into the
// stream so parsing re-enters the substituted text.
func (s *CharStream) SliceReplace(start, end int, newText string) {
	if start < 0 {
		start = 0
	}
	if end > len(s.runes) {
		end = len(s.runes)
	}
	tail := append([]rune{}, s.runes[end:]...)
	s.runes = append(append(s.runes[:start:start], []rune(newText)...), tail...)
	s.pos = start
	s.invalidateWindow()
}

// Insert splices text at pos without removing anything, equivalent to
// SliceReplace(pos, pos, text).
func (s *CharStream) Insert(pos int, text string) {
	s.SliceReplace(pos, pos, text)
}

// InsertAtCursor splices text at the current position, used by the entity
// resolver to re-enter the substituted text immediately.
func (s *CharStream) InsertAtCursor(text string) {
	s.Insert(s.pos, text)
}

func (s *CharStream) invalidateWindow() {
	s.winStart = s.pos
}

// Close releases the backing file lock, if any. Safe to call more than
// once and on a stream with no backing file.
func (s *CharStream) Close() error {
	if s.lock != nil {
		return s.lock.Release()
	}
	return nil
}

// -- advisory file locking -------------------------------------------------

const lockPollDelay = 50 * time.Millisecond

// fileLock implements a sibling-.lock-file advisory discipline: acquired
// around every read/write/seek touching a backing file, reentrant from the
// same owner id, released on every exit path including error.
type fileLock struct {
	path    string
	ownerID string
	held    int // reentrancy depth
}

func newFileLock(path string) *fileLock {
	return &fileLock{
		path:    strings.TrimSuffix(path, filepath.Ext(path)) + ".lock",
		ownerID: fmt.Sprintf("%d-%p", os.Getpid(), &struct{}{}),
	}
}

// Acquire takes the lock, polling at a fixed delay until deadline elapses
// when blocking is true and the timeout is nonzero; timeout == 0 means
// "wait forever" when blocking, or "try once" when not.
func (l *fileLock) Acquire(blocking bool, timeout time.Duration) error {
	if l.held > 0 {
		l.held++
		return nil // reentrant from the same owner
	}

	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%s\n%d\n", l.ownerID, time.Now().Unix())
			f.Close()
			l.held = 1
			return nil
		}
		if !os.IsExist(err) {
			return err
		}
		if owned, _ := l.ownedByUs(); owned {
			l.held = 1
			return nil
		}
		if !blocking || (timeout > 0 && time.Now().After(deadline)) {
			return fmt.Errorf("sgml: could not acquire lock %s", l.path)
		}
		time.Sleep(lockPollDelay)
	}
}

func (l *fileLock) ownedByUs() (bool, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(string(data), l.ownerID), nil
}

// Release drops the lock, or decrements the reentrancy depth. It is a
// no-op if the lock is not held or not owned by this id.
func (l *fileLock) Release() error {
	if l.held == 0 {
		return nil
	}
	if l.held > 1 {
		l.held--
		return nil
	}
	owned, err := l.ownedByUs()
	if err != nil {
		l.held = 0
		return nil // file already gone: nothing to release
	}
	if owned {
		os.Remove(l.path)
	}
	l.held = 0
	return nil
}
