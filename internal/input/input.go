// Package input reads viewer key presses from a raw terminal stream.
package input

import (
	"bufio"
)

// Input represents the keys seen since the last read.
type Input struct {
	Quit    bool // q, Q, Ctrl-C or a lone Escape
	Pressed []byte
	Closed  bool // The underlying reader hit EOF or an error
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking).
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	return Input{
		Quit:    isQuit(buf),
		Pressed: buf,
		Closed:  s.closed,
	}
}

// isQuit reports whether buf holds a quit key. Escape only counts when it is
// not the start of a CSI sequence such as an arrow key.
func isQuit(buf []byte) bool {
	for i, b := range buf {
		switch b {
		case 'q', 'Q', '\x03':
			return true
		case '\x1b':
			if i+1 >= len(buf) || buf[i+1] != '[' {
				return true
			}
		}
	}
	return false
}
