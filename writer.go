package serbuf

import "errors"

// ErrBufferFull is the only failure a Writer may report.
var ErrBufferFull = errors.New("serbuf: buffer is full")

// Writer is the append-only sink serializers emit into. Implementations
// either accept all bytes or fail with ErrBufferFull; partial writes are
// not reported.
type Writer interface {
	Write(p []byte) error
	WriteByte(c byte) error
	WriteString(s string) error
}

// SliceWriter appends into a caller-supplied slice and never reallocates.
type SliceWriter struct {
	buf []byte
	len int
}

// NewSliceWriter returns a SliceWriter filling buf from the start.
func NewSliceWriter(buf []byte) *SliceWriter {
	return &SliceWriter{buf: buf}
}

// Bytes returns the populated portion of the underlying buffer.
func (w *SliceWriter) Bytes() []byte { return w.buf[:w.len] }

// Len returns the populated length.
func (w *SliceWriter) Len() int { return w.len }

// Cap returns the total capacity.
func (w *SliceWriter) Cap() int { return len(w.buf) }

// Reset forgets the populated portion without touching the buffer.
func (w *SliceWriter) Reset() { w.len = 0 }

// Split carves off the populated portion and returns it together with a
// writer over the remaining capacity. The two slices do not overlap.
func (w *SliceWriter) Split() ([]byte, *SliceWriter) {
	head := w.buf[:w.len]
	return head, &SliceWriter{buf: w.buf[w.len:]}
}

func (w *SliceWriter) Write(p []byte) error {
	if w.len+len(p) > len(w.buf) {
		return ErrBufferFull
	}
	copy(w.buf[w.len:], p)
	w.len += len(p)
	return nil
}

func (w *SliceWriter) WriteByte(c byte) error {
	if w.len >= len(w.buf) {
		return ErrBufferFull
	}
	w.buf[w.len] = c
	w.len++
	return nil
}

func (w *SliceWriter) WriteString(s string) error {
	if w.len+len(s) > len(w.buf) {
		return ErrBufferFull
	}
	copy(w.buf[w.len:], s)
	w.len += len(s)
	return nil
}

// Buffer is a growable Writer for callers that can allocate.
type Buffer struct {
	b []byte
}

// Bytes returns the accumulated bytes.
func (w *Buffer) Bytes() []byte { return w.b }

// Len returns the accumulated length.
func (w *Buffer) Len() int { return len(w.b) }

// Reset truncates the buffer, keeping its capacity.
func (w *Buffer) Reset() { w.b = w.b[:0] }

func (w *Buffer) Write(p []byte) error {
	w.b = append(w.b, p...)
	return nil
}

func (w *Buffer) WriteByte(c byte) error {
	w.b = append(w.b, c)
	return nil
}

func (w *Buffer) WriteString(s string) error {
	w.b = append(w.b, s...)
	return nil
}
