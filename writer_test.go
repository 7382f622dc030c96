package serbuf

import (
	"bytes"
	"testing"
)

func TestSliceWriter(t *testing.T) {
	var backing [8]byte
	w := NewSliceWriter(backing[:])

	if err := w.WriteString("abc"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteByte('d'); err != nil {
		t.Fatal(err)
	}
	if err := w.Write([]byte("ef")); err != nil {
		t.Fatal(err)
	}
	if string(w.Bytes()) != "abcdef" || w.Len() != 6 || w.Cap() != 8 {
		t.Errorf("got %q len %d cap %d", w.Bytes(), w.Len(), w.Cap())
	}

	if err := w.Write([]byte("ghi")); err != ErrBufferFull {
		t.Errorf("got %v", err)
	}
	if w.Len() != 6 {
		t.Errorf("failed write moved the cursor to %d", w.Len())
	}

	if err := w.Write([]byte("gh")); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteByte('x'); err != ErrBufferFull {
		t.Errorf("got %v", err)
	}
	if err := w.WriteString("x"); err != ErrBufferFull {
		t.Errorf("got %v", err)
	}

	w.Reset()
	if w.Len() != 0 {
		t.Errorf("len %d after reset", w.Len())
	}
}

func TestSliceWriterSplit(t *testing.T) {
	var backing [8]byte
	w := NewSliceWriter(backing[:])
	if err := w.WriteString("head"); err != nil {
		t.Fatal(err)
	}

	head, rest := w.Split()
	if string(head) != "head" {
		t.Errorf("got %q", head)
	}
	if rest.Cap() != 4 {
		t.Errorf("rest cap %d", rest.Cap())
	}
	if err := rest.WriteString("tail"); err != nil {
		t.Fatal(err)
	}
	if string(head) != "head" {
		t.Errorf("tail write clobbered head: %q", head)
	}
	if string(backing[:]) != "headtail" {
		t.Errorf("backing is %q", backing)
	}
}

func TestBuffer(t *testing.T) {
	var w Buffer
	if err := w.WriteString("abc"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteByte('d'); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(bytes.Repeat([]byte("x"), 100)); err != nil {
		t.Fatal(err)
	}
	if w.Len() != 104 {
		t.Errorf("len %d", w.Len())
	}
	w.Reset()
	if w.Len() != 0 {
		t.Errorf("len %d after reset", w.Len())
	}
}
