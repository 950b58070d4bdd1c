package text

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dshills/gapseq/internal/seq/pool"
)

var (
	_ io.Writer       = (*Builder)(nil)
	_ io.StringWriter = (*Builder)(nil)
	_ io.ByteWriter   = (*Builder)(nil)
	_ io.WriterTo     = (*Builder)(nil)
	_ io.ReaderFrom   = (*Builder)(nil)
	_ fmt.Stringer    = (*Builder)(nil)
)

// chunkSize is the number of bytes encoded or runes decoded per batch.
const chunkSize = 4096

// Write appends p decoded as UTF-8. Invalid bytes, including a rune split
// across two calls, become U+FFFD. Use ReadFrom for streamed input.
func (b *Builder) Write(p []byte) (int, error) {
	if err := b.Append([]rune(string(p))...); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString appends s.
func (b *Builder) WriteString(s string) (int, error) {
	if err := b.AppendString(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteByte appends an ASCII byte.
func (b *Builder) WriteByte(c byte) error {
	if c >= utf8.RuneSelf {
		return ErrNonASCII
	}
	return b.Append(rune(c))
}

// WriteRune appends r and returns its UTF-8 length.
func (b *Builder) WriteRune(r rune) (int, error) {
	if err := b.Append(r); err != nil {
		return 0, err
	}
	return utf8.RuneLen(r), nil
}

// WriteTo writes the content to w as UTF-8, encoding through a pooled byte
// buffer.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	buf := pool.Bytes.Rent(chunkSize)
	defer pool.Bytes.Return(buf)

	var total int64
	out := buf[:0]
	flush := func() error {
		n, err := w.Write(out)
		total += int64(n)
		out = out[:0]
		return err
	}

	for _, r := range b.AsSlice() {
		if len(out)+utf8.UTFMax > len(buf) {
			if err := flush(); err != nil {
				return total, err
			}
		}
		out = utf8.AppendRune(out, r)
	}
	if len(out) > 0 {
		if err := flush(); err != nil {
			return total, err
		}
	}
	return total, nil
}

// ReadFrom appends UTF-8 text read from r until EOF. Runes split across
// reads are decoded intact. It returns the number of bytes read.
func (b *Builder) ReadFrom(r io.Reader) (int64, error) {
	br := bufio.NewReaderSize(r, chunkSize)
	batch := make([]rune, 0, chunkSize)

	var total int64
	for {
		c, size, err := br.ReadRune()
		if err != nil {
			if aerr := b.Append(batch...); aerr != nil {
				return total, aerr
			}
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
		total += int64(size)
		batch = append(batch, c)
		if len(batch) == cap(batch) {
			if err := b.Append(batch...); err != nil {
				return total, err
			}
			batch = batch[:0]
		}
	}
}
