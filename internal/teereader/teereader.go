// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

const ellipsis = "..."

// LastLineTeeReader wraps an io.Reader, keeps all data read through it and
// tracks the last complete line. It is safe for concurrent use.
type LastLineTeeReader struct {
	reader     io.Reader
	fullBuffer *bytes.Buffer
	lastLine   string
	hasLine    bool
	partial    []byte
	mu         sync.RWMutex
}

// NewLastLineTeeReader creates a LastLineTeeReader reading from r.
func NewLastLineTeeReader(r io.Reader) *LastLineTeeReader {
	return &LastLineTeeReader{
		reader:     r,
		fullBuffer: &bytes.Buffer{},
	}
}

// Read implements io.Reader.
func (lt *LastLineTeeReader) Read(p []byte) (int, error) {
	n, err := lt.reader.Read(p)
	if n > 0 {
		lt.mu.Lock()
		lt.fullBuffer.Write(p[:n])
		lt.processNewData(p[:n])
		lt.mu.Unlock()
	}

	return n, err //nolint:wrapcheck
}

// processNewData must be called with the write lock held.
func (lt *LastLineTeeReader) processNewData(data []byte) {
	idx := bytes.LastIndexByte(data, '\n')
	if idx < 0 {
		lt.partial = append(lt.partial, data...)
		return
	}

	// The last complete line is whatever sits between the previous newline
	// in data (or the start of the pending partial line) and idx.
	head := data[:idx]
	if prev := bytes.LastIndexByte(head, '\n'); prev >= 0 {
		lt.lastLine = string(head[prev+1:])
	} else {
		lt.lastLine = string(lt.partial) + string(head)
	}

	lt.lastLine = strings.TrimSuffix(lt.lastLine, "\r")
	lt.hasLine = true
	lt.partial = append(lt.partial[:0], data[idx+1:]...)
}

// GetLastLine returns the last complete line read so far, without its line ending.
// If maxLength > 0 the line is truncated to maxLength bytes, ending in "...".
func (lt *LastLineTeeReader) GetLastLine(maxLength int) string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return truncate(lt.lastLine, maxLength)
}

// HasCompleteLine reports whether at least one newline has been read.
func (lt *LastLineTeeReader) HasCompleteLine() bool {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.hasLine
}

// GetPartialLine returns the data read after the last newline.
func (lt *LastLineTeeReader) GetPartialLine() string {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return string(lt.partial)
}

// GetFullBufferBytes returns a copy of everything read so far.
func (lt *LastLineTeeReader) GetFullBufferBytes() []byte {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return bytes.Clone(lt.fullBuffer.Bytes())
}

// Len returns the number of bytes read so far.
func (lt *LastLineTeeReader) Len() int {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	return lt.fullBuffer.Len()
}

// Reset discards everything captured. The underlying reader is untouched.
func (lt *LastLineTeeReader) Reset() {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.fullBuffer.Reset()
	lt.lastLine = ""
	lt.hasLine = false
	lt.partial = lt.partial[:0]
}

// Drain copies r to io.Discard in a new goroutine. The returned channel is
// closed once r returns EOF or any other error.
func Drain(r io.Reader) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		_, _ = io.Copy(io.Discard, r)
	}()

	return done
}

func truncate(s string, maxLength int) string {
	if maxLength <= 0 || len(s) <= maxLength {
		return s
	}

	if maxLength <= len(ellipsis) {
		return s[:maxLength]
	}

	return s[:maxLength-len(ellipsis)] + ellipsis
}
