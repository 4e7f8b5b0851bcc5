/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package aggregator queues concurrent writes for a background writer
// goroutine and runs a periodic sync/rotation callback alongside it. When the
// queue is full, Write calls FctWriter directly from the caller's goroutine.
package aggregator

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrClosedResources is returned by Write once the aggregator has been
// closed; callers use errors.Is to detect it and reopen the resource.
var ErrClosedResources = errors.New("aggregator: underlying resources closed")

// Config describes the aggregator behavior.
type Config struct {
	// AsyncTimer, if non zero, flushes the pending buffer on this interval
	// even if AsyncMax has not been reached.
	AsyncTimer time.Duration

	// AsyncMax, if non zero, flushes the pending buffer once it accumulates
	// this many queued writes.
	AsyncMax int

	// AsyncFct, if not nil, is called after every async flush.
	AsyncFct func(ctx context.Context)

	// SyncTimer drives the periodic SyncFct call.
	SyncTimer time.Duration

	// SyncFct is called on every SyncTimer tick, typically to fsync the
	// underlying file and detect external rotation.
	SyncFct func(ctx context.Context)

	// BufWriter sizes the internal write queue.
	BufWriter int

	// FctWriter performs the actual write against the wrapped resource.
	FctWriter func(p []byte) (int, error)
}

// Aggregator is an io.Writer fed by any number of concurrent callers, with a
// background goroutine draining the write queue and driving SyncFct/AsyncFct.
// Writes that find the queue full bypass it and are not serialized with the
// background writer.
type Aggregator interface {
	io.Writer
	io.Closer

	// SetLoggerError registers a callback used to report background errors
	// that cannot be returned synchronously to a caller of Write.
	SetLoggerError(fct func(msg string, err ...error))

	// Start launches the background goroutine. Must be called once.
	Start(ctx context.Context) error
}

// New allocates an Aggregator around the given configuration.
func New(ctx context.Context, cfg Config) (Aggregator, error) {
	if cfg.FctWriter == nil {
		return nil, errors.New("aggregator: FctWriter is required")
	}

	if cfg.BufWriter <= 0 {
		cfg.BufWriter = 1
	}

	return &agg{
		cfg: cfg,
		in:  make(chan []byte, cfg.BufWriter),
	}, nil
}
