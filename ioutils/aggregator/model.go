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

package aggregator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type agg struct {
	cfg Config
	in  chan []byte

	started atomic.Bool
	closed  atomic.Bool

	m   sync.Mutex
	err func(msg string, err ...error)

	cancel context.CancelFunc
	done   chan struct{}
}

func (a *agg) SetLoggerError(fct func(msg string, err ...error)) {
	a.m.Lock()
	defer a.m.Unlock()
	a.err = fct
}

func (a *agg) logError(msg string, err error) {
	a.m.Lock()
	fct := a.err
	a.m.Unlock()

	if fct != nil && err != nil {
		fct(msg, err)
	}
}

func (a *agg) Write(p []byte) (int, error) {
	if a.closed.Load() {
		return 0, ErrClosedResources
	}

	b := make([]byte, len(p))
	copy(b, p)

	select {
	case a.in <- b:
		return len(p), nil
	default:
		// queue full: fall back to a direct write to avoid silently dropping data.
		return a.cfg.FctWriter(p)
	}
}

func (a *agg) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	if a.cancel != nil {
		a.cancel()
	}

	if a.done != nil {
		<-a.done
	}

	return nil
}

func (a *agg) Start(ctx context.Context) error {
	if !a.started.CompareAndSwap(false, true) {
		return nil
	}

	c, cnl := context.WithCancel(ctx)
	a.cancel = cnl
	a.done = make(chan struct{})

	go a.run(c)

	return nil
}

func (a *agg) run(ctx context.Context) {
	defer close(a.done)

	var syncTk *time.Ticker
	if a.cfg.SyncTimer > 0 {
		syncTk = time.NewTicker(a.cfg.SyncTimer)
		defer syncTk.Stop()
	}

	var asyncTk *time.Ticker
	if a.cfg.AsyncTimer > 0 {
		asyncTk = time.NewTicker(a.cfg.AsyncTimer)
		defer asyncTk.Stop()
	}

	var syncC, asyncC <-chan time.Time
	if syncTk != nil {
		syncC = syncTk.C
	}
	if asyncTk != nil {
		asyncC = asyncTk.C
	}

	pending := 0

	flush := func() {
		if pending > 0 && a.cfg.AsyncFct != nil {
			a.cfg.AsyncFct(ctx)
		}
		pending = 0
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case p, ok := <-a.in:
			if !ok {
				flush()
				return
			}
			if _, e := a.cfg.FctWriter(p); e != nil {
				a.logError("aggregator: write failed", e)
			}
			pending++
			if a.cfg.AsyncMax > 0 && pending >= a.cfg.AsyncMax {
				flush()
			}

		case <-syncC:
			if a.cfg.SyncFct != nil {
				a.cfg.SyncFct(ctx)
			}

		case <-asyncC:
			flush()
		}
	}
}
