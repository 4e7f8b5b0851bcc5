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

package connector

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/nabbar/procgraph/document"
	"github.com/nabbar/procgraph/errors"
	liblog "github.com/nabbar/procgraph/logger"
	loglvl "github.com/nabbar/procgraph/logger/level"
	"github.com/nabbar/procgraph/terminal"
)

// state enumerates the connector's small lifecycle, kept separate from the
// owning Processor's own state machine.
type state int32

const (
	stateIdle state = iota
	stateAccepting
	stateRunning
	stateSuspended
	stateDraining
	stateAborted
)

type peer struct {
	owner string
	name  string
}

type connector struct {
	cfg Config

	st state32

	sem *semaphore.Weighted

	mu  sync.Mutex
	buf []document.Document

	wake chan struct{}

	pauseMu sync.Mutex
	pauseCh chan struct{}

	peersMu sync.Mutex
	peers   []peer

	cancel context.CancelFunc
	done   chan struct{}

	errFct func(msg string, err error)
}

// state32 wraps sync/atomic.Int32 to keep the state field access terse and
// self-documenting at call sites.
type state32 struct {
	v atomic.Int32
}

func (s *state32) load() state       { return state(s.v.Load()) }
func (s *state32) store(n state)     { s.v.Store(int32(n)) }
func (s *state32) cas(o, n state) bool {
	return s.v.CompareAndSwap(int32(o), int32(n))
}

func newConnector(cfg Config) *connector {
	c := &connector{
		cfg:    cfg,
		sem:    semaphore.NewWeighted(cfg.QueueDepth),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		errFct: cfg.OnError,
	}
	close(c.done)

	return c
}

func (c *connector) logger() liblog.Logger {
	if c.cfg.Log == nil {
		return nil
	}
	return c.cfg.Log()
}

func (c *connector) logError(msg string, err error) {
	if err == nil {
		return
	}

	if c.errFct != nil {
		c.errFct(msg, err)
	}

	if l := c.logger(); l != nil {
		l.Entry(loglvl.ErrorLevel, msg).
			FieldAdd("component", "connector").
			FieldAdd("processor", c.cfg.Owner).
			FieldAdd("terminal", c.cfg.Name).
			ErrorAdd(true, err).
			Log()
		return
	}

	_, _ = fmt.Fprintf(os.Stderr, "connector %s/%s: %s: %v\n", c.cfg.Owner, c.cfg.Name, msg, err)
}

// Terminal

func (c *connector) Name() string        { return c.cfg.Name }
func (c *connector) Protocol() string    { return c.cfg.Protocol }
func (c *connector) Owner() string       { return c.cfg.Owner }
func (c *connector) Description() string { return c.cfg.Description }
func (c *connector) Kind() terminal.Kind { return terminal.KindConnector }

func (c *connector) Connections(peerOwner, peerTerminal string) []terminal.Info {
	c.peersMu.Lock()
	defer c.peersMu.Unlock()

	out := make([]terminal.Info, 0, len(c.peers))
	for _, p := range c.peers {
		if peerOwner != "" && peerOwner != p.owner {
			continue
		}
		if peerTerminal != "" && peerTerminal != p.name {
			continue
		}
		out = append(out, terminal.Info{
			Kind:  terminal.KindSocket,
			Owner: p.owner,
			Name:  p.name,
		})
	}

	return out
}

// attach/detach

func (c *connector) Attach(socketOwner, socketName string) {
	c.peersMu.Lock()
	defer c.peersMu.Unlock()

	for _, p := range c.peers {
		if p.owner == socketOwner && p.name == socketName {
			return
		}
	}
	c.peers = append(c.peers, peer{owner: socketOwner, name: socketName})
}

func (c *connector) Detach(socketOwner, socketName string) {
	c.peersMu.Lock()
	defer c.peersMu.Unlock()

	for i, p := range c.peers {
		if p.owner == socketOwner && p.name == socketName {
			c.peers = append(c.peers[:i], c.peers[i+1:]...)
			return
		}
	}
}

// lifecycle

func (c *connector) Accepting() bool {
	switch c.st.load() {
	case stateAccepting, stateRunning, stateSuspended:
		return true
	default:
		return false
	}
}

func (c *connector) QueueLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

func (c *connector) Receive(doc document.Document) error {
	if !c.Accepting() {
		return errors.New(uint16(NotAccepting), getMessage(NotAccepting))
	}

	if err := c.sem.Acquire(context.Background(), 1); err != nil {
		return err
	}

	c.mu.Lock()
	c.buf = append(c.buf, doc)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}

	return nil
}

func (c *connector) AcceptIncoming() {
	c.st.cas(stateIdle, stateAccepting)
}

func (c *connector) Run(ctx context.Context) {
	if !c.st.cas(stateAccepting, stateRunning) {
		c.st.cas(stateIdle, stateRunning)
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})

	go c.dispatch(runCtx)
}

func (c *connector) Suspend() {
	c.pauseMu.Lock()
	defer c.pauseMu.Unlock()

	if c.st.cas(stateRunning, stateSuspended) && c.pauseCh == nil {
		c.pauseCh = make(chan struct{})
	}
}

func (c *connector) Resume() {
	c.pauseMu.Lock()
	defer c.pauseMu.Unlock()

	if c.st.cas(stateSuspended, stateRunning) && c.pauseCh != nil {
		close(c.pauseCh)
		c.pauseCh = nil
	}
}

func (c *connector) Stop(restarting bool) {
	prev := c.st.load()
	if prev == stateIdle || prev == stateAborted {
		return
	}
	c.st.store(stateDraining)

	select {
	case c.wake <- struct{}{}:
	default:
	}

	if prev != stateRunning && prev != stateSuspended {
		// dispatcher never started: drain and fire the callback inline.
		c.drainRemaining()
		c.st.store(stateIdle)
		if c.cfg.OnStopped != nil {
			c.cfg.OnStopped(restarting)
		}
		return
	}

	// Unpause unconditionally: the state is already draining, so Resume's
	// suspended->running transition would not fire for a suspended connector.
	c.pauseMu.Lock()
	if c.pauseCh != nil {
		close(c.pauseCh)
		c.pauseCh = nil
	}
	c.pauseMu.Unlock()
	<-c.done

	if c.cfg.OnStopped != nil {
		c.cfg.OnStopped(restarting)
	}
}

func (c *connector) Abort() {
	c.st.store(stateAborted)

	c.mu.Lock()
	dropped := int64(len(c.buf))
	c.buf = nil
	c.mu.Unlock()

	if dropped > 0 {
		c.sem.Release(dropped)
	}

	if c.cancel != nil {
		c.cancel()
	}
}

func (c *connector) drainRemaining() {
	for {
		c.mu.Lock()
		if len(c.buf) == 0 {
			c.mu.Unlock()
			return
		}
		doc := c.buf[0]
		c.buf = c.buf[1:]
		c.mu.Unlock()
		c.sem.Release(1)

		if c.cfg.Handler != nil {
			if err := c.cfg.Handler(doc); err != nil {
				c.logError("handler", err)
			}
		}
	}
}

func (c *connector) dispatch(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.wake:
		}

		for {
			if c.st.load() == stateAborted {
				return
			}

			c.pauseMu.Lock()
			wait := c.pauseCh
			c.pauseMu.Unlock()
			if wait != nil {
				select {
				case <-wait:
				case <-ctx.Done():
					return
				}
				continue
			}

			c.mu.Lock()
			if len(c.buf) == 0 {
				c.mu.Unlock()
				break
			}
			doc := c.buf[0]
			c.buf = c.buf[1:]
			c.mu.Unlock()
			c.sem.Release(1)

			if c.cfg.Handler != nil {
				if err := c.cfg.Handler(doc); err != nil {
					c.logError("handler", err)
				}
			}
		}

		if c.st.load() == stateDraining {
			return
		}
	}
}
