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

package socket

import (
	"fmt"
	"os"
	"sync"

	"github.com/nabbar/procgraph/connector"
	"github.com/nabbar/procgraph/document"
	"github.com/nabbar/procgraph/errors"
	liblog "github.com/nabbar/procgraph/logger"
	loglvl "github.com/nabbar/procgraph/logger/level"
	"github.com/nabbar/procgraph/terminal"
)

type socket struct {
	cfg Config

	mu    sync.RWMutex
	conns []connector.Connector

	cbMu sync.RWMutex
	cbs  []RawCallback
}

func newSocket(cfg Config) *socket {
	return &socket{cfg: cfg}
}

func (s *socket) logger() liblog.Logger {
	if s.cfg.Log == nil {
		return nil
	}
	return s.cfg.Log()
}

func (s *socket) logError(msg string, err error) {
	if err == nil {
		return
	}

	if s.cfg.OnError != nil {
		s.cfg.OnError(msg, err)
	}

	if l := s.logger(); l != nil {
		l.Entry(loglvl.ErrorLevel, msg).
			FieldAdd("component", "socket").
			FieldAdd("processor", s.cfg.Owner).
			FieldAdd("terminal", s.cfg.Name).
			ErrorAdd(true, err).
			Log()
		return
	}

	_, _ = fmt.Fprintf(os.Stderr, "socket %s/%s: %s: %v\n", s.cfg.Owner, s.cfg.Name, msg, err)
}

// Terminal

func (s *socket) Name() string        { return s.cfg.Name }
func (s *socket) Protocol() string    { return s.cfg.Protocol }
func (s *socket) Owner() string       { return s.cfg.Owner }
func (s *socket) Description() string { return s.cfg.Description }
func (s *socket) Kind() terminal.Kind { return terminal.KindSocket }

func (s *socket) Connections(peerOwner, peerTerminal string) []terminal.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]terminal.Info, 0, len(s.conns))
	for _, c := range s.conns {
		if peerOwner != "" && peerOwner != c.Owner() {
			continue
		}
		if peerTerminal != "" && peerTerminal != c.Name() {
			continue
		}
		out = append(out, terminal.Info{
			Kind:        terminal.KindConnector,
			Owner:       c.Owner(),
			Name:        c.Name(),
			Protocol:    c.Protocol(),
			Description: c.Description(),
		})
	}

	return out
}

// attach/detach

func (s *socket) Attach(c connector.Connector) error {
	if !terminal.Compliant(s.cfg.Protocol, c.Protocol()) {
		return errors.New(uint16(ProtocolMismatch), getMessage(ProtocolMismatch))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.conns {
		if e.Owner() == c.Owner() && e.Name() == c.Name() {
			return errors.New(uint16(DuplicateConnector), getMessage(DuplicateConnector))
		}
	}

	s.conns = append(s.conns, c)
	c.Attach(s.cfg.Owner, s.cfg.Name)

	return nil
}

func (s *socket) Detach(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.conns {
		if c.Name() == name {
			c.Detach(s.cfg.Owner, s.cfg.Name)
			s.conns = append(s.conns[:i], s.conns[i+1:]...)
			return
		}
	}
}

func (s *socket) HasOutput() bool {
	s.mu.RLock()
	n := len(s.conns)
	s.mu.RUnlock()

	if n > 0 {
		return true
	}

	s.cbMu.RLock()
	defer s.cbMu.RUnlock()
	return len(s.cbs) > 0
}

func (s *socket) AddCallback(cb RawCallback) {
	if cb == nil {
		return
	}
	s.cbMu.Lock()
	defer s.cbMu.Unlock()
	s.cbs = append(s.cbs, cb)
}

// Send

func (s *socket) Send(doc document.Document) {
	s.mu.RLock()
	targets := make([]connector.Connector, len(s.conns))
	copy(targets, s.conns)
	s.mu.RUnlock()

	for _, c := range targets {
		if !c.Accepting() {
			s.logError("send", errors.New(uint16(connector.NotAccepting),
				fmt.Sprintf("connector %s/%s dropped a document", c.Owner(), c.Name())))
			continue
		}
		if err := c.Receive(doc); err != nil {
			s.logError("send", err)
		}
	}

	s.cbMu.RLock()
	cbs := make([]RawCallback, len(s.cbs))
	copy(cbs, s.cbs)
	s.cbMu.RUnlock()

	for _, cb := range cbs {
		s.invokeCallback(cb, doc)
	}
}

func (s *socket) invokeCallback(cb RawCallback, doc document.Document) {
	defer func() {
		if r := recover(); r != nil {
			s.logError("callback", fmt.Errorf("recovered panic: %v", r))
		}
	}()
	cb(doc)
}
