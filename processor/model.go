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

package processor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	libatm "github.com/nabbar/procgraph/atomic"
	libctx "github.com/nabbar/procgraph/context"
	liberr "github.com/nabbar/procgraph/errors"
	liblog "github.com/nabbar/procgraph/logger"
	loglvl "github.com/nabbar/procgraph/logger/level"

	"github.com/nabbar/procgraph/connector"
	"github.com/nabbar/procgraph/document"
	"github.com/nabbar/procgraph/socket"
	"github.com/nabbar/procgraph/terminal"
)

type proc struct {
	cfg      Config
	handlers Handlers

	sockets    libatm.MapTyped[string, socket.Socket]
	connectors libatm.MapTyped[string, connector.Connector]

	defaultSocket    libatm.Value[string]
	defaultConnector libatm.Value[string]

	flags   *flags
	runChan runChan

	subsMu sync.Mutex
	subs   []*proc

	workerWG     sync.WaitGroup
	workerCancel context.CancelFunc
}

func newProc(cfg Config) *proc {
	p := &proc{
		cfg:              cfg,
		handlers:         cfg.Handlers,
		sockets:          libatm.NewMapTyped[string, socket.Socket](),
		connectors:       libatm.NewMapTyped[string, connector.Connector](),
		defaultSocket:    libatm.NewValue[string](),
		defaultConnector: libatm.NewValue[string](),
		flags:            newFlags(),
	}

	return p
}

func (p *proc) logger() liblog.Logger {
	if p.cfg.Log == nil {
		return nil
	}
	return p.cfg.Log()
}

func (p *proc) logError(msg string, err error) {
	if err == nil {
		return
	}

	if p.cfg.OnError != nil {
		p.cfg.OnError(msg, err)
	}

	if l := p.logger(); l != nil {
		l.Entry(loglvl.ErrorLevel, msg).
			FieldAdd("component", "processor").
			FieldAdd("processor", p.cfg.Name).
			ErrorAdd(true, err).
			Log()
		return
	}

	_, _ = fmt.Fprintf(os.Stderr, "processor %s: %s: %v\n", p.cfg.Name, msg, err)
}

func (p *proc) Name() string { return p.cfg.Name }

// terminals

func (p *proc) AddSocket(cfg socket.Config, isDefault bool) (socket.Socket, error) {
	if cfg.Owner == "" {
		cfg.Owner = p.cfg.Name
	}
	if cfg.Log == nil {
		cfg.Log = p.cfg.Log
	}
	if _, ok := p.sockets.Load(cfg.Name); ok {
		return nil, liberr.New(uint16(DuplicateTerminal), getMessage(DuplicateTerminal))
	}

	s := socket.New(cfg)
	p.sockets.Store(cfg.Name, s)

	if isDefault {
		p.defaultSocket.Store(cfg.Name)
	}

	return s, nil
}

func (p *proc) AddConnector(cfg connector.Config, handler connector.Handler, isDefault bool) (connector.Connector, error) {
	if cfg.Owner == "" {
		cfg.Owner = p.cfg.Name
	}
	if cfg.Log == nil {
		cfg.Log = p.cfg.Log
	}
	if _, ok := p.connectors.Load(cfg.Name); ok {
		return nil, liberr.New(uint16(DuplicateTerminal), getMessage(DuplicateTerminal))
	}

	cfg.Handler = handler
	cfg.OnStopped = func(restarting bool) {
		p.productionStopped(restarting)
	}

	c := connector.New(cfg)
	p.connectors.Store(cfg.Name, c)

	if isDefault {
		p.defaultConnector.Store(cfg.Name)
	}

	return c, nil
}

func (p *proc) Socket(name string) (socket.Socket, error) {
	return p.resolveSocket(name)
}

func (p *proc) Connector(name string) (connector.Connector, error) {
	return p.resolveConnector(name)
}

func (p *proc) resolveSocket(name string) (socket.Socket, error) {
	if name != "" {
		if s, ok := p.sockets.Load(name); ok {
			return s, nil
		}
		return nil, liberr.New(uint16(UnknownTerminal), getMessage(UnknownTerminal))
	}

	if only := p.soleSocketName(); only != "" {
		s, _ := p.sockets.Load(only)
		return s, nil
	}
	if def := p.defaultSocket.Load(); def != "" {
		if s, ok := p.sockets.Load(def); ok {
			return s, nil
		}
	}

	return nil, liberr.New(uint16(AmbiguousTerminal), getMessage(AmbiguousTerminal))
}

func (p *proc) resolveConnector(name string) (connector.Connector, error) {
	if name != "" {
		if c, ok := p.connectors.Load(name); ok {
			return c, nil
		}
		return nil, liberr.New(uint16(UnknownTerminal), getMessage(UnknownTerminal))
	}

	if only := p.soleConnectorName(); only != "" {
		c, _ := p.connectors.Load(only)
		return c, nil
	}
	if def := p.defaultConnector.Load(); def != "" {
		if c, ok := p.connectors.Load(def); ok {
			return c, nil
		}
	}

	return nil, liberr.New(uint16(AmbiguousTerminal), getMessage(AmbiguousTerminal))
}

func (p *proc) soleSocketName() string {
	var only string
	count := 0
	p.sockets.Range(func(k string, _ socket.Socket) bool {
		only = k
		count++
		return count < 2
	})
	if count == 1 {
		return only
	}
	return ""
}

func (p *proc) soleConnectorName() string {
	var only string
	count := 0
	p.connectors.Range(func(k string, _ connector.Connector) bool {
		only = k
		count++
		return count < 2
	})
	if count == 1 {
		return only
	}
	return ""
}

// graph wiring

func (p *proc) Subscribe(socketName string, sub Processor, connectorName string) error {
	target, ok := sub.(*proc)
	if !ok {
		return liberr.New(uint16(UnknownTerminal), "subscriber is not a processor produced by this package")
	}

	s, err := p.resolveSocket(socketName)
	if err != nil {
		return err
	}
	c, err := target.resolveConnector(connectorName)
	if err != nil {
		return err
	}

	if err = s.Attach(c); err != nil {
		return err
	}

	p.subsMu.Lock()
	found := false
	for _, e := range p.subs {
		if e == target {
			found = true
			break
		}
	}
	if !found {
		p.subs = append(p.subs, target)
	}
	p.subsMu.Unlock()

	return nil
}

func (p *proc) Unsubscribe(socketName string, sub Processor, connectorName string) error {
	target, ok := sub.(*proc)
	if !ok {
		return liberr.New(uint16(UnknownTerminal), "subscriber is not a processor produced by this package")
	}

	s, err := p.resolveSocket(socketName)
	if err != nil {
		return err
	}
	c, err := target.resolveConnector(connectorName)
	if err != nil {
		return err
	}

	// Filter by the resolved connector name, not by comparing the
	// connector to itself (a stray self-comparison in the source this was
	// distilled from made the filter a no-op).
	s.Detach(c.Name())

	return nil
}

func (p *proc) subsSnapshot() []*proc {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	out := make([]*proc, len(p.subs))
	copy(out, p.subs)
	return out
}

// setup / accept / run cascades

func (p *proc) setupCascade(visited libctx.Config[string]) error {
	if _, loaded := visited.LoadOrStore(p.cfg.Name, true); loaded {
		return nil
	}

	if !p.flags.initialized.Load() {
		if p.handlers.OnOpen != nil {
			if err := p.handlers.OnOpen(); err != nil {
				return liberr.New(uint16(HandlerFailure), getMessage(HandlerFailure), err)
			}
		}
		p.flags.initialized.Store(true)
	}

	for _, s := range p.subsSnapshot() {
		if err := s.setupCascade(visited); err != nil {
			return err
		}
	}

	return nil
}

func (p *proc) acceptCascade(visited libctx.Config[string]) {
	if _, loaded := visited.LoadOrStore(p.cfg.Name, true); loaded {
		return
	}
	if p.flags.accepting.Load() || p.flags.stopping.Load() {
		return
	}

	p.flags.accepting.Store(true)
	p.connectors.Range(func(_ string, c connector.Connector) bool {
		c.AcceptIncoming()
		return true
	})

	for _, s := range p.subsSnapshot() {
		s.acceptCascade(visited)
	}
}

func (p *proc) runCascade(visited libctx.Config[string]) {
	if _, loaded := visited.LoadOrStore(p.cfg.Name, true); loaded {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.workerCancel = cancel

	p.connectors.Range(func(_ string, c connector.Connector) bool {
		c.Run(ctx)
		p.runChan.inc()
		return true
	})

	for _, s := range p.subsSnapshot() {
		s.runCascade(visited)
	}

	p.flags.aborted.Store(false)
	p.flags.stopping.Store(false)
	p.flags.suspended.Store(false)
	p.flags.running.Store(true)

	if p.cfg.IsGenerator {
		p.runChan.inc()
		p.workerWG.Add(1)
		go p.runWorker(ctx)
	}
}

// start / stop / abort / suspend / resume / restart / wait

func (p *proc) Start() error {
	if p.flags.stopping.Load() || p.flags.restarting.Load() {
		return liberr.New(uint16(InvalidLifecycleTransition), getMessage(InvalidLifecycleTransition))
	}
	if p.flags.running.Load() {
		return nil
	}

	if err := p.setupCascade(libctx.New[string](context.Background())); err != nil {
		return err
	}
	p.acceptCascade(libctx.New[string](context.Background()))
	p.runCascade(libctx.New[string](context.Background()))

	return nil
}

func (p *proc) Stop() {
	p.stopInternal(false)
}

func (p *proc) stopInternal(restarting bool) {
	if p.flags.stopping.Load() || (!restarting && p.flags.restarting.Load()) || !p.flags.running.Load() {
		return
	}

	p.flags.accepting.Store(false)
	p.flags.stopping.Store(true)

	if restarting {
		p.connectors.Range(func(_ string, c connector.Connector) bool {
			c.Suspend()
			return true
		})
		return
	}

	if p.runChan.load() == 0 {
		// No connector and no generator worker: nothing will ever call
		// productionStopped for this processor, so finalize synchronously.
		p.finalizeStop(false)
		return
	}

	p.connectors.Range(func(_ string, c connector.Connector) bool {
		cc := c
		go cc.Stop(false)
		return true
	})
}

func (p *proc) closeProcessor() {
	if p.handlers.OnClose != nil {
		if err := p.handlers.OnClose(); err != nil {
			p.logError("on_close", err)
		}
	}
	p.flags.initialized.Store(false)
}

func (p *proc) cascadeStopSubscribers() {
	for _, s := range p.subsSnapshot() {
		if s.cfg.Keepalive {
			continue
		}
		s.Stop()
	}
}

func (p *proc) Abort() {
	if p.flags.aborted.Load() || !p.flags.running.Load() {
		return
	}

	p.connectors.Range(func(_ string, c connector.Connector) bool {
		c.Abort()
		return true
	})

	p.flags.aborted.Store(true)
	p.flags.accepting.Store(false)
	p.flags.running.Store(false)
	p.flags.stopping.Store(false)
	p.flags.restarting.Store(false)

	if p.handlers.OnAbort != nil {
		if err := p.handlers.OnAbort(); err != nil {
			p.logError("on_abort", err)
		}
	}

	if p.workerCancel != nil {
		p.workerCancel()
	}

	if !p.cfg.IsGenerator {
		p.closeProcessor()
	}

	for _, s := range p.subsSnapshot() {
		s.Abort()
	}
}

func (p *proc) Suspend() {
	if !p.flags.running.Load() || p.flags.suspended.Load() {
		return
	}
	p.flags.suspended.Store(true)

	if p.handlers.OnSuspend != nil {
		if err := p.handlers.OnSuspend(); err != nil {
			p.logError("on_suspend", err)
		}
	}

	p.connectors.Range(func(_ string, c connector.Connector) bool {
		c.Suspend()
		return true
	})
}

func (p *proc) Resume() {
	if !p.flags.suspended.Load() {
		return
	}
	p.flags.suspended.Store(false)

	if p.handlers.OnResume != nil {
		if err := p.handlers.OnResume(); err != nil {
			p.logError("on_resume", err)
		}
	}

	p.connectors.Range(func(_ string, c connector.Connector) bool {
		c.Resume()
		return true
	})
}

// Restart quiesces this processor only (subscribers are left untouched) and
// resumes it in place: connectors are suspended, not stopped, so their
// queues survive, and initialized is never cleared, so on_open/on_startup
// do not run again (scenario S6).
func (p *proc) Restart() error {
	if p.flags.stopping.Load() {
		return nil
	}
	if !p.flags.running.Load() {
		return p.Start()
	}

	p.flags.restarting.Store(true)
	p.stopInternal(true)

	if p.cfg.IsGenerator {
		for p.flags.running.Load() {
			time.Sleep(time.Millisecond)
		}
	} else {
		p.flags.running.Store(false)
	}

	p.flags.stopping.Store(false)
	p.flags.accepting.Store(true)

	p.connectors.Range(func(_ string, c connector.Connector) bool {
		c.Resume()
		return true
	})

	p.flags.running.Store(true)
	p.flags.restarting.Store(false)

	return nil
}

func (p *proc) Wait() {
	for p.flags.running.Load() || p.flags.restarting.Load() {
		time.Sleep(time.Millisecond)
	}
	if p.cfg.IsGenerator {
		p.workerWG.Wait()
	}
}

// generator worker

func (p *proc) runWorker(ctx context.Context) {
	defer p.workerWG.Done()

	if p.handlers.OnStartup != nil {
		if err := p.handlers.OnStartup(); err != nil {
			p.logError("on_startup", err)
		}
	}

	interval := p.cfg.TickInterval
	if interval <= 0 {
		interval = time.Millisecond
	}
	t := time.NewTicker(interval)
	defer t.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-t.C:
		}

		if p.flags.stopping.Load() {
			if p.flags.restarting.Load() {
				p.flags.running.Store(false)
				continue
			}
			if p.runChan.load() == 1 {
				if p.handlers.OnShutdown != nil {
					if err := p.handlers.OnShutdown(); err != nil {
						p.logError("on_shutdown", err)
					}
				}
				p.productionStopped(false)
				return
			}
			continue
		}

		if !p.flags.running.Load() {
			continue
		}

		if !p.flags.suspended.Load() && p.handlers.OnTick != nil {
			if err := p.handlers.OnTick(); err != nil {
				p.logError("on_tick", err)
			}
		}
	}

	if p.flags.aborted.Load() {
		p.closeProcessor()
		p.runChan.dec()
	}
}

// external injection / tapping

func (p *proc) Put(doc document.Document, connectorName string) error {
	c, err := p.resolveConnector(connectorName)
	if err != nil {
		return err
	}
	if !c.Accepting() {
		return liberr.New(uint16(NotAccepting), getMessage(NotAccepting))
	}
	return c.Receive(doc)
}

func (p *proc) AddCallback(cb socket.RawCallback, socketName string) error {
	s, err := p.resolveSocket(socketName)
	if err != nil {
		return err
	}
	s.AddCallback(cb)
	return nil
}

// introspection

func (p *proc) Status() string {
	return p.flags.Status()
}

func (p *proc) RunChanCount() int32 {
	return p.runChan.load()
}

func (p *proc) SocketInfo(names ...string) []terminal.Info {
	return collectInfo(p.sockets, names, func(s socket.Socket) terminal.Info {
		return terminal.Info{
			Kind:        terminal.KindSocket,
			Owner:       s.Owner(),
			Name:        s.Name(),
			Protocol:    s.Protocol(),
			Description: s.Description(),
			Peers:       s.Connections("", ""),
			Connections: len(s.Connections("", "")),
		}
	})
}

func (p *proc) ConnectorInfo(names ...string) []terminal.Info {
	return collectInfo(p.connectors, names, func(c connector.Connector) terminal.Info {
		return terminal.Info{
			Kind:        terminal.KindConnector,
			Owner:       c.Owner(),
			Name:        c.Name(),
			Protocol:    c.Protocol(),
			Description: c.Description(),
			Peers:       c.Connections("", ""),
			Connections: len(c.Connections("", "")),
		}
	})
}

func collectInfo[T any](m libatm.MapTyped[string, T], names []string, toInfo func(T) terminal.Info) []terminal.Info {
	if len(names) == 0 {
		out := make([]terminal.Info, 0)
		m.Range(func(_ string, v T) bool {
			out = append(out, toInfo(v))
			return true
		})
		return out
	}

	out := make([]terminal.Info, 0, len(names))
	for _, n := range names {
		if v, ok := m.Load(n); ok {
			out = append(out, toInfo(v))
		}
	}
	return out
}
