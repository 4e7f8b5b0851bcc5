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

// Package processor implements the Processor: a named node owning a
// registry of sockets and connectors, an optional generator worker, and the
// lifecycle cascade (setup/accept/run, stop/abort/suspend/resume/restart)
// that propagates across the subscriber graph.
package processor

import (
	"time"

	"github.com/nabbar/procgraph/connector"
	"github.com/nabbar/procgraph/document"
	liblog "github.com/nabbar/procgraph/logger"
	"github.com/nabbar/procgraph/socket"
	"github.com/nabbar/procgraph/terminal"
)

// Handlers holds the optional lifecycle and tick callbacks a Processor
// invokes during its cascades and generator loop. Every handler but OnOpen
// is best-effort: a returned error is logged and swallowed.
type Handlers struct {
	OnOpen     func() error
	OnStartup  func() error
	OnShutdown func() error
	OnTick     func() error
	OnSuspend  func() error
	OnResume   func() error
	OnAbort    func() error
	OnClose    func() error
}

// Config describes a Processor at construction time.
type Config struct {
	Name         string
	IsGenerator  bool
	Keepalive    bool
	TickInterval time.Duration
	Handlers     Handlers

	// Log supplies the structured logger handler failures are reported to,
	// at ErrorLevel with component/processor fields. Nil falls back to
	// stderr, matching the teacher's own "optional logger, never silent"
	// convention (see e.g. httpserver.Server.logger()).
	Log liblog.FuncLog

	// OnError is an additional, best-effort raw hook (e.g. for a telemetry
	// Collector's Dropped counter) invoked alongside Log, not instead of it.
	OnError func(msg string, err error)
}

// Processor is the graph node described by spec.md §3-§4.4.
type Processor interface {
	Name() string

	// AddSocket registers a new output terminal. isDefault marks it as the
	// terminal returned by default-resolution when no name is given.
	AddSocket(cfg socket.Config, isDefault bool) (socket.Socket, error)

	// AddConnector registers a new input terminal bound to handler.
	AddConnector(cfg connector.Config, handler connector.Handler, isDefault bool) (connector.Connector, error)

	Socket(name string) (socket.Socket, error)
	Connector(name string) (connector.Connector, error)

	// Subscribe resolves socketName on this Processor and connectorName on
	// sub, checks protocol compliance, and attaches them. Empty names use
	// default-terminal resolution.
	Subscribe(socketName string, sub Processor, connectorName string) error
	// Unsubscribe detaches the pair resolved the same way Subscribe does,
	// filtering on connectorName (not on sub's own terminal identity).
	Unsubscribe(socketName string, sub Processor, connectorName string) error

	Start() error
	Stop()
	Abort()
	Suspend()
	Resume()
	Restart() error
	Wait()

	// Put injects doc directly into the named Connector (or the default one
	// if connectorName is empty), bypassing any Socket.
	Put(doc document.Document, connectorName string) error
	// AddCallback taps the named Socket's (or default Socket's) raw output.
	AddCallback(cb socket.RawCallback, socketName string) error

	Status() string
	RunChanCount() int32
	SocketInfo(names ...string) []terminal.Info
	ConnectorInfo(names ...string) []terminal.Info
}

// New allocates a Processor in the stopped, uninitialized state. No socket
// or connector exists until AddSocket/AddConnector is called.
func New(cfg Config) Processor {
	return newProc(cfg)
}
