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

// Package connector implements the input terminal of the processor graph:
// a bounded inbound queue drained by a dispatcher goroutine into a handler
// bound on the owning Processor.
package connector

import (
	"context"

	"github.com/nabbar/procgraph/document"
	liblog "github.com/nabbar/procgraph/logger"
	"github.com/nabbar/procgraph/terminal"
)

// Handler processes one Document dequeued by the dispatcher. An error is
// logged by the Connector and does not stop the dispatcher.
type Handler func(doc document.Document) error

// OnProductionStopped is invoked exactly once, after the dispatcher has
// drained its queue following stop(), with restarting reflecting whether
// the owning Processor is mid-restart.
type OnProductionStopped func(restarting bool)

// Connector is the input terminal: it owns the inbound queue, the
// dispatcher goroutine, and the small state machine of accepting/running/
// suspended described in spec.md §4.3.
type Connector interface {
	terminal.Terminal

	// Attach/Detach register or remove an upstream Socket name for
	// introspection purposes; the actual fan-out wiring lives on the
	// Socket side. Not safe concurrently with Send.
	Attach(socketOwner, socketName string)
	Detach(socketOwner, socketName string)

	// Accepting reports whether the connector currently admits new items.
	Accepting() bool

	// Receive enqueues doc, blocking if the bounded queue is full. Returns
	// NotAccepting if the connector is not currently accepting.
	Receive(doc document.Document) error

	// AcceptIncoming transitions to accepting-only (or is a no-op if
	// already running).
	AcceptIncoming()

	// Run starts the dispatcher goroutine and transitions to running.
	Run(ctx context.Context)

	// Suspend / Resume pause or unpause dispatch without affecting
	// Accepting.
	Suspend()
	Resume()

	// Stop enters draining: no new items accepted, the queue is drained to
	// empty, then OnProductionStopped(restarting) fires and the dispatcher
	// exits.
	Stop(restarting bool)

	// Abort discards the queue and terminates the dispatcher immediately.
	Abort()

	// QueueLen reports the number of items currently buffered, used by
	// telemetry and introspection.
	QueueLen() int
}

// Config describes a Connector at construction time.
type Config struct {
	Owner       string
	Name        string
	Protocol    string
	Description string
	QueueDepth  int64
	Handler     Handler
	OnStopped   OnProductionStopped

	// Log supplies the structured logger handler/dispatch failures are
	// reported to, at ErrorLevel with component/processor/terminal fields.
	// Nil falls back to stderr.
	Log liblog.FuncLog

	// OnError is an additional, best-effort raw hook invoked alongside Log.
	OnError func(msg string, err error)
}

// New allocates a Connector in the idle state. The dispatcher is not
// started until Run is called.
func New(cfg Config) Connector {
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = 64
	}

	return newConnector(cfg)
}
