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

// Package socket implements the output terminal of the processor graph: a
// fan-out point that pushes every Document it is given to each attached
// Connector, plus a set of raw callbacks for observers that want the data
// without taking part in the graph (metrics, tee-ing, tests).
package socket

import (
	"github.com/nabbar/procgraph/connector"
	"github.com/nabbar/procgraph/document"
	liblog "github.com/nabbar/procgraph/logger"
	"github.com/nabbar/procgraph/terminal"
)

// RawCallback observes every Document sent through a Socket, after fan-out
// to attached Connectors. A panic or error from a RawCallback is recovered
// and logged; it never interrupts Send.
type RawCallback func(doc document.Document)

// Socket is the output terminal: Processors call Send to push data out, and
// other Processors' Connectors Attach themselves to receive it.
type Socket interface {
	terminal.Terminal

	// Attach registers c as a recipient of future Send calls. Attaching the
	// same Connector twice is a no-op. Not safe concurrently with Send.
	Attach(c connector.Connector) error

	// Detach removes a previously attached Connector by name. Not safe
	// concurrently with Send.
	Detach(name string)

	// HasOutput reports whether at least one Connector is currently
	// attached, or at least one raw callback is registered.
	HasOutput() bool

	// AddCallback registers a RawCallback invoked for every Document sent,
	// independent of the attached Connectors.
	AddCallback(cb RawCallback)

	// Send fans doc out to every attached Connector, then to every raw
	// callback. A Connector that is not accepting is skipped and reported
	// through OnError rather than blocking Send.
	Send(doc document.Document)
}

// Config describes a Socket at construction time.
type Config struct {
	Owner       string
	Name        string
	Protocol    string
	Description string

	// Log supplies the structured logger drop/callback failures are
	// reported to, at ErrorLevel with component/processor/connector
	// fields. Nil falls back to stderr.
	Log liblog.FuncLog

	// OnError is an additional, best-effort raw hook invoked alongside Log.
	OnError func(msg string, err error)
}

// New allocates a Socket with no attached Connectors and no callbacks.
func New(cfg Config) Socket {
	return newSocket(cfg)
}
