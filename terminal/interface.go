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

// Package terminal holds the contract shared by sockets (output terminals)
// and connectors (input terminals): identity, protocol compliance, and
// read-only introspection snapshots.
package terminal

// Kind distinguishes a Socket terminal from a Connector terminal in a
// TerminalInfo snapshot.
type Kind uint8

const (
	KindSocket Kind = iota
	KindConnector
)

func (k Kind) String() string {
	switch k {
	case KindSocket:
		return "socket"
	case KindConnector:
		return "connector"
	default:
		return "unknown"
	}
}

// Terminal is the identity shared by every Socket and Connector: a name
// unique within its owning Processor, an opaque protocol tag, a reference
// to the owning Processor's name, and a human description.
type Terminal interface {
	Name() string
	Protocol() string
	Owner() string
	Description() string
	Kind() Kind

	// Connections returns the peer terminals currently attached, optionally
	// filtered by the owning Processor name (peer) and/or the peer terminal
	// name (peerTerminal). Empty strings mean "no filter".
	Connections(peer string, peerTerminal string) []Info
}

// Info is an immutable, on-demand snapshot of a Terminal, safe to hand to
// introspection callers (CLI, HTTP API) without exposing the live terminal.
type Info struct {
	Kind        Kind
	Owner       string
	Name        string
	Protocol    string
	Description string
	Connections int
	Peers       []Info
}

// Compliant implements the protocol-compatibility rule shared by Socket and
// Connector: either side unset (empty) is compatible with anything, else
// the tags must compare equal.
func Compliant(a, b string) bool {
	return a == "" || b == "" || a == b
}
