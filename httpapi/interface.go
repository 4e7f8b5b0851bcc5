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

// Package httpapi wraps a named set of processor.Processor graph roots
// behind a read-only gin.Engine: status and terminal snapshots, nothing
// that mutates graph state. The core stays entirely ignorant of HTTP; this
// package only reads the Processor interface's introspection methods.
package httpapi

import (
	"net/http"

	"github.com/nabbar/procgraph/processor"
)

// FuncProcessor is the registration signature a caller supplies to New: it
// returns the current named set of graph roots to expose. Called on every
// request, so callers can swap the set at runtime (e.g. after a config
// reload) without restarting the API.
type FuncProcessor func() map[string]processor.Processor

// API serves read-only introspection over a named set of processors.
type API interface {
	// Handler returns the http.Handler to mount (or serve directly).
	Handler() http.Handler
}

// New builds an API backed by fct. basePath is prefixed to every route
// (empty means root); pass "" to mount at "/".
func New(fct FuncProcessor, basePath string) API {
	return newAPI(fct, basePath)
}
