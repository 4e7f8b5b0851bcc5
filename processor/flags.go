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
	libatm "github.com/nabbar/procgraph/atomic"
)

// flags holds the six status booleans of spec.md §4.4 plus the
// initialized guard, each as a lock-free atomic value so cascades can read
// them concurrently with the goroutines that write them.
type flags struct {
	accepting   libatm.Value[bool]
	running     libatm.Value[bool]
	suspended   libatm.Value[bool]
	stopping    libatm.Value[bool]
	restarting  libatm.Value[bool]
	aborted     libatm.Value[bool]
	initialized libatm.Value[bool]
}

func newFlags() *flags {
	return &flags{
		accepting:   libatm.NewValue[bool](),
		running:     libatm.NewValue[bool](),
		suspended:   libatm.NewValue[bool](),
		stopping:    libatm.NewValue[bool](),
		restarting:  libatm.NewValue[bool](),
		aborted:     libatm.NewValue[bool](),
		initialized: libatm.NewValue[bool](),
	}
}

// Status derives the observable status string from flag precedence:
// aborted > restarting > stopping > (running & suspended) > running > stopped.
func (f *flags) Status() string {
	switch {
	case f.aborted.Load():
		return "aborted"
	case f.restarting.Load():
		return "restarting"
	case f.stopping.Load():
		return "stopping"
	case f.running.Load() && f.suspended.Load():
		return "suspended"
	case f.running.Load():
		return "running"
	default:
		return "stopped"
	}
}
