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

import "sync/atomic"

// runChan is the single accountant for "number of currently producing
// channels" (spec.md's runchan_count): one per running Connector dispatcher,
// plus one more while a generator's worker goroutine is alive. Every
// producing channel decrements it exactly once, on its own terminal
// transition — a Connector's post-drain call from productionStopped, or the
// generator worker's own exit path — never both for the same channel.
type runChan struct {
	n atomic.Int32
}

func (r *runChan) inc() int32 { return r.n.Add(1) }
func (r *runChan) dec() int32 { return r.n.Add(-1) }
func (r *runChan) load() int32 { return r.n.Load() }

// productionStopped implements spec.md §4.4's production_stopped(restarting):
// it decrements runChan, and when every producing channel has finished (or a
// restart is underway, which short-circuits the wait), it clears stopping
// and running, closes the processor, and — unless restarting — cascades
// stop() to subscribers that do not opt out via keepalive.
func (p *proc) productionStopped(restarting bool) {
	remaining := p.runChan.dec()

	if !restarting && remaining > 0 {
		return
	}

	p.finalizeStop(restarting)
}

// finalizeStop clears stopping/running, closes the processor and, unless
// restarting, cascades stop() onward. It is the common tail of
// productionStopped and of stopInternal's fast path for a processor with no
// producing channel at all (no connectors, not a generator) — such a
// processor has nothing left to decrement, so it finalizes immediately
// rather than waiting on a callback that will never fire.
func (p *proc) finalizeStop(restarting bool) {
	p.flags.stopping.Store(false)
	p.flags.running.Store(false)

	p.closeProcessor()

	if restarting {
		return
	}

	p.cascadeStopSubscribers()
}
