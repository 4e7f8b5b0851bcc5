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

// Package telemetry exposes a Prometheus Collector that a Processor graph
// can be told to report into. It is a pure observer: registering one never
// changes lifecycle semantics, it only records what already happened.
package telemetry

import (
	"context"
	"time"

	"github.com/nabbar/procgraph/processor"
)

// Collector records processor-graph activity as Prometheus metrics, keyed
// by processor and terminal name. Every method is safe to call
// concurrently and cheap enough to call from a hot dispatch path.
type Collector interface {
	// Sent / Received / Dropped account for one Document crossing a Socket
	// (Sent), being accepted by a Connector's Receive (Received), or being
	// skipped because the target Connector was not accepting (Dropped).
	Sent(procName, terminalName string)
	Received(procName, terminalName string)
	Dropped(procName, terminalName string)

	// QueueWait records how long Receive blocked waiting for a free queue
	// slot on the named Connector.
	QueueWait(procName, terminalName string, d time.Duration)

	// ProductionStopped records a producing channel's terminal transition,
	// mirroring processor.runChan's accounting.
	ProductionStopped(procName string, restarting bool)

	// Observe polls the current gauges (runchan count, queue depth, status)
	// for proc and all of its registered terminals. Intended to be called
	// periodically (see Watch) rather than per-event, since Processor
	// exposes these as point-in-time snapshots, not as change events.
	Observe(name string, proc processor.Processor)

	// Watch starts a goroutine that calls Observe(name, proc) every period
	// until ctx is cancelled.
	Watch(ctx context.Context, name string, proc processor.Processor, period time.Duration)
}

// New allocates a Collector registered against reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func New(reg Registerer) Collector {
	return newCollector(reg)
}
