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

package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/procgraph/processor"
)

// Registerer is the subset of prometheus.Registerer this package needs,
// kept narrow so callers can pass prometheus.DefaultRegisterer or a private
// *prometheus.Registry interchangeably.
type Registerer = prometheus.Registerer

const namespace = "procgraph"

type collector struct {
	sent    *prometheus.CounterVec
	recv    *prometheus.CounterVec
	dropped *prometheus.CounterVec
	prodEnd *prometheus.CounterVec
	waitSec *prometheus.HistogramVec

	runChan     *prometheus.GaugeVec
	queueDepth  *prometheus.GaugeVec
	connections *prometheus.GaugeVec
}

func newCollector(reg Registerer) *collector {
	c := &collector{
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "documents_sent_total",
			Help: "Documents handed to Socket.Send, by processor and socket name.",
		}, []string{"processor", "terminal"}),
		recv: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "documents_received_total",
			Help: "Documents accepted by Connector.Receive, by processor and connector name.",
		}, []string{"processor", "terminal"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "documents_dropped_total",
			Help: "Documents skipped because the target connector was not accepting.",
		}, []string{"processor", "terminal"}),
		prodEnd: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "production_stopped_total",
			Help: "production_stopped events, labeled by whether they occurred mid-restart.",
		}, []string{"processor", "restarting"}),
		waitSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "queue_wait_seconds",
			Help:    "Time Receive spent blocked waiting for a free queue slot.",
			Buckets: prometheus.DefBuckets,
		}, []string{"processor", "terminal"}),
		runChan: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "runchan_count",
			Help: "Current value of a processor's producing-channel accountant.",
		}, []string{"processor"}),
		queueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "connector_queue_length",
			Help: "Number of documents currently buffered in a connector's queue.",
		}, []string{"processor", "terminal"}),
		connections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "terminal_connections",
			Help: "Number of peers currently attached to a terminal.",
		}, []string{"processor", "terminal", "kind"}),
	}

	if reg != nil {
		reg.MustRegister(c.sent, c.recv, c.dropped, c.prodEnd, c.waitSec, c.runChan, c.queueDepth, c.connections)
	}

	return c
}

func (c *collector) Sent(procName, terminalName string) {
	c.sent.WithLabelValues(procName, terminalName).Inc()
}

func (c *collector) Received(procName, terminalName string) {
	c.recv.WithLabelValues(procName, terminalName).Inc()
}

func (c *collector) Dropped(procName, terminalName string) {
	c.dropped.WithLabelValues(procName, terminalName).Inc()
}

func (c *collector) QueueWait(procName, terminalName string, d time.Duration) {
	c.waitSec.WithLabelValues(procName, terminalName).Observe(d.Seconds())
}

func (c *collector) ProductionStopped(procName string, restarting bool) {
	c.prodEnd.WithLabelValues(procName, boolLabel(restarting)).Inc()
}

func (c *collector) Observe(name string, proc processor.Processor) {
	c.runChan.WithLabelValues(name).Set(float64(proc.RunChanCount()))

	for _, info := range proc.ConnectorInfo() {
		c.connections.WithLabelValues(name, info.Name, info.Kind.String()).Set(float64(info.Connections))

		if cn, err := proc.Connector(info.Name); err == nil {
			c.queueDepth.WithLabelValues(name, info.Name).Set(float64(cn.QueueLen()))
		}
	}
	for _, info := range proc.SocketInfo() {
		c.connections.WithLabelValues(name, info.Name, info.Kind.String()).Set(float64(info.Connections))
	}
}

func (c *collector) Watch(ctx context.Context, name string, proc processor.Processor, period time.Duration) {
	if period <= 0 {
		period = time.Second
	}

	go func() {
		t := time.NewTicker(period)
		defer t.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.Observe(name, proc)
			}
		}
	}()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
