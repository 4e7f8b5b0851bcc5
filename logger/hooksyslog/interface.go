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

// Package hooksyslog wires a logrus hook to a syslog endpoint (local or
// remote) via the standard library's log/syslog, reusing hookwriter for
// the entry formatting/filtering once a connection is established.
package hooksyslog

import (
	"fmt"
	"log/syslog"

	logcfg "github.com/nabbar/procgraph/logger/config"
	loghkw "github.com/nabbar/procgraph/logger/hookwriter"
	logtps "github.com/nabbar/procgraph/logger/types"
	"github.com/sirupsen/logrus"
)

// HookSyslog is a logrus hook that writes log entries to a syslog endpoint.
type HookSyslog interface {
	logtps.Hook
}

var facilities = map[string]syslog.Priority{
	"KERN":     syslog.LOG_KERN,
	"USER":     syslog.LOG_USER,
	"MAIL":     syslog.LOG_MAIL,
	"DAEMON":   syslog.LOG_DAEMON,
	"AUTH":     syslog.LOG_AUTH,
	"SYSLOG":   syslog.LOG_SYSLOG,
	"LPR":      syslog.LOG_LPR,
	"NEWS":     syslog.LOG_NEWS,
	"UUCP":     syslog.LOG_UUCP,
	"CRON":     syslog.LOG_CRON,
	"AUTHPRIV": syslog.LOG_AUTHPRIV,
	"FTP":      syslog.LOG_FTP,
	"LOCAL0":   syslog.LOG_LOCAL0,
	"LOCAL1":   syslog.LOG_LOCAL1,
	"LOCAL2":   syslog.LOG_LOCAL2,
	"LOCAL3":   syslog.LOG_LOCAL3,
	"LOCAL4":   syslog.LOG_LOCAL4,
	"LOCAL5":   syslog.LOG_LOCAL5,
	"LOCAL6":   syslog.LOG_LOCAL6,
	"LOCAL7":   syslog.LOG_LOCAL7,
}

// New dials the syslog endpoint described by opt and returns a hook
// delegating entry formatting to hookwriter. Network/Host empty means a
// local syslog connection (Unix only); otherwise Network/Host dial a
// remote syslog daemon over tcp/udp.
func New(opt logcfg.OptionsSyslog, format logrus.Formatter) (HookSyslog, error) {
	var (
		lvls = make([]logrus.Level, 0)
		prio = facilities[opt.Facility]
	)

	if prio == 0 && opt.Facility != "KERN" {
		prio = syslog.LOG_USER
	}

	for _, l := range opt.LogLevel {
		if lv, e := logrus.ParseLevel(l); e == nil {
			lvls = append(lvls, lv)
		}
	}

	w, e := syslog.Dial(opt.Network, opt.Host, prio, opt.Tag)
	if e != nil {
		return nil, fmt.Errorf("hooksyslog: dial %s/%s: %w", opt.Network, opt.Host, e)
	}

	std := &logcfg.OptionsStd{
		DisableStack:     opt.DisableStack,
		DisableTimestamp: opt.DisableTimestamp,
		EnableTrace:      opt.EnableTrace,
		EnableAccessLog:  opt.EnableAccessLog,
		DisableColor:     true,
	}

	h, e := loghkw.New(w, std, lvls, format)
	if e != nil {
		_ = w.Close()
		return nil, e
	}

	return h, nil
}
