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

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nabbar/procgraph/processor"
	"github.com/nabbar/procgraph/terminal"
)

type api struct {
	fct  FuncProcessor
	base string
	eng  *gin.Engine
}

func newAPI(fct FuncProcessor, basePath string) *api {
	gin.SetMode(gin.ReleaseMode)

	a := &api{fct: fct, base: basePath, eng: gin.New()}
	a.eng.Use(gin.Recovery())

	grp := a.eng.Group(a.base)
	grp.GET("/processors", a.listProcessors)
	grp.GET("/processors/:name/status", a.status)
	grp.GET("/processors/:name/sockets", a.sockets)
	grp.GET("/processors/:name/connectors", a.connectors)

	return a
}

func (a *api) Handler() http.Handler {
	return a.eng
}

// processorSummary is the listProcessors element: name plus point-in-time
// status, so a caller can discover names before drilling into a specific
// processor's terminals.
type processorSummary struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	RunChanCount int32  `json:"runChanCount"`
}

func (a *api) listProcessors(c *gin.Context) {
	set := a.fct()
	out := make([]processorSummary, 0, len(set))

	for name, p := range set {
		out = append(out, processorSummary{Name: name, Status: p.Status(), RunChanCount: p.RunChanCount()})
	}

	c.JSON(http.StatusOK, out)
}

func (a *api) resolve(c *gin.Context) (processor.Processor, bool) {
	name := c.Param("name")
	p, ok := a.fct()[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no processor registered under this name"})
		return nil, false
	}
	return p, true
}

func (a *api) status(c *gin.Context) {
	p, ok := a.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, processorSummary{Name: c.Param("name"), Status: p.Status(), RunChanCount: p.RunChanCount()})
}

func (a *api) sockets(c *gin.Context) {
	p, ok := a.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, infoOrEmpty(p.SocketInfo()))
}

func (a *api) connectors(c *gin.Context) {
	p, ok := a.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, infoOrEmpty(p.ConnectorInfo()))
}

func infoOrEmpty(info []terminal.Info) []terminal.Info {
	if info == nil {
		return []terminal.Info{}
	}
	return info
}
