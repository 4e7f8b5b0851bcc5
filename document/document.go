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

// Package document defines the opaque envelope that flows across sockets
// and connectors. The core never inspects Payload; ID and Stamp only exist
// to give logging and introspection something stable to key on.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Document is the opaque unit of data carried between a Socket and the
// Connectors attached to it. Payload is never validated or typed by the
// processor-graph core.
type Document struct {
	ID      uuid.UUID
	Stamp   time.Time
	Payload any
}

// New wraps payload into a Document, stamping it with a fresh random ID and
// the current time.
func New(payload any) Document {
	return Document{
		ID:      uuid.New(),
		Stamp:   time.Now(),
		Payload: payload,
	}
}
