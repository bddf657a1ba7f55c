// Copyright 2015 The Cockroach Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package journal

// base carries the two pieces of bookkeeping every Event needs
// regardless of kind: its log position. It is never exported on its
// own — each concrete event embeds it and adds its own Kind().
type base struct {
	Start, End int64
}

// NewBase constructs the offset bookkeeping for an event about to be
// appended at [start, end). The log writer assigns these once the
// event's bytes are known.
func NewBase(start, end int64) base { return base{Start: start, End: end} }

func (b base) StartOffset() int64 { return b.Start }
func (b base) EndOffset() int64   { return b.End }
