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

import (
	"sync/atomic"

	"github.com/clusterfs/mds/mdsctx"
	"github.com/clusterfs/mds/pkg/util/syncutil"
)

// Gather is a fan-in completion: it fires a single target Completion
// once every sub-completion handed out by NewSub has fired.
//
// A Gather with zero subs still fires target exactly once, but only
// once Done is called — never merely because the pending count
// happens to be zero at some earlier instant. This keeps firing
// independent of the order callers register subs in.
type Gather struct {
	mu      syncutil.Mutex
	target  mdsctx.Completion
	pending int64
	closed  bool
	fired   bool
	err     error
}

// NewGather creates a Gather wrapping target. Call NewSub for each
// dependency you're about to register, then call Done once all subs
// have been created (typically the line after the loop that creates
// them). Done exists so a Gather with zero subs still fires target
// exactly once instead of needing the caller to special-case the
// empty case.
func NewGather(target mdsctx.Completion) *Gather {
	return &Gather{target: target}
}

// NewSub hands out a fresh sub-completion and increments the pending
// counter. Safe to call after Done if, and only if, Done has not yet
// observed pending == 0 (i.e. there is still at least one outstanding
// sub); callers in this package always finish building their sub list
// before calling Done, so this ordering hazard does not arise.
func (g *Gather) NewSub() mdsctx.Completion {
	atomic.AddInt64(&g.pending, 1)
	return CompletionFunc(func(err error) { g.subFinished(err) })
}

// Done signals that no more subs will be created. If none ever were,
// the target fires now.
func (g *Gather) Done() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.maybeFireLocked()
}

func (g *Gather) subFinished(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil && g.err == nil {
		g.err = err
	}
	if atomic.AddInt64(&g.pending, -1) < 0 {
		panic("journal: Gather sub fired more than once")
	}
	g.maybeFireLocked()
}

func (g *Gather) maybeFireLocked() {
	if g.fired || !g.closed || atomic.LoadInt64(&g.pending) != 0 {
		return
	}
	g.fired = true
	g.target.Finish(g.err)
}

// CompletionFunc is re-exported here for readability at call sites
// inside this package; mdsctx.CompletionFunc is the canonical type.
type CompletionFunc = mdsctx.CompletionFunc
