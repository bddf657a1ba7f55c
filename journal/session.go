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
	"context"

	"github.com/clusterfs/mds/mdsctx"
)

// Session records a single client session opening or closing, gated
// on the same cmapv machinery as ClientMap.
type Session struct {
	base
	CMapV      mdsctx.Version
	Open       bool
	ClientInst string
}

// NewSession records a session open/close for clientInst at version
// cmapv.
func NewSession(start, end int64, cmapv mdsctx.Version, open bool, clientInst string) *Session {
	return &Session{base: NewBase(start, end), CMapV: cmapv, Open: open, ClientInst: clientInst}
}

func (s *Session) Kind() Kind { return KindSession }

func (s *Session) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	return cmapHasExpired(mds, s.CMapV)
}

func (s *Session) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	cmapExpire(mds, s.CMapV, c)
}

func (s *Session) Replay(ctx context.Context, mds mdsctx.MDS) {
	cm := mds.ClientMap()
	if s.Open {
		cm.OpenSession(s.ClientInst)
	} else {
		cm.CloseSession(s.ClientInst)
	}
	cm.ResetProjected()
}
