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

// cmapHasExpired implements the shared ClientMap/Session predicate:
// expired once the client map's committed version has caught up to
// cmapv.
func cmapHasExpired(mds mdsctx.MDS, cmapv mdsctx.Version) bool {
	return mds.ClientMap().GetCommitted() >= cmapv
}

// cmapExpire implements the shared ClientMap/Session expire action:
// attach to an in-flight commit covering cmapv if one exists,
// otherwise initiate a new one.
func cmapExpire(mds mdsctx.MDS, cmapv mdsctx.Version, c mdsctx.Completion) {
	cm := mds.ClientMap()
	if cm.GetCommitting() >= cmapv {
		cm.AddCommitWaiter(c)
		return
	}
	mds.Server().LogClientMap(c)
}

// ClientMap is a full snapshot of client session + request-completion
// state, written periodically as a recovery checkpoint.
type ClientMap struct {
	base
	CMapV    mdsctx.Version
	Snapshot []byte
}

// NewClientMap records a full client-map snapshot at version cmapv.
func NewClientMap(start, end int64, cmapv mdsctx.Version, snapshot []byte) *ClientMap {
	return &ClientMap{base: NewBase(start, end), CMapV: cmapv, Snapshot: snapshot}
}

func (m *ClientMap) Kind() Kind { return KindClientMap }

func (m *ClientMap) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	return cmapHasExpired(mds, m.CMapV)
}

func (m *ClientMap) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	cmapExpire(mds, m.CMapV, c)
}

// Replay deserializes the snapshot into the live client map, setting
// both its committed and committing versions to CMapV.
func (m *ClientMap) Replay(ctx context.Context, mds mdsctx.MDS) {
	mds.ClientMap().Decode(m.Snapshot, m.CMapV)
}
