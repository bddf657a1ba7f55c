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

// ImportMap is a periodic checkpoint of every subtree root this node
// is locally authoritative for, with the spanning tree needed to
// reconstruct them. Only the most recently written ImportMap is worth
// retaining.
type ImportMap struct {
	base
	Imports []mdsctx.DirFragID
	Blob    *MetaBlob
}

// NewImportMap wraps blob and the current set of authoritative
// subtree roots.
func NewImportMap(start, end int64, imports []mdsctx.DirFragID, blob *MetaBlob) *ImportMap {
	return &ImportMap{base: NewBase(start, end), Imports: imports, Blob: blob}
}

func (i *ImportMap) Kind() Kind { return KindImportMap }

// HasExpired is true once a newer ImportMap exists, or the log is
// capped (no newer one will ever be written). We always keep the
// single most recent ImportMap around otherwise: it's the replay
// bootstrap for the whole authority map.
func (i *ImportMap) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	if mds.Log().IsCapped() {
		return true
	}
	return mds.Log().LastImportMap() > i.EndOffset()
}

func (i *ImportMap) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	mds.Log().AddImportMapExpireWaiter(c)
}

// Replay is a first-one-wins race against every other ImportMap in
// the log: once IsSubtrees() reports true, a later-replayed
// (i.e. log-older) ImportMap is silently skipped.
func (i *ImportMap) Replay(ctx context.Context, mds mdsctx.MDS) {
	if mds.Cache().IsSubtrees() {
		benign("ImportMap.Replay: subtree map already established, skipping checkpoint at offset %d", i.StartOffset())
		return
	}
	i.Blob.Replay(ctx, mds)
	for _, id := range i.Imports {
		dir, ok := mds.Cache().GetDirFrag(id)
		if !ok {
			fatalf("ImportMap.Replay: import root %v not cached after replaying spanning tree", id)
			continue
		}
		mds.Cache().AdjustSubtreeAuth(dir, mds.SelfNodeID())
	}
}
