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

// Export records a subtree handed off to a peer: the frozen contents
// at handoff time (as a MetaBlob) plus the subtree's boundary.
type Export struct {
	base
	Base   mdsctx.DirFragID
	Bounds []mdsctx.DirFragID
	Blob   *MetaBlob
}

// NewExport wraps blob for the subtree rooted at base with the given
// boundary fragments.
func NewExport(start, end int64, base_ mdsctx.DirFragID, bounds []mdsctx.DirFragID, blob *MetaBlob) *Export {
	return &Export{base: NewBase(start, end), Base: base_, Bounds: bounds, Blob: blob}
}

func (e *Export) Kind() Kind { return KindExport }

// HasExpired is true once the root dirfrag is no longer cached or the
// migrator is no longer actively exporting it; otherwise we must wait
// for the handoff's ack.
func (e *Export) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	dir, ok := mds.Cache().GetDirFrag(e.Base)
	if !ok {
		return true
	}
	return !mds.Migrator().IsExporting(dir)
}

func (e *Export) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	dir, ok := mds.Cache().GetDirFrag(e.Base)
	if !ok || !mds.Migrator().IsExporting(dir) {
		fatalf("Export.Expire: %v not cached or not actively exporting", e.Base)
		return
	}
	mds.Migrator().AddExportFinishWaiter(dir, c)
}

// Replay applies the frozen contents, then drops authority: the
// boundary fragments become UNKNOWN/UNKNOWN pending the next
// ImportMap, and any subtree bookkeeping for the now-foreign region is
// merged away.
func (e *Export) Replay(ctx context.Context, mds mdsctx.MDS) {
	e.Blob.Replay(ctx, mds)
	mds.Cache().AdjustBoundedSubtreeAuth(e.Base, e.Bounds, mdsctx.Authority{Primary: mdsctx.UnknownNode, Secondary: mdsctx.UnknownNode})
	mds.Cache().TrySubtreeMerge(e.Base)
}
