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

// ImportStart records the receiving side of a subtree handoff. Its
// outcome is ambiguous until a later ImportFinish resolves it.
type ImportStart struct {
	base
	Base   mdsctx.DirFragID
	Bounds []mdsctx.DirFragID
	Blob   *MetaBlob
}

// NewImportStart wraps blob for the incoming subtree rooted at base.
func NewImportStart(start, end int64, base_ mdsctx.DirFragID, bounds []mdsctx.DirFragID, blob *MetaBlob) *ImportStart {
	return &ImportStart{base: NewBase(start, end), Base: base_, Bounds: bounds, Blob: blob}
}

func (i *ImportStart) Kind() Kind { return KindImportStart }

func (i *ImportStart) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	return i.Blob.HasExpired(ctx, mds)
}

func (i *ImportStart) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	i.Blob.Expire(ctx, mds, c)
}

// Replay applies the incoming contents, then records the subtree as
// ambiguous pending the ImportFinish that will confirm or roll it
// back.
func (i *ImportStart) Replay(ctx context.Context, mds mdsctx.MDS) {
	i.Blob.Replay(ctx, mds)
	mds.Cache().AddAmbiguousImport(i.Base, i.Bounds)
}
