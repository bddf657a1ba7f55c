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

// Update is the plain namespace-mutation event: a MetaBlob with no
// operation-specific semantics of its own. Most client requests that
// touch the namespace (create, unlink, rename, setattr, ...) journal
// as an Update.
type Update struct {
	base
	Blob *MetaBlob
}

// NewUpdate wraps blob as an Update recorded at [start, end).
func NewUpdate(start, end int64, blob *MetaBlob) *Update {
	return &Update{base: NewBase(start, end), Blob: blob}
}

func (u *Update) Kind() Kind { return KindUpdate }

func (u *Update) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	return u.Blob.HasExpired(ctx, mds)
}

func (u *Update) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	u.Blob.Expire(ctx, mds, c)
}

func (u *Update) Replay(ctx context.Context, mds mdsctx.MDS) {
	u.Blob.Replay(ctx, mds)
}
