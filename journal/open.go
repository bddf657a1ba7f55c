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

// Open records which inodes a reconnecting or long-lived client holds
// capabilities on, so recovery can reconstruct cap state without
// waiting on every client to reconnect.
type Open struct {
	base
	Blob *MetaBlob
	Inos []mdsctx.InodeNo
}

// NewOpen wraps blob and the covered inode list.
func NewOpen(start, end int64, blob *MetaBlob, inos []mdsctx.InodeNo) *Open {
	return &Open{base: NewBase(start, end), Blob: blob, Inos: inos}
}

func (o *Open) Kind() Kind { return KindOpen }

// HasExpired is true unless some covered inode still holds caps and
// this event is still the newest Open covering it (last_open_journaled
// <= our own start offset). An inode that was never re-journaled
// (last_open_journaled == 0) counts as superseded: its cap state, if
// any, is lost on recovery regardless, so there is nothing left to
// protect by keeping this event around.
func (o *Open) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	for _, ino := range o.Inos {
		inode, ok := mds.Cache().GetInode(ino)
		if !ok || !inode.HasClientCaps() {
			continue
		}
		last := inode.LastOpenJournaled()
		if last == 0 {
			continue
		}
		if last <= o.StartOffset() {
			return false
		}
	}
	return true
}

// Expire re-journals the still-referenced inodes so a fresh Open
// supersedes this one, then waits for that to land. A capped log with
// unexpired Opens remaining means client cap state would be silently
// lost, which is a fatal shutdown conflict, not something to paper
// over.
func (o *Open) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	if mds.Log().IsCapped() {
		fatalf("Open.Expire: log capped with unexpired Open at offset %d still referencing live caps", o.StartOffset())
		return
	}
	for _, ino := range o.Inos {
		inode, ok := mds.Cache().GetInode(ino)
		if !ok || !inode.HasClientCaps() {
			continue
		}
		last := inode.LastOpenJournaled()
		if last == 0 || last > o.StartOffset() {
			// Superseded or never re-journaled: nothing to protect
			// (matches HasExpired's treatment of the same state).
			continue
		}
		mds.Server().QueueJournalOpen(ino)
	}
	mds.Server().AddJournalOpenWaiter(c)
	mds.Server().MaybeJournalOpens()
}

func (o *Open) Replay(ctx context.Context, mds mdsctx.MDS) {
	o.Blob.Replay(ctx, mds)
}
