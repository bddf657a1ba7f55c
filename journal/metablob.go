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
	"time"

	"github.com/clusterfs/mds/mdsctx"
	mdsutil "github.com/clusterfs/mds/pkg/util"
	"github.com/golang/glog"
)

// waitLogThrottle rate-limits the "still waiting on dependency" trace
// line Expire emits for a frozen dir, which would otherwise repeat on
// every trim pass; adapted from the teacher's util.EveryN.
var waitLogThrottle = mdsutil.Every(5 * time.Second)

// dirLumpClosed reports whether a single (dirfrag, lump) pair is
// closed out: the dir is no longer cached, no longer ours, or
// committed past the lump's target version. An ambiguous dir (mid
// subtree migration) is never closed, regardless of its committed
// version, since the migration must resolve first.
func dirLumpClosed(mds mdsctx.MDS, id mdsctx.DirFragID, lump *DirLump) bool {
	dir, ok := mds.Cache().GetDirFrag(id)
	if !ok {
		// No longer cached: already expired past, or never needed.
		return true
	}
	if dir.Authority().Primary != mds.SelfNodeID() {
		// No longer our responsibility.
		return true
	}
	if dir.IsAmbiguousDirAuth() {
		// Mid-migration: must wait for the migration to resolve
		// regardless of committed version.
		return false
	}
	return dir.CommittedVersion() >= lump.DirV
}

// HasExpired is true once every dirlump is closed, every anchor-table
// agreement this blob depends on has committed, every truncation it
// records has finished purging, and every client request it completed
// has been trimmed from the client map.
func (b *MetaBlob) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	for _, id := range b.LumpOrder {
		if !dirLumpClosed(mds, id, b.LumpMap[id]) {
			return false
		}
	}
	for _, atid := range b.ATIDs {
		if !mds.AnchorClient().HasCommitted(atid) {
			return false
		}
	}
	for _, ti := range b.TruncatedInodes {
		if mds.Cache().IsPurging(ti.Ino, ti.NewSize) {
			return false
		}
	}
	for _, reqid := range b.ClientReqs {
		if mds.ClientMap().HaveCompletedRequest(reqid) {
			// Still registered as completed-but-not-trimmed in the
			// client map's trim-pending bookkeeping.
			return false
		}
	}
	return true
}

// Expire attaches a sub-completion to every dependency this blob is
// still waiting on and fires c once all of them resolve. For an
// ambiguous dir the migration-waiter path replaces the commit path
// for that dir in this pass, never both.
func (b *MetaBlob) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	g := NewGather(c)

	for _, id := range b.LumpOrder {
		lump := b.LumpMap[id]
		dir, ok := mds.Cache().GetDirFrag(id)
		if !ok || dir.Authority().Primary != mds.SelfNodeID() {
			continue
		}
		if dir.IsAmbiguousDirAuth() {
			sub := g.NewSub()
			switch {
			case dir.IsExporting():
				mds.Migrator().AddExportFinishWaiter(dir, sub)
			case dir.IsImporting():
				dir.AddWaiter("import-complete", sub)
			default:
				fatalf("MetaBlob.Expire: dir %v is ambiguous but neither exporting nor importing", id)
			}
			continue
		}
		if dir.CommittedVersion() >= lump.DirV {
			continue
		}
		sub := g.NewSub()
		if dir.CanAuthPin() {
			dir.Commit(ctx, lump.DirV, sub)
		} else {
			if waitLogThrottle.ShouldProcess(timeNow()) {
				if glog.V(1) {
					glog.Infof("journal: dir %v frozen, waiting for auth-pinnable before committing to v%d", id, lump.DirV)
				}
			}
			dir.AddWaiter("auth-pinnable", sub)
		}
	}

	for _, atid := range b.ATIDs {
		if mds.AnchorClient().HasCommitted(atid) {
			continue
		}
		mds.AnchorClient().WaitForAck(atid, g.NewSub())
	}

	for _, ti := range b.TruncatedInodes {
		if !mds.Cache().IsPurging(ti.Ino, ti.NewSize) {
			continue
		}
		mds.Cache().WaitForPurge(ti.Ino, ti.NewSize, g.NewSub())
	}

	for _, reqid := range b.ClientReqs {
		if !mds.ClientMap().HaveCompletedRequest(reqid) {
			continue
		}
		mds.ClientMap().AddTrimWaiter(reqid, g.NewSub())
	}

	g.Done()
}

// timeNow is a seam so tests can avoid depending on wall-clock time
// when exercising the rate-limited trace path; production always uses
// the real clock.
var timeNow = time.Now

// Replay walks every lump in LumpOrder, applying each lump's
// full/remote/null bits in order.
func (b *MetaBlob) Replay(ctx context.Context, mds mdsctx.MDS) {
	for _, id := range b.LumpOrder {
		b.replayLump(ctx, mds, id, b.LumpMap[id])
	}

	for _, atid := range b.ATIDs {
		mds.AnchorClient().GotJournaledAgree(atid)
	}
	for _, ti := range b.TruncatedInodes {
		mds.Cache().AddRecoveredPurge(ti.Ino, ti.NewSize)
	}
	for _, reqid := range b.ClientReqs {
		mds.ClientMap().AddCompletedRequest(reqid)
	}
}

func (b *MetaBlob) replayLump(ctx context.Context, mds mdsctx.MDS, id mdsctx.DirFragID, lump *DirLump) {
	inode, ok := mds.Cache().GetInode(id.Ino)
	if !ok {
		switch {
		case id.Ino == mdsctx.RootIno:
			inode = mds.Cache().CreateRootInode()
		default:
			if node, isStray := mdsctx.StrayNode(id.Ino); isStray {
				inode = mds.Cache().CreateStrayInode(node)
			} else {
				fatalf("MetaBlob.Replay: dirfrag %v refers to uncached, non-root, non-stray inode %d", id, id.Ino)
				return
			}
		}
	}

	dir := inode.OpenDirFrag(id.Frag)
	if id.Ino == mdsctx.RootIno {
		dir.SetDirAuth(mdsctx.Authority{Primary: mdsctx.UnknownNode, Secondary: mdsctx.UnknownNode})
	}

	if dir.Version() >= lump.DirV && dir.Version() != 0 {
		benign("MetaBlob.Replay: dirfrag %v already at v%d >= lump v%d, skipping", id, dir.Version(), lump.DirV)
		return
	}

	dir.SetVersion(lump.DirV)
	if lump.Dirty {
		dir.MarkDirty()
	}
	if lump.Complete {
		dir.MarkComplete()
	}

	for _, fb := range lump.Full {
		b.replayFullBit(ctx, mds, dir, fb)
	}
	for _, rb := range lump.Remote {
		replayRemoteBit(dir, rb)
	}
	for _, nb := range lump.Null {
		replayNullBit(dir, nb)
	}
}

func (b *MetaBlob) replayFullBit(ctx context.Context, mds mdsctx.MDS, dir mdsctx.Dir, fb FullBit) {
	dn, ok := dir.Lookup(fb.Name)
	if !ok {
		dn = dir.AddDentry(fb.Name, 0)
	}
	dn.SetDirNV(fb.DNV)
	if fb.Dirty {
		dn.MarkDirty()
	}

	inode, ok := mds.Cache().GetInode(fb.Inode.Ino)
	if !ok {
		inode = mds.Cache().NewInodeFromRecord(fb.Inode.Ino, fb.Inode.Record, fb.Inode.Symlink)
		mds.Cache().AddInode(inode)
	} else {
		if oldDir, oldDn, linked := inode.Parent(); linked && (oldDir.ID() != dir.ID() || oldDn.Name() != fb.Name) {
			oldDir.UnlinkInode(oldDn)
		}
		inode.SetRecord(fb.Inode.Record)
	}
	dir.LinkInode(dn, inode)
	if fb.Dirty {
		inode.MarkDirty()
	}
}

func replayRemoteBit(dir mdsctx.Dir, rb RemoteBit) {
	dn, ok := dir.Lookup(rb.Name)
	if !ok {
		dn = dir.AddDentry(rb.Name, rb.RemoteIno)
	}
	if _, linked := dn.LinkedInode(); linked {
		dir.UnlinkInode(dn)
	}
	dn.SetDirNV(rb.DNV)
	if rb.Dirty {
		dn.MarkDirty()
	}
}

func replayNullBit(dir mdsctx.Dir, nb NullBit) {
	dn, ok := dir.Lookup(nb.Name)
	if !ok {
		dn = dir.AddDentry(nb.Name, 0)
	}
	if _, linked := dn.LinkedInode(); linked {
		dir.UnlinkInode(dn)
	} else if _, remote := dn.RemoteIno(); remote {
		dir.UnlinkInode(dn)
	}
	dn.SetDirNV(nb.DNV)
	if nb.Dirty {
		dn.MarkDirty()
	}
}
