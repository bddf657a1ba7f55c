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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clusterfs/mds/journal/mdsfake"
	"github.com/clusterfs/mds/mdsctx"
)

func TestMetaBlobTrivialExpire(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)
	blob := NewMetaBlob()

	require.True(t, blob.HasExpired(ctx, mds))

	rec := &mdsfake.Recorder{}
	blob.Expire(ctx, mds, rec)
	require.True(t, rec.Fired())
	require.NoError(t, rec.Err())
}

func TestMetaBlobWaitsForDirCommit(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	dir.SetDirAuth(mdsctx.Authority{Primary: 1, Secondary: mdsctx.NoNode})
	dir.SetCommittedVersionForTest(5)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	blob := NewMetaBlob()
	blob.AddLump(id, &DirLump{DirV: 7})

	require.False(t, blob.HasExpired(ctx, mds))

	rec := &mdsfake.Recorder{}
	blob.Expire(ctx, mds, rec)
	require.True(t, rec.Fired())
	require.Equal(t, mdsctx.Version(7), dir.CommittedVersion())
}

func TestMetaBlobSkipsNonAuthDir(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	dir.SetDirAuth(mdsctx.Authority{Primary: 2, Secondary: mdsctx.NoNode})
	dir.SetCommittedVersionForTest(5)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	blob := NewMetaBlob()
	blob.AddLump(id, &DirLump{DirV: 7})

	require.True(t, blob.HasExpired(ctx, mds))

	rec := &mdsfake.Recorder{}
	blob.Expire(ctx, mds, rec)
	require.True(t, rec.Fired())
	require.Equal(t, mdsctx.Version(5), dir.CommittedVersion())
}

func TestMetaBlobWaitsForFrozenDir(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	dir.SetDirAuth(mdsctx.Authority{Primary: 1, Secondary: mdsctx.NoNode})
	dir.SetAuthPinnable(false)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	blob := NewMetaBlob()
	blob.AddLump(id, &DirLump{DirV: 3})

	rec := &mdsfake.Recorder{}
	blob.Expire(ctx, mds, rec)
	require.False(t, rec.Fired(), "frozen dir must not fire until auth-pinnable")

	dir.SetAuthPinnable(true)
	dir.FireWaiters("auth-pinnable")
	require.True(t, rec.Fired())
}

func TestMetaBlobWaitsForAmbiguousExport(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	dir.SetDirAuth(mdsctx.Authority{Primary: 1, Secondary: mdsctx.NoNode})
	dir.SetAmbiguous(true, false)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	blob := NewMetaBlob()
	blob.AddLump(id, &DirLump{DirV: 3})

	require.False(t, blob.HasExpired(ctx, mds), "ambiguous authority blocks expiry regardless of version")

	rec := &mdsfake.Recorder{}
	blob.Expire(ctx, mds, rec)
	require.False(t, rec.Fired())

	dir.FireWaiters("export-finish")
	require.True(t, rec.Fired())
}

func TestMetaBlobReplayFullBitCreatesInode(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	blob := NewMetaBlob()
	blob.AddLump(id, &DirLump{
		DirV: 1,
		Full: []FullBit{{
			Name: "a",
			DNV:  1,
			Inode: InodeRecord{Ino: 100, Record: []byte("rec-a")},
		}},
	})
	blob.Replay(ctx, mds)

	inode, ok := mds.FakeCache().GetInode(100)
	require.True(t, ok)
	require.Equal(t, []byte("rec-a"), inode.(*mdsfake.Inode).Record())

	dir, ok := mds.FakeCache().GetDirFrag(id)
	require.True(t, ok)
	dn, ok := dir.Lookup("a")
	require.True(t, ok)
	linked, ok := dn.LinkedInode()
	require.True(t, ok)
	require.Equal(t, mdsctx.InodeNo(100), linked)
}

func TestMetaBlobReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	lump := &DirLump{
		DirV: 1,
		Full: []FullBit{{Name: "a", DNV: 1, Inode: InodeRecord{Ino: 100, Record: []byte("v1")}}},
	}
	blob := NewMetaBlob()
	blob.AddLump(id, lump)
	blob.Replay(ctx, mds)

	// A second MetaBlob at a version the dir already covers must be a
	// no-op on replay.
	staleLump := &DirLump{
		DirV: 1,
		Full: []FullBit{{Name: "a", DNV: 1, Inode: InodeRecord{Ino: 100, Record: []byte("stale")}}},
	}
	stale := NewMetaBlob()
	stale.AddLump(id, staleLump)
	stale.Replay(ctx, mds)

	inode, ok := mds.FakeCache().GetInode(100)
	require.True(t, ok)
	require.Equal(t, []byte("v1"), inode.(*mdsfake.Inode).Record())
}
