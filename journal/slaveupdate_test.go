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

func TestSlaveUpdateAbortDiscardsPrepare(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	blob := NewMetaBlob()
	blob.AddLump(id, &DirLump{
		DirV: 1,
		Full: []FullBit{{Name: "a", DNV: 1, Inode: InodeRecord{Ino: 100, Record: []byte("x")}}},
	})

	prepare := NewSlaveUpdate(0, 10, SlavePrepare, 42, blob)
	prepare.Replay(ctx, mds)

	_, exists := mds.FakeCache().UncommittedSlaveUpdate(42)
	require.True(t, exists)

	abort := NewSlaveUpdate(10, 20, SlaveAbort, 42, nil)
	abort.Replay(ctx, mds)

	_, exists = mds.FakeCache().UncommittedSlaveUpdate(42)
	require.False(t, exists)

	_, ok := mds.FakeCache().GetInode(100)
	require.False(t, ok, "aborted slave update must never apply its blob")
}

func TestSlaveUpdateCommitAppliesPreparedBlob(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	id := mdsctx.DirFragID{Ino: mdsctx.RootIno, Frag: 0}
	blob := NewMetaBlob()
	blob.AddLump(id, &DirLump{
		DirV: 1,
		Full: []FullBit{{Name: "a", DNV: 1, Inode: InodeRecord{Ino: 100, Record: []byte("x")}}},
	})

	NewSlaveUpdate(0, 10, SlavePrepare, 7, blob).Replay(ctx, mds)
	NewSlaveUpdate(10, 20, SlaveCommit, 7, nil).Replay(ctx, mds)

	_, exists := mds.FakeCache().UncommittedSlaveUpdate(7)
	require.False(t, exists)

	_, ok := mds.FakeCache().GetInode(100)
	require.True(t, ok)
}

func TestSlaveUpdateCommitWithoutPrepareIsBenign(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	require.NotPanics(t, func() {
		NewSlaveUpdate(0, 10, SlaveCommit, 999, nil).Replay(ctx, mds)
	})
}
