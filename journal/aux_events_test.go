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
)

func TestAnchorClientReplayAcksAndWakesWaiters(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	rec := &mdsfake.Recorder{}
	mds.FakeAnchorClient().WaitForAck(55, rec)
	require.False(t, rec.Fired())

	NewAnchorClient(0, 10, 55).Replay(ctx, mds)

	require.True(t, rec.Fired())
	require.True(t, mds.AnchorClient().HasCommitted(55))
}

func TestAnchorClientAlwaysExpired(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)
	ev := NewAnchorClient(0, 10, 55)
	require.True(t, ev.HasExpired(ctx, mds))
	require.Panics(t, func() { ev.Expire(ctx, mds, &mdsfake.Recorder{}) })
}

func TestPurgeFinishReplayRemovesRecoveredPurge(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	mds.FakeCache().AddRecoveredPurge(100, 4096)
	require.True(t, mds.FakeCache().IsRecoveredPurge(100, 4096))

	NewPurgeFinish(0, 10, 100, 4096).Replay(ctx, mds)
	require.False(t, mds.FakeCache().IsRecoveredPurge(100, 4096))
}

func TestStringEventIsInertHeartbeat(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	ev := NewStringEvent(0, 10, "heartbeat")
	require.True(t, ev.HasExpired(ctx, mds))
	require.NotPanics(t, func() { ev.Replay(ctx, mds) })
	require.Panics(t, func() { ev.Expire(ctx, mds, &mdsfake.Recorder{}) })
}

func TestImportFinishCancelsOnFailure(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	id := dir.ID()

	mds.FakeCache().AddAmbiguousImport(id, nil)
	require.True(t, mds.FakeCache().IsAmbiguousImport(id))

	NewImportFinish(0, 10, id, false).Replay(ctx, mds)
	require.False(t, mds.FakeCache().IsAmbiguousImport(id))
}
