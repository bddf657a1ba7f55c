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

func TestExportWaitsForFinishAck(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	dir.SetAmbiguous(true, false)
	id := dir.ID()

	ev := NewExport(0, 10, id, nil, NewMetaBlob())
	require.False(t, ev.HasExpired(ctx, mds))

	rec := &mdsfake.Recorder{}
	ev.Expire(ctx, mds, rec)
	require.False(t, rec.Fired())

	dir.FireWaiters("export-finish")
	require.True(t, rec.Fired())
}

func TestExportHasExpiredWhenNoLongerExporting(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	id := dir.ID()

	ev := NewExport(0, 10, id, nil, NewMetaBlob())
	require.True(t, ev.HasExpired(ctx, mds), "dir is cached but migrator reports no active export")
}

func TestExportReplayDropsAuthority(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	dir.SetDirAuth(mdsctx.Authority{Primary: 1, Secondary: mdsctx.NoNode})
	id := dir.ID()

	ev := NewExport(0, 10, id, nil, NewMetaBlob())
	ev.Replay(ctx, mds)

	require.Equal(t, mdsctx.UnknownNode, dir.Authority().Primary)
}

func TestImportStartMarksAmbiguous(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	root := mds.FakeCache().CreateRootInode()
	dir := root.OpenDirFrag(0).(*mdsfake.Dir)
	id := dir.ID()

	NewImportStart(0, 10, id, nil, NewMetaBlob()).Replay(ctx, mds)
	require.True(t, mds.FakeCache().IsAmbiguousImport(id))

	finish := NewImportFinish(10, 20, id, true)
	finish.Replay(ctx, mds)
	require.False(t, mds.FakeCache().IsAmbiguousImport(id))
}
