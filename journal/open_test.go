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

// TestOpenSupersession checks that a later Open re-journaling the same
// inode supersedes an earlier one, so the earlier Open no longer needs
// to be kept around to protect that inode's cap state.
func TestOpenSupersession(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	inode := mds.FakeCache().CreateRootInode().(*mdsfake.Inode)
	inode.SetClientCaps(true)
	inode.SetLastOpenJournaled(500)

	superseded := NewOpen(400, 410, NewMetaBlob(), []mdsctx.InodeNo{mdsctx.RootIno})
	require.True(t, superseded.HasExpired(ctx, mds))

	inode.SetLastOpenJournaled(300)
	notYetSuperseded := NewOpen(400, 410, NewMetaBlob(), []mdsctx.InodeNo{mdsctx.RootIno})
	require.False(t, notYetSuperseded.HasExpired(ctx, mds))

	rec := &mdsfake.Recorder{}
	notYetSuperseded.Expire(ctx, mds, rec)
	require.True(t, rec.Fired())
	require.Contains(t, mds.FakeServer().QueuedOpens(), mdsctx.RootIno)
}

func TestOpenExpireAfterCapIsFatal(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	inode := mds.FakeCache().CreateRootInode().(*mdsfake.Inode)
	inode.SetClientCaps(true)
	inode.SetLastOpenJournaled(0)
	mds.FakeLog().Cap()

	ev := NewOpen(400, 410, NewMetaBlob(), []mdsctx.InodeNo{mdsctx.RootIno})
	require.Panics(t, func() {
		ev.Expire(ctx, mds, &mdsfake.Recorder{})
	})
}
