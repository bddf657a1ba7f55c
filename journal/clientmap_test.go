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

// TestClientMapExpiryIsCommittedVersionPredicate checks that expiry
// is exactly the predicate "committed >= cmapv", nothing more.
func TestClientMapExpiryIsCommittedVersionPredicate(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	ev := NewClientMap(0, 10, 5, []byte("snapshot"))
	require.False(t, ev.HasExpired(ctx, mds))

	rec := &mdsfake.Recorder{}
	ev.Expire(ctx, mds, rec)
	require.True(t, rec.Fired(), "no in-flight commit yet, so a fresh one is initiated and fires immediately in the fake")
	require.True(t, ev.HasExpired(ctx, mds))
}

func TestClientMapReplaySetsCommittedAndCommitting(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	ev := NewClientMap(0, 10, 9, []byte("snapshot"))
	ev.Replay(ctx, mds)

	require.Equal(t, ev.CMapV, mds.ClientMap().GetCommitted())
	require.Equal(t, ev.CMapV, mds.ClientMap().GetCommitting())
}

func TestSessionReplayOpensAndCloses(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	inst := mdsctx.NewClientInst()
	NewSession(0, 10, 1, true, inst).Replay(ctx, mds)
	require.True(t, mds.FakeClientMap().HasSession(inst))

	NewSession(10, 20, 2, false, inst).Replay(ctx, mds)
	require.False(t, mds.FakeClientMap().HasSession(inst))
}
