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

func TestAllocReplayGrantsExactID(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	ev := NewAlloc(0, 10, AllocGet, 1, 1)
	ev.Replay(ctx, mds)
	require.Equal(t, mdsctx.Version(1), mds.IDAlloc().GetVersion())
}

func TestAllocReplayWrongIDFatals(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	ev := NewAlloc(0, 10, AllocGet, 999, 1)
	require.Panics(t, func() { ev.Replay(ctx, mds) })
}

func TestAllocExpiryTracksIDAllocCommit(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	ev := NewAlloc(0, 10, AllocGet, 1, 1)
	require.False(t, ev.HasExpired(ctx, mds))

	rec := &mdsfake.Recorder{}
	ev.Expire(ctx, mds, rec)
	require.True(t, rec.Fired())
	require.True(t, ev.HasExpired(ctx, mds))
}
