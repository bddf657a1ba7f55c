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

func TestAnchorReplayAdvancesThenNoops(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)
	mds.FakeAnchorTable().SetVersionForTest(9)

	ev := NewAnchor(0, 10, AnchorCreatePrepare, 55, nil, 1, 9001, 10)
	ev.Replay(ctx, mds)
	require.Equal(t, mdsctx.Version(10), mds.AnchorTable().GetVersion())

	require.NotPanics(t, func() { ev.Replay(ctx, mds) }, "re-replaying an already-applied event is a benign no-op")
	require.Equal(t, mdsctx.Version(10), mds.AnchorTable().GetVersion())
}

func TestAnchorReplayOutOfOrderFatals(t *testing.T) {
	ctx := context.Background()
	mds := mdsfake.New(1)

	ev := NewAnchor(0, 10, AnchorCreatePrepare, 55, nil, 1, 9001, 10)
	require.Panics(t, func() { ev.Replay(ctx, mds) }, "table starts at version 0, event expects to advance from 9")
}
