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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clusterfs/mds/journal/mdsfake"
)

func TestGatherFiresOnlyAfterEverySubFires(t *testing.T) {
	rec := &mdsfake.Recorder{}
	g := NewGather(rec)

	subs := make([]func(error), 3)
	for i := range subs {
		s := g.NewSub()
		subs[i] = s.Finish
	}
	g.Done()
	require.False(t, rec.Fired())

	subs[0](nil)
	require.False(t, rec.Fired())
	subs[1](nil)
	require.False(t, rec.Fired())
	subs[2](nil)
	require.True(t, rec.Fired())
}

func TestGatherZeroSubsFiresOnDone(t *testing.T) {
	rec := &mdsfake.Recorder{}
	g := NewGather(rec)
	require.False(t, rec.Fired())
	g.Done()
	require.True(t, rec.Fired())
}

func TestGatherSubFiredTwicePanics(t *testing.T) {
	rec := &mdsfake.Recorder{}
	g := NewGather(rec)
	sub := g.NewSub()
	g.Done()
	sub.Finish(nil)
	require.Panics(t, func() { sub.Finish(nil) })
}
