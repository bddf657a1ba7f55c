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

	"github.com/clusterfs/mds/mdsctx"
)

// PurgeFinish records that an async truncate/purge completed. Always
// immediately expired.
type PurgeFinish struct {
	base
	alwaysExpired
	Ino     mdsctx.InodeNo
	NewSize uint64
}

// NewPurgeFinish records completion of the purge to newSize for ino.
func NewPurgeFinish(start, end int64, ino mdsctx.InodeNo, newSize uint64) *PurgeFinish {
	return &PurgeFinish{
		base:          NewBase(start, end),
		alwaysExpired: alwaysExpired{kind: KindPurgeFinish},
		Ino:           ino,
		NewSize:       newSize,
	}
}

func (p *PurgeFinish) Kind() Kind { return KindPurgeFinish }

func (p *PurgeFinish) Replay(ctx context.Context, mds mdsctx.MDS) {
	mds.Cache().RemoveRecoveredPurge(p.Ino, p.NewSize)
}
