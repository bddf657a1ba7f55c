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

// AnchorOp tags the two-phase-commit phase an Anchor event records.
type AnchorOp uint8

const (
	AnchorCreatePrepare AnchorOp = iota + 1
	AnchorDestroyPrepare
	AnchorUpdatePrepare
	AnchorCommit
)

func (o AnchorOp) String() string {
	switch o {
	case AnchorCreatePrepare:
		return "CREATE_PREPARE"
	case AnchorDestroyPrepare:
		return "DESTROY_PREPARE"
	case AnchorUpdatePrepare:
		return "UPDATE_PREPARE"
	case AnchorCommit:
		return "COMMIT"
	default:
		return "UNKNOWN"
	}
}

// Anchor records one step against the cluster-wide anchor table. It
// mirrors Alloc's has_expired/expire structure against
// AnchorTable instead of IDAlloc.
type Anchor struct {
	base
	Op      AnchorOp
	Ino     mdsctx.InodeNo
	Trace   []byte
	ReqMDS  mdsctx.NodeID
	ATID    mdsctx.AtID
	Version mdsctx.Version
}

// NewAnchor records op for atid, advancing the anchor table to
// version.
func NewAnchor(start, end int64, op AnchorOp, ino mdsctx.InodeNo, trace []byte, reqmds mdsctx.NodeID, atid mdsctx.AtID, version mdsctx.Version) *Anchor {
	return &Anchor{base: NewBase(start, end), Op: op, Ino: ino, Trace: trace, ReqMDS: reqmds, ATID: atid, Version: version}
}

func (a *Anchor) Kind() Kind { return KindAnchor }

func (a *Anchor) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	return mds.AnchorTable().GetCommittedVersion() >= a.Version
}

func (a *Anchor) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	mds.AnchorTable().Save(c)
}

// Replay requires strict version sequencing: each Anchor event
// advances the table by exactly one.
func (a *Anchor) Replay(ctx context.Context, mds mdsctx.MDS) {
	table := mds.AnchorTable()
	if table.GetVersion() >= a.Version {
		benign("Anchor.Replay: table already at v%d >= event v%d, skipping", table.GetVersion(), a.Version)
		return
	}
	if table.GetVersion() != a.Version-1 {
		fatalf("Anchor.Replay: table at v%d, expected v%d before applying event v%d", table.GetVersion(), a.Version-1, a.Version)
		return
	}
	switch a.Op {
	case AnchorCreatePrepare:
		table.CreatePrepare(a.Ino, a.Trace, a.ReqMDS, a.ATID, a.Version)
	case AnchorDestroyPrepare:
		table.DestroyPrepare(a.Ino, a.Trace, a.ReqMDS, a.ATID, a.Version)
	case AnchorUpdatePrepare:
		table.UpdatePrepare(a.Ino, a.Trace, a.ReqMDS, a.ATID, a.Version)
	case AnchorCommit:
		table.Commit(a.ATID, a.Version)
	default:
		fatalf("Anchor.Replay: unknown op %v", a.Op)
	}
}
