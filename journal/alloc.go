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

// AllocOp tags whether an Alloc event grants or reclaims an id.
type AllocOp uint8

const (
	AllocGet AllocOp = iota + 1
	AllocFree
)

func (o AllocOp) String() string {
	if o == AllocFree {
		return "FREE"
	}
	return "ALLOC"
}

// Alloc records one grant or reclaim against the cluster-wide id
// allocator.
type Alloc struct {
	base
	Op           AllocOp
	ID           uint64
	TableVersion mdsctx.Version
}

// NewAlloc records op against id, advancing the allocator to
// tableVersion.
func NewAlloc(start, end int64, op AllocOp, id uint64, tableVersion mdsctx.Version) *Alloc {
	return &Alloc{base: NewBase(start, end), Op: op, ID: id, TableVersion: tableVersion}
}

func (a *Alloc) Kind() Kind { return KindAlloc }

func (a *Alloc) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	return mds.IDAlloc().GetCommittedVersion() >= a.TableVersion
}

func (a *Alloc) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	mds.IDAlloc().Save(c, a.TableVersion)
}

// Replay is idempotent (skips if already applied) and otherwise
// requires strict version sequencing: this event must advance the
// allocator by exactly one.
func (a *Alloc) Replay(ctx context.Context, mds mdsctx.MDS) {
	alloc := mds.IDAlloc()
	if alloc.GetVersion() >= a.TableVersion {
		benign("Alloc.Replay: allocator already at v%d >= event v%d, skipping", alloc.GetVersion(), a.TableVersion)
		return
	}
	if alloc.GetVersion() != a.TableVersion-1 {
		fatalf("Alloc.Replay: allocator at v%d, expected v%d before applying event v%d", alloc.GetVersion(), a.TableVersion-1, a.TableVersion)
		return
	}
	switch a.Op {
	case AllocGet:
		if got := alloc.AllocID(true); got != a.ID {
			fatalf("Alloc.Replay: ALLOC replay yielded id %d, journal recorded %d", got, a.ID)
			return
		}
	case AllocFree:
		alloc.ReclaimID(a.ID, true)
	default:
		fatalf("Alloc.Replay: unknown op %v", a.Op)
		return
	}
	if alloc.GetVersion() != a.TableVersion {
		fatalf("Alloc.Replay: allocator at v%d after apply, expected v%d", alloc.GetVersion(), a.TableVersion)
	}
}
