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

// SlaveOp tags a SlaveUpdate's role in the two-phase, cross-node
// transaction protocol.
type SlaveOp uint8

const (
	SlavePrepare SlaveOp = iota + 1
	SlaveCommit
	SlaveAbort
)

func (o SlaveOp) String() string {
	switch o {
	case SlavePrepare:
		return "PREPARE"
	case SlaveCommit:
		return "COMMIT"
	case SlaveAbort:
		return "ABORT"
	default:
		return "UNKNOWN"
	}
}

// SlaveUpdate is a participant's record of one phase of a distributed
// transaction coordinated by a master MDS.
type SlaveUpdate struct {
	base
	Op    SlaveOp
	ReqID mdsctx.ReqID
	Blob  *MetaBlob
}

// NewSlaveUpdate wraps blob for the named request and phase.
func NewSlaveUpdate(start, end int64, op SlaveOp, reqid mdsctx.ReqID, blob *MetaBlob) *SlaveUpdate {
	return &SlaveUpdate{base: NewBase(start, end), Op: op, ReqID: reqid, Blob: blob}
}

func (s *SlaveUpdate) Kind() Kind { return KindSlaveUpdate }

func (s *SlaveUpdate) HasExpired(ctx context.Context, mds mdsctx.MDS) bool {
	return s.Blob.HasExpired(ctx, mds)
}

func (s *SlaveUpdate) Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion) {
	s.Blob.Expire(ctx, mds, c)
}

// Replay dispatches on Op. PREPARE parks the blob without applying
// it; COMMIT applies a previously-parked blob (or is a benign no-op if
// none was ever parked — the master may have aborted before we saw
// PREPARE); ABORT discards any parked blob without ever applying it.
func (s *SlaveUpdate) Replay(ctx context.Context, mds mdsctx.MDS) {
	switch s.Op {
	case SlavePrepare:
		if _, exists := mds.Cache().UncommittedSlaveUpdate(s.ReqID); exists {
			fatalf("SlaveUpdate.Replay: PREPARE for reqid %d but a record already exists", s.ReqID)
			return
		}
		mds.Cache().SetUncommittedSlaveUpdate(s.ReqID, s.Blob)

	case SlaveCommit:
		blob, exists := mds.Cache().UncommittedSlaveUpdate(s.ReqID)
		if !exists {
			benign("SlaveUpdate.Replay: COMMIT for reqid %d with no prepared record, ignoring", s.ReqID)
			return
		}
		prepared, ok := blob.(*MetaBlob)
		if !ok {
			fatalf("SlaveUpdate.Replay: reqid %d's parked record is not a *MetaBlob", s.ReqID)
			return
		}
		prepared.Replay(ctx, mds)
		mds.Cache().ClearUncommittedSlaveUpdate(s.ReqID)

	case SlaveAbort:
		mds.Cache().ClearUncommittedSlaveUpdate(s.ReqID)

	default:
		fatalf("SlaveUpdate.Replay: unknown op %v for reqid %d", s.Op, s.ReqID)
	}
}
