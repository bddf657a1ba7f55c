// Copyright 2014 The Cockroach Authors.
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

// Package mdsctx declares the external interfaces the journaling core
// consumes: the metadata cache, the subtree migrator, the anchor table
// and its client, the client session map, the ID allocator, the log
// itself, and the server. Their implementations live outside this
// module; mdsctx exists so journal can be compiled and tested against
// fakes without pulling in any of them.
package mdsctx

import "fmt"

// InodeNo identifies an inode cluster-wide.
type InodeNo uint64

// FragID identifies one fragment of a directory's hash space.
type FragID uint32

// DirFragID identifies a directory fragment: the unit of caching,
// committing, and migration.
type DirFragID struct {
	Ino  InodeNo
	Frag FragID
}

func (d DirFragID) String() string {
	return fmt.Sprintf("%d.%08x", d.Ino, d.Frag)
}

// NodeID identifies a cluster peer. NoNode denotes "none" (-2 in the
// original MDS source).
type NodeID int32

// NoNode is the sentinel authority value meaning "no authority."
const NoNode NodeID = -2

// UnknownNode marks an authority as not-yet-determined; it is resolved
// from the next ImportMap during replay.
const UnknownNode NodeID = -1

// Authority is the (primary, secondary) pair of nodes responsible for
// a subtree.
type Authority struct {
	Primary   NodeID
	Secondary NodeID
}

// ReqID identifies a client request, stable across retries.
type ReqID uint64

// AtID identifies an anchor-table transaction.
type AtID uint64

// Version is a monotonically increasing table or directory version.
// The zero value means "nothing committed yet."
type Version uint64

// RootIno is the well-known inode number of the filesystem root.
const RootIno InodeNo = 1

// StrayBase is the well-known inode number offset at which per-node
// stray directories (holding areas for unlinked-but-open inodes) are
// encoded. Node n's stray inode is StrayBase + InodeNo(n).
const StrayBase InodeNo = 1 << 40

// StrayNode returns the node a stray inode number belongs to, and
// whether ino is a stray inode number at all.
func StrayNode(ino InodeNo) (NodeID, bool) {
	if ino < StrayBase {
		return 0, false
	}
	return NodeID(ino - StrayBase), true
}
