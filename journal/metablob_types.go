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

import "github.com/clusterfs/mds/mdsctx"

// InodeRecord is the inode-state payload carried by a FullBit. Its
// internal layout is deliberately opaque here (Record): the journal
// only needs to carry it and hand it to MDCache.NewInodeFromRecord or
// Inode.SetRecord, never to interpret its fields.
type InodeRecord struct {
	Ino     mdsctx.InodeNo
	Record  []byte
	Symlink string // non-empty iff this inode is a symlink
}

// FullBit describes one (dentry, inode) pair fully present in a
// DirLump: a normal, locally-resolved directory entry.
type FullBit struct {
	Name  string
	DNV   mdsctx.Version
	Dirty bool
	Inode InodeRecord
}

// RemoteBit describes a dentry pointing at an inode whose authority is
// a different node; only the foreign inode number is carried, not its
// full record.
type RemoteBit struct {
	Name      string
	DNV       mdsctx.Version
	Dirty     bool
	RemoteIno mdsctx.InodeNo
}

// NullBit describes a negative dentry: a name known to not exist,
// cached so lookups can be answered without a round trip.
type NullBit struct {
	Name  string
	DNV   mdsctx.Version
	Dirty bool
}

// DirLump is the set of mutations targeting a single dirfrag within a
// MetaBlob.
type DirLump struct {
	DirV     mdsctx.Version
	Dirty    bool
	Complete bool
	Full     []FullBit
	Remote   []RemoteBit
	Null     []NullBit
}

// TruncatedInode is a (inode, new size) pair recorded in a MetaBlob so
// the purge queue can be told about truncations that need async
// block reclamation.
type TruncatedInode struct {
	Ino     mdsctx.InodeNo
	NewSize uint64
}

// MetaBlob is the workhorse payload of the namespace events (Update,
// Open, SlaveUpdate, and the subtree-authority events): an ordered
// batch of directory-fragment mutations plus tie-ins to the anchor
// table, purge queue, and client request tracker.
type MetaBlob struct {
	LumpOrder []mdsctx.DirFragID
	LumpMap   map[mdsctx.DirFragID]*DirLump

	ATIDs           []mdsctx.AtID
	TruncatedInodes []TruncatedInode
	ClientReqs      []mdsctx.ReqID
}

// NewMetaBlob returns an empty, ready-to-populate MetaBlob.
func NewMetaBlob() *MetaBlob {
	return &MetaBlob{LumpMap: make(map[mdsctx.DirFragID]*DirLump)}
}

// AddLump appends id to LumpOrder (if not already present) and
// installs lump as its mutation set, enforcing the invariant that
// LumpOrder enumerates LumpMap's keys exactly once.
func (b *MetaBlob) AddLump(id mdsctx.DirFragID, lump *DirLump) {
	if _, exists := b.LumpMap[id]; !exists {
		b.LumpOrder = append(b.LumpOrder, id)
	}
	b.LumpMap[id] = lump
}
