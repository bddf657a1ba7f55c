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

package mdsctx

import "context"

// Inode is the cached in-memory state of a single inode. The journal
// finds inodes through MDCache.GetInode; this interface carries just
// enough surface for replay to create, find, and relink inodes and for
// Open to inspect cap state.
type Inode interface {
	Ino() InodeNo
	IsSymlink() bool
	SymlinkTarget() string
	SetRecord(record []byte)
	MarkDirty()

	// HasClientCaps reports whether any client currently holds
	// capabilities on this inode; Open.HasExpired consults this to
	// decide whether the inode's open state still needs to be
	// journaled.
	HasClientCaps() bool

	// LastOpenJournaled is the start offset of the most recent Open
	// event covering this inode, or 0 if none has ever been journaled.
	LastOpenJournaled() int64
	SetLastOpenJournaled(offset int64)

	// OpenDirFrag returns the named fragment of this inode's directory
	// contents, creating it if this is the first time it's seen. This
	// is CInode::get_or_open_dirfrag in the original MDS; it lives on
	// Inode rather than MDCache because a dirfrag only makes sense
	// relative to the inode it fragments.
	OpenDirFrag(frag FragID) Dir

	// Parent reports the Dir/Dentry this inode is currently linked
	// under, if any. Replaying a FullBit that relinks an inode
	// elsewhere needs this to unlink from the old location first.
	Parent() (Dir, Dentry, bool)
}

// Dentry is a named entry inside a directory fragment.
type Dentry interface {
	Name() string
	DirNV() Version
	SetDirNV(v Version)
	MarkDirty()
	LinkedInode() (InodeNo, bool)
	RemoteIno() (InodeNo, bool)
}

// Dir is a cached directory fragment.
type Dir interface {
	ID() DirFragID
	Authority() Authority
	CommittedVersion() Version

	// Version is the dir's current projected version, advanced by
	// SetVersion during replay. It may run ahead of CommittedVersion,
	// which only advances once the dir is actually persisted.
	Version() Version

	IsAmbiguousDirAuth() bool
	IsExporting() bool
	IsImporting() bool
	CanAuthPin() bool

	// Commit requests that the dir be persisted at least through
	// version v; c fires once that has happened. Concurrent commit
	// requests for the same dir collapse to the maximum v.
	Commit(ctx context.Context, v Version, c Completion)

	// AddWaiter registers c to fire when the dir becomes auth-pinnable
	// (tag "auth-pinnable") or when the dir's ambiguous authority is
	// resolved by import completion (tag "import-complete").
	AddWaiter(tag string, c Completion)

	SetVersion(v Version)
	MarkDirty()
	MarkComplete()
	SetDirAuth(a Authority)

	Lookup(name string) (Dentry, bool)
	AddDentry(name string, remoteIno InodeNo) Dentry
	LinkInode(dn Dentry, inode Inode)
	UnlinkInode(dn Dentry)
}

// MDCache is the in-memory namespace cache: directories, dentries,
// inodes, and the bookkeeping around purge and ambiguous imports.
type MDCache interface {
	GetDirFrag(id DirFragID) (Dir, bool)
	GetInode(ino InodeNo) (Inode, bool)

	// NewInodeFromRecord constructs (but does not register) an Inode
	// from a FullBit's carried record. The caller registers it with
	// AddInode and then links it into a dentry.
	NewInodeFromRecord(ino InodeNo, record []byte, symlinkTarget string) Inode
	AddInode(inode Inode)
	CreateRootInode() Inode
	CreateStrayInode(node NodeID) Inode
	GetSubtreeRoot(dir Dir) Dir

	AdjustSubtreeAuth(dir Dir, self NodeID)
	AdjustBoundedSubtreeAuth(base DirFragID, bounds []DirFragID, auth Authority)
	TrySubtreeMerge(base DirFragID)

	AddAmbiguousImport(base DirFragID, bounds []DirFragID)
	FinishAmbiguousImport(base DirFragID)
	CancelAmbiguousImport(base DirFragID)

	IsSubtrees() bool

	IsPurging(ino InodeNo, size uint64) bool
	WaitForPurge(ino InodeNo, size uint64, c Completion)
	AddRecoveredPurge(ino InodeNo, size uint64)
	RemoveRecoveredPurge(ino InodeNo, size uint64)

	// UncommittedSlaveUpdate returns the MetaBlob parked by a PREPARE
	// replay for reqid, if any. The journal package stores *MetaBlob
	// itself; MDCache merely holds on to it under an opaque key so
	// this interface doesn't need to import journal.
	UncommittedSlaveUpdate(reqid ReqID) (blob interface{}, ok bool)
	SetUncommittedSlaveUpdate(reqid ReqID, blob interface{})
	ClearUncommittedSlaveUpdate(reqid ReqID)
}

// Migrator coordinates subtree export/import handoffs with peer MDSs.
type Migrator interface {
	IsExporting(dir Dir) bool
	AddExportFinishWaiter(dir Dir, c Completion)
}

// AnchorTable is the cluster-wide, two-phase-commit anchor table.
type AnchorTable interface {
	GetCommittedVersion() Version
	GetVersion() Version
	Save(c Completion)

	CreatePrepare(ino InodeNo, trace []byte, reqmds NodeID, atid AtID, version Version)
	DestroyPrepare(ino InodeNo, trace []byte, reqmds NodeID, atid AtID, version Version)
	UpdatePrepare(ino InodeNo, trace []byte, reqmds NodeID, atid AtID, version Version)
	Commit(atid AtID, version Version)
}

// AnchorClient is the local, per-node view of outstanding anchor-table
// transactions this node initiated.
type AnchorClient interface {
	HasCommitted(atid AtID) bool
	WaitForAck(atid AtID, c Completion)
	GotJournaledAgree(atid AtID)
	GotJournaledAck(atid AtID)
}

// ClientMap is the authoritative record of client sessions and which
// of their requests have been durably recorded.
type ClientMap interface {
	GetCommitted() Version
	GetCommitting() Version
	GetVersion() Version
	AddCommitWaiter(c Completion)

	HaveCompletedRequest(reqid ReqID) bool
	AddTrimWaiter(reqid ReqID, c Completion)
	AddCompletedRequest(reqid ReqID)

	OpenSession(clientInst string)
	CloseSession(clientInst string)

	Decode(snapshot []byte, version Version)
	ResetProjected()
}

// IDAlloc is the cluster-wide monotonic ID allocator (inode numbers,
// etc).
type IDAlloc interface {
	GetCommittedVersion() Version
	GetVersion() Version
	Save(c Completion, v Version)

	AllocID(recovering bool) uint64
	ReclaimID(id uint64, recovering bool)
}

// MDLog is the append-only log itself: the journaling core asks it
// about capping and the most recent ImportMap, but never reads or
// writes log bytes directly.
type MDLog interface {
	LastImportMap() int64
	IsCapped() bool
	AddImportMapExpireWaiter(c Completion)
}

// Server is the request-serving half of the MDS, used by Open's
// re-journal path and by ClientMap's commit-on-demand path.
type Server interface {
	QueueJournalOpen(ino InodeNo)
	AddJournalOpenWaiter(c Completion)
	MaybeJournalOpens()
	LogClientMap(c Completion)
}

// MDS aggregates every collaborator the journaling core can reach
// through a single handle, mirroring the teacher's single shared
// *Store/*Replica context object (storage/range.go).
type MDS interface {
	Cache() MDCache
	Migrator() Migrator
	AnchorTable() AnchorTable
	AnchorClient() AnchorClient
	ClientMap() ClientMap
	IDAlloc() IDAlloc
	Log() MDLog
	Server() Server

	// SelfNodeID is this MDS's own node id, used by ImportMap.Replay
	// to re-establish authority over imported subtree roots.
	SelfNodeID() NodeID
}
