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

package mdsfake

import (
	"sync"

	"github.com/google/btree"

	"github.com/clusterfs/mds/mdsctx"
)

type purgeKey struct {
	ino  mdsctx.InodeNo
	size uint64
}

// MDCache is a fake, in-process metadata cache. Dirfrags are indexed
// in a btree keyed by (ino, frag); everything else is plain maps,
// since the journal core never range-scans them.
type MDCache struct {
	mu sync.Mutex

	selfNode mdsctx.NodeID

	dirfrags *btree.BTree
	inodes   map[mdsctx.InodeNo]*Inode

	ambiguousImports map[mdsctx.DirFragID][]mdsctx.DirFragID
	subtrees         bool

	purging       map[purgeKey]bool
	purgeWaiters  map[purgeKey][]mdsctx.Completion
	recoveredPurges map[purgeKey]bool

	slaveUpdates map[mdsctx.ReqID]interface{}
}

// NewMDCache returns an empty cache for a node with the given id.
func NewMDCache(self mdsctx.NodeID) *MDCache {
	return &MDCache{
		selfNode:        self,
		dirfrags:        btree.New(16),
		inodes:          make(map[mdsctx.InodeNo]*Inode),
		ambiguousImports: make(map[mdsctx.DirFragID][]mdsctx.DirFragID),
		purging:         make(map[purgeKey]bool),
		purgeWaiters:    make(map[purgeKey][]mdsctx.Completion),
		recoveredPurges: make(map[purgeKey]bool),
		slaveUpdates:    make(map[mdsctx.ReqID]interface{}),
	}
}

func (c *MDCache) indexDir(d *Dir) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dirfrags.ReplaceOrInsert(dirFragItem{id: d.id, dir: d})
}

func (c *MDCache) GetDirFrag(id mdsctx.DirFragID) (mdsctx.Dir, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item := c.dirfrags.Get(dirFragKey(id))
	if item == nil {
		return nil, false
	}
	return item.(dirFragItem).dir, true
}

func (c *MDCache) GetInode(ino mdsctx.InodeNo) (mdsctx.Inode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	in, ok := c.inodes[ino]
	if !ok {
		return nil, false
	}
	return in, true
}

func (c *MDCache) NewInodeFromRecord(ino mdsctx.InodeNo, record []byte, symlinkTarget string) mdsctx.Inode {
	return newInode(ino, record, symlinkTarget, c)
}

func (c *MDCache) AddInode(inode mdsctx.Inode) {
	in := inode.(*Inode)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inodes[in.ino] = in
}

func (c *MDCache) CreateRootInode() mdsctx.Inode {
	in := newInode(mdsctx.RootIno, nil, "", c)
	c.mu.Lock()
	c.inodes[mdsctx.RootIno] = in
	c.mu.Unlock()
	return in
}

func (c *MDCache) CreateStrayInode(node mdsctx.NodeID) mdsctx.Inode {
	ino := mdsctx.StrayBase + mdsctx.InodeNo(node)
	in := newInode(ino, nil, "", c)
	c.mu.Lock()
	c.inodes[ino] = in
	c.mu.Unlock()
	return in
}

func (c *MDCache) GetSubtreeRoot(dir mdsctx.Dir) mdsctx.Dir { return dir }

func (c *MDCache) AdjustSubtreeAuth(dir mdsctx.Dir, self mdsctx.NodeID) {
	d := dir.(*Dir)
	d.SetDirAuth(mdsctx.Authority{Primary: self, Secondary: mdsctx.NoNode})
	c.mu.Lock()
	c.subtrees = true
	c.mu.Unlock()
}

func (c *MDCache) AdjustBoundedSubtreeAuth(base mdsctx.DirFragID, bounds []mdsctx.DirFragID, auth mdsctx.Authority) {
	if d, ok := c.GetDirFrag(base); ok {
		d.(*Dir).SetDirAuth(auth)
	}
	for _, b := range bounds {
		if d, ok := c.GetDirFrag(b); ok {
			d.(*Dir).SetDirAuth(auth)
		}
	}
}

func (c *MDCache) TrySubtreeMerge(base mdsctx.DirFragID) {}

func (c *MDCache) AddAmbiguousImport(base mdsctx.DirFragID, bounds []mdsctx.DirFragID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ambiguousImports[base] = bounds
}

func (c *MDCache) FinishAmbiguousImport(base mdsctx.DirFragID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ambiguousImports, base)
}

func (c *MDCache) CancelAmbiguousImport(base mdsctx.DirFragID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ambiguousImports, base)
}

// IsAmbiguousImport reports whether base is still recorded as an
// unresolved ambiguous import, for test assertions.
func (c *MDCache) IsAmbiguousImport(base mdsctx.DirFragID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.ambiguousImports[base]
	return ok
}

func (c *MDCache) IsSubtrees() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtrees
}

func (c *MDCache) IsPurging(ino mdsctx.InodeNo, size uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purging[purgeKey{ino, size}]
}

func (c *MDCache) WaitForPurge(ino mdsctx.InodeNo, size uint64, comp mdsctx.Completion) {
	k := purgeKey{ino, size}
	c.mu.Lock()
	if !c.purging[k] {
		c.mu.Unlock()
		comp.Finish(nil)
		return
	}
	c.purgeWaiters[k] = append(c.purgeWaiters[k], comp)
	c.mu.Unlock()
}

// SetPurging drives the purge-closure test path: marks (ino, size) as
// currently purging, or clears it and fires any waiters.
func (c *MDCache) SetPurging(ino mdsctx.InodeNo, size uint64, purging bool) {
	k := purgeKey{ino, size}
	c.mu.Lock()
	c.purging[k] = purging
	var fire []mdsctx.Completion
	if !purging {
		fire = c.purgeWaiters[k]
		delete(c.purgeWaiters, k)
	}
	c.mu.Unlock()
	for _, comp := range fire {
		comp.Finish(nil)
	}
}

func (c *MDCache) AddRecoveredPurge(ino mdsctx.InodeNo, size uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recoveredPurges[purgeKey{ino, size}] = true
}

func (c *MDCache) RemoveRecoveredPurge(ino mdsctx.InodeNo, size uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.recoveredPurges, purgeKey{ino, size})
}

// IsRecoveredPurge reports whether (ino, size) is currently recorded
// as a recovered-but-unfinished purge, for test assertions.
func (c *MDCache) IsRecoveredPurge(ino mdsctx.InodeNo, size uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recoveredPurges[purgeKey{ino, size}]
}

func (c *MDCache) UncommittedSlaveUpdate(reqid mdsctx.ReqID) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.slaveUpdates[reqid]
	return v, ok
}

func (c *MDCache) SetUncommittedSlaveUpdate(reqid mdsctx.ReqID, blob interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slaveUpdates[reqid] = blob
}

func (c *MDCache) ClearUncommittedSlaveUpdate(reqid mdsctx.ReqID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slaveUpdates, reqid)
}
