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

	"github.com/clusterfs/mds/mdsctx"
)

// Inode is a fake cached inode.
type Inode struct {
	mu sync.Mutex

	ino     mdsctx.InodeNo
	record  []byte
	symlink string
	dirty   bool

	hasCaps    bool
	lastOpenAt int64

	parentDir *Dir
	parentDn  *Dentry

	frags map[mdsctx.FragID]*Dir
	cache *MDCache
}

func newInode(ino mdsctx.InodeNo, record []byte, symlink string, cache *MDCache) *Inode {
	return &Inode{ino: ino, record: record, symlink: symlink, frags: make(map[mdsctx.FragID]*Dir), cache: cache}
}

func (i *Inode) Ino() mdsctx.InodeNo { return i.ino }

func (i *Inode) IsSymlink() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.symlink != ""
}

func (i *Inode) SymlinkTarget() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.symlink
}

func (i *Inode) SetRecord(record []byte) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.record = record
}

// Record returns the inode's currently stored record, for assertions
// in tests.
func (i *Inode) Record() []byte {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.record
}

func (i *Inode) MarkDirty() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.dirty = true
}

func (i *Inode) HasClientCaps() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.hasCaps
}

// SetClientCaps drives the Open-event supersession tests.
func (i *Inode) SetClientCaps(v bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.hasCaps = v
}

func (i *Inode) LastOpenJournaled() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastOpenAt
}

func (i *Inode) SetLastOpenJournaled(offset int64) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.lastOpenAt = offset
}

func (i *Inode) OpenDirFrag(frag mdsctx.FragID) mdsctx.Dir {
	i.mu.Lock()
	defer i.mu.Unlock()
	if d, ok := i.frags[frag]; ok {
		return d
	}
	id := mdsctx.DirFragID{Ino: i.ino, Frag: frag}
	d := newDir(id, mdsctx.Authority{Primary: mdsctx.UnknownNode, Secondary: mdsctx.UnknownNode})
	d.cache = i.cache
	i.frags[frag] = d
	if i.cache != nil {
		i.cache.indexDir(d)
	}
	return d
}

func (i *Inode) Parent() (mdsctx.Dir, mdsctx.Dentry, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.parentDir == nil {
		return nil, nil, false
	}
	return i.parentDir, i.parentDn, true
}

func (i *Inode) setParent(d *Dir, dn *Dentry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.parentDir = d
	i.parentDn = dn
}

func (i *Inode) clearParentIfMatches(d *Dir, dn *Dentry) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.parentDir == d && i.parentDn == dn {
		i.parentDir = nil
		i.parentDn = nil
	}
}
