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

// Package mdsfake is an in-memory implementation of every mdsctx
// interface, built to drive journal package tests without a real
// metadata cache. Dirfrags are indexed in a google/btree.BTree keyed
// by (ino, frag) rather than an unordered Go map; the fake only does
// point lookups and inserts on it and offers no range queries.
package mdsfake

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/clusterfs/mds/mdsctx"
)

// dirFragItem is the btree.Item wrapping a cached dirfrag, ordered by
// its (ino, frag) key.
type dirFragItem struct {
	id  mdsctx.DirFragID
	dir *Dir
}

func (d dirFragItem) Less(than btree.Item) bool {
	o := than.(dirFragItem)
	if d.id.Ino != o.id.Ino {
		return d.id.Ino < o.id.Ino
	}
	return d.id.Frag < o.id.Frag
}

func dirFragKey(id mdsctx.DirFragID) btree.Item { return dirFragItem{id: id} }

// Dentry is a fake directory entry.
type Dentry struct {
	mu        sync.Mutex
	name      string
	dnv       mdsctx.Version
	dirty     bool
	ino       mdsctx.InodeNo
	linked    bool
	remoteIno mdsctx.InodeNo
	isRemote  bool
}

func (d *Dentry) Name() string { return d.name }

func (d *Dentry) DirNV() mdsctx.Version {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dnv
}

func (d *Dentry) SetDirNV(v mdsctx.Version) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dnv = v
}

func (d *Dentry) MarkDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true
}

func (d *Dentry) LinkedInode() (mdsctx.InodeNo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.linked || d.isRemote {
		return 0, false
	}
	return d.ino, true
}

func (d *Dentry) RemoteIno() (mdsctx.InodeNo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isRemote {
		return 0, false
	}
	return d.remoteIno, true
}

// Dir is a fake cached directory fragment.
type Dir struct {
	mu sync.Mutex

	id        mdsctx.DirFragID
	auth      mdsctx.Authority
	committed mdsctx.Version
	projected mdsctx.Version
	ambiguous bool
	exporting bool
	importing bool
	authPinnable bool
	complete  bool
	dirty     bool

	dentries map[string]*Dentry
	waiters  map[string][]mdsctx.Completion

	cache *MDCache
}

func newDir(id mdsctx.DirFragID, auth mdsctx.Authority) *Dir {
	return &Dir{
		id:           id,
		auth:         auth,
		authPinnable: true,
		dentries:     make(map[string]*Dentry),
		waiters:      make(map[string][]mdsctx.Completion),
	}
}

func (d *Dir) ID() mdsctx.DirFragID { return d.id }

func (d *Dir) Authority() mdsctx.Authority {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.auth
}

func (d *Dir) SetDirAuth(a mdsctx.Authority) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.auth = a
}

func (d *Dir) CommittedVersion() mdsctx.Version {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

func (d *Dir) Version() mdsctx.Version {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.projected
}

func (d *Dir) IsAmbiguousDirAuth() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ambiguous
}

func (d *Dir) IsExporting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exporting
}

func (d *Dir) IsImporting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.importing
}

func (d *Dir) CanAuthPin() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.authPinnable
}

// SetAmbiguous puts the dir into export or import limbo, for tests
// driving the migration-waiter paths.
func (d *Dir) SetAmbiguous(exporting, importing bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ambiguous = true
	d.exporting = exporting
	d.importing = importing
}

// SetAuthPinnable controls CanAuthPin, for tests driving the frozen-dir
// wait path.
func (d *Dir) SetAuthPinnable(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.authPinnable = v
}

// Commit immediately advances CommittedVersion to max(current, v) and
// fires c. A real cache would go through IO; the fake has nothing to
// wait on.
func (d *Dir) Commit(ctx context.Context, v mdsctx.Version, c mdsctx.Completion) {
	d.mu.Lock()
	if v > d.committed {
		d.committed = v
	}
	if v > d.projected {
		d.projected = v
	}
	d.mu.Unlock()
	c.Finish(nil)
}

func (d *Dir) AddWaiter(tag string, c mdsctx.Completion) {
	d.mu.Lock()
	d.waiters[tag] = append(d.waiters[tag], c)
	d.mu.Unlock()
}

// FireWaiters finishes every waiter registered under tag, for tests
// simulating an external event (auth-pin released, import acked).
func (d *Dir) FireWaiters(tag string) {
	d.mu.Lock()
	cs := d.waiters[tag]
	delete(d.waiters, tag)
	d.mu.Unlock()
	for _, c := range cs {
		c.Finish(nil)
	}
}

func (d *Dir) SetVersion(v mdsctx.Version) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projected = v
}

// SetCommittedVersionForTest seeds the dir's persisted version
// directly, for tests that need a dir already committed through v
// without going through Commit's waiter/completion machinery.
func (d *Dir) SetCommittedVersionForTest(v mdsctx.Version) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.committed = v
}

func (d *Dir) MarkDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true
}

func (d *Dir) MarkComplete() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.complete = true
}

func (d *Dir) Lookup(name string) (mdsctx.Dentry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dn, ok := d.dentries[name]
	if !ok {
		return nil, false
	}
	return dn, true
}

func (d *Dir) AddDentry(name string, remoteIno mdsctx.InodeNo) mdsctx.Dentry {
	d.mu.Lock()
	defer d.mu.Unlock()
	dn := &Dentry{name: name}
	if remoteIno != 0 {
		dn.isRemote = true
		dn.remoteIno = remoteIno
	}
	d.dentries[name] = dn
	return dn
}

func (d *Dir) LinkInode(dnI mdsctx.Dentry, inode mdsctx.Inode) {
	dn := dnI.(*Dentry)
	dn.mu.Lock()
	dn.linked = true
	dn.isRemote = false
	dn.ino = inode.Ino()
	dn.mu.Unlock()
	if in, ok := inode.(*Inode); ok {
		in.setParent(d, dn)
	}
}

func (d *Dir) UnlinkInode(dnI mdsctx.Dentry) {
	dn := dnI.(*Dentry)
	dn.mu.Lock()
	wasIno := dn.ino
	dn.linked = false
	dn.isRemote = false
	dn.mu.Unlock()
	if d.cache != nil {
		if in, ok := d.cache.GetInode(wasIno); ok {
			if realIn, ok := in.(*Inode); ok {
				realIn.clearParentIfMatches(d, dn)
			}
		}
	}
}
