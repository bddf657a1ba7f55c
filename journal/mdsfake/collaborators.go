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

// Migrator is a fake subtree migrator: export state lives on the Dir
// itself (SetAmbiguous), so Migrator only needs to answer queries and
// forward waiters to it.
type Migrator struct{}

func (Migrator) IsExporting(dir mdsctx.Dir) bool { return dir.(*Dir).IsExporting() }

func (Migrator) AddExportFinishWaiter(dir mdsctx.Dir, c mdsctx.Completion) {
	dir.(*Dir).AddWaiter("export-finish", c)
}

// AnchorTable is a fake cluster anchor table: versions advance exactly
// as Anchor.Replay drives them.
type AnchorTable struct {
	mu        sync.Mutex
	committed mdsctx.Version
	version   mdsctx.Version
}

func (t *AnchorTable) GetCommittedVersion() mdsctx.Version {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.committed
}

func (t *AnchorTable) GetVersion() mdsctx.Version {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.version
}

func (t *AnchorTable) Save(c mdsctx.Completion) {
	t.mu.Lock()
	t.committed = t.version
	t.mu.Unlock()
	c.Finish(nil)
}

func (t *AnchorTable) CreatePrepare(ino mdsctx.InodeNo, trace []byte, reqmds mdsctx.NodeID, atid mdsctx.AtID, version mdsctx.Version) {
	t.advance(version)
}

func (t *AnchorTable) DestroyPrepare(ino mdsctx.InodeNo, trace []byte, reqmds mdsctx.NodeID, atid mdsctx.AtID, version mdsctx.Version) {
	t.advance(version)
}

func (t *AnchorTable) UpdatePrepare(ino mdsctx.InodeNo, trace []byte, reqmds mdsctx.NodeID, atid mdsctx.AtID, version mdsctx.Version) {
	t.advance(version)
}

func (t *AnchorTable) Commit(atid mdsctx.AtID, version mdsctx.Version) { t.advance(version) }

// SetVersionForTest forces the table's version without going through
// a Replay call, for tests that need to start from a non-zero
// baseline.
func (t *AnchorTable) SetVersionForTest(v mdsctx.Version) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.version = v
}

func (t *AnchorTable) advance(v mdsctx.Version) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.version = v
}

// AnchorClient is a fake per-node anchor client.
type AnchorClient struct {
	mu        sync.Mutex
	committed map[mdsctx.AtID]bool
	waiters   map[mdsctx.AtID][]mdsctx.Completion
}

// NewAnchorClient returns an empty anchor client.
func NewAnchorClient() *AnchorClient {
	return &AnchorClient{committed: make(map[mdsctx.AtID]bool), waiters: make(map[mdsctx.AtID][]mdsctx.Completion)}
}

func (a *AnchorClient) HasCommitted(atid mdsctx.AtID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.committed[atid]
}

func (a *AnchorClient) WaitForAck(atid mdsctx.AtID, c mdsctx.Completion) {
	a.mu.Lock()
	if a.committed[atid] {
		a.mu.Unlock()
		c.Finish(nil)
		return
	}
	a.waiters[atid] = append(a.waiters[atid], c)
	a.mu.Unlock()
}

func (a *AnchorClient) GotJournaledAgree(atid mdsctx.AtID) {}

// GotJournaledAck marks atid committed and fires any pending waiters.
func (a *AnchorClient) GotJournaledAck(atid mdsctx.AtID) {
	a.mu.Lock()
	a.committed[atid] = true
	cs := a.waiters[atid]
	delete(a.waiters, atid)
	a.mu.Unlock()
	for _, c := range cs {
		c.Finish(nil)
	}
}

// ClientMap is a fake client session/request tracker.
type ClientMap struct {
	mu sync.Mutex

	committed  mdsctx.Version
	committing mdsctx.Version
	version    mdsctx.Version

	completed    map[mdsctx.ReqID]bool
	trimWaiters  map[mdsctx.ReqID][]mdsctx.Completion
	commitWaiters []mdsctx.Completion

	sessions map[string]bool
}

// NewClientMap returns an empty client map.
func NewClientMap() *ClientMap {
	return &ClientMap{completed: make(map[mdsctx.ReqID]bool), trimWaiters: make(map[mdsctx.ReqID][]mdsctx.Completion), sessions: make(map[string]bool)}
}

func (m *ClientMap) GetCommitted() mdsctx.Version {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

func (m *ClientMap) GetCommitting() mdsctx.Version {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committing
}

func (m *ClientMap) GetVersion() mdsctx.Version {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

func (m *ClientMap) AddCommitWaiter(c mdsctx.Completion) {
	m.mu.Lock()
	m.commitWaiters = append(m.commitWaiters, c)
	m.mu.Unlock()
}

func (m *ClientMap) HaveCompletedRequest(reqid mdsctx.ReqID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed[reqid]
}

func (m *ClientMap) AddTrimWaiter(reqid mdsctx.ReqID, c mdsctx.Completion) {
	m.mu.Lock()
	if !m.completed[reqid] {
		m.mu.Unlock()
		c.Finish(nil)
		return
	}
	m.trimWaiters[reqid] = append(m.trimWaiters[reqid], c)
	m.mu.Unlock()
}

func (m *ClientMap) AddCompletedRequest(reqid mdsctx.ReqID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[reqid] = true
}

// Trim clears reqid's completed marker and fires its trim waiters,
// simulating the client map having durably recorded the trim.
func (m *ClientMap) Trim(reqid mdsctx.ReqID) {
	m.mu.Lock()
	delete(m.completed, reqid)
	cs := m.trimWaiters[reqid]
	delete(m.trimWaiters, reqid)
	m.mu.Unlock()
	for _, c := range cs {
		c.Finish(nil)
	}
}

func (m *ClientMap) OpenSession(clientInst string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[clientInst] = true
}

func (m *ClientMap) CloseSession(clientInst string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, clientInst)
}

func (m *ClientMap) HasSession(clientInst string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[clientInst]
}

func (m *ClientMap) Decode(snapshot []byte, version mdsctx.Version) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version = version
	m.committed = version
	m.committing = version
}

func (m *ClientMap) ResetProjected() {}

// IDAlloc is a fake cluster id allocator.
type IDAlloc struct {
	mu        sync.Mutex
	committed mdsctx.Version
	version   mdsctx.Version
	next      uint64
	free      []uint64
}

// NewIDAlloc returns an allocator that hands out ids starting at 1.
func NewIDAlloc() *IDAlloc { return &IDAlloc{next: 1} }

func (a *IDAlloc) GetCommittedVersion() mdsctx.Version {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.committed
}

func (a *IDAlloc) GetVersion() mdsctx.Version {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.version
}

func (a *IDAlloc) Save(c mdsctx.Completion, v mdsctx.Version) {
	a.mu.Lock()
	if v > a.committed {
		a.committed = v
	}
	a.mu.Unlock()
	c.Finish(nil)
}

func (a *IDAlloc) AllocID(recovering bool) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.free) > 0 {
		id := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		a.version++
		return id
	}
	id := a.next
	a.next++
	a.version++
	return id
}

func (a *IDAlloc) ReclaimID(id uint64, recovering bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.free = append(a.free, id)
	a.version++
}

// MDLog is a fake append-only log surface.
type MDLog struct {
	mu            sync.Mutex
	lastImportMap int64
	capped        bool
	waiters       []mdsctx.Completion
}

func (l *MDLog) LastImportMap() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastImportMap
}

// SetLastImportMap drives the ImportMap-checkpoint test scenario.
func (l *MDLog) SetLastImportMap(offset int64) {
	l.mu.Lock()
	l.lastImportMap = offset
	cs := l.waiters
	l.waiters = nil
	l.mu.Unlock()
	for _, c := range cs {
		c.Finish(nil)
	}
}

func (l *MDLog) IsCapped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.capped
}

// Cap marks the log as shut down; any outstanding ImportMap waiters
// fire (no further map will ever be written).
func (l *MDLog) Cap() {
	l.mu.Lock()
	l.capped = true
	cs := l.waiters
	l.waiters = nil
	l.mu.Unlock()
	for _, c := range cs {
		c.Finish(nil)
	}
}

func (l *MDLog) AddImportMapExpireWaiter(c mdsctx.Completion) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waiters = append(l.waiters, c)
}

// Server is a fake request-serving surface.
type Server struct {
	mu             sync.Mutex
	queuedOpens    []mdsctx.InodeNo
	openWaiters    []mdsctx.Completion
	clientMapLog   []mdsctx.Completion
}

func (s *Server) QueueJournalOpen(ino mdsctx.InodeNo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queuedOpens = append(s.queuedOpens, ino)
}

func (s *Server) AddJournalOpenWaiter(c mdsctx.Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openWaiters = append(s.openWaiters, c)
}

// MaybeJournalOpens fires every pending open waiter, simulating the
// batch writer immediately flushing the queued re-journal records.
func (s *Server) MaybeJournalOpens() {
	s.mu.Lock()
	cs := s.openWaiters
	s.openWaiters = nil
	s.mu.Unlock()
	for _, c := range cs {
		c.Finish(nil)
	}
}

// QueuedOpens returns the inodes queued for re-journaling, for test
// assertions.
func (s *Server) QueuedOpens() []mdsctx.InodeNo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mdsctx.InodeNo(nil), s.queuedOpens...)
}

func (s *Server) LogClientMap(c mdsctx.Completion) {
	s.mu.Lock()
	s.clientMapLog = append(s.clientMapLog, c)
	s.mu.Unlock()
	c.Finish(nil)
}
