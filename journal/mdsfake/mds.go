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

// MDS aggregates a full set of fake collaborators behind the mdsctx.MDS
// handle.
type MDS struct {
	self mdsctx.NodeID

	cache        *MDCache
	migrator     Migrator
	anchorTable  *AnchorTable
	anchorClient *AnchorClient
	clientMap    *ClientMap
	idAlloc      *IDAlloc
	log          *MDLog
	server       *Server
}

// New returns a ready-to-use fake MDS for node self.
func New(self mdsctx.NodeID) *MDS {
	return &MDS{
		self:         self,
		cache:        NewMDCache(self),
		anchorTable:  &AnchorTable{},
		anchorClient: NewAnchorClient(),
		clientMap:    NewClientMap(),
		idAlloc:      NewIDAlloc(),
		log:          &MDLog{},
		server:       &Server{},
	}
}

func (m *MDS) Cache() mdsctx.MDCache         { return m.cache }
func (m *MDS) Migrator() mdsctx.Migrator     { return m.migrator }
func (m *MDS) AnchorTable() mdsctx.AnchorTable   { return m.anchorTable }
func (m *MDS) AnchorClient() mdsctx.AnchorClient { return m.anchorClient }
func (m *MDS) ClientMap() mdsctx.ClientMap   { return m.clientMap }
func (m *MDS) IDAlloc() mdsctx.IDAlloc       { return m.idAlloc }
func (m *MDS) Log() mdsctx.MDLog             { return m.log }
func (m *MDS) Server() mdsctx.Server         { return m.server }
func (m *MDS) SelfNodeID() mdsctx.NodeID     { return m.self }

// FakeCache exposes the concrete *MDCache for tests that need to
// construct dirfrags/inodes directly rather than through replay.
func (m *MDS) FakeCache() *MDCache { return m.cache }

// FakeLog exposes the concrete *MDLog for tests driving capping or
// ImportMap offsets.
func (m *MDS) FakeLog() *MDLog { return m.log }

// FakeAnchorClient exposes the concrete *AnchorClient for tests
// driving acks.
func (m *MDS) FakeAnchorClient() *AnchorClient { return m.anchorClient }

// FakeAnchorTable exposes the concrete *AnchorTable for tests needing
// a non-zero starting version.
func (m *MDS) FakeAnchorTable() *AnchorTable { return m.anchorTable }

// FakeClientMap exposes the concrete *ClientMap for tests driving
// request completion/trim.
func (m *MDS) FakeClientMap() *ClientMap { return m.clientMap }

// FakeServer exposes the concrete *Server for assertions on queued
// re-journal opens.
func (m *MDS) FakeServer() *Server { return m.server }

// Recorder is a mdsctx.Completion that records whether, and with what
// error, it fired — the standard assertion hook for expire() tests.
type Recorder struct {
	mu     sync.Mutex
	fired  bool
	err    error
}

func (r *Recorder) Finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = true
	r.err = err
}

func (r *Recorder) Fired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fired
}

func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
