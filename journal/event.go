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

// Package journal implements the journaling core of a clustered
// filesystem's metadata server: the event taxonomy recorded on every
// mutation, the expiration machinery that lets the log trim its tail,
// and the replay machinery that rebuilds in-memory state on restart.
//
// The core never touches the log's bytes or its storage; it consumes
// collaborators through the interfaces in package mdsctx.
package journal

import (
	"context"

	"github.com/clusterfs/mds/mdsctx"
)

// Kind tags an Event with its on-disk type code, doubling as the
// dispatch key for a tagged-variant rather than an inheritance
// hierarchy.
type Kind uint8

const (
	KindMetaBlob Kind = iota + 1
	KindUpdate
	KindOpen
	KindSlaveUpdate
	KindExport
	KindImportStart
	KindImportFinish
	KindImportMap
	KindAlloc
	KindAnchor
	KindAnchorClient
	KindClientMap
	KindSession
	KindPurgeFinish
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindMetaBlob:
		return "MetaBlob"
	case KindUpdate:
		return "Update"
	case KindOpen:
		return "Open"
	case KindSlaveUpdate:
		return "SlaveUpdate"
	case KindExport:
		return "Export"
	case KindImportStart:
		return "ImportStart"
	case KindImportFinish:
		return "ImportFinish"
	case KindImportMap:
		return "ImportMap"
	case KindAlloc:
		return "Alloc"
	case KindAnchor:
		return "Anchor"
	case KindAnchorClient:
		return "AnchorClient"
	case KindClientMap:
		return "ClientMap"
	case KindSession:
		return "Session"
	case KindPurgeFinish:
		return "PurgeFinish"
	case KindString:
		return "String"
	default:
		return "Unknown"
	}
}

// Event is the contract every journal entry implements: HasExpired is
// a pure, monotone query; Expire registers continuations and returns
// without blocking; Replay applies the event to in-memory state
// idempotently.
type Event interface {
	Kind() Kind

	// StartOffset/EndOffset are this event's position in the log; some
	// events (Open, ImportMap) compare their own offset against
	// ambient log state to decide expiration.
	StartOffset() int64
	EndOffset() int64

	HasExpired(ctx context.Context, mds mdsctx.MDS) bool
	Expire(ctx context.Context, mds mdsctx.MDS, c mdsctx.Completion)
	Replay(ctx context.Context, mds mdsctx.MDS)
}

// alwaysExpired is embedded by events whose Expire path is illegal to
// invoke (AnchorClient, PurgeFinish, ImportFinish, StringEvent).
// Calling Expire on one of these is a logic violation.
type alwaysExpired struct{ kind Kind }

func (alwaysExpired) HasExpired(context.Context, mdsctx.MDS) bool { return true }

func (a alwaysExpired) Expire(ctx context.Context, _ mdsctx.MDS, c mdsctx.Completion) {
	fatalf("%s.Expire invoked; this event is defined to be always-expired", a.kind)
}
