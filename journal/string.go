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
	"github.com/golang/glog"
)

// StringEvent is an inert heartbeat/comment record, used to give an
// otherwise-idle log periodic forward progress. Always immediately
// expired; replay changes no state and only traces Msg.
type StringEvent struct {
	base
	alwaysExpired
	Msg string
}

// NewStringEvent records msg as a heartbeat at [start, end).
func NewStringEvent(start, end int64, msg string) *StringEvent {
	return &StringEvent{
		base:          NewBase(start, end),
		alwaysExpired: alwaysExpired{kind: KindString},
		Msg:           msg,
	}
}

func (s *StringEvent) Kind() Kind { return KindString }

func (s *StringEvent) Replay(ctx context.Context, mds mdsctx.MDS) {
	if glog.V(1) {
		glog.Infof("journal: StringEvent.Replay at offset %d: %q", s.StartOffset(), s.Msg)
	}
}
