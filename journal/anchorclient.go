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
)

// AnchorClient is replay-only: it records that this node's anchor
// client has observed an ack for atid. It is always immediately
// expired.
type AnchorClient struct {
	base
	alwaysExpired
	ATID mdsctx.AtID
}

// NewAnchorClient records the ack for atid.
func NewAnchorClient(start, end int64, atid mdsctx.AtID) *AnchorClient {
	return &AnchorClient{
		base:          NewBase(start, end),
		alwaysExpired: alwaysExpired{kind: KindAnchorClient},
		ATID:          atid,
	}
}

func (a *AnchorClient) Kind() Kind { return KindAnchorClient }

func (a *AnchorClient) Replay(ctx context.Context, mds mdsctx.MDS) {
	mds.AnchorClient().GotJournaledAck(a.ATID)
}
