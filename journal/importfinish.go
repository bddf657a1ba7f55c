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

// ImportFinish resolves a prior ImportStart's ambiguity one way or the
// other. It is always immediately expired: by the time it's written,
// the ambiguity it resolves has already been decided.
type ImportFinish struct {
	base
	alwaysExpired
	ImportBase mdsctx.DirFragID
	Success    bool
}

// NewImportFinish resolves the ambiguous import rooted at importBase.
func NewImportFinish(start, end int64, importBase mdsctx.DirFragID, success bool) *ImportFinish {
	return &ImportFinish{
		base:          NewBase(start, end),
		alwaysExpired: alwaysExpired{kind: KindImportFinish},
		ImportBase:    importBase,
		Success:       success,
	}
}

func (i *ImportFinish) Kind() Kind { return KindImportFinish }

func (i *ImportFinish) Replay(ctx context.Context, mds mdsctx.MDS) {
	if i.Success {
		mds.Cache().FinishAmbiguousImport(i.ImportBase)
	} else {
		mds.Cache().CancelAmbiguousImport(i.ImportBase)
	}
}
