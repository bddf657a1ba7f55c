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
	"github.com/cockroachdb/errors"
	"github.com/golang/glog"
)

// fatalf reports a logic violation: these are reachable only by an
// implementation bug (unknown op tag, expire-after-cap on an Open,
// replay-order inversion, a second PREPARE for a live reqid, ...), and
// the policy is safety over availability. We build the assertion with
// cockroachdb/errors so the failure carries a stack trace and
// structured fields, then panic with it rather than os.Exit so tests
// can recover and assert on it.
func fatalf(format string, args ...interface{}) {
	err := errors.AssertionFailedf(format, args...)
	glog.Errorf("journal: fatal: %+v", err)
	panic(err)
}

// benign logs a redundant-but-harmless situation: replay of an
// already-applied event, or a SlaveUpdate COMMIT/ABORT with no
// matching PREPARE. These are logged at a low verbosity and otherwise
// ignored.
func benign(format string, args ...interface{}) {
	if glog.V(1) {
		glog.Infof("journal: "+format, args...)
	}
}
