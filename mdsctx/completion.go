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

package mdsctx

// Completion is a one-shot continuation. Collaborators (dir commits,
// migration acks, anchor round-trips, purges, client-map writes) call
// Finish exactly once when the operation they were asked to perform
// durably completes. err is non-nil only if the underlying operation
// failed in a way the caller should log; the journaling core treats a
// fired Completion as "dependency satisfied" regardless of err, since
// it has no retry policy of its own (see the error-handling design:
// IO failures are the collaborator's problem, not the journal's).
type Completion interface {
	Finish(err error)
}

// CompletionFunc adapts a plain function to Completion, mirroring the
// teacher's EventMembershipChangeCommitted.Callback func(error) shape.
type CompletionFunc func(err error)

// Finish implements Completion.
func (f CompletionFunc) Finish(err error) { f(err) }
