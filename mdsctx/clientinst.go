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

import "github.com/google/uuid"

// NewClientInst returns a fresh, globally-unique client session
// identifier: the value Session.client_inst carries and ClientMap
// keys sessions by. Real clients mint one per mount; tests and the
// Session event's fixtures use this to avoid collisions across runs.
func NewClientInst() string {
	return uuid.NewString()
}
