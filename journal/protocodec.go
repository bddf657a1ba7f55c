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
	"github.com/gogo/protobuf/proto"
)

// Envelope is a protobuf frame around an opaque event payload: a kind
// tag outside the blob so a log scanner can filter by kind without
// decoding it, the same two-layer shape the teacher's roachpb.Value
// uses for a heterogeneous payload. It carries no generated
// Marshal/Unmarshal of its own, relying on gogo/protobuf's
// reflection-based codec over the struct tags below.
type Envelope struct {
	Kind    int32  `protobuf:"varint,1,opt,name=kind" json:"kind"`
	Payload []byte `protobuf:"bytes,2,opt,name=payload" json:"payload"`
}

func (e *Envelope) Reset()         { *e = Envelope{} }
func (e *Envelope) String() string { return proto.CompactTextString(e) }
func (e *Envelope) ProtoMessage()  {}

// ProtoCodec frames GobCodec's payload inside a protobuf Envelope.
type ProtoCodec struct {
	Inner Codec
}

// NewProtoCodec returns a ProtoCodec layered over the default
// GobCodec payload encoding.
func NewProtoCodec() ProtoCodec { return ProtoCodec{Inner: GobCodec{}} }

func (c ProtoCodec) Encode(ev Event) ([]byte, error) {
	payload, err := c.Inner.Encode(ev)
	if err != nil {
		return nil, err
	}
	env := &Envelope{Kind: int32(ev.Kind()), Payload: payload}
	b, err := proto.Marshal(env)
	if err != nil {
		return nil, errors.Wrapf(err, "journal: proto marshal envelope for %s", ev.Kind())
	}
	return b, nil
}

func (c ProtoCodec) Decode(b []byte) (Event, error) {
	var env Envelope
	if err := proto.Unmarshal(b, &env); err != nil {
		return nil, errors.Wrap(err, "journal: proto unmarshal envelope")
	}
	ev, err := c.Inner.Decode(env.Payload)
	if err != nil {
		return nil, err
	}
	if Kind(env.Kind) != ev.Kind() {
		return nil, errors.Newf("journal: envelope kind %s does not match payload kind %s", Kind(env.Kind), ev.Kind())
	}
	return ev, nil
}
