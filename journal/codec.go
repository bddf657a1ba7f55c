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
	"bytes"
	"encoding/gob"

	"github.com/cockroachdb/errors"
)

// Codec is the log's view of an event's wire form. The log itself
// (and its on-disk byte layout) is out of scope here; Codec is the
// seam a log writer/reader would call through.
type Codec interface {
	Encode(ev Event) ([]byte, error)
	Decode(b []byte) (Event, error)
}

func init() {
	gob.Register(&MetaBlob{})
	gob.Register(&Update{})
	gob.Register(&Open{})
	gob.Register(&SlaveUpdate{})
	gob.Register(&Export{})
	gob.Register(&ImportStart{})
	gob.Register(&ImportFinish{})
	gob.Register(&ImportMap{})
	gob.Register(&Alloc{})
	gob.Register(&Anchor{})
	gob.Register(&AnchorClient{})
	gob.Register(&ClientMap{})
	gob.Register(&Session{})
	gob.Register(&PurgeFinish{})
	gob.Register(&StringEvent{})
}

// GobCodec is the default codec: encoding/gob over the Event
// interface, relying on this file's init-time Register calls for
// every concrete kind.
type GobCodec struct{}

func (GobCodec) Encode(ev Event) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&ev); err != nil {
		return nil, errors.Wrapf(err, "journal: gob encode %s", ev.Kind())
	}
	return buf.Bytes(), nil
}

func (GobCodec) Decode(b []byte) (Event, error) {
	var ev Event
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&ev); err != nil {
		return nil, errors.Wrap(err, "journal: gob decode")
	}
	return ev, nil
}
