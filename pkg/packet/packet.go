// Copyright 2026 The ofpipeline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package packet models the ingress packet handle the pipeline core
// walks. Parsing and field extraction are out of scope (§1); this package
// only carries the state the walker and executor read or mutate:
// table_id, the action-set, the parsed-field handle's metadata/TTL view,
// and the buffer id assigned on controller punt.
package packet

import "github.com/ofpipeline/datapath/pkg/ofp"

// HandleStd is the parsed-field view the walker and the write-metadata
// instruction consult (packet_handle_std in the original). Only the
// pipeline-core-relevant slice is modeled: TTL validity, the match fields
// used for table lookup (Write-Metadata updates the metadata field in
// place), and the table-miss flag the walker sets after a table-miss-entry
// match.
type HandleStd struct {
	Match        ofp.Match
	ttlValid     bool
	TableMiss    bool
	metadataTLV  *ofp.OXMTLV // points into Match.Fields; nil until Validate populates it
}

func NewHandleStd(match ofp.Match, ttlValid bool) *HandleStd {
	return &HandleStd{Match: match, ttlValid: ttlValid}
}

// IsTTLValid mirrors packet_handle_std_is_ttl_valid.
func (h *HandleStd) IsTTLValid() bool {
	if h == nil {
		return true
	}
	return h.ttlValid
}

// Validate mirrors packet_handle_std_validate: it (re)locates the
// metadata field in the match so Write-Metadata can update it. Real
// re-parsing is out of scope; this just memoizes the pointer.
func (h *HandleStd) Validate() {
	if h.metadataTLV != nil {
		return
	}
	for i := range h.Match.Fields {
		if h.Match.Fields[i].Field == ofp.OXMMetadata {
			h.metadataTLV = &h.Match.Fields[i]
			return
		}
	}
}

// MetadataTLV returns the memoized metadata field, if the match carries
// one. Write-Metadata (§4.2) only ever updates this, the primary handle --
// the known limitation that other parsed-field handles go stale is
// preserved by construction, since HandleStd models exactly one handle.
func (h *HandleStd) MetadataTLV() (*ofp.OXMTLV, bool) {
	h.Validate()
	return h.metadataTLV, h.metadataTLV != nil
}

// ActionSet is the ordered, de-duplicated collection of actions
// accumulated across Write-Actions instructions and executed at pipeline
// end (§4.2 Write-Actions, glossary "Action-set"). Later writes of the
// same action kind overwrite earlier ones.
type ActionSet struct {
	byKind map[ofp.ActionKind]ofp.Action
	order  []ofp.ActionKind
}

func NewActionSet() *ActionSet {
	return &ActionSet{byKind: make(map[ofp.ActionKind]ofp.Action)}
}

// Write merges actions into the set: a later write of the same kind
// overwrites an earlier one but keeps its original position, matching
// standard OpenFlow write-action merge semantics.
func (s *ActionSet) Write(actions []ofp.Action) {
	for _, a := range actions {
		if _, exists := s.byKind[a.Kind]; !exists {
			s.order = append(s.order, a.Kind)
		}
		s.byKind[a.Kind] = a
	}
}

// Clear empties the action-set (§4.2 Clear-Actions).
func (s *ActionSet) Clear() {
	s.byKind = make(map[ofp.ActionKind]ofp.Action)
	s.order = nil
}

// Actions returns the accumulated actions in write order.
func (s *ActionSet) Actions() []ofp.Action {
	out := make([]ofp.Action, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKind[k])
	}
	return out
}

// Packet is the exclusive-ownership packet handle the walker drives
// through the pipeline (§3). Dropping it, saving it into a buffer pool or
// forwarding it releases ownership; callers must not use a Packet
// afterward.
type Packet struct {
	Buffer    []byte
	Handle    *HandleStd
	ActionSet *ActionSet
	TableID   uint8
	InPort    uint32
	BufferID  uint32
	HasBuffer bool
}

func New(buf []byte, handle *HandleStd, inPort uint32) *Packet {
	return &Packet{
		Buffer:    buf,
		Handle:    handle,
		ActionSet: NewActionSet(),
		InPort:    inPort,
	}
}
