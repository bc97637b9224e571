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

package ofp

import "encoding/binary"

// OXMField identifies an OXM TLV type. Only the handful of fields the
// pipeline core itself inspects (for table-61 LPM validation and the
// table 62/63 MAC transpose) are named; everything else the flow table
// stores opaquely.
type OXMField uint32

const (
	OXMEthDst   OXMField = 1
	OXMEthSrc   OXMField = 2
	OXMIPv4Dst  OXMField = 3
	OXMIPv4DstW OXMField = 4 // masked variant of OXMIPv4Dst
	OXMMetadata OXMField = 5
	OXMInPort   OXMField = 6
)

// OXMTLV is one typed match field. Mask is only meaningful for masked
// field types (e.g. OXMIPv4DstW); Value/Mask hold the field payload in
// network byte order, sized to the field (4 bytes for IPv4, 6 for MAC, 8
// for metadata).
type OXMTLV struct {
	Field OXMField
	Value []byte
	Mask  []byte
}

// Match is an ordered set of OXM TLVs, exactly as ofl_match holds a hash
// map of ofl_match_tlv entries. Order is insignificant; lookups are by
// field type, and there is at most one TLV per field type.
type Match struct {
	Fields []OXMTLV
}

// IsEmpty reports whether the match has no fields, i.e. an OXM list of
// length <= 4 bytes (just the header) which §4.1 uses, together with
// priority 0, to recognize a table-miss entry.
func (m *Match) IsEmpty() bool {
	return m == nil || len(m.Fields) == 0
}

// Find returns the TLV for a field type, if present.
func (m *Match) Find(f OXMField) (OXMTLV, bool) {
	if m == nil {
		return OXMTLV{}, false
	}
	for _, t := range m.Fields {
		if t.Field == f {
			return t, true
		}
	}
	return OXMTLV{}, false
}

// Set replaces (or appends) the TLV for a field type.
func (m *Match) Set(t OXMTLV) {
	for i := range m.Fields {
		if m.Fields[i].Field == t.Field {
			m.Fields[i] = t
			return
		}
	}
	m.Fields = append(m.Fields, t)
}

// Clone deep-copies the match, used when a flow-mod message is duplicated
// for the table 62 -> 63 sibling install so the clone can be mutated
// (ETH_DST/ETH_SRC transposed) without touching the master's match.
func (m *Match) Clone() *Match {
	if m == nil {
		return nil
	}
	out := &Match{Fields: make([]OXMTLV, len(m.Fields))}
	for i, t := range m.Fields {
		nt := OXMTLV{Field: t.Field}
		if t.Value != nil {
			nt.Value = append([]byte(nil), t.Value...)
		}
		if t.Mask != nil {
			nt.Mask = append([]byte(nil), t.Mask...)
		}
		out.Fields[i] = nt
	}
	return out
}

// TransposeEthAddrs swaps OXM_OF_ETH_DST and OXM_OF_ETH_SRC, in place. This
// is the sibling-sync transform described in §4.3: cloning a table-62
// flow-mod and transposing its Ethernet match fields before installing it
// into table 63.
func (m *Match) TransposeEthAddrs() {
	if m == nil {
		return
	}
	dstIdx, srcIdx := -1, -1
	for i, t := range m.Fields {
		switch t.Field {
		case OXMEthDst:
			dstIdx = i
		case OXMEthSrc:
			srcIdx = i
		}
	}
	switch {
	case dstIdx >= 0 && srcIdx >= 0:
		m.Fields[dstIdx].Field, m.Fields[srcIdx].Field = OXMEthSrc, OXMEthDst
	case dstIdx >= 0:
		m.Fields[dstIdx].Field = OXMEthSrc
	case srcIdx >= 0:
		m.Fields[srcIdx].Field = OXMEthDst
	}
}

// IsContiguousMask reports whether a 32-bit mask is a valid prefix mask:
// all 1-bits most-significant, no holes. It also returns the prefix
// length (number of leading 1-bits), mirroring the original's manual
// bit-scan in pipeline_handle_flow_mod.
func IsContiguousMask(mask uint32) (contiguous bool, prefixLen int) {
	foundOne := false
	numZero := 32
	m := mask
	for i := 0; i < 32; i++ {
		lowBit := m & 0x1
		if lowBit != 0 {
			if !foundOne {
				foundOne = true
				numZero = i
			}
		} else if foundOne {
			// A zero bit after a one bit: a hole in the mask.
			return false, 0
		}
		m >>= 1
	}
	return true, 32 - numZero
}

// IPv4DstMask extracts the 32-bit subnet mask carried in the Mask bytes of
// an OXM_OF_IPV4_DST_W TLV (big-endian, as on the wire).
func IPv4DstMask(t OXMTLV) uint32 {
	if len(t.Mask) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(t.Mask[len(t.Mask)-4:])
}
