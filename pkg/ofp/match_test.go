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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchIsEmpty(t *testing.T) {
	assert.True(t, (&Match{}).IsEmpty())
	assert.True(t, (*Match)(nil).IsEmpty())
	assert.False(t, (&Match{Fields: []OXMTLV{{Field: OXMInPort}}}).IsEmpty())
}

func TestMatchSetFindOverwrites(t *testing.T) {
	m := &Match{}
	m.Set(OXMTLV{Field: OXMEthDst, Value: []byte{1}})
	m.Set(OXMTLV{Field: OXMEthDst, Value: []byte{2}})

	tlv, ok := m.Find(OXMEthDst)
	require.True(t, ok)
	assert.Equal(t, []byte{2}, tlv.Value)
	assert.Len(t, m.Fields, 1)
}

func TestMatchCloneIsDeep(t *testing.T) {
	m := &Match{Fields: []OXMTLV{{Field: OXMEthDst, Value: []byte{1, 2, 3}}}}
	c := m.Clone()
	c.Fields[0].Value[0] = 0xFF

	assert.Equal(t, byte(1), m.Fields[0].Value[0])
	assert.Equal(t, byte(0xFF), c.Fields[0].Value[0])
}

func TestMatchTransposeEthAddrsSwapsBoth(t *testing.T) {
	m := &Match{Fields: []OXMTLV{
		{Field: OXMEthDst, Value: []byte{0xAA}},
		{Field: OXMEthSrc, Value: []byte{0xBB}},
	}}
	m.TransposeEthAddrs()

	dst, ok := m.Find(OXMEthDst)
	require.True(t, ok)
	assert.Equal(t, []byte{0xBB}, dst.Value)

	src, ok := m.Find(OXMEthSrc)
	require.True(t, ok)
	assert.Equal(t, []byte{0xAA}, src.Value)
}

func TestMatchTransposeEthAddrsSingleField(t *testing.T) {
	m := &Match{Fields: []OXMTLV{{Field: OXMEthDst, Value: []byte{0xAA}}}}
	m.TransposeEthAddrs()

	_, hasDst := m.Find(OXMEthDst)
	src, hasSrc := m.Find(OXMEthSrc)
	assert.False(t, hasDst)
	assert.True(t, hasSrc)
	assert.Equal(t, []byte{0xAA}, src.Value)
}

func TestIsContiguousMask(t *testing.T) {
	cases := []struct {
		mask       uint32
		contiguous bool
		prefixLen  int
	}{
		{0xFFFFFFFF, true, 32},
		{0xFFFFFF00, true, 24},
		{0x00000000, true, 0},
		{0xFF00FF00, false, 0},
		{0x80000000, true, 1},
	}
	for _, c := range cases {
		contiguous, prefixLen := IsContiguousMask(c.mask)
		assert.Equal(t, c.contiguous, contiguous, "mask %x", c.mask)
		if c.contiguous {
			assert.Equal(t, c.prefixLen, prefixLen, "mask %x", c.mask)
		}
	}
}

func TestIPv4DstMask(t *testing.T) {
	tlv := OXMTLV{Mask: []byte{0xFF, 0xFF, 0xFF, 0x00}}
	assert.Equal(t, uint32(0xFFFFFF00), IPv4DstMask(tlv))
}
