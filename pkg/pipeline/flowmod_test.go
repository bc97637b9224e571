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

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofpipeline/datapath/pkg/ofp"
)

func slaveSender() *ofp.Sender { return &ofp.Sender{Role: ofp.RoleSlave} }

func TestHandleFlowModRejectsSlaveRole(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	err := p.HandleFlowMod(testFlowMod(0, 1), slaveSender())
	require.NotNil(t, err)
	assert.Equal(t, ofp.ErrTypeBadRequest, err.Type)
	assert.Equal(t, ofp.CodeIsSlave, err.Code)
}

func TestHandleFlowModSortsInstructionsCanonically(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	msg := testFlowMod(0, 1,
		ofp.Instruction{Kind: ofp.InstGotoTable, GotoTableID: 2},
		ofp.Instruction{Kind: ofp.InstMeter, MeterID: 9},
	)
	require.Nil(t, p.HandleFlowMod(msg, masterSender()))
	assert.Equal(t, ofp.InstMeter, msg.Instructions[0].Kind)
	assert.Equal(t, ofp.InstGotoTable, msg.Instructions[1].Kind)
}

// LPM validation on table 61 (§4.3): contiguous mask => priority == prefix
// length; mismatch is rejected.
func TestLPMValidationRejectsWrongPriority(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	msg := &ofp.FlowMod{
		Command:  ofp.CommandAdd,
		TableID:  LPMTableID,
		Priority: 10, // should be 24 for a /24
		Match: &ofp.Match{Fields: []ofp.OXMTLV{
			{Field: ofp.OXMIPv4DstW, Value: []byte{10, 0, 0, 0}, Mask: []byte{255, 255, 255, 0}},
		}},
	}
	err := p.HandleFlowMod(msg, masterSender())
	require.NotNil(t, err)
	assert.Equal(t, ofp.ErrTypeFlowModFailed, err.Type)
	assert.Equal(t, ofp.CodeBadPriority, err.Code)
}

func TestLPMValidationRejectsNonContiguousMask(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	msg := &ofp.FlowMod{
		Command:  ofp.CommandAdd,
		TableID:  LPMTableID,
		Priority: 1,
		Match: &ofp.Match{Fields: []ofp.OXMTLV{
			{Field: ofp.OXMIPv4DstW, Value: []byte{10, 0, 0, 0}, Mask: []byte{255, 0, 255, 0}},
		}},
	}
	err := p.HandleFlowMod(msg, masterSender())
	require.NotNil(t, err)
	assert.Equal(t, ofp.ErrTypeBadMatch, err.Type)
	assert.Equal(t, ofp.CodeBadNwAddrMask, err.Code)
}

func TestLPMValidationExactMatchRequiresPriority32(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	msg := &ofp.FlowMod{
		Command:  ofp.CommandAdd,
		TableID:  LPMTableID,
		Priority: 1,
		Match: &ofp.Match{Fields: []ofp.OXMTLV{
			{Field: ofp.OXMIPv4Dst, Value: []byte{10, 0, 0, 1}},
		}},
	}
	err := p.HandleFlowMod(msg, masterSender())
	require.NotNil(t, err)
	assert.Equal(t, ofp.CodeBadPriority, err.Code)

	msg.Priority = 32
	require.Nil(t, p.HandleFlowMod(msg, masterSender()))
}

func TestAllTablesSentinelOnlyLegalForDelete(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	msg := testFlowMod(ofp.AllTables, 1)
	err := p.HandleFlowMod(msg, masterSender())
	require.NotNil(t, err)
	assert.Equal(t, ofp.CodeBadTableID, err.Code)

	msg.Command = ofp.CommandDelete
	msg.Match = &ofp.Match{}
	require.Nil(t, p.HandleFlowMod(msg, masterSender()))
}

// Table 62 -> 63 sibling sync: an ADD into the master table clones into
// the slave with ETH_DST/ETH_SRC transposed and cross-links both entries.
func TestSiblingSyncInstallsAndCrossLinksTable63(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	msg := &ofp.FlowMod{
		Command:  ofp.CommandAdd,
		TableID:  SyncMasterTableID,
		Priority: 1,
		Match: &ofp.Match{Fields: []ofp.OXMTLV{
			{Field: ofp.OXMEthDst, Value: []byte{0xAA}},
			{Field: ofp.OXMEthSrc, Value: []byte{0xBB}},
		}},
	}
	require.Nil(t, p.HandleFlowMod(msg, masterSender()))

	masterEntry, ok := p.Tables[SyncMasterTableID].Lookup(testPacket(ofp.OXMTLV{Field: ofp.OXMEthDst, Value: []byte{0xAA}}, ofp.OXMTLV{Field: ofp.OXMEthSrc, Value: []byte{0xBB}}))
	require.True(t, ok)
	require.NotNil(t, masterEntry.SyncSlave)

	slaveEntry, ok := p.Tables[SyncSlaveTableID].Lookup(testPacket(ofp.OXMTLV{Field: ofp.OXMEthDst, Value: []byte{0xBB}}, ofp.OXMTLV{Field: ofp.OXMEthSrc, Value: []byte{0xAA}}))
	require.True(t, ok)
	assert.Same(t, masterEntry, slaveEntry.SyncMaster)
	assert.Same(t, slaveEntry, masterEntry.SyncSlave)
}

func TestBufferedPacketReinjectedOnFlowModAdd(t *testing.T) {
	p, _, actions, buffers, _ := newTestPipeline()
	pkt := testPacket(ofp.OXMTLV{Field: ofp.OXMInPort, Value: []byte{1}})
	bufID := buffers.Save(pkt)

	msg := testFlowMod(0, 1, ofp.Instruction{
		Kind:    ofp.InstApplyActions,
		Actions: []ofp.Action{{Kind: ofp.ActionOutput, Port: 1}},
	})
	msg.BufferID = bufID
	require.Nil(t, p.HandleFlowMod(msg, masterSender()))

	// The newly installed entry's Apply-Actions fires immediately on
	// reinjection, followed by the walker's (empty) action-set commit.
	require.Len(t, actions.Executions, 2)
}
