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
	"github.com/ofpipeline/datapath/pkg/flowtable"
	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/packet"
	"github.com/ofpipeline/datapath/pkg/pipeline/mocks"
)

// newTestPipeline builds a Pipeline over real flowtable.Table instances
// (so flow-mod/lookup semantics are exercised end to end) with mocked
// buffers/meters/actions/sender collaborators, matching the mix the
// scenarios in spec.md §8 need.
func newTestPipeline() (*Pipeline, *mocks.MessageSender, *mocks.ActionExecutor, *mocks.BufferPool, *mocks.MeterTable) {
	var tables [TableCount]FlowTable
	for i := 0; i < TableCount; i++ {
		tables[i] = flowtable.New(uint8(i))
	}
	sender := &mocks.MessageSender{}
	actions := &mocks.ActionExecutor{}
	buffers := mocks.NewBufferPool()
	meters := mocks.NewMeterTable()
	p := New(tables, Config{MissSendLen: NoBufferMissLen}, buffers, meters, actions, sender)
	return p, sender, actions, buffers, meters
}

func testPacket(fields ...ofp.OXMTLV) *packet.Packet {
	h := packet.NewHandleStd(ofp.Match{Fields: fields}, true)
	return packet.New([]byte("payload"), h, 1)
}

func testFlowMod(tableID uint8, priority uint16, inst ...ofp.Instruction) *ofp.FlowMod {
	return &ofp.FlowMod{
		Command:      ofp.CommandAdd,
		TableID:      tableID,
		Priority:     priority,
		Match:        &ofp.Match{Fields: []ofp.OXMTLV{{Field: ofp.OXMInPort, Value: []byte{1}}}},
		Instructions: inst,
	}
}

func masterSender() *ofp.Sender { return &ofp.Sender{Role: ofp.RoleMaster} }
