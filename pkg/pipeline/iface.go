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

// Package pipeline is the packet-processing pipeline core of an OpenFlow
// 1.3+ switch datapath: a fixed-size chain of flow tables, a packet
// walker, an instruction executor, and the controller-facing mutation
// protocol (flow-mod, table-mod, multipart reads). Everything this
// package consumes from its surroundings -- the flow table's internals,
// action/meter execution, the buffer pool, message serialization, the
// controller connection manager -- is expressed as the interfaces below
// (§6) and is otherwise treated as a black box.
package pipeline

import (
	"github.com/ofpipeline/datapath/pkg/flowentry"
	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/packet"
)

// FlowTable is the per-table collaborator (§6 flow_table.*).
type FlowTable interface {
	Lookup(pkt *packet.Packet) (*flowentry.Entry, bool)
	FlowMod(msg *ofp.FlowMod) (matchKept, instsKept bool, out *flowentry.Entry, err *ofp.Error)
	FlowStats(req *ofp.FlowStatsRequest) []*ofp.FlowStats
	AggregateStats(req *ofp.FlowStatsRequest) (packets, bytes, flows uint64)
	Stats() *ofp.TableStats
	Desc() *ofp.TableDesc
	Features() *ofp.TableFeatures
	SetFeatures(*ofp.TableFeatures)
	SavedFeatures() *ofp.TableFeatures
	SaveFeatures()
	RestoreFeatures()
	Timeout()
	Destroy()
}

// BufferPool is §6's dp_buffers collaborator.
type BufferPool interface {
	Save(pkt *packet.Packet) uint32
	Retrieve(id uint32) (*packet.Packet, bool)
}

// MeterTable is §6's meter_table collaborator. Apply may destroy pkt (the
// pointee); callers must check the returned bool, not continue to use pkt.
type MeterTable interface {
	Apply(pkt *packet.Packet, meterID uint32) (dropped bool)
}

// ActionExecutor is §6's dp_actions collaborator.
type ActionExecutor interface {
	ExecuteList(pkt *packet.Packet, actions []ofp.Action, cookie uint64, reason ofp.PacketInReason)
	Validate(actions []ofp.Action) *ofp.Error
	CheckSetFieldReq(actions []ofp.Action) *ofp.Error
}

// MessageSender is §6's datapath.send_message collaborator.
type MessageSender interface {
	Send(msg any, sender *ofp.Sender)
}

// ExperimenterHook is §4.2's dp_exp_inst collaborator: experimenter
// instructions are delegated to it wholesale, since their semantics are
// vendor-defined and out of scope for the pipeline core.
type ExperimenterHook interface {
	Execute(pkt *packet.Packet, inst ofp.Instruction)
}

// PacketInMessage is emitted by the walker on an invalid-TTL punt (§4.1).
type PacketInMessage struct {
	TotalLen uint32
	Reason   ofp.PacketInReason
	TableID  uint8
	Cookie   uint64
	BufferID uint32
	Data     []byte
	Match    ofp.Match
}

// MultipartReplyFlow/Table/Aggregate/TableFeatures/TableDesc are emitted by
// §4.5/§4.6/§4.7.
type MultipartReplyFlow struct {
	Stats []*ofp.FlowStats
}

type MultipartReplyTable struct {
	Stats []*ofp.TableStats
}

type MultipartReplyAggregate struct {
	PacketCount uint64
	ByteCount   uint64
	FlowCount   uint64
}

type MultipartReplyTableFeatures struct {
	TableFeatures []*ofp.TableFeatures
	More          bool
}

type MultipartReplyTableDesc struct {
	TableDesc []*ofp.TableDesc
	More      bool
}
