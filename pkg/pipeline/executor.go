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
	"k8s.io/klog/v2"

	"github.com/ofpipeline/datapath/pkg/flowentry"
	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/packet"
	"github.com/ofpipeline/datapath/pkg/pipeline/metrics"
)

// executeEntry implements §4.2, the Instruction Executor: it runs entry's
// instructions on pkt in the canonical order the flow-mod handler already
// sorted them into (§4.3's SortCanonical). It returns the next table to
// visit (nil if none was set) and whether pkt was dropped mid-execution
// -- after which the walker must not touch pkt again. Only a meter drop
// is reported: ActionExecutor.ExecuteList returns nothing, so a drop or
// controller punt done by an Apply-Actions list is not detected and the
// remaining instructions still run.
func (p *Pipeline) executeEntry(entry *flowentry.Entry, pkt *packet.Packet) (next *uint8, dropped bool) {
	for _, inst := range entry.Stats.Instructions {
		switch inst.Kind {
		case ofp.InstMeter:
			if p.Meters.Apply(pkt, inst.MeterID) {
				klog.V(2).Infof("meter %d dropped packet", inst.MeterID)
				metrics.PacketsDroppedTotal.WithLabelValues("meter").Inc()
				return nil, true
			}
		case ofp.InstApplyActions:
			reason := ofp.ReasonApplyAction
			if entry.IsTableMiss() {
				reason = ofp.ReasonTableMiss
			}
			p.Actions.ExecuteList(pkt, inst.Actions, entry.Stats.Cookie, reason)
		case ofp.InstClearActions:
			pkt.ActionSet.Clear()
		case ofp.InstWriteActions:
			pkt.ActionSet.Write(inst.Actions)
		case ofp.InstWriteMetadata:
			writeMetadata(pkt, inst.Metadata, inst.MetadataMask)
		case ofp.InstGotoTable:
			t := inst.GotoTableID
			next = &t
		case ofp.InstExperimenter:
			if p.Experimenter != nil {
				p.Experimenter.Execute(pkt, inst)
			}
		}
	}
	return next, false
}

// writeMetadata implements §4.2's Write-Metadata: metadata = (metadata &
// ~mask) | (value & mask), applied only to the packet's primary
// parsed-field handle (§4.2's noted known limitation: other handles, if
// any existed, would go stale).
func writeMetadata(pkt *packet.Packet, value, mask uint64) {
	tlv, ok := pkt.Handle.MetadataTLV()
	if !ok {
		return
	}
	old := bytesToUint64(tlv.Value)
	updated := (old &^ mask) | (value & mask)
	tlv.Value = uint64ToBytes(updated)
}

func bytesToUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
