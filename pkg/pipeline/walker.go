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

	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/packet"
	"github.com/ofpipeline/datapath/pkg/pipeline/metrics"
)

// ProcessPacket implements §4.1, the Packet Walker: drives pkt through
// tables 0..N until one of the four terminal outcomes fires. It never
// retries and never re-enters the same packet (§3 invariant).
func (p *Pipeline) ProcessPacket(pkt *packet.Packet) {
	if !pkt.Handle.IsTTLValid() {
		if p.Config.InvalidTTLToController {
			klog.V(2).Infof("packet has invalid TTL, sending to controller")
			p.sendPacketToController(pkt, 0, ofp.ReasonInvalidTTL)
		} else {
			klog.V(2).Infof("packet has invalid TTL, dropping")
		}
		metrics.PacketsDroppedTotal.WithLabelValues("ttl").Inc()
		return // pkt is destroyed by construction: the caller's handle is this function's only reference.
	}

	tableID := uint8(0)
	for {
		table := p.Tables[tableID]
		pkt.TableID = tableID
		klog.V(4).Infof("trying table %d", tableID)

		entry, ok := table.Lookup(pkt)
		metrics.TableLookupCount.WithLabelValues(metrics.TableIDLabel(tableID)).Inc()
		if !ok {
			klog.V(2).Infof("no matching entry in table %d, dropping packet", tableID)
			metrics.PacketsDroppedTotal.WithLabelValues("miss").Inc()
			return
		}
		metrics.TableMatchedCount.WithLabelValues(metrics.TableIDLabel(tableID)).Inc()

		pkt.Handle.TableMiss = entry.IsTableMiss()

		nextTable, dropped := p.executeEntry(entry, pkt)
		if dropped {
			return
		}

		if nextTable == nil {
			p.Actions.ExecuteList(pkt, pkt.ActionSet.Actions(), ofp.NoCookie, ofp.ReasonActionSet)
			return
		}
		tableID = *nextTable
	}
}

func (p *Pipeline) sendPacketToController(pkt *packet.Packet, tableID uint8, reason ofp.PacketInReason) {
	msg := &PacketInMessage{
		TotalLen: uint32(len(pkt.Buffer)),
		Reason:   reason,
		TableID:  tableID,
		Cookie:   ofp.NoCookie,
		Match:    pkt.Handle.Match,
	}
	if p.Config.MissSendLen != NoBufferMissLen {
		pkt.BufferID = p.Buffers.Save(pkt)
		pkt.HasBuffer = true
		msg.BufferID = pkt.BufferID
		dataLen := int(p.Config.MissSendLen)
		if dataLen > len(pkt.Buffer) {
			dataLen = len(pkt.Buffer)
		}
		msg.Data = pkt.Buffer[:dataLen]
	} else {
		msg.BufferID = ofp.NoBuffer
		msg.Data = pkt.Buffer
	}
	p.Sender.Send(msg, nil)
}
