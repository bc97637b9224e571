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

import "github.com/ofpipeline/datapath/pkg/ofp"

// HandleFlowStatsRequest implements §4.5's flow-stats multipart: a growing
// accumulation across one or all tables, replied to in a single message.
func (p *Pipeline) HandleFlowStatsRequest(req *ofp.FlowStatsRequest, sender *ofp.Sender) *MultipartReplyFlow {
	// The growing-array sizing policy (start at capacity 1, double on
	// overflow) belongs to the flow table in the original; this
	// implementation simply lets append grow the slice, since that
	// policy is explicitly unspecified at this layer (§9).
	var stats []*ofp.FlowStats
	if req.TableID == ofp.AllTables {
		for i := 0; i < TableCount; i++ {
			stats = append(stats, p.Tables[i].FlowStats(req)...)
		}
	} else {
		stats = append(stats, p.Tables[req.TableID].FlowStats(req)...)
	}
	reply := &MultipartReplyFlow{Stats: stats}
	p.Sender.Send(reply, sender)
	return reply
}

// HandleTableStatsRequest implements §4.5's table-stats multipart: always
// the full per-table stats array, regardless of any table id in the
// request (the original ignores it for this subtype).
func (p *Pipeline) HandleTableStatsRequest(sender *ofp.Sender) *MultipartReplyTable {
	stats := make([]*ofp.TableStats, TableCount)
	for i := 0; i < TableCount; i++ {
		stats[i] = p.Tables[i].Stats()
	}
	reply := &MultipartReplyTable{Stats: stats}
	p.Sender.Send(reply, sender)
	return reply
}

// HandleAggregateStatsRequest implements §4.5's aggregate-stats multipart.
func (p *Pipeline) HandleAggregateStatsRequest(req *ofp.FlowStatsRequest, sender *ofp.Sender) *MultipartReplyAggregate {
	reply := &MultipartReplyAggregate{}
	if req.TableID == ofp.AllTables {
		for i := 0; i < TableCount; i++ {
			pkts, bytes, flows := p.Tables[i].AggregateStats(req)
			reply.PacketCount += pkts
			reply.ByteCount += bytes
			reply.FlowCount += flows
		}
	} else {
		reply.PacketCount, reply.ByteCount, reply.FlowCount = p.Tables[req.TableID].AggregateStats(req)
	}
	p.Sender.Send(reply, sender)
	return reply
}
