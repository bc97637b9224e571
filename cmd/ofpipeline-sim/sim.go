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

package main

import (
	"fmt"

	"github.com/ofpipeline/datapath/pkg/flowtable"
	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/packet"
	"github.com/ofpipeline/datapath/pkg/pipeline"
)

// consoleSender prints every outbound message to stdout instead of
// serializing it onto a real controller connection.
type consoleSender struct{}

func (consoleSender) Send(msg any, sender *ofp.Sender) {
	fmt.Printf("-> %T %+v\n", msg, msg)
}

// consoleBuffers is a trivial in-memory BufferPool, identical in shape to
// pkg/pipeline/mocks.BufferPool but kept local so the sim has no test-only
// dependency.
type consoleBuffers struct {
	next    uint32
	buffers map[uint32]*packet.Packet
}

func newConsoleBuffers() *consoleBuffers {
	return &consoleBuffers{buffers: make(map[uint32]*packet.Packet)}
}

func (b *consoleBuffers) Save(pkt *packet.Packet) uint32 {
	b.next++
	b.buffers[b.next] = pkt
	return b.next
}

func (b *consoleBuffers) Retrieve(id uint32) (*packet.Packet, bool) {
	pkt, ok := b.buffers[id]
	delete(b.buffers, id)
	return pkt, ok
}

// passThroughMeters never drops; the sim has no configured meter bands.
type passThroughMeters struct{}

func (passThroughMeters) Apply(pkt *packet.Packet, meterID uint32) bool { return false }

// consoleActions prints every action list it is asked to execute, and
// always validates successfully.
type consoleActions struct{}

func (consoleActions) ExecuteList(pkt *packet.Packet, actions []ofp.Action, cookie uint64, reason ofp.PacketInReason) {
	fmt.Printf("-> execute %d actions on table %d packet (reason=%d cookie=%#x)\n", len(actions), pkt.TableID, reason, cookie)
}

func (consoleActions) Validate(actions []ofp.Action) *ofp.Error         { return nil }
func (consoleActions) CheckSetFieldReq(actions []ofp.Action) *ofp.Error { return nil }

func getOrCreatePipeline() *pipeline.Pipeline {
	if sharedPipeline != nil {
		return sharedPipeline
	}
	var tables [pipeline.TableCount]pipeline.FlowTable
	for i := 0; i < pipeline.TableCount; i++ {
		tables[i] = flowtable.New(uint8(i))
	}
	sharedPipeline = pipeline.New(tables, pipeline.Config{MissSendLen: pipeline.NoBufferMissLen},
		newConsoleBuffers(), passThroughMeters{}, consoleActions{}, consoleSender{})
	return sharedPipeline
}
