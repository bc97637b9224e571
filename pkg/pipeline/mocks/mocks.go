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

// Package mocks provides hand-written test doubles for the pipeline
// package's collaborator interfaces. They record calls in plain struct
// fields rather than through gomock expectations; only FlowTable holds a
// *gomock.Controller, which it does not use.
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/ofpipeline/datapath/pkg/flowentry"
	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/packet"
)

// FlowTable is a scriptable FlowTable double: tests set LookupFunc and
// FlowModFunc (or leave them nil for a default no-op/miss behavior) rather
// than programming call-by-call expectations, since most pipeline tests
// need a whole table's worth of behavior, not one method's.
type FlowTable struct {
	ctrl *gomock.Controller

	LookupFunc  func(pkt *packet.Packet) (*flowentry.Entry, bool)
	FlowModFunc func(msg *ofp.FlowMod) (bool, bool, *flowentry.Entry, *ofp.Error)

	DescVal     ofp.TableDesc
	StatsVal    ofp.TableStats
	FeaturesVal *ofp.TableFeatures
	SavedVal    *ofp.TableFeatures

	FlowStatsVal     []*ofp.FlowStats
	AggregatePackets uint64
	AggregateBytes   uint64
	AggregateFlows   uint64

	TimeoutCalls int
	DestroyCalls int
}

// NewFlowTable builds a FlowTable double with a table-id-tagged Desc/Stats
// already populated, mirroring flowtable.New's defaults.
func NewFlowTable(ctrl *gomock.Controller, id uint8) *FlowTable {
	return &FlowTable{
		ctrl: ctrl,
		DescVal: ofp.TableDesc{
			TableID: id,
			Properties: []ofp.TableDescProperty{
				{Type: ofp.TableDescPropTypeVacancy, Vacancy: &ofp.VacancyProperty{VacancyUp: 100}},
			},
		},
		StatsVal:    ofp.TableStats{TableID: id},
		FeaturesVal: &ofp.TableFeatures{TableID: id},
		SavedVal:    &ofp.TableFeatures{TableID: id},
	}
}

func (m *FlowTable) Lookup(pkt *packet.Packet) (*flowentry.Entry, bool) {
	if m.LookupFunc != nil {
		return m.LookupFunc(pkt)
	}
	return nil, false
}

func (m *FlowTable) FlowMod(msg *ofp.FlowMod) (bool, bool, *flowentry.Entry, *ofp.Error) {
	if m.FlowModFunc != nil {
		return m.FlowModFunc(msg)
	}
	return true, true, nil, nil
}

func (m *FlowTable) FlowStats(req *ofp.FlowStatsRequest) []*ofp.FlowStats { return m.FlowStatsVal }

func (m *FlowTable) AggregateStats(req *ofp.FlowStatsRequest) (uint64, uint64, uint64) {
	return m.AggregatePackets, m.AggregateBytes, m.AggregateFlows
}

func (m *FlowTable) Stats() *ofp.TableStats { return &m.StatsVal }
func (m *FlowTable) Desc() *ofp.TableDesc   { return &m.DescVal }

func (m *FlowTable) Features() *ofp.TableFeatures      { return m.FeaturesVal }
func (m *FlowTable) SetFeatures(f *ofp.TableFeatures)  { m.FeaturesVal = f }
func (m *FlowTable) SavedFeatures() *ofp.TableFeatures { return m.SavedVal }
func (m *FlowTable) SaveFeatures()                     { m.SavedVal.Config = m.FeaturesVal.Config }
func (m *FlowTable) RestoreFeatures()                  { m.FeaturesVal.Config = m.SavedVal.Config }

func (m *FlowTable) Timeout() { m.TimeoutCalls++ }
func (m *FlowTable) Destroy() { m.DestroyCalls++ }

// BufferPool is a map-backed BufferPool double.
type BufferPool struct {
	next    uint32
	buffers map[uint32]*packet.Packet
}

func NewBufferPool() *BufferPool {
	return &BufferPool{buffers: make(map[uint32]*packet.Packet)}
}

func (b *BufferPool) Save(pkt *packet.Packet) uint32 {
	b.next++
	b.buffers[b.next] = pkt
	return b.next
}

func (b *BufferPool) Retrieve(id uint32) (*packet.Packet, bool) {
	pkt, ok := b.buffers[id]
	delete(b.buffers, id)
	return pkt, ok
}

// MeterTable is a scriptable MeterTable double.
type MeterTable struct {
	DropMeters map[uint32]bool
	Applied    []uint32
}

func NewMeterTable() *MeterTable {
	return &MeterTable{DropMeters: make(map[uint32]bool)}
}

func (m *MeterTable) Apply(pkt *packet.Packet, meterID uint32) bool {
	m.Applied = append(m.Applied, meterID)
	return m.DropMeters[meterID]
}

// ActionExecutor records every ExecuteList call's arguments for assertions
// and lets tests script Validate/CheckSetFieldReq failures.
type ActionExecutor struct {
	Executions []ActionExecution

	ValidateErr         *ofp.Error
	CheckSetFieldReqErr *ofp.Error
}

type ActionExecution struct {
	Packet  *packet.Packet
	Actions []ofp.Action
	Cookie  uint64
	Reason  ofp.PacketInReason
}

func (a *ActionExecutor) ExecuteList(pkt *packet.Packet, actions []ofp.Action, cookie uint64, reason ofp.PacketInReason) {
	a.Executions = append(a.Executions, ActionExecution{Packet: pkt, Actions: actions, Cookie: cookie, Reason: reason})
}

func (a *ActionExecutor) Validate(actions []ofp.Action) *ofp.Error         { return a.ValidateErr }
func (a *ActionExecutor) CheckSetFieldReq(actions []ofp.Action) *ofp.Error { return a.CheckSetFieldReqErr }

// MessageSender records every message sent, for assertions on what the
// pipeline emitted without needing a real controller connection.
type MessageSender struct {
	Sent []SentMessage
}

type SentMessage struct {
	Msg    any
	Sender *ofp.Sender
}

func (s *MessageSender) Send(msg any, sender *ofp.Sender) {
	s.Sent = append(s.Sent, SentMessage{Msg: msg, Sender: sender})
}

// ExperimenterHook records experimenter-instruction invocations.
type ExperimenterHook struct {
	Calls []ofp.Instruction
}

func (e *ExperimenterHook) Execute(pkt *packet.Packet, inst ofp.Instruction) {
	e.Calls = append(e.Calls, inst)
}
