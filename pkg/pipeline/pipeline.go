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

import "github.com/ofpipeline/datapath/pkg/pipeline/metrics"

// TableCount is PIPELINE_TABLES (§3): the build-time constant number of
// tables, required to be a multiple of 8 so table-features replies (§4.6)
// pack into groups of 8 cleanly, and chosen here as a multiple of 16 too
// so table-desc replies (§4.7) pack cleanly as well.
const TableCount = 64

// LPMTableID is table 61, the longest-prefix-match table the flow-mod
// handler validates specially (§4.3).
const LPMTableID uint8 = 61

// SyncMasterTableID and SyncSlaveTableID are the table 62<->63 pair kept
// in sync on ADD (§4.3).
const (
	SyncMasterTableID uint8 = 62
	SyncSlaveTableID  uint8 = 63
)

// Config mirrors the subset of struct datapath's config the pipeline core
// consults: the invalid-TTL-to-controller flag and miss_send_len.
type Config struct {
	InvalidTTLToController bool
	MissSendLen            uint16 // 0xFFFF (NoBufferMissLen) means "send whole packet, don't buffer"
}

// NoBufferMissLen mirrors OFPCML_NO_BUFFER.
const NoBufferMissLen uint16 = 0xFFFF

// Pipeline owns the fixed-size table array and a non-owning back-reference
// to its collaborators (§3: "owns a fixed-size contiguous array of N flow
// tables... Holds a back-reference to its owning datapath").
//
// A Pipeline takes no locks and is not safe for concurrent use: the
// datapath drives it from a single goroutine (§5).
type Pipeline struct {
	Tables [TableCount]FlowTable

	Config       Config
	Buffers      BufferPool
	Meters       MeterTable
	Actions      ActionExecutor
	Sender       MessageSender
	Experimenter ExperimenterHook // optional; nil is a no-op

	// reassembly holds each connection's in-progress table_features
	// multipart request, keyed by connection id (§4.6, §9).
	reassembly map[uint64]*reassemblySlot
}

// New creates a pipeline over an already-constructed table array, mirroring
// pipeline_create's loop over flow_table_create -- the array's construction
// is the caller's (or a factory's) responsibility since FlowTable
// instantiation is a black box to this package (§1).
func New(tables [TableCount]FlowTable, cfg Config, buffers BufferPool, meters MeterTable, actions ActionExecutor, sender MessageSender) *Pipeline {
	return &Pipeline{
		Tables:  tables,
		Config:  cfg,
		Buffers: buffers,
		Meters:  meters,
		Actions: actions,
		Sender:  sender,
	}
}

// Destroy implements §4's lifecycle: destroy every table once, at
// datapath shutdown (pipeline_destroy).
func (p *Pipeline) Destroy() {
	for _, t := range p.Tables {
		if t != nil {
			t.Destroy()
		}
	}
}

// Timeout implements §4.9: fan out to each table's timeout routine. The
// pipeline holds no timers of its own.
func (p *Pipeline) Timeout() {
	for i, t := range p.Tables {
		if t == nil {
			continue
		}
		t.Timeout()
		s := t.Stats()
		label := metrics.TableIDLabel(uint8(i))
		metrics.TableActiveEntries.WithLabelValues(label).Set(float64(s.ActiveCount))
		metrics.TableVacancyPercent.WithLabelValues(label).Set(float64(freePercentOf(t)))
	}
}
