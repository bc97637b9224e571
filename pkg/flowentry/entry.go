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

// Package flowentry models a flow table entry, including the table
// 62<->63 sibling cross-links described in §3/§9. Per §9 the cross-links
// are single-producer pointers owned by the table that created them, not
// a reference-counted cycle: the table's delete path is responsible for
// nilling the peer link before dropping an entry.
package flowentry

import "github.com/ofpipeline/datapath/pkg/ofp"

// Stats mirrors ofl_flow_stats: the entry's counters, cookie and
// instruction list.
type Stats struct {
	Priority     uint16
	Cookie       uint64
	PacketCount  uint64
	ByteCount    uint64
	Instructions []ofp.Instruction
}

// Entry mirrors struct flow_entry.
type Entry struct {
	Match *ofp.Match
	Stats *Stats

	// SyncSlave/SyncMaster implement the table 62<->63 mirroring
	// invariant (§3 invariant 4, §9): at most one of a pair is the
	// producer (the master, created by the ADD that triggered sibling
	// sync); the slave's SyncMaster points back at it.
	SyncSlave  *Entry
	SyncMaster *Entry
}

// IsTableMiss reports whether this entry is the table-miss entry: priority
// 0 and an empty match (§3 invariants, §4.1).
func (e *Entry) IsTableMiss() bool {
	return e.Stats.Priority == 0 && e.Match.IsEmpty()
}

// Unlink nils out both ends of a sibling cross-link before the entry is
// dropped, per §9's "deletion path must null out the peer link before
// freeing".
func (e *Entry) Unlink() {
	if e.SyncSlave != nil {
		e.SyncSlave.SyncMaster = nil
		e.SyncSlave = nil
	}
	if e.SyncMaster != nil {
		e.SyncMaster.SyncSlave = nil
		e.SyncMaster = nil
	}
}
