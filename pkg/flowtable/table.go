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

// Package flowtable provides a reference, in-memory FlowTable: the
// pipeline core's spec treats the flow table's internals as an external
// black box (§1), but something concrete has to exercise the pipeline
// core's contract in tests and in the runnable example datapath (SPEC_FULL
// §2's "Reference flow table"). Entries are held as pointers in a slice
// kept sorted by descending priority, and Lookup scans the whole slice.
// Sibling cross-links between entries are plain pointers, not indices into
// the slice.
package flowtable

import (
	"sort"
	"sync/atomic"

	"github.com/ofpipeline/datapath/pkg/flowentry"
	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/packet"
)

// MaxEntries bounds the table for vacancy percentage math (§3): (MAX -
// active_count) * 100 / MAX.
const MaxEntries = 1 << 16

// Table is a reference FlowTable implementation.
type Table struct {
	id uint8

	entries []*flowentry.Entry

	lookupCount  uint64
	matchedCount uint64

	desc          ofp.TableDesc
	features      *ofp.TableFeatures
	savedFeatures *ofp.TableFeatures
}

// New creates an empty table with id and a table-miss-free initial state.
func New(id uint8) *Table {
	return &Table{
		id: id,
		desc: ofp.TableDesc{
			TableID: id,
			Properties: []ofp.TableDescProperty{
				{Type: ofp.TableDescPropTypeVacancy, Vacancy: &ofp.VacancyProperty{VacancyUp: 100}},
			},
		},
		features:      &ofp.TableFeatures{TableID: id},
		savedFeatures: &ofp.TableFeatures{TableID: id},
	}
}

// ID returns the table's index.
func (t *Table) ID() uint8 { return t.id }

func matchPriorityEqual(a *ofp.Match, priority uint16, e *flowentry.Entry) bool {
	// A flow_mod's (match, priority) pair identifies an entry for
	// MODIFY_STRICT/DELETE_STRICT. Equality of an OXM set is a
	// field-for-field comparison. MODIFY/DELETE (non-strict) do not use
	// this: they go through matchSubsumes, which selects every entry whose
	// match carries each of the request's fields with an equal value.
	if e.Stats.Priority != priority {
		return false
	}
	if len(a.Fields) != len(e.Match.Fields) {
		return false
	}
	for _, f := range a.Fields {
		got, ok := e.Match.Find(f.Field)
		if !ok || string(got.Value) != string(f.Value) || string(got.Mask) != string(f.Mask) {
			return false
		}
	}
	return true
}

// Lookup returns the highest-priority entry whose match the packet
// satisfies, or none (§6 flow_table.lookup). A field-exact match is used
// as a stand-in for real masked-match semantics, which are the flow
// table's internal concern and out of scope for the pipeline core.
func (t *Table) Lookup(pkt *packet.Packet) (*flowentry.Entry, bool) {
	atomic.AddUint64(&t.lookupCount, 1)
	var best *flowentry.Entry
	for _, e := range t.entries {
		if !matchSubsumes(e.Match, &pkt.Handle.Match) {
			continue
		}
		if best == nil || e.Stats.Priority > best.Stats.Priority {
			best = e
		}
	}
	if best != nil {
		atomic.AddUint64(&t.matchedCount, 1)
		return best, true
	}
	return nil, false
}

// matchSubsumes reports whether every field the entry's match requires is
// present and equal in the packet's match. An entry with no fields (the
// table-miss entry) matches everything.
func matchSubsumes(entryMatch, pktMatch *ofp.Match) bool {
	for _, f := range entryMatch.Fields {
		got, ok := pktMatch.Find(f.Field)
		if !ok || string(got.Value) != string(f.Value) {
			return false
		}
	}
	return true
}

// FlowMod implements §6's flow_table.flow_mod: insert/modify/delete.
func (t *Table) FlowMod(msg *ofp.FlowMod) (matchKept, instsKept bool, out *flowentry.Entry, err *ofp.Error) {
	switch msg.Command {
	case ofp.CommandAdd:
		e := &flowentry.Entry{
			Match: msg.Match,
			Stats: &flowentry.Stats{
				Priority:     msg.Priority,
				Cookie:       msg.Cookie,
				Instructions: msg.Instructions,
			},
		}
		t.entries = append(t.entries, e)
		t.sortByPriorityDesc()
		return true, true, e, nil
	case ofp.CommandModify, ofp.CommandModifyStrict:
		var matched *flowentry.Entry
		for _, e := range t.entries {
			if msg.Command == ofp.CommandModifyStrict {
				if !matchPriorityEqual(msg.Match, msg.Priority, e) {
					continue
				}
			} else if !matchSubsumes(msg.Match, e.Match) {
				continue
			}
			e.Stats.Instructions = msg.Instructions
			e.Stats.Cookie = msg.Cookie
			matched = e
		}
		return true, true, matched, nil
	case ofp.CommandDelete, ofp.CommandDeleteStrict:
		kept := t.entries[:0]
		for _, e := range t.entries {
			strict := msg.Command == ofp.CommandDeleteStrict
			var drop bool
			if strict {
				drop = matchPriorityEqual(msg.Match, msg.Priority, e)
			} else {
				drop = matchSubsumes(msg.Match, e.Match)
			}
			if drop {
				e.Unlink()
				continue
			}
			kept = append(kept, e)
		}
		t.entries = kept
		return true, true, nil, nil
	}
	return false, false, nil, ofp.NewError(ofp.ErrTypeFlowModFailed, ofp.CodeBadTableID)
}

func (t *Table) sortByPriorityDesc() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Stats.Priority > t.entries[j].Stats.Priority
	})
}

// FlowStats implements §6's flow_table.flow_stats.
func (t *Table) FlowStats(req *ofp.FlowStatsRequest) []*ofp.FlowStats {
	out := make([]*ofp.FlowStats, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, &ofp.FlowStats{
			TableID:      t.id,
			Priority:     e.Stats.Priority,
			Cookie:       e.Stats.Cookie,
			PacketCount:  e.Stats.PacketCount,
			ByteCount:    e.Stats.ByteCount,
			Match:        e.Match,
			Instructions: e.Stats.Instructions,
		})
	}
	return out
}

// AggregateStats implements §6's flow_table.aggregate_stats.
func (t *Table) AggregateStats(req *ofp.FlowStatsRequest) (packets, bytes, flows uint64) {
	for _, e := range t.entries {
		packets += e.Stats.PacketCount
		bytes += e.Stats.ByteCount
		flows++
	}
	return
}

// Stats implements §3's per-table stats record.
func (t *Table) Stats() *ofp.TableStats {
	return &ofp.TableStats{
		TableID:      t.id,
		ActiveCount:  uint32(len(t.entries)),
		LookupCount:  atomic.LoadUint64(&t.lookupCount),
		MatchedCount: atomic.LoadUint64(&t.matchedCount),
	}
}

// Desc implements §3's desc record.
func (t *Table) Desc() *ofp.TableDesc { return &t.desc }

// Features/SetFeatures/SavedFeatures implement §4.8/§4.6.
func (t *Table) Features() *ofp.TableFeatures     { return t.features }
func (t *Table) SetFeatures(f *ofp.TableFeatures) { t.features = f }
func (t *Table) SavedFeatures() *ofp.TableFeatures { return t.savedFeatures }
func (t *Table) SaveFeatures()                     { t.savedFeatures.Config = t.features.Config }
func (t *Table) RestoreFeatures()                  { t.features.Config = t.savedFeatures.Config }

// Timeout implements §4's periodic eviction hook; the reference table has
// no hard/idle timeouts, so this is a no-op.
func (t *Table) Timeout() {}

// Destroy implements §6's flow_table.destroy.
func (t *Table) Destroy() {
	for _, e := range t.entries {
		e.Unlink()
	}
	t.entries = nil
}

// VacancyPercent computes (MAX - active_count) * 100 / MAX, the formula
// §3 and §4.4/§4.7 both rely on.
func (t *Table) VacancyPercent() uint8 {
	active := len(t.entries)
	if active > MaxEntries {
		active = MaxEntries
	}
	return uint8((MaxEntries - active) * 100 / MaxEntries)
}
