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

package ofp

import "sort"

// InstructionKind mirrors ofp_instruction_type (OFPIT_*), but numbered by
// canonical execution order rather than by wire value: Meter, Apply, Clear,
// Write-Actions, Write-Metadata, Goto-Table. The flow-mod normalizer sorts
// by this numeric value (with an explicit Apply-before-Clear tie-break,
// redundant here but kept for fidelity to the original's inst_compare), so
// "ascending by kind" and "canonical execution order" are the same sort by
// construction.
type InstructionKind uint16

const (
	InstMeter         InstructionKind = 0
	InstApplyActions  InstructionKind = 1
	InstClearActions  InstructionKind = 2
	InstWriteActions  InstructionKind = 3
	InstWriteMetadata InstructionKind = 4
	InstGotoTable     InstructionKind = 5
	InstExperimenter  InstructionKind = 0xFFFF
)

// Instruction is one entry of a flow entry's instruction list. Only one of
// the kind-specific fields is meaningful, selected by Kind.
type Instruction struct {
	Kind InstructionKind

	// InstMeter
	MeterID uint32

	// InstApplyActions / InstWriteActions
	Actions []Action

	// InstWriteMetadata
	Metadata     uint64
	MetadataMask uint64

	// InstGotoTable
	GotoTableID uint8

	// InstExperimenter
	ExperimenterID   uint32
	ExperimenterData []byte
}

// SortCanonical sorts a flow entry's instruction list into the order the
// executor assumes it is already in: Meter, Apply-Actions, Clear-Actions,
// Write-Actions, Write-Metadata, Goto-Table, with Apply-Actions explicitly
// ordered before Clear-Actions when both are present (the numeric kinds
// already give that order; the explicit check only keeps the comparator's
// shape). This is the Go analogue of the original's qsort-driven
// inst_compare.
func SortCanonical(insts []Instruction) {
	sort.SliceStable(insts, func(i, j int) bool {
		return instructionLess(insts[i], insts[j])
	})
}

func instructionLess(a, b Instruction) bool {
	if a.Kind == InstApplyActions && b.Kind == InstClearActions {
		return true
	}
	if a.Kind == InstClearActions && b.Kind == InstApplyActions {
		return false
	}
	return a.Kind < b.Kind
}
