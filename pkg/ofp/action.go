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

// ActionKind mirrors ofp_action_type (OFPAT_*), restricted to the kinds
// the pipeline core's own write-action merge logic needs to distinguish by
// identity; the actual execution of any action is delegated to the
// ActionExecutor collaborator (§6) and is out of scope here.
type ActionKind uint16

const (
	ActionOutput       ActionKind = 0
	ActionSetField     ActionKind = 1
	ActionSetQueue     ActionKind = 2
	ActionGroup        ActionKind = 3
	ActionSetVLANVID   ActionKind = 4
	ActionDecTTL       ActionKind = 5
	ActionExperimenter ActionKind = 0xFFFF
)

// Action is an opaque action record; the pipeline core never interprets
// its payload, only its Kind (for write-action merge semantics) and, for
// validation, whatever the ActionExecutor decides to check.
type Action struct {
	Kind ActionKind
	// Port is meaningful for ActionOutput; Field for ActionSetField, etc.
	// Kept untyped/minimal deliberately: action execution is out of scope.
	Port  uint32
	Field OXMField
	Value []byte
}

// PacketInReason mirrors ofp_packet_in_reason (OFPR_*).
type PacketInReason uint8

const (
	ReasonTableMiss   PacketInReason = 0
	ReasonApplyAction PacketInReason = 1
	ReasonActionSet   PacketInReason = 2
	ReasonInvalidTTL  PacketInReason = 3
)

// NoCookie is the sentinel cookie used when a packet is forwarded by the
// accumulated action-set rather than by a single flow entry, per §4.1: it
// cannot be associated with any particular flow.
const NoCookie uint64 = 0xFFFFFFFFFFFFFFFF
