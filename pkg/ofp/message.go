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

import "antrea.io/libOpenflow/openflow13"

// FlowModCommand mirrors ofp_flow_mod_command (OFPFC_*). The numeric
// values are the real flow-mod command constants exported by
// antrea.io/libOpenflow/openflow13, the same ones antrea's own OVS binding
// passes to openflow13.NewFlowMod().Command.
type FlowModCommand uint8

const (
	CommandAdd          FlowModCommand = openflow13.FC_ADD
	CommandModify       FlowModCommand = openflow13.FC_MODIFY
	CommandModifyStrict FlowModCommand = openflow13.FC_MODIFY_STRICT
	CommandDelete       FlowModCommand = openflow13.FC_DELETE
	CommandDeleteStrict FlowModCommand = openflow13.FC_DELETE_STRICT
)

// AllTables is the 0xFF "all tables" sentinel used by flow-mod, table-mod
// and multipart requests. It is the same value as openflow13.OFPTT_ALL.
const AllTables uint8 = uint8(openflow13.OFPTT_ALL)

// NoBuffer mirrors OFP_NO_BUFFER: no packet was buffered with this
// flow-mod.
const NoBuffer uint32 = 0xFFFFFFFF

// Role mirrors ofp_controller_role (OFPCR_ROLE_*); the pipeline core only
// needs to distinguish the slave role, which is denied all mutating ops.
type Role uint32

const (
	RoleEqual  Role = 0
	RoleMaster Role = 1
	RoleSlave  Role = 2
)

// Sender identifies the controller connection and transaction a message
// came from/is replied to; it stands in for struct sender in the original.
// It carries the connection's role; the TABLE_FEATURES reassembly slot is
// not held here but in the pipeline, keyed by ConnID (§3, §6).
type Sender struct {
	Role Role
	Xid  uint32

	// ConnID identifies the controller connection a request arrived on
	// (mirrors the original's sender->remote): multipart reassembly state
	// (§4.6) is scoped to one connection, not to an xid alone, since two
	// connections may coincidentally pick the same xid.
	ConnID uint64
}

// FlowMod is the subset of ofl_msg_flow_mod the pipeline core consumes.
type FlowMod struct {
	Command      FlowModCommand
	TableID      uint8
	Priority     uint16
	Cookie       uint64
	Match        *Match
	Instructions []Instruction
	BufferID     uint32
}

// Clone deep-copies a FlowMod, used for the table 62->63 sibling install
// (§4.3): the master message is duplicated, its match's Ethernet fields
// transposed, before installing the clone into table 63.
func (m *FlowMod) Clone() *FlowMod {
	c := &FlowMod{
		Command:  m.Command,
		TableID:  m.TableID,
		Priority: m.Priority,
		Cookie:   m.Cookie,
		Match:    m.Match.Clone(),
		BufferID: m.BufferID,
	}
	c.Instructions = append([]Instruction(nil), m.Instructions...)
	return c
}

// TableModPropVacancy mirrors ofp_table_mod_prop_vacancy, the only
// table-mod property kind the pipeline core interprets (§4.4).
type TableModPropVacancy struct {
	VacancyDown uint8
	VacancyUp   uint8
}

// TableMod is the subset of ofl_msg_table_mod the pipeline core consumes.
type TableMod struct {
	TableID uint8
	Config  uint32
	Vacancy *TableModPropVacancy // nil if the message carries no VACANCY property update
}

// FlowStatsRequest mirrors ofl_msg_multipart_request_flow, trimmed to the
// table selector the pipeline dispatches on; finer-grained filtering
// (match, out_port, cookie mask, ...) is the flow table's concern.
type FlowStatsRequest struct {
	TableID uint8
}

// FlowStats mirrors ofl_flow_stats.
type FlowStats struct {
	TableID      uint8
	Priority     uint16
	Cookie       uint64
	PacketCount  uint64
	ByteCount    uint64
	DurationSec  uint32
	Match        *Match
	Instructions []Instruction
}

// TableStats mirrors ofl_table_stats.
type TableStats struct {
	TableID      uint8
	ActiveCount  uint32
	LookupCount  uint64
	MatchedCount uint64
}

// TableDescProperty is a generic, opaque table-description property; the
// pipeline core only live-patches the Vacancy field of a VACANCY property
// and otherwise passes properties through unchanged (§4.7).
type TableDescProperty struct {
	Type    uint16
	Vacancy *VacancyProperty
}

// VacancyProperty mirrors ofp_table_mod_prop_vacancy as carried in a table
// description (current occupancy + thresholds + arm state), §3/§4.4/§4.7.
type VacancyProperty struct {
	VacancyDown uint8
	VacancyUp   uint8
	Vacancy     uint8 // current free-percentage, live-patched on read
	DownSet     bool
}

const TableDescPropTypeVacancy uint16 = 1

// TableConfigVacancyEvents mirrors OFPTC_VACANCY_EVENTS: a table_mod.config
// bit a controller sets to opt a table into live VACANCY patching on
// table_desc reads (§4.7). Unset by default, matching ofl_table_desc's
// zero-value config.
const TableConfigVacancyEvents uint32 = 1 << 3

// TableDesc mirrors ofl_table_desc.
type TableDesc struct {
	TableID    uint8
	Config     uint32
	Properties []TableDescProperty
}

// TableFeatures mirrors ofl_table_features; the pipeline core treats its
// payload opaquely, it only ever overwrites the whole record per table
// (§4.6).
type TableFeatures struct {
	TableID uint8
	Name    string
	Config  uint32
	// Body is intentionally untyped: table-features carries many
	// property lists (instructions, next tables, match/wildcards,
	// write/apply-actions, ...) that the pipeline core never inspects.
	Body []byte
}

// TableFeaturesRequest mirrors ofl_msg_multipart_request_table_features,
// the payload carried by a (possibly fragmented, §4.6) request.
type TableFeaturesRequest struct {
	TableFeatures []*TableFeatures
}

const (
	ReqMore   uint16 = 0x1
	ReplyMore uint16 = 0x1
)
