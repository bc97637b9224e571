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

	"github.com/ofpipeline/datapath/pkg/flowentry"
	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/pipeline/metrics"
)

// HandleFlowMod implements §4.3, the Flow-Mod Handler.
func (p *Pipeline) HandleFlowMod(msg *ofp.FlowMod, sender *ofp.Sender) *ofp.Error {
	if sender.Role == ofp.RoleSlave {
		metrics.FlowModTotal.WithLabelValues(commandLabel(msg.Command), "error").Inc()
		return ofp.NewError(ofp.ErrTypeBadRequest, ofp.CodeIsSlave)
	}

	ofp.SortCanonical(msg.Instructions)

	if err := p.validateFlowModActions(msg); err != nil {
		metrics.FlowModTotal.WithLabelValues(commandLabel(msg.Command), "error").Inc()
		return err
	}

	if msg.TableID == LPMTableID && msg.Command == ofp.CommandAdd {
		if err := validateLPMMatch(msg.Match, msg.Priority); err != nil {
			metrics.FlowModTotal.WithLabelValues(commandLabel(msg.Command), "error").Inc()
			return err
		}
	}

	var err *ofp.Error
	if msg.TableID == ofp.AllTables {
		err = p.dispatchAllTables(msg)
	} else {
		err = p.dispatchOneTable(msg, sender)
	}
	if err != nil {
		metrics.FlowModTotal.WithLabelValues(commandLabel(msg.Command), "error").Inc()
		return err
	}
	metrics.FlowModTotal.WithLabelValues(commandLabel(msg.Command), "success").Inc()
	return nil
}

func (p *Pipeline) validateFlowModActions(msg *ofp.FlowMod) *ofp.Error {
	for _, inst := range msg.Instructions {
		if inst.Kind != ofp.InstApplyActions && inst.Kind != ofp.InstWriteActions {
			continue
		}
		if err := p.Actions.Validate(inst.Actions); err != nil {
			return err
		}
		if err := p.Actions.CheckSetFieldReq(inst.Actions); err != nil {
			return err
		}
	}
	return nil
}

// validateLPMMatch implements §4.3's table-61 longest-prefix-match
// constraint: for a wildcarded IPV4_DST_W the mask must be a contiguous
// prefix and the message priority must equal its length; for an exact
// IPV4_DST the priority must be 32.
func validateLPMMatch(match *ofp.Match, priority uint16) *ofp.Error {
	if match == nil {
		return nil
	}
	if tlv, ok := match.Find(ofp.OXMIPv4DstW); ok {
		mask := ofp.IPv4DstMask(tlv)
		contiguous, prefixLen := ofp.IsContiguousMask(mask)
		if !contiguous {
			return ofp.NewError(ofp.ErrTypeBadMatch, ofp.CodeBadNwAddrMask)
		}
		if int(priority) != prefixLen {
			return ofp.NewError(ofp.ErrTypeFlowModFailed, ofp.CodeBadPriority)
		}
	} else if _, ok := match.Find(ofp.OXMIPv4Dst); ok {
		if priority != 32 {
			return ofp.NewError(ofp.ErrTypeFlowModFailed, ofp.CodeBadPriority)
		}
	}
	return nil
}

// dispatchAllTables implements the 0xFF sentinel's delete-only semantics:
// only DELETE/DELETE_STRICT are legal; delete is applied table by table and
// the first error aborts, with prior deletions standing.
func (p *Pipeline) dispatchAllTables(msg *ofp.FlowMod) *ofp.Error {
	if msg.Command != ofp.CommandDelete && msg.Command != ofp.CommandDeleteStrict {
		return ofp.NewError(ofp.ErrTypeFlowModFailed, ofp.CodeBadTableID)
	}
	for i := 0; i < TableCount; i++ {
		if _, _, _, err := p.Tables[i].FlowMod(msg); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) dispatchOneTable(msg *ofp.FlowMod, sender *ofp.Sender) *ofp.Error {
	_, _, entry, err := p.Tables[msg.TableID].FlowMod(msg)
	if err != nil {
		return err
	}

	if msg.TableID == SyncMasterTableID && msg.Command == ofp.CommandAdd && entry != nil {
		p.syncSibling(msg, entry)
	}

	if isBufferedInjectCommand(msg.Command) && msg.BufferID != ofp.NoBuffer {
		pkt, ok := p.Buffers.Retrieve(msg.BufferID)
		if ok {
			p.ProcessPacket(pkt)
		} else {
			klog.Warningf("buffered packet referenced by flow_mod was empty (%d)", msg.BufferID)
		}
	}
	return nil
}

func isBufferedInjectCommand(c ofp.FlowModCommand) bool {
	return c == ofp.CommandAdd || c == ofp.CommandModify || c == ofp.CommandModifyStrict
}

// syncSibling implements §4.3's table 62<->63 sibling synchronization:
// clone the flow-mod, transpose ETH_DST/ETH_SRC, install into table 63,
// and cross-link on success. Any failure here is swallowed -- surfacing it
// would require rolling back the already-committed master add, which has
// side effects of its own (§4.3, §9 Open Question).
func (p *Pipeline) syncSibling(master *ofp.FlowMod, masterEntry *flowentry.Entry) {
	clone := master.Clone()
	clone.TableID = SyncSlaveTableID
	clone.Match.TransposeEthAddrs()

	_, _, slaveEntry, err := p.Tables[SyncSlaveTableID].FlowMod(clone)
	if err != nil || slaveEntry == nil {
		klog.V(2).Infof("sibling install into table %d failed, master add retained: %v", SyncSlaveTableID, err)
		return
	}
	slaveEntry.SyncMaster = masterEntry
	masterEntry.SyncSlave = slaveEntry
}

func commandLabel(c ofp.FlowModCommand) string {
	switch c {
	case ofp.CommandAdd:
		return "add"
	case ofp.CommandModify:
		return "modify"
	case ofp.CommandModifyStrict:
		return "modify_strict"
	case ofp.CommandDelete:
		return "delete"
	case ofp.CommandDeleteStrict:
		return "delete_strict"
	default:
		return "unknown"
	}
}
