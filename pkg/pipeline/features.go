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

	"github.com/ofpipeline/datapath/pkg/ofp"
)

// tableFeaturesGroupSize is the number of tables packed into each
// MULTIPART_REPLY fragment (§4.6): TableCount (a multiple of 8) divided
// into groups of 8.
const tableFeaturesGroupSize = 8

// reassemblySlot holds one connection's in-progress multipart request: at
// most one pending (xid, accumulated body) pair, mirroring struct remote's
// single mp_req_msg/mp_req_xid buffer -- a connection can have only one
// fragmented request in flight at a time (§3, §4.6, §9: an
// Idle/Accumulating state machine with no aging; a buffer is only ever
// retired by completion, never by timeout; see DESIGN.md's Open Question
// entry).
type reassemblySlot struct {
	xid      uint32
	features []*ofp.TableFeatures
}

// HandleTableFeaturesRequest implements §4.6: a controller may split a
// TABLE_FEATURES request across several MULTIPART_REQUEST messages sharing
// one xid and the REQ_MORE flag; this accumulates fragments into a slot
// keyed by the sending connection and, once the final fragment (REQ_MORE
// unset) is received, replaces the features of every table named in the
// accumulated entries (tables not named, and ids >= TableCount, are left
// alone) and replies in groups of 8 tables with REPLY_MORE set on all but
// the last.
//
// A second fragment arriving on the same connection with an xid that
// doesn't match the one already pending is a MULTIPART_BUFFER_OVERFLOW
// (§4.6, §7, §8 S5): this connection's reassembly buffer holds exactly one
// request, so a distinct xid can't be merged into it. The existing pending
// fragment is left untouched, matching the original's "return error without
// discarding the buffer" behavior.
func (p *Pipeline) HandleTableFeaturesRequest(xid uint32, req *ofp.TableFeaturesRequest, more bool, sender *ofp.Sender) ([]*MultipartReplyTableFeatures, *ofp.Error) {
	if p.reassembly == nil {
		p.reassembly = make(map[uint64]*reassemblySlot)
	}

	slot, pending := p.reassembly[sender.ConnID]
	if pending && slot.xid != xid {
		klog.Warningf("table_features: wrong xid on conn %d (0x%x != 0x%x)", sender.ConnID, xid, slot.xid)
		return nil, ofp.NewError(ofp.ErrTypeBadRequest, ofp.CodeMultipartBufferOverflow)
	}
	if !pending {
		slot = &reassemblySlot{xid: xid}
		p.reassembly[sender.ConnID] = slot
	}
	slot.features = append(slot.features, req.TableFeatures...)

	if more {
		klog.V(4).Infof("table_features xid %d accumulating, %d table entries so far", xid, len(slot.features))
		return nil, nil
	}

	delete(p.reassembly, sender.ConnID)
	klog.V(4).Infof("table_features xid %d complete, %d tables", xid, len(slot.features))

	for _, f := range slot.features {
		if int(f.TableID) >= TableCount {
			continue
		}
		p.Tables[f.TableID].SetFeatures(f)
	}

	return p.tableFeaturesReply(sender), nil
}

func (p *Pipeline) tableFeaturesReply(sender *ofp.Sender) []*MultipartReplyTableFeatures {
	var replies []*MultipartReplyTableFeatures
	for start := 0; start < TableCount; start += tableFeaturesGroupSize {
		group := make([]*ofp.TableFeatures, 0, tableFeaturesGroupSize)
		for i := start; i < start+tableFeaturesGroupSize; i++ {
			group = append(group, p.Tables[i].Features())
		}
		last := start+tableFeaturesGroupSize >= TableCount
		reply := &MultipartReplyTableFeatures{TableFeatures: group, More: !last}
		p.Sender.Send(reply, sender)
		replies = append(replies, reply)
	}
	return replies
}

// HandleFeaturesSave implements §4.8: snapshot the Config field of every
// table's current features (the rest of the record is not copied) so a
// later OFPTC_TABLE_MISS-less reconfiguration attempt can be rolled back.
func (p *Pipeline) HandleFeaturesSave() {
	for i := 0; i < TableCount; i++ {
		p.Tables[i].SaveFeatures()
	}
}

// HandleFeaturesRestore implements §4.8's rollback path: every table's
// features Config is set back to the last saved value, however old that
// save is (the zero value if SaveFeatures was never called) -- this mirrors
// the original's own save/restore asymmetry rather than papering over it.
func (p *Pipeline) HandleFeaturesRestore() {
	for i := 0; i < TableCount; i++ {
		p.Tables[i].RestoreFeatures()
	}
}
