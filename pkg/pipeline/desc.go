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

import "github.com/ofpipeline/datapath/pkg/ofp"

// tableDescGroupSize is the number of tables packed into each
// MULTIPART_REPLY fragment for TABLE_DESC (§4.7): TableCount divided into
// groups of 16, a coarser fragmentation than table_features' groups of 8
// since a table_desc entry is much smaller on the wire.
const tableDescGroupSize = 16

// HandleTableDescRequest implements §4.7: before replying, the VACANCY
// property of each table with VACANCY_EVENTS set in its config is
// refreshed from its live occupancy (see patchVacancy) -- unlike
// table_features, table_desc has no reassembly concern on the request
// side (it carries no body), only reply-side fragmentation.
func (p *Pipeline) HandleTableDescRequest(sender *ofp.Sender) []*MultipartReplyTableDesc {
	for i := 0; i < TableCount; i++ {
		patchVacancy(p.Tables[i])
	}

	var replies []*MultipartReplyTableDesc
	for start := 0; start < TableCount; start += tableDescGroupSize {
		group := make([]*ofp.TableDesc, 0, tableDescGroupSize)
		for i := start; i < start+tableDescGroupSize; i++ {
			group = append(group, p.Tables[i].Desc())
		}
		last := start+tableDescGroupSize >= TableCount
		reply := &MultipartReplyTableDesc{TableDesc: group, More: !last}
		p.Sender.Send(reply, sender)
		replies = append(replies, reply)
	}
	return replies
}

// patchVacancy implements §4.7's live-vacancy-field patch: when a table has
// OFPTC_VACANCY_EVENTS set in its config, the vacancy percentage reported is
// computed from current occupancy at request time, never cached from the
// last table_mod. A table without the flag set gets its desc sent through
// unpatched, mirroring pipeline_handle_stats_request_table_desc_request's
// own "if (desc[i]->config & OFPTC_VACANCY_EVENTS)" gate around the
// recompute.
func patchVacancy(table FlowTable) {
	desc := table.Desc()
	if desc.Config&ofp.TableConfigVacancyEvents == 0 {
		return
	}
	for i := range desc.Properties {
		prop := desc.Properties[i].Vacancy
		if prop == nil {
			continue
		}
		prop.Vacancy = freePercentOf(table)
	}
}
