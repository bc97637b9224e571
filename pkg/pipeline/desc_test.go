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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofpipeline/datapath/pkg/ofp"
)

func TestTableDescReplyFragmentsInGroupsOfSixteen(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	reply := p.HandleTableDescRequest(masterSender())

	require.Len(t, reply, TableCount/tableDescGroupSize)
	for i, r := range reply {
		assert.Len(t, r.TableDesc, tableDescGroupSize)
		if i == len(reply)-1 {
			assert.False(t, r.More)
		} else {
			assert.True(t, r.More)
		}
	}
}

func TestTableDescVacancyIsPatchedLiveFromOccupancy(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	p.Tables[0].Desc().Config |= ofp.TableConfigVacancyEvents
	require.Nil(t, p.HandleFlowMod(testFlowMod(0, 1), masterSender()))

	before := p.Tables[0].Desc().Properties[0].Vacancy.Vacancy
	p.HandleTableDescRequest(masterSender())
	after := p.Tables[0].Desc().Properties[0].Vacancy.Vacancy

	assert.NotEqual(t, before, after, "vacancy should be recomputed from live occupancy on read when VACANCY_EVENTS is enabled")
}

func TestTableDescVacancyLeftUnpatchedWithoutVacancyEventsFlag(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	require.Nil(t, p.HandleFlowMod(testFlowMod(0, 1), masterSender()))

	before := p.Tables[0].Desc().Properties[0].Vacancy.Vacancy
	p.HandleTableDescRequest(masterSender())
	after := p.Tables[0].Desc().Properties[0].Vacancy.Vacancy

	assert.Equal(t, before, after, "vacancy must stay untouched when the table's config lacks VACANCY_EVENTS")
}
