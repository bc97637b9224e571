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

// HandleTableMod implements §4.4, the Table-Mod Handler: role-gated,
// applies to a single table or, via the 0xFF sentinel, all of them.
func (p *Pipeline) HandleTableMod(msg *ofp.TableMod, sender *ofp.Sender) *ofp.Error {
	if sender.Role == ofp.RoleSlave {
		return ofp.NewError(ofp.ErrTypeBadRequest, ofp.CodeIsSlave)
	}

	start, stop := int(msg.TableID), int(msg.TableID)+1
	if msg.TableID == ofp.AllTables {
		start, stop = 0, TableCount
	}

	for i := start; i < stop; i++ {
		table := p.Tables[i]
		if err := applyVacancyUpdate(table, msg.Vacancy); err != nil {
			return err
		}
		table.Desc().Config = msg.Config
	}
	return nil
}

// applyVacancyUpdate implements §4.4's VACANCY property update: requires
// vacancy_down <= vacancy_up, copies the thresholds, and re-arms down_set
// from current occupancy vs vacancy_up.
func applyVacancyUpdate(table FlowTable, update *ofp.TableModPropVacancy) *ofp.Error {
	if update == nil {
		return nil
	}
	desc := table.Desc()
	for i := range desc.Properties {
		prop := desc.Properties[i].Vacancy
		if prop == nil {
			continue
		}
		if update.VacancyDown > update.VacancyUp {
			return ofp.NewError(ofp.ErrTypeTableFeatFailed, ofp.CodeBadArgument)
		}
		prop.VacancyDown = update.VacancyDown
		prop.VacancyUp = update.VacancyUp

		freePercent := freePercentOf(table)
		prop.DownSet = freePercent >= update.VacancyUp
		return nil
	}
	return nil
}

func freePercentOf(table FlowTable) uint8 {
	stats := table.Stats()
	const max = 1 << 16
	active := stats.ActiveCount
	if active > max {
		active = max
	}
	return uint8((uint64(max) - uint64(active)) * 100 / uint64(max))
}
