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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ofpipeline/datapath/pkg/ofp"
)

func newAddFlowCommand() *cobra.Command {
	var tableID uint8
	var priority uint16
	var inPort uint32
	var gotoTable uint8
	var hasGoto bool

	cmd := &cobra.Command{
		Use:   "add-flow",
		Short: "Install a flow entry matching an in_port, with an output action or (with --has-goto) a goto-table",
		RunE: func(cmd *cobra.Command, args []string) error {
			match := &ofp.Match{}
			if inPort != 0 {
				match.Set(ofp.OXMTLV{Field: ofp.OXMInPort, Value: []byte{byte(inPort)}})
			}

			var instructions []ofp.Instruction
			if hasGoto {
				instructions = append(instructions, ofp.Instruction{Kind: ofp.InstGotoTable, GotoTableID: gotoTable})
			} else {
				instructions = append(instructions, ofp.Instruction{
					Kind:    ofp.InstApplyActions,
					Actions: []ofp.Action{{Kind: ofp.ActionOutput, Port: inPort}},
				})
			}

			msg := &ofp.FlowMod{
				Command:      ofp.CommandAdd,
				TableID:      tableID,
				Priority:     priority,
				Match:        match,
				Instructions: instructions,
			}
			if err := getOrCreatePipeline().HandleFlowMod(msg, &ofp.Sender{Role: ofp.RoleMaster}); err != nil {
				return fmt.Errorf("flow_mod rejected: %v", err)
			}
			fmt.Printf("installed flow into table %d, priority %d\n", tableID, priority)
			return nil
		},
	}

	cmd.Flags().Uint8Var(&tableID, "table", 0, "table id")
	cmd.Flags().Uint16Var(&priority, "priority", 1, "flow priority")
	cmd.Flags().Uint32Var(&inPort, "in-port", 0, "in_port to match, 0 to match any")
	cmd.Flags().Uint8Var(&gotoTable, "goto", 0, "table id for the goto-table instruction (only used with --has-goto)")
	cmd.Flags().BoolVar(&hasGoto, "has-goto", false, "install a goto-table instruction instead of apply-actions")
	return cmd
}
