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

func newDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-table-stats",
		Short: "Print active, lookup and matched counts for every table with entries or lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := getOrCreatePipeline()
			reply := p.HandleTableStatsRequest(&ofp.Sender{Role: ofp.RoleMaster})
			for _, s := range reply.Stats {
				if s.ActiveCount == 0 && s.LookupCount == 0 {
					continue
				}
				fmt.Printf("table %3d: active=%d lookups=%d matched=%d\n", s.TableID, s.ActiveCount, s.LookupCount, s.MatchedCount)
			}
			return nil
		},
	}
	return cmd
}
