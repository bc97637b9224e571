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
	"github.com/ofpipeline/datapath/pkg/packet"
)

func newInjectCommand() *cobra.Command {
	var inPort uint32
	var ttlValid bool

	cmd := &cobra.Command{
		Use:   "inject-packet",
		Short: "Drive one synthetic packet through the pipeline starting at table 0",
		RunE: func(cmd *cobra.Command, args []string) error {
			match := ofp.Match{}
			if inPort != 0 {
				match.Set(ofp.OXMTLV{Field: ofp.OXMInPort, Value: []byte{byte(inPort)}})
			}
			handle := packet.NewHandleStd(match, ttlValid)
			pkt := packet.New([]byte("simulated-packet"), handle, inPort)

			getOrCreatePipeline().ProcessPacket(pkt)
			fmt.Println("packet processed")
			return nil
		},
	}

	cmd.Flags().Uint32Var(&inPort, "in-port", 1, "in_port the packet arrives on")
	cmd.Flags().BoolVar(&ttlValid, "ttl-valid", true, "whether the packet's TTL is valid")
	return cmd
}
