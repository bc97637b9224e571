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

// Package main under directory cmd parses and validates user input,
// instantiates and initializes objects imported from pkg, and runs
// the process.
package main

import (
	"flag"
	"os"
	"path"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/ofpipeline/datapath/pkg/pipeline"
)

var commandName = path.Base(os.Args[0])

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   commandName,
		Short: commandName + " drives a standalone OpenFlow pipeline for manual testing",
		Long:  commandName + " wires a pipeline core to the reference in-memory flow table and a console message sender, so flow-mods and packets can be driven, and table stats dumped, from the command line without a real switch or controller.",
	}
	flagSet := flag.NewFlagSet(commandName, flag.ExitOnError)
	klog.InitFlags(flagSet)
	root.PersistentFlags().AddGoFlagSet(flagSet)

	root.AddCommand(newAddFlowCommand())
	root.AddCommand(newInjectCommand())
	root.AddCommand(newDumpCommand())
	return root
}

func main() {
	defer klog.Flush()

	if err := newRootCommand().Execute(); err != nil {
		klog.Flush()
		os.Exit(1)
	}
}

// sharedPipeline is process-lifetime state shared by the sim's subcommands: a
// single pipeline instance backed by the reference flow table. Each
// invocation of the binary is one throwaway session -- there is no
// persistence across runs, matching the harness's purpose (exercising
// the pipeline core interactively, not operating a real switch).
var sharedPipeline *pipeline.Pipeline
