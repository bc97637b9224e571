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

// Package metrics registers the Prometheus collectors the pipeline core
// updates as a side effect of table operations and packet drops
// (SPEC_FULL §4.11), mirroring the Gauge/Counter vectors antrea keeps in
// pkg/agent/metrics/ovs_metrics.go. These are read-only observability: the
// pipeline core never consults them for control decisions.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TableActiveEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pipeline_table_active_entries",
		Help: "Number of active flow entries in a table.",
	}, []string{"table_id"})

	TableLookupCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_table_lookup_count",
		Help: "Number of flow table lookups performed against a table.",
	}, []string{"table_id"})

	TableMatchedCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_table_matched_count",
		Help: "Number of flow table lookups that matched an entry.",
	}, []string{"table_id"})

	TableVacancyPercent = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pipeline_table_vacancy_percent",
		Help: "Current free-slot percentage of a table.",
	}, []string{"table_id"})

	FlowModTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_flow_mod_total",
		Help: "Number of flow-mod operations, partitioned by command and result.",
	}, []string{"command", "result"})

	PacketsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_packets_dropped_total",
		Help: "Number of packets dropped by the pipeline, partitioned by reason.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(
		TableActiveEntries,
		TableLookupCount,
		TableMatchedCount,
		TableVacancyPercent,
		FlowModTotal,
		PacketsDroppedTotal,
	)
}

// TableIDLabel formats a table id for use as a metric label.
func TableIDLabel(id uint8) string {
	return strconv.Itoa(int(id))
}
