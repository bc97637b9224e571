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

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofpipeline/datapath/pkg/ofp"
	"github.com/ofpipeline/datapath/pkg/pipeline/metrics"
)

// The counters below are process-global collectors, so these tests compare
// deltas across a known operation rather than absolute values, to stay
// independent of whatever other tests in this package ran first.

func TestProcessPacketIncrementsLookupAndMatchedCounters(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	require.Nil(t, p.HandleFlowMod(testFlowMod(0, 1, ofp.Instruction{
		Kind:    ofp.InstWriteActions,
		Actions: []ofp.Action{{Kind: ofp.ActionOutput, Port: 5}},
	}), masterSender()))

	label := metrics.TableIDLabel(0)
	lookupBefore := testutil.ToFloat64(metrics.TableLookupCount.WithLabelValues(label))
	matchedBefore := testutil.ToFloat64(metrics.TableMatchedCount.WithLabelValues(label))

	p.ProcessPacket(testPacket(ofp.OXMTLV{Field: ofp.OXMInPort, Value: []byte{1}}))

	assert.Equal(t, lookupBefore+1, testutil.ToFloat64(metrics.TableLookupCount.WithLabelValues(label)))
	assert.Equal(t, matchedBefore+1, testutil.ToFloat64(metrics.TableMatchedCount.WithLabelValues(label)))
}

func TestProcessPacketMissIncrementsLookupButNotMatched(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()

	label := metrics.TableIDLabel(0)
	lookupBefore := testutil.ToFloat64(metrics.TableLookupCount.WithLabelValues(label))
	matchedBefore := testutil.ToFloat64(metrics.TableMatchedCount.WithLabelValues(label))

	p.ProcessPacket(testPacket(ofp.OXMTLV{Field: ofp.OXMInPort, Value: []byte{1}}))

	assert.Equal(t, lookupBefore+1, testutil.ToFloat64(metrics.TableLookupCount.WithLabelValues(label)))
	assert.Equal(t, matchedBefore, testutil.ToFloat64(metrics.TableMatchedCount.WithLabelValues(label)))
}

func TestTimeoutSetsVacancyPercentFromOccupancy(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	require.Nil(t, p.HandleFlowMod(testFlowMod(0, 1), masterSender()))

	p.Timeout()

	label := metrics.TableIDLabel(0)
	assert.Equal(t, float64(freePercentOf(p.Tables[0])), testutil.ToFloat64(metrics.TableVacancyPercent.WithLabelValues(label)))
}
