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

func TestTableFeaturesAccumulatesUntilFinalFragment(t *testing.T) {
	p, sender, _, _, _ := newTestPipeline()
	conn := masterSender()

	reply, err := p.HandleTableFeaturesRequest(1, &ofp.TableFeaturesRequest{
		TableFeatures: []*ofp.TableFeatures{{TableID: 0, Name: "first"}},
	}, true, conn)
	require.Nil(t, err)
	assert.Nil(t, reply)
	assert.Empty(t, sender.Sent)

	reply, err = p.HandleTableFeaturesRequest(1, &ofp.TableFeaturesRequest{
		TableFeatures: []*ofp.TableFeatures{{TableID: 1, Name: "second"}},
	}, false, conn)
	require.Nil(t, err)
	require.NotNil(t, reply)

	assert.Equal(t, "first", p.Tables[0].Features().Name)
	assert.Equal(t, "second", p.Tables[1].Features().Name)
}

func TestTableFeaturesReplyFragmentsInGroupsOfEight(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	reply, err := p.HandleTableFeaturesRequest(5, &ofp.TableFeaturesRequest{}, false, masterSender())
	require.Nil(t, err)

	require.Len(t, reply, TableCount/tableFeaturesGroupSize)
	for i, r := range reply {
		assert.Len(t, r.TableFeatures, tableFeaturesGroupSize)
		if i == len(reply)-1 {
			assert.False(t, r.More)
		} else {
			assert.True(t, r.More)
		}
	}
}

// S5 (spec.md §8): a second, distinct xid arriving on the same connection
// while a fragmented request is pending is a buffer overflow, not a second
// independent reassembly.
func TestTableFeaturesDistinctXidOnSameConnOverflows(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	conn := masterSender()

	reply1, err1 := p.HandleTableFeaturesRequest(1, &ofp.TableFeaturesRequest{
		TableFeatures: []*ofp.TableFeatures{{TableID: 0}},
	}, true, conn)
	require.Nil(t, err1)
	assert.Nil(t, reply1)

	reply2, err2 := p.HandleTableFeaturesRequest(2, &ofp.TableFeaturesRequest{
		TableFeatures: []*ofp.TableFeatures{{TableID: 1}},
	}, false, conn)
	assert.Nil(t, reply2)
	require.NotNil(t, err2)
	assert.Equal(t, ofp.ErrTypeBadRequest, err2.Type)
	assert.Equal(t, ofp.CodeMultipartBufferOverflow, err2.Code)

	// The original xid-1 fragment is still pending, untouched by the
	// rejected xid-2 attempt.
	require.Len(t, p.reassembly, 1)

	reply3, err3 := p.HandleTableFeaturesRequest(1, &ofp.TableFeaturesRequest{
		TableFeatures: []*ofp.TableFeatures{{TableID: 1}},
	}, false, conn)
	require.Nil(t, err3)
	require.NotNil(t, reply3)
}

// Distinct connections, even reusing the same xid, get independent
// reassembly buffers.
func TestTableFeaturesDistinctConnsDoNotInterfere(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	connA := &ofp.Sender{Role: ofp.RoleMaster, ConnID: 1}
	connB := &ofp.Sender{Role: ofp.RoleMaster, ConnID: 2}

	reply1, err1 := p.HandleTableFeaturesRequest(1, &ofp.TableFeaturesRequest{
		TableFeatures: []*ofp.TableFeatures{{TableID: 0}},
	}, true, connA)
	require.Nil(t, err1)
	assert.Nil(t, reply1)

	reply2, err2 := p.HandleTableFeaturesRequest(1, &ofp.TableFeaturesRequest{
		TableFeatures: []*ofp.TableFeatures{{TableID: 1}},
	}, false, connB)
	require.Nil(t, err2)
	assert.NotNil(t, reply2)
	require.Len(t, p.reassembly, 1) // connA's fragment still accumulating
}

func TestFeaturesSaveRestoreRoundTrips(t *testing.T) {
	p, _, _, _, _ := newTestPipeline()
	p.Tables[0].SetFeatures(&ofp.TableFeatures{TableID: 0, Config: 42})
	p.HandleFeaturesSave()

	p.Tables[0].SetFeatures(&ofp.TableFeatures{TableID: 0, Config: 99})
	assert.Equal(t, uint32(99), p.Tables[0].Features().Config)

	p.HandleFeaturesRestore()
	assert.Equal(t, uint32(42), p.Tables[0].Features().Config)
}
