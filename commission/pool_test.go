// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commission

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someonegg/stablematch/scores"
)

func TestMatchPools(t *testing.T) {
	pools := make([]Pool, 8)
	for i := range pools {
		c1, c2 := fmt.Sprintf("p%d-c1", i), fmt.Sprintf("p%d-c2", i)
		a1, a2 := fmt.Sprintf("p%d-a1", i), fmt.Sprintf("p%d-a2", i)
		pools[i] = Pool{
			Name:    fmt.Sprintf("pool-%d", i),
			Clients: []*Client{makeClient(c1, a1, a2), makeClient(c2, a1, a2)},
			Artists: []*Artist{makeArtist(a1, c2, c1), makeArtist(a2, c1, c2)},
		}
	}
	// one pool in score mode
	pools[3].Scorer = scores.NewTable([]scores.Record{
		{Key: scores.Key{Client: "p3-c1", Artist: "p3-a2"}, Score: 2},
	})

	outcomes, err := MatchPools(context.Background(), &Matcher{}, pools, 3)
	require.NoError(t, err)
	require.Len(t, outcomes, len(pools))

	for i, outcome := range outcomes {
		assert.Equal(t, pools[i].Name, outcome.Name)
		if i == 3 {
			assert.Equal(t, map[string]string{"p3-a2": "p3-c1"}, pairIDs(outcome.Pairs))
			continue
		}
		assert.Equal(t, map[string]string{
			fmt.Sprintf("p%d-a1", i): fmt.Sprintf("p%d-c2", i),
			fmt.Sprintf("p%d-a2", i): fmt.Sprintf("p%d-c1", i),
		}, pairIDs(outcome.Pairs))
		assert.True(t, outcome.Summary.Stable)
	}
}

func TestMatchPools_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pools := []Pool{{Name: "late", Clients: []*Client{makeClient("c1")}}}
	_, err := MatchPools(ctx, &Matcher{}, pools, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchPools_Empty(t *testing.T) {
	outcomes, err := MatchPools(context.Background(), &Matcher{}, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}
