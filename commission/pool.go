// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commission

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/someonegg/stablematch/scores"
)

// Pool is an independent set of clients and artists, matched on its own.
type Pool struct {
	Name    string
	Clients []*Client
	Artists []*Artist
	Scorer  scores.Scorer // nil for explicit preferences
}

type Outcome struct {
	Name    string  `json:"name"`
	Pairs   []*Pair `json:"pairs"`
	Summary Summary `json:"summary"`
}

// MatchPools matches every pool, at most parallel at a time (0 means no
// limit). Outcomes keep the order of pools. Pools not yet started when ctx is
// done are skipped and ctx's error is returned.
func MatchPools(ctx context.Context, m *Matcher, pools []Pool, parallel int) ([]Outcome, error) {
	outcomes := make([]Outcome, len(pools))

	g, ctx := errgroup.WithContext(ctx)
	if parallel > 0 {
		g.SetLimit(parallel)
	}

	for i := range pools {
		pool := &pools[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("pool %q: %w", pool.Name, err)
			}
			pairs, summ := m.Match(pool.Clients, pool.Artists, pool.Scorer)
			outcomes[i] = Outcome{Name: pool.Name, Pairs: pairs, Summary: summ}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
