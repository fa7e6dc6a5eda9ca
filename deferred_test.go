// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func explicit(id string, prefs ...string) Participant {
	return Participant{ID: id, Prefs: prefs}
}

func resolveAndMatch(t *testing.T, proposers, receivers []Participant, scores ScoreMatrix, opts ...MatchOption) (*Preferences, Matching, Stats) {
	t.Helper()
	prefs, _ := Resolve(proposers, receivers, scores)
	matching, stats := DeferredAcceptance(opts...).Match(prefs)
	require.NoError(t, Validate(prefs, matching))
	return prefs, matching, stats
}

func TestDeferredAcceptance_Scenarios(t *testing.T) {
	t.Run("FirstChoices", func(t *testing.T) {
		_, matching, stats := resolveAndMatch(t,
			[]Participant{explicit("A", "X", "Y"), explicit("B", "Y", "X")},
			[]Participant{explicit("X", "A", "B"), explicit("Y", "B", "A")},
			nil)

		assert.Equal(t, Matching{"X": "A", "Y": "B"}, matching)
		assert.Equal(t, 2, stats.Proposals)
		assert.Zero(t, stats.Rejections)
		assert.Empty(t, stats.Unmatched)
	})

	t.Run("Replacement", func(t *testing.T) {
		_, matching, stats := resolveAndMatch(t,
			[]Participant{explicit("A", "X", "Y"), explicit("B", "X", "Y")},
			[]Participant{explicit("X", "B", "A"), explicit("Y", "A", "B")},
			nil)

		assert.Equal(t, Matching{"X": "B", "Y": "A"}, matching)
		assert.Equal(t, 3, stats.Proposals)
		assert.Equal(t, 1, stats.Rejections)
	})

	t.Run("ScoreMatrix", func(t *testing.T) {
		scores := ScoreMatrix{
			"c1": {"a1": 5, "a2": 9},
			"c2": {"a1": 9, "a2": 1},
		}
		prefs, matching, stats := resolveAndMatch(t,
			[]Participant{{ID: "c1"}, {ID: "c2"}},
			[]Participant{{ID: "a1"}, {ID: "a2"}},
			scores)

		assert.Equal(t, []string{"a2", "a1"}, prefs.Lists["c1"])
		assert.Equal(t, []string{"a1", "a2"}, prefs.Lists["c2"])
		assert.Equal(t, Matching{"a1": "c2", "a2": "c1"}, matching)
		assert.Zero(t, stats.Rejections)
	})

	t.Run("EmptyList", func(t *testing.T) {
		_, matching, stats := resolveAndMatch(t,
			[]Participant{explicit("A"), explicit("B", "X")},
			[]Participant{explicit("X", "A", "B")},
			nil)

		assert.Equal(t, Matching{"X": "B"}, matching)
		assert.Equal(t, []string{"A"}, stats.Unmatched)
	})

	t.Run("DanglingReference", func(t *testing.T) {
		prefs, report := Resolve(
			[]Participant{explicit("P", "R9", "R1")},
			[]Participant{explicit("R1", "P")},
			nil)
		matching, _ := DeferredAcceptance().Match(prefs)

		assert.Equal(t, []string{"R1"}, prefs.Lists["P"])
		assert.Equal(t, []Reference{{Owner: "P", Target: "R9"}}, report.Dangling)
		assert.Equal(t, Matching{"R1": "P"}, matching)
	})
}

func TestDeferredAcceptance_EmptyInput(t *testing.T) {
	cases := []struct {
		name      string
		proposers []Participant
		receivers []Participant
	}{
		{"Nothing", nil, nil},
		{"NoReceivers", []Participant{explicit("A", "X")}, nil},
		{"NoProposers", nil, []Participant{explicit("X", "A")}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			prefs, _ := Resolve(c.proposers, c.receivers, nil)
			matching, stats := DeferredAcceptance().Match(prefs)
			assert.Empty(t, matching)
			assert.Zero(t, stats.Proposals)
			assert.Len(t, stats.Unmatched, len(c.proposers))
		})
	}
}

func TestDeferredAcceptance_Unranked(t *testing.T) {
	// X only ranks B; A and C are unranked there.
	_, matching, stats := resolveAndMatch(t,
		[]Participant{explicit("A", "X"), explicit("B", "X"), explicit("C", "X")},
		[]Participant{explicit("X", "B")},
		nil)

	assert.Equal(t, Matching{"X": "B"}, matching)
	assert.Equal(t, []string{"A", "C"}, stats.Unmatched)
	assert.Equal(t, 3, stats.Proposals)
	assert.Equal(t, 2, stats.Rejections)
}

func TestDeferredAcceptance_UnrankedTie(t *testing.T) {
	// Neither proposer is ranked: the first holder keeps the receiver.
	_, matching, _ := resolveAndMatch(t,
		[]Participant{explicit("A", "X"), explicit("B", "X")},
		[]Participant{explicit("X")},
		nil)

	assert.Equal(t, Matching{"X": "A"}, matching)
}

func TestDeferredAcceptance_UnknownReceiver(t *testing.T) {
	prefs := &Preferences{
		Proposers: []string{"A"},
		Lists:     map[string][]string{"A": {"Z", "X"}},
		Ranks:     map[string]RankIndex{"X": {"A": 0}},
	}

	matching, stats := DeferredAcceptance().Match(prefs)

	assert.Equal(t, Matching{"X": "A"}, matching)
	assert.Equal(t, 2, stats.Proposals)
	assert.Equal(t, 1, stats.Rejections)
}

func TestDeferredAcceptance_StepLimit(t *testing.T) {
	prefs, _ := Resolve(
		[]Participant{explicit("A", "X", "Y"), explicit("B", "X", "Y")},
		[]Participant{explicit("X", "B", "A"), explicit("Y", "A", "B")},
		nil)

	t.Run("Truncated", func(t *testing.T) {
		matching, stats := DeferredAcceptance(WithStepLimit(1)).Match(prefs)
		assert.True(t, stats.Truncated)
		assert.Equal(t, 1, stats.Proposals)
		assert.Equal(t, Matching{"X": "A"}, matching)
		assert.Equal(t, []string{"B"}, stats.Unmatched)
	})

	t.Run("Enough", func(t *testing.T) {
		matching, stats := DeferredAcceptance(WithStepLimit(3)).Match(prefs)
		assert.False(t, stats.Truncated)
		assert.Equal(t, Matching{"X": "B", "Y": "A"}, matching)
	})
}

func TestDeferredAcceptance_NilPreferences(t *testing.T) {
	require.Panics(t, func() {
		DeferredAcceptance().Match(nil)
	})
}

func TestDeferredAcceptance_DuplicateProposer(t *testing.T) {
	prefs := &Preferences{
		Proposers: []string{"A", "A"},
		Lists:     map[string][]string{"A": {"X"}},
		Ranks:     map[string]RankIndex{"X": {"A": 0}},
	}

	matching, stats := DeferredAcceptance().Match(prefs)

	assert.Equal(t, Matching{"X": "A"}, matching)
	assert.Equal(t, 1, stats.Proposals)
	assert.Empty(t, stats.Unmatched)
}

// randomParticipants builds n proposers and m receivers with random partial
// preference lists.
func randomParticipants(rnd *rand.Rand, n, m int) ([]Participant, []Participant) {
	proposers := make([]Participant, n)
	receivers := make([]Participant, m)
	pids := make([]string, n)
	rids := make([]string, m)
	for i := range pids {
		pids[i] = fmt.Sprintf("c%d", i)
	}
	for i := range rids {
		rids[i] = fmt.Sprintf("a%d", i)
	}

	pick := func(ids []string) []string {
		perm := rnd.Perm(len(ids))
		k := rnd.Intn(len(ids) + 1)
		out := make([]string, k)
		for i := 0; i < k; i++ {
			out[i] = ids[perm[i]]
		}
		return out
	}

	for i := range proposers {
		proposers[i] = Participant{ID: pids[i], Prefs: pick(rids)}
	}
	for i := range receivers {
		receivers[i] = Participant{ID: rids[i], Prefs: pick(pids)}
	}
	return proposers, receivers
}

func randomScores(rnd *rand.Rand, n, m int) ([]Participant, []Participant, ScoreMatrix) {
	proposers := make([]Participant, n)
	receivers := make([]Participant, m)
	scores := make(ScoreMatrix, n)
	for j := range receivers {
		receivers[j] = Participant{ID: fmt.Sprintf("a%d", j)}
	}
	for i := range proposers {
		proposers[i] = Participant{ID: fmt.Sprintf("c%d", i)}
		row := make(map[string]float64)
		for j := range receivers {
			if rnd.Intn(4) == 0 {
				continue // missing
			}
			row[receivers[j].ID] = float64(rnd.Intn(10))
		}
		scores[proposers[i].ID] = row
	}
	return proposers, receivers, scores
}

func TestDeferredAcceptance_Properties(t *testing.T) {
	rnd := rand.New(rand.NewSource(20221018))

	for round := 0; round < 200; round++ {
		n, m := 1+rnd.Intn(8), 1+rnd.Intn(8)

		var (
			proposers, receivers []Participant
			scores               ScoreMatrix
		)
		if round%2 == 0 {
			proposers, receivers = randomParticipants(rnd, n, m)
		} else {
			proposers, receivers, scores = randomScores(rnd, n, m)
		}

		prefs, report := Resolve(proposers, receivers, scores)
		require.Zero(t, report.Len(), "round %d", round)

		matcher := DeferredAcceptance()
		matching, stats := matcher.Match(prefs)

		require.NoError(t, Validate(prefs, matching), "round %d", round)
		require.Empty(t, BlockingPairs(prefs, matching), "round %d", round)
		require.LessOrEqual(t, stats.Proposals, n*m, "round %d", round)
		require.Equal(t, n, len(matching)+len(stats.Unmatched), "round %d", round)

		again, againStats := matcher.Match(prefs)
		require.Equal(t, matching, again, "round %d", round)
		require.Equal(t, stats, againStats, "round %d", round)
	}
}

func TestDeferredAcceptance_Concurrent(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	proposers, receivers := randomParticipants(rnd, 30, 30)

	prefs, _ := Resolve(proposers, receivers, nil)
	want, _ := DeferredAcceptance().Match(prefs)

	var wg sync.WaitGroup
	results := make([]Matching, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prefs, _ := Resolve(proposers, receivers, nil)
			results[i], _ = DeferredAcceptance().Match(prefs)
		}(i)
	}
	wg.Wait()

	for i := range results {
		assert.Equal(t, want, results[i])
	}
}
