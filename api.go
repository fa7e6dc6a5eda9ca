// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stablematch provides preference based one-to-one stable matching
// between proposers and receivers, using deferred acceptance (Gale-Shapley).
package stablematch

import (
	"math"
	"sort"
)

type Matcher interface {
	Match(prefs *Preferences) (matching Matching, stats Stats)
}

type Participant struct {
	ID    string
	Prefs []string    // most preferred first, ignored in score mode
	Info  interface{} // never read by the engine
}

// ScoreMatrix maps proposerID -> receiverID -> score.
type ScoreMatrix map[string]map[string]float64

// RankIndex maps proposerID -> rank, 0 is the most preferred.
type RankIndex map[string]int

// Unranked is the rank of a proposer absent from a receiver's list.
const Unranked = math.MaxInt

func (r RankIndex) Rank(proposer string) int {
	if rank, ok := r[proposer]; ok {
		return rank
	}
	return Unranked
}

type Preferences struct {
	Proposers []string             // proposal order
	Lists     map[string][]string  // proposerID
	Ranks     map[string]RankIndex // receiverID
}

// Matching maps receiverID -> proposerID.
type Matching map[string]string

type Pair struct {
	Proposer string `json:"proposer"`
	Receiver string `json:"receiver"`
}

// Pairs returns the matching sorted by receiver id.
func (m Matching) Pairs() []Pair {
	pairs := make([]Pair, 0, len(m))
	for receiver, proposer := range m {
		pairs = append(pairs, Pair{Proposer: proposer, Receiver: receiver})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].Receiver < pairs[j].Receiver
	})
	return pairs
}

// ByProposer returns the inverse mapping proposerID -> receiverID.
func (m Matching) ByProposer() map[string]string {
	inv := make(map[string]string, len(m))
	for receiver, proposer := range m {
		inv[proposer] = receiver
	}
	return inv
}

type Stats struct {
	Proposals  int
	Rejections int
	Unmatched  []string // proposers, in proposal order
	Truncated  bool     // step limit reached before the fixed point
}
