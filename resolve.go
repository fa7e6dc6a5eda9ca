// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stablematch

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"sort"
)

// Reference names an id (Target) found in the list or score row of Owner.
// An empty Target on a Dangling entry means the whole score row of Owner was
// ignored.
type Reference struct {
	Owner  string `json:"owner"`
	Target string `json:"target"`
}

// Report lists what Resolve normalised away. None of it is fatal.
type Report struct {
	Dangling   []Reference `json:"dangling,omitempty"`
	Duplicates []Reference `json:"duplicates,omitempty"`
	Ignored    []string    `json:"ignored,omitempty"` // participants with an empty or repeated id
	Scores     []Reference `json:"scores,omitempty"`  // NaN, negative or infinite scores
}

func (r *Report) Len() int {
	return len(r.Dangling) + len(r.Duplicates) + len(r.Ignored) + len(r.Scores)
}

type ResolveOption func(*resolver)

// WithMinScore leaves receivers scoring below score out of a proposer's list.
// Score mode only.
func WithMinScore(score float64) ResolveOption {
	return func(rs *resolver) {
		rs.minScore = score
		rs.hasMin = true
	}
}

// WithUnscored appends the receivers missing from a proposer's score row to
// its list, with score 0. Score mode only.
func WithUnscored() ResolveOption {
	return func(rs *resolver) {
		rs.unscored = true
	}
}

func WithResolveLogger(l *slog.Logger) ResolveOption {
	return func(rs *resolver) {
		if l != nil {
			rs.logger = l
		}
	}
}

type preferenceSource interface {
	proposerList(p *Participant) []string
	receiverList(r *Participant) []string
}

type resolver struct {
	minScore float64
	hasMin   bool
	unscored bool
	logger   *slog.Logger

	proposers   []Participant
	receivers   []Participant
	proposerSet map[string]bool
	receiverSet map[string]bool

	report Report
}

// Resolve turns participants into the per side structures the matcher needs.
// With a nil scores matrix every participant's Prefs is used as is,
// otherwise both sides are ordered by descending score and Prefs is ignored.
//
// Dangling and repeated ids are dropped, bad scores are normalised, and all of
// it is described in the returned report.
func Resolve(proposers, receivers []Participant, scores ScoreMatrix, opts ...ResolveOption) (*Preferences, Report) {
	rs := &resolver{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(rs)
	}

	rs.proposers, rs.proposerSet = rs.index(proposers, "proposer")
	rs.receivers, rs.receiverSet = rs.index(receivers, "receiver")

	var src preferenceSource
	if scores == nil {
		src = explicitSource{}
	} else {
		src = rs.newScoreSource(scores)
	}

	prefs := &Preferences{
		Proposers: make([]string, 0, len(rs.proposers)),
		Lists:     make(map[string][]string, len(rs.proposers)),
		Ranks:     make(map[string]RankIndex, len(rs.receivers)),
	}

	for i := range rs.proposers {
		p := &rs.proposers[i]
		prefs.Proposers = append(prefs.Proposers, p.ID)
		prefs.Lists[p.ID] = rs.clean(p.ID, src.proposerList(p), rs.receiverSet)
	}

	for i := range rs.receivers {
		r := &rs.receivers[i]
		list := rs.clean(r.ID, src.receiverList(r), rs.proposerSet)
		ranks := make(RankIndex, len(list))
		for rank, id := range list {
			ranks[id] = rank
		}
		prefs.Ranks[r.ID] = ranks
	}

	if n := rs.report.Len(); n > 0 {
		rs.logger.Warn("preferences normalised",
			"dangling", len(rs.report.Dangling),
			"duplicates", len(rs.report.Duplicates),
			"ignored", len(rs.report.Ignored),
			"scores", len(rs.report.Scores))
	}

	return prefs, rs.report
}

func (rs *resolver) index(ps []Participant, side string) ([]Participant, map[string]bool) {
	kept := make([]Participant, 0, len(ps))
	set := make(map[string]bool, len(ps))
	for _, p := range ps {
		if p.ID == "" || set[p.ID] {
			rs.report.Ignored = append(rs.report.Ignored, p.ID)
			rs.logger.Debug("participant ignored", "side", side, "id", p.ID)
			continue
		}
		set[p.ID] = true
		kept = append(kept, p)
	}
	return kept, set
}

// clean keeps the first occurrence of every id known to the other side.
func (rs *resolver) clean(owner string, list []string, known map[string]bool) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, id := range list {
		if !known[id] {
			rs.report.Dangling = append(rs.report.Dangling, Reference{owner, id})
			rs.logger.Debug("dangling reference dropped", "owner", owner, "target", id)
			continue
		}
		if seen[id] {
			rs.report.Duplicates = append(rs.report.Duplicates, Reference{owner, id})
			rs.logger.Debug("duplicate reference dropped", "owner", owner, "target", id)
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

type explicitSource struct{}

func (explicitSource) proposerList(p *Participant) []string { return p.Prefs }
func (explicitSource) receiverList(r *Participant) []string { return r.Prefs }

type scoreSource struct {
	rs   *resolver
	rows map[string]map[string]float64 // normalised, known ids only
}

func (rs *resolver) newScoreSource(scores ScoreMatrix) *scoreSource {
	s := &scoreSource{
		rs:   rs,
		rows: make(map[string]map[string]float64, len(rs.proposers)),
	}

	for _, p := range rs.proposers {
		row := scores[p.ID]
		norm := make(map[string]float64, len(row))
		for _, r := range rs.receivers {
			if v, ok := row[r.ID]; ok {
				norm[r.ID] = rs.normScore(p.ID, r.ID, v)
			}
		}
		s.rows[p.ID] = norm
	}

	for _, pid := range slices.Sorted(maps.Keys(scores)) {
		if !rs.proposerSet[pid] {
			rs.report.Dangling = append(rs.report.Dangling, Reference{pid, ""})
			continue
		}
		for _, rid := range slices.Sorted(maps.Keys(scores[pid])) {
			if !rs.receiverSet[rid] {
				rs.report.Dangling = append(rs.report.Dangling, Reference{pid, rid})
			}
		}
	}

	return s
}

func (rs *resolver) normScore(owner, target string, v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		v = 0
	case math.IsInf(v, 1):
		v = math.MaxFloat64
	default:
		return v
	}
	rs.report.Scores = append(rs.report.Scores, Reference{owner, target})
	return v
}

type scored struct {
	id    string
	score float64
}

func byScore(list []scored) []string {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})
	ids := make([]string, len(list))
	for i := range list {
		ids[i] = list[i].id
	}
	return ids
}

func (s *scoreSource) proposerList(p *Participant) []string {
	row := s.rows[p.ID]
	list := make([]scored, 0, len(row))
	for _, r := range s.rs.receivers {
		score, ok := row[r.ID]
		if !ok && !s.rs.unscored {
			continue
		}
		if s.rs.hasMin && score < s.rs.minScore {
			continue
		}
		list = append(list, scored{r.ID, score})
	}
	return byScore(list)
}

func (s *scoreSource) receiverList(r *Participant) []string {
	list := make([]scored, len(s.rs.proposers))
	for i, p := range s.rs.proposers {
		list[i] = scored{p.ID, s.rows[p.ID][r.ID]}
	}
	return byScore(list)
}
