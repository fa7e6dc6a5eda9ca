// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scores

import (
	"github.com/someonegg/stablematch"
)

type table struct {
	recs map[Key]float64
}

// NewTable returns a Scorer backed by records, the last record of a pair wins.
func NewTable(records []Record) Scorer {
	recs := make(map[Key]float64, len(records))
	for _, rec := range records {
		recs[rec.Key] = rec.Score
	}
	return &table{recs: recs}
}

func (t *table) Score(client, artist string) (float64, bool) {
	score, ok := t.recs[Key{Client: client, Artist: artist}]
	return score, ok
}

type override struct {
	orig Scorer
	recs map[Key]float64
}

// NewOverride returns a Scorer where records take precedence over orig.
func NewOverride(orig Scorer, records []Record) Scorer {
	recs := make(map[Key]float64, len(records))
	for _, rec := range records {
		recs[rec.Key] = rec.Score
	}
	return &override{
		orig: orig,
		recs: recs,
	}
}

func (s *override) Score(client, artist string) (float64, bool) {
	key := Key{Client: client, Artist: artist}
	if score, ok := s.recs[key]; ok {
		return score, true
	}
	if s.orig == nil {
		return 0, false
	}
	return s.orig.Score(client, artist)
}

// Matrix asks s about every client/artist pair, unknown pairs are left out.
func Matrix(s Scorer, clients, artists []string) stablematch.ScoreMatrix {
	m := make(stablematch.ScoreMatrix, len(clients))
	for _, client := range clients {
		row := make(map[string]float64)
		for _, artist := range artists {
			if score, ok := s.Score(client, artist); ok {
				row[artist] = score
			}
		}
		m[client] = row
	}
	return m
}
