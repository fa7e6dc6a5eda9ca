// Copyright 2022 someonegg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scores turns client/artist compatibility records into the score
// matrix consumed by stablematch. How the scores are computed is not its
// business.
package scores

type Scorer interface {
	// Score returns the compatibility of client with artist, ok is false
	// when the pair is unknown.
	Score(client, artist string) (score float64, ok bool)
}

type Record struct {
	Key   `yaml:",inline"`
	Score float64 `json:"score" yaml:"score"`
}

type Key struct {
	Client string `json:"client" yaml:"client"`
	Artist string `json:"artist" yaml:"artist"`
}
