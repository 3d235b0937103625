// Copyright 2025 Hirelens Authors
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


package search

import (
	"sort"

	"github.com/hirelens/hirelens/core"
)

// lexicalScoreCeiling maps raw index scores into [0,1].
const lexicalScoreCeiling = 10000

// Tier-dependent fusion weights. Exact lexical hits are trusted
// outright; as lexical confidence drops, semantic similarity carries
// more of the fused score so paraphrased matches are not discarded.
const (
	exactLexicalWeight    = 0.9
	relevantLexicalWeight = 0.5
	similarLexicalWeight  = 0.1

	semanticOnlyWeight = 0.9
)

// Fuse blends lexical and semantic matches into one ordered list.
// Semantic hits without a lexical counterpart are backfilled as
// semantic_only. Ordering is (tier rank desc, fused score desc) with
// stable ties: no amount of semantic similarity can outrank a
// lower-confidence lexical tier.
func Fuse(lexical []core.LexicalMatch, semantic []core.SemanticMatch) []core.FusedMatch {
	semanticByID := make(map[core.ID]core.SemanticMatch, len(semantic))
	for _, s := range semantic {
		semanticByID[s.Summary.ExperienceId] = s
	}

	fused := make([]core.FusedMatch, 0, len(lexical)+len(semantic))
	seen := make(map[core.ID]struct{}, len(lexical))

	for _, l := range lexical {
		id := l.Summary.ExperienceId
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		lexNorm := min(l.Score/lexicalScoreCeiling, 1.0)
		if lexNorm < 0 {
			lexNorm = 0
		}
		sim := clamp01(semanticByID[id].Similarity)

		lw := similarLexicalWeight
		switch l.Tier {
		case core.TierExact:
			lw = exactLexicalWeight
		case core.TierRelevant:
			lw = relevantLexicalWeight
		}

		fused = append(fused, core.FusedMatch{
			Summary:     l.Summary,
			Tier:        l.Tier,
			FusedScore:  lw*lexNorm + (1-lw)*sim,
			LexicalNorm: lexNorm,
			Semantic:    sim,
		})
	}

	for _, s := range semantic {
		if _, dup := seen[s.Summary.ExperienceId]; dup {
			continue
		}
		seen[s.Summary.ExperienceId] = struct{}{}
		sim := clamp01(s.Similarity)
		fused = append(fused, core.FusedMatch{
			Summary:    s.Summary,
			Tier:       core.TierSemanticOnly,
			FusedScore: semanticOnlyWeight * sim,
			Semantic:   sim,
		})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Tier.Rank() != fused[j].Tier.Rank() {
			return fused[i].Tier.Rank() > fused[j].Tier.Rank()
		}
		return fused[i].FusedScore > fused[j].FusedScore
	})

	return fused
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
