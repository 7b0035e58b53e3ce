// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package command

import "github.com/agext/levenshtein"

// maxSuggestDistance is the largest edit distance still considered a typo.
const maxSuggestDistance = 3

// suggest returns the candidate closest to unknown, or "" if none is
// within maxSuggestDistance. Ties keep the earliest candidate.
func suggest(unknown string, candidates []string) string {
	best := ""
	bestDistance := maxSuggestDistance + 1
	for _, c := range candidates {
		d := levenshtein.Distance(unknown, c, nil)
		// Short tokens are close to everything; require some overlap.
		if d >= len(c) || d >= len(unknown) {
			continue
		}
		if d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
