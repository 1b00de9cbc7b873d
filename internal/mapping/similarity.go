package mapping

import (
	"regexp"
	"strings"
)

// minMatchScore is the floor for accepting a direct similarity match.
const minMatchScore = 0.3

// Pre-compiled patterns for name normalization.
var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)
	dateSynRe  = regexp.MustCompile(`(start|end)?(date|time)`)
	qtySynRe   = regexp.MustCompile(`(amount|quantity|value)`)
	costSynRe  = regexp.MustCompile(`(cost|price|fee)`)
)

// fieldAliases lists source-field aliases seen across the supported
// upstream APIs (Energi Data Service price areas, generic billing
// exports) per normalized target-name fragment. A target whose
// normalized name contains the key is matched against candidates
// containing any alias. Slice order keeps matching deterministic.
var fieldAliases = []struct {
	key     string
	aliases []string
}{
	{"organization", []string{"organization", "org", "company"}},
	{"location", []string{"location", "area", "pricearea", "connectedarea", "viaarea"}},
	{"accountnumber", []string{"accountnumber", "account", "accountid"}},
	{"recordstart", []string{"startdate", "start", "hourdk", "hourutc"}},
	{"recordend", []string{"enddate", "end", "hourdk", "hourutc"}},
	{"quantity", []string{"quantity", "amount", "sharemwh"}},
	{"totalcost", []string{"cost", "price", "shareppm"}},
}

// Normalize lowercases a field name, strips non-alphanumerics and
// collapses common synonym groups so "Start Date", "end_time" and
// "StartTime" all compare equal.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = dateSynRe.ReplaceAllString(s, "date")
	s = qtySynRe.ReplaceAllString(s, "quantity")
	s = costSynRe.ReplaceAllString(s, "cost")
	return s
}

// Similarity scores two field names in [0,1]: 1 for an exact normalized
// match, 0.8 for containment either way, otherwise an edit-distance
// ratio. Two empty normalized strings count as identical.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}

	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(na, nb))/float64(maxLen)
}

// BestMatch finds the candidate path that best matches the target field
// name. The curated alias table is consulted first; only when it yields
// nothing does direct similarity matching run, gated at minMatchScore.
// Ties resolve to the first candidate reaching the highest score, so
// results are stable on candidate order.
func BestMatch(target string, candidates []string) (string, float64, bool) {
	if len(candidates) == 0 {
		return "", 0, false
	}

	normTarget := Normalize(target)

	bestPath := ""
	bestScore := 0.0
	for _, entry := range fieldAliases {
		if !strings.Contains(normTarget, entry.key) {
			continue
		}
		for _, candidate := range candidates {
			normCandidate := Normalize(candidate)
			for _, alias := range entry.aliases {
				if !strings.Contains(normCandidate, alias) {
					continue
				}
				// Score against the alias that fired, not the full
				// target name: a curated match should not be dragged
				// below the confidence threshold by an unrelated
				// target spelling.
				if score := Similarity(alias, normCandidate); score > bestScore {
					bestScore = score
					bestPath = candidate
				}
			}
		}
	}
	if bestPath != "" {
		return bestPath, bestScore, true
	}

	for _, candidate := range candidates {
		score := Similarity(normTarget, Normalize(candidate))
		if score > bestScore && score > minMatchScore {
			bestScore = score
			bestPath = candidate
		}
	}
	if bestPath == "" {
		return "", 0, false
	}
	return bestPath, bestScore, true
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for i := 0; i <= len(a); i++ {
		prev[i] = i
	}
	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[i] = min3(curr[i-1]+1, prev[i]+1, prev[i-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
