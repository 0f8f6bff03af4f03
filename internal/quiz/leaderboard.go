package quiz

import (
	"fmt"
	"sort"
	"strings"
)

var medals = [3]string{"🥇", "🥈", "🥉"}

// Rank orders records by correct count descending, in place. Stable
// sort, so equal scores keep the order the participants finished in.
func Rank(recs []ResultRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Correct > recs[j].Correct
	})
}

// FormatRanking renders the leaderboard: medal emoji for the top three,
// plain numbering after, with raw counts and the correct-answer share.
func FormatRanking(recs []ResultRecord) string {
	var b strings.Builder
	b.WriteString("Reyting:\n")
	for i, rec := range recs {
		rank := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}
		fmt.Fprintf(&b, "%s %s: %d ta to'g'ri, %d ta noto'g'ri (%.1f%%)\n",
			rank, rec.Name, rec.Correct, rec.Incorrect, rec.Percentage())
	}
	return b.String()
}
