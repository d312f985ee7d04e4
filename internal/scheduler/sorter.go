package scheduler

import "sort"

// RankSort orders scored tasks by the deterministic ranking rules:
// 1. Score: higher first
// 2. Input position: earlier first
func RankSort(tasks []ScoredTask) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Idx < b.Idx
	})
}
