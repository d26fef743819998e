package engine

import "sort"

// IsTerminal reports whether the board is full and holds no horizontally or
// vertically adjacent equal pair. It does not simulate moves.
func IsTerminal(b Board) bool {
	for _, row := range b {
		for _, v := range row {
			if v == 0 {
				return false
			}
		}
	}

	for r := range b {
		for c := range b[r] {
			if r+1 < len(b) && b[r][c] == b[r+1][c] {
				return false
			}
			if c+1 < len(b[r]) && b[r][c] == b[r][c+1] {
				return false
			}
		}
	}

	return true
}

// CountValues maps every cell value, including 0, to its occurrence count
func CountValues(b Board) map[int]int {
	counts := make(map[int]int)
	for _, row := range b {
		for _, v := range row {
			counts[v]++
		}
	}
	return counts
}

// CalculateReward returns the value created by merges between before and
// after, where after is the post-merge board of a single move (no spawn).
//
// Values are processed from largest to smallest. Each surplus tile of value v
// adds v to the reward and removes two tiles of v/2 from the before counts,
// since the merge consumed them.
func CalculateReward(before, after Board) int {
	pre := CountValues(before)
	post := CountValues(after)

	values := make([]int, 0, len(post))
	for v := range post {
		if v != 0 {
			values = append(values, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	reward := 0
	for _, v := range values {
		diff := post[v] - pre[v]
		if diff <= 0 {
			continue
		}
		reward += v * diff
		pre[v/2] -= 2 * diff
	}

	return reward
}
