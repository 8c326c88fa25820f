package leaderboard

import "rankboard/core"

// Sort orders records by descending score using a top-down merge sort.
// Records with equal scores keep their relative input order. The slice is
// sorted in place and returned for convenience; nil and single-element
// inputs come back untouched.
func Sort(records []*core.Record) []*core.Record {
	if len(records) <= 1 {
		return records
	}
	mid := len(records) / 2

	left := make([]*core.Record, mid)
	right := make([]*core.Record, len(records)-mid)
	copy(left, records[:mid])
	copy(right, records[mid:])

	Sort(left)
	Sort(right)
	merge(records, left, right)
	return records
}

// merge writes left and right into dst in descending order. On equal scores
// the left element goes first, which is what makes Sort stable.
func merge(dst, left, right []*core.Record) {
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if left[i].Score() >= right[j].Score() {
			dst[k] = left[i]
			i++
		} else {
			dst[k] = right[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])
}
