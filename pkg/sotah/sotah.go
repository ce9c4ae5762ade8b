package sotah

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
)

// DefaultPageSize - achievements per page
const DefaultPageSize = 100

type achievementsByCompletion blizzard.Achievements

func (by achievementsByCompletion) Len() int      { return len(by) }
func (by achievementsByCompletion) Swap(i, j int) { by[i], by[j] = by[j], by[i] }
func (by achievementsByCompletion) Less(i, j int) bool {
	a, b := by[i], by[j]
	if a.IsCompleted() != b.IsCompleted() {
		return a.IsCompleted()
	}
	if !a.IsCompleted() {
		return false
	}

	return *a.CompletedTimestamp > *b.CompletedTimestamp
}

// SortAchievements returns a sorted copy: completed first, most recently completed first, otherwise input order
func SortAchievements(achievements blizzard.Achievements) blizzard.Achievements {
	out := make(blizzard.Achievements, len(achievements))
	copy(out, achievements)
	sort.Stable(achievementsByCompletion(out))

	return out
}

// PageResult - one page of sorted achievements
type PageResult struct {
	Page       int
	TotalPages int
	PageSize   int
	TotalItems int
	Items      blizzard.Achievements
}

// HasPrevious - whether a page precedes this one
func (result PageResult) HasPrevious() bool {
	return result.Page > 1
}

// HasNext - whether a page follows this one
func (result PageResult) HasNext() bool {
	return result.Page < result.TotalPages
}

// PreviousPage - the preceding page number
func (result PageResult) PreviousPage() int {
	if !result.HasPrevious() {
		return result.Page
	}

	return result.Page - 1
}

// NextPage - the following page number
func (result PageResult) NextPage() int {
	if !result.HasNext() {
		return result.Page
	}

	return result.Page + 1
}

// Paginate sorts the achievements and slices out the requested page, clamping the page into range
func Paginate(achievements blizzard.Achievements, page int, pageSize int) PageResult {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	sorted := SortAchievements(achievements)
	totalItems := len(sorted)
	totalPages := (totalItems + pageSize - 1) / pageSize

	if totalPages == 0 || page < 1 {
		page = 1
	}
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start > totalItems {
		start = totalItems
	}
	end := start + pageSize
	if end > totalItems {
		end = totalItems
	}

	return PageResult{
		Page:       page,
		TotalPages: totalPages,
		PageSize:   pageSize,
		TotalItems: totalItems,
		Items:      sorted[start:end],
	}
}

// FilterAchievements keeps the achievements whose name fuzzy-matches the query, in input order
func FilterAchievements(achievements blizzard.Achievements, query string) blizzard.Achievements {
	query = strings.TrimSpace(query)
	if query == "" {
		return achievements
	}

	out := blizzard.Achievements{}
	for _, a := range achievements {
		if !fuzzy.MatchFold(query, a.Name()) {
			continue
		}

		out = append(out, a)
	}

	return out
}
