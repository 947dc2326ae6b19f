package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// fetchPageSize is the hard per-request row ceiling imposed by the backing
// store. Callers that need a complete result set must page.
const fetchPageSize = 1000

// fetchAllPages assembles the complete result set for an equality filter by
// requesting successive ranges until a short page arrives. Ordering is by
// creation timestamp descending so pages are stable across requests. Each
// page request carries the fixed backend timeout. Any page failure aborts
// the loop and surfaces the error; a partial result is never returned
// silently.
func fetchAllPages[T any](ctx context.Context, db *gorm.DB, conds map[string]interface{}, order string) ([]T, error) {
	if order == "" {
		order = "created_at DESC"
	}

	var results []T
	for page := 0; ; page++ {
		var batch []T
		pageCtx, cancel := withBackendTimeout(ctx)
		query := db.WithContext(pageCtx).Order(order).
			Limit(fetchPageSize).
			Offset(page * fetchPageSize)
		if len(conds) > 0 {
			query = query.Where(conds)
		}
		err := query.Find(&batch).Error
		cancel()
		if err != nil {
			return nil, fmt.Errorf("paginated fetch failed on page %d: %w", page, err)
		}

		results = append(results, batch...)
		if len(batch) < fetchPageSize {
			return results, nil
		}
	}
}
