// Package store persists domains. Every implementation returns
// sentinel.ErrNotFound for unknown ids and lists in creation order.
package store

import (
	"slices"
	"strings"

	"domainnav/internal/domain/models"
)

// sortDomains orders by creation time, then id, so every backend lists the
// same way.
func sortDomains(domains []*models.Domain) {
	slices.SortStableFunc(domains, func(a, b *models.Domain) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
}
