package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateFormCache drops every cached view of a form: the form
// itself, its analytics, its existence flag and the owner's listings.
func InvalidateFormCache(ctx context.Context, cm *CacheManager, formID, adminID uuid.UUID) {
	SafeDelete(ctx, cm.Form, fmt.Sprintf("id:%s", formID))
	SafeDelete(ctx, cm.Exists, fmt.Sprintf("form:%s", formID))
	SafeInvalidatePattern(ctx, cm.Form, fmt.Sprintf("admin:%s:*", adminID))
	SafeInvalidatePattern(ctx, cm.Analytics, fmt.Sprintf("form:%s*", formID))
}

// InvalidateAnalyticsCache drops cached analytics after a submission
// without touching the cached form itself.
func InvalidateAnalyticsCache(ctx context.Context, cm *CacheManager, formID uuid.UUID) {
	SafeInvalidatePattern(ctx, cm.Analytics, fmt.Sprintf("form:%s*", formID))
}
