package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	SkillsCatalogKey = "skills:catalog"
)

const (
	UserTTL          = 5 * time.Minute
	SkillsCatalogTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateSkillsCatalog(ctx context.Context) {
	Invalidate(ctx, SkillsCatalogKey)
}
