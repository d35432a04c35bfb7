package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix         = "user:%d"
	ProductKeyPrefix      = "product:%d"
	ProductListKeyPrefix  = "products:list:%s"
	FeaturedKey           = "products:featured"
	CategoriesKey         = "categories"
	UniversitiesKey       = "universities"
	UnreadCountKeyPrefix  = "unread:%d"
	ConversationKeyPrefix = "conversations:%d"
)

const (
	UserTTL        = 5 * time.Minute
	ProductTTL     = 10 * time.Minute
	ProductListTTL = 30 * time.Second
	FeaturedTTL    = 5 * time.Minute
	CategoryTTL    = time.Hour
	UnreadTTL      = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func ProductKey(productID uint) string {
	return fmt.Sprintf(ProductKeyPrefix, productID)
}

// ProductListKey keys a filtered listing page by the filter's fingerprint.
func ProductListKey(fingerprint string) string {
	return fmt.Sprintf(ProductListKeyPrefix, fingerprint)
}

// FeaturedListKey keys the featured products list by the requested limit.
func FeaturedListKey(limit int) string {
	return fmt.Sprintf("%s:%d", FeaturedKey, limit)
}

func UnreadCountKey(userID uint) string {
	return fmt.Sprintf(UnreadCountKeyPrefix, userID)
}

func ConversationsKey(userID uint) string {
	return fmt.Sprintf(ConversationKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateProduct drops the product detail entry plus the listing and
// featured caches, which may embed stale copies of it.
func InvalidateProduct(ctx context.Context, productID uint) {
	Invalidate(ctx, ProductKey(productID))
	InvalidateFeatured(ctx)
	InvalidateProductLists(ctx)
}

// InvalidateProductLists drops every cached listing page. Listing keys carry a
// filter fingerprint, so a pattern scan is required.
func InvalidateProductLists(ctx context.Context) {
	invalidateMatching(ctx, "products:list:*")
}

// InvalidateFeatured drops every cached featured list. Featured keys carry the
// requested limit.
func InvalidateFeatured(ctx context.Context) {
	invalidateMatching(ctx, FeaturedKey+":*")
}

func invalidateMatching(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

func InvalidateUnread(ctx context.Context, userID uint) {
	Invalidate(ctx, UnreadCountKey(userID))
	Invalidate(ctx, ConversationsKey(userID))
}
