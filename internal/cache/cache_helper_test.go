package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T, prefix string) *CacheHelper {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheHelper(client, prefix)
}

type cachedForm struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestCacheHelper_SetGetRoundTrip(t *testing.T) {
	helper := newTestHelper(t, "form:")
	ctx := context.Background()

	want := cachedForm{ID: "f1", Title: "Course Feedback"}
	if err := helper.Set(ctx, "id:f1", want, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got cachedForm
	if err := helper.Get(ctx, "id:f1", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper := newTestHelper(t, "form:")

	var dest cachedForm
	if err := helper.Get(context.Background(), "id:missing", &dest); err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_Delete(t *testing.T) {
	helper := newTestHelper(t, "form:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:f1", cachedForm{ID: "f1"}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := helper.Delete(ctx, "id:f1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var dest cachedForm
	if err := helper.Get(ctx, "id:f1", &dest); err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound after delete, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper := newTestHelper(t, "form:")
	ctx := context.Background()

	keys := []string{"admin:a1:list:1", "admin:a1:list:2", "admin:a2:list:1"}
	for _, key := range keys {
		if err := helper.Set(ctx, key, cachedForm{ID: key}, time.Minute); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "admin:a1:*"); err != nil {
		t.Fatalf("InvalidatePattern: %v", err)
	}

	var dest cachedForm
	if err := helper.Get(ctx, "admin:a1:list:1", &dest); err != ErrCacheNotFound {
		t.Errorf("expected admin:a1 keys gone, got %v", err)
	}
	if err := helper.Get(ctx, "admin:a2:list:1", &dest); err != nil {
		t.Errorf("expected admin:a2 keys untouched, got %v", err)
	}
}

func TestInvalidateFormCache_DropsListingPages(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cm := NewCacheManager(client)
	ctx := context.Background()

	formID := uuid.New()
	ownerID := uuid.New()
	otherID := uuid.New()

	ownerPage := "admin:" + ownerID.String() + ":list:10:0:"
	otherPage := "admin:" + otherID.String() + ":list:10:0:"
	formKey := "id:" + formID.String()
	for _, key := range []string{ownerPage, otherPage, formKey} {
		if err := cm.Form.Set(ctx, key, cachedForm{ID: key}, time.Minute); err != nil {
			t.Fatalf("Set(%s): %v", key, err)
		}
	}

	InvalidateFormCache(ctx, cm, formID, ownerID)

	var dest cachedForm
	if err := cm.Form.Get(ctx, ownerPage, &dest); err != ErrCacheNotFound {
		t.Errorf("expected owner listing page gone, got %v", err)
	}
	if err := cm.Form.Get(ctx, formKey, &dest); err != ErrCacheNotFound {
		t.Errorf("expected cached form gone, got %v", err)
	}
	if err := cm.Form.Get(ctx, otherPage, &dest); err != nil {
		t.Errorf("expected other admin's listing untouched, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper := newTestHelper(t, "form:")
	ctx := context.Background()

	calls := 0
	var got cachedForm
	err := helper.CacheOrExecute(ctx, "id:f1", &got, time.Minute, func() (interface{}, error) {
		calls++
		return cachedForm{ID: "f1", Title: "Fetched"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}
	if got.Title != "Fetched" {
		t.Errorf("got %+v", got)
	}

	// Once the value is cached the fetch function must not run.
	if err := helper.Set(ctx, "id:f1", got, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var cached cachedForm
	err = helper.CacheOrExecute(ctx, "id:f1", &cached, time.Minute, func() (interface{}, error) {
		return nil, errors.New("fetch should not run on cache hit")
	})
	if err != nil {
		t.Fatalf("CacheOrExecute (hit): %v", err)
	}
	if cached.ID != "f1" {
		t.Errorf("got %+v", cached)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "form:")
	ctx := context.Background()

	if err := helper.Set(ctx, "id:f1", cachedForm{}, time.Minute); err != nil {
		t.Errorf("Set with nil client: %v", err)
	}
	if err := helper.Delete(ctx, "id:f1"); err != nil {
		t.Errorf("Delete with nil client: %v", err)
	}

	var dest cachedForm
	if err := helper.Get(ctx, "id:f1", &dest); err != ErrCacheNotAvailable {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}

	// CacheOrExecute must still serve the fetched value.
	var got cachedForm
	err := helper.CacheOrExecute(ctx, "id:f1", &got, time.Minute, func() (interface{}, error) {
		return cachedForm{ID: "f1"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute with nil client: %v", err)
	}
	if got.ID != "f1" {
		t.Errorf("got %+v", got)
	}
}
