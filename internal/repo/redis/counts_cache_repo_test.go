package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

func TestCountsCacheExpires(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewCountsCacheRepo(client)
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, enums.CategoryListings); err != nil || ok {
		t.Fatalf("expected cache miss, got ok=%v err=%v", ok, err)
	}

	want := model.QueueCounts{New: 4, InProgress: 2}
	if err := repo.Set(ctx, enums.CategoryListings, want, 15*time.Second); err != nil {
		t.Fatalf("set counts: %v", err)
	}

	got, ok, err := repo.Get(ctx, enums.CategoryListings)
	if err != nil || !ok {
		t.Fatalf("expected cache hit, got ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("unexpected counts: got=%+v want=%+v", got, want)
	}

	mr.FastForward(16 * time.Second)
	if _, ok, err := repo.Get(ctx, enums.CategoryListings); err != nil || ok {
		t.Fatalf("expected expiry after ttl, got ok=%v err=%v", ok, err)
	}
}

func TestCountsCacheZeroTTLSkipsWrite(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := NewCountsCacheRepo(client)
	if err := repo.Set(context.Background(), enums.CategoryReports, model.QueueCounts{New: 1}, 0); err != nil {
		t.Fatalf("set counts: %v", err)
	}
	if mr.Exists(countsKey(enums.CategoryReports)) {
		t.Fatalf("zero ttl must not write a key")
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
