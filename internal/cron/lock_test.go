package cron

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, held := f.values[key]; held {
		return false, nil
	}
	f.values[key] = value.(string)
	return true, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func TestRedisLockAcquireIsExclusive(t *testing.T) {
	store := newFakeStore()
	first, err := NewRedisLock(store, "tf:test:lock", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := NewRedisLock(store, "tf:test:lock", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if claimed, err := first.Acquire(ctx); err != nil || !claimed {
		t.Fatalf("first acquire: claimed=%v err=%v", claimed, err)
	}
	if claimed, err := second.Acquire(ctx); err != nil || claimed {
		t.Fatalf("second acquire should lose: claimed=%v err=%v", claimed, err)
	}

	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if claimed, err := second.Acquire(ctx); err != nil || !claimed {
		t.Fatalf("acquire after release: claimed=%v err=%v", claimed, err)
	}
}

func TestRedisLockReleaseLeavesForeignLock(t *testing.T) {
	store := newFakeStore()
	lock, err := NewRedisLock(store, "tf:test:lock", time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	if claimed, _ := lock.Acquire(ctx); !claimed {
		t.Fatal("expected to claim the lock")
	}

	// Simulate expiry followed by another instance claiming the key.
	store.values["tf:test:lock"] = "other-instance"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["tf:test:lock"] != "other-instance" {
		t.Fatal("release must not delete a lock held by another instance")
	}
}

func TestNewRedisLockValidatesInputs(t *testing.T) {
	if _, err := NewRedisLock(nil, "key", time.Minute); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewRedisLock(newFakeStore(), "", time.Minute); err == nil {
		t.Fatal("expected error for empty key")
	}
}
