package repository

import (
	"context"
	"testing"
	"time"
)

func TestRedisRepoDisabled(t *testing.T) {
	repo := NewRedisRepo(nil, time.Minute)
	ctx := context.Background()

	if err := repo.SaveStructCached(ctx, "majors", []string{"a"}); err != nil {
		t.Errorf("save on disabled cache returned error: %v", err)
	}

	var out []string
	found, err := repo.GetStructCached(ctx, "majors", &out)
	if err != nil {
		t.Errorf("get on disabled cache returned error: %v", err)
	}
	if found {
		t.Errorf("disabled cache must always miss")
	}

	if err := repo.Delete(ctx, "majors"); err != nil {
		t.Errorf("delete on disabled cache returned error: %v", err)
	}
}
