package identity

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeKV struct {
	values map[string]string
	puts   int
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) GetValue(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeKV) PutValueIfAbsent(_ context.Context, key, value string) (string, error) {
	f.puts++
	if existing, ok := f.values[key]; ok {
		return existing, nil
	}
	f.values[key] = value
	return value, nil
}

func TestGetOrCreateGeneratesOnce(t *testing.T) {
	kv := newFakeKV()
	p := NewStoreProvider(kv)
	ctx := context.Background()

	first, err := p.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("first GetOrCreate: %v", err)
	}
	if !strings.HasPrefix(first, "user_") {
		t.Errorf("generated id %q should have user_ prefix", first)
	}

	second, err := p.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("identifier changed between calls (-first +second):\n%s", diff)
	}
	if kv.puts != 1 {
		t.Errorf("expected a single store write, got %d", kv.puts)
	}
}

func TestGetOrCreateReusesPersistedValue(t *testing.T) {
	kv := newFakeKV()
	kv.values[storageKey] = "user_persisted"

	got, err := NewStoreProvider(kv).GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if diff := cmp.Diff("user_persisted", got); diff != "" {
		t.Errorf("GetOrCreate() mismatch (-want +got):\n%s", diff)
	}
	if kv.puts != 0 {
		t.Errorf("expected no store write for persisted id, got %d", kv.puts)
	}
}

func TestGetOrCreateFirstWriterWins(t *testing.T) {
	kv := newFakeKV()
	kv.values[storageKey] = "user_first"

	// A second provider instance must adopt the stored value rather
	// than overwrite it.
	p := NewStoreProvider(kv)
	got, err := p.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if diff := cmp.Diff("user_first", got); diff != "" {
		t.Errorf("GetOrCreate() mismatch (-want +got):\n%s", diff)
	}
}
