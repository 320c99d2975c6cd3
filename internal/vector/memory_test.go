package vector

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMemoryIndex_SearchRanksByInnerProduct(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	err = idx.Add(ctx,
		[]string{"far", "near", "mid"},
		[][]float32{
			{0, 1, 0},
			{1, 0, 0},
			{0.7, 0.7, 0},
		})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].ID != "near" || hits[1].ID != "mid" {
		t.Errorf("hit order = %s, %s; want near, mid", hits[0].ID, hits[1].ID)
	}
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewMemoryIndex(3)
	ctx := context.Background()
	if err := idx.Add(ctx, []string{"a"}, [][]float32{{1, 0}}); err == nil {
		t.Error("expected error adding wrong-dimension vector")
	}
	if _, err := idx.Search(ctx, []float32{1, 0}, 1); err == nil {
		t.Error("expected error searching with wrong-dimension query")
	}
}

func TestMemoryIndex_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	ctx := context.Background()

	idx, _ := NewMemoryIndex(2)
	if err := idx.Add(ctx, []string{"a", "b"}, [][]float32{{1, 0}, {0, 1}}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, _ := NewMemoryIndex(2)
	if err := loaded.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Size() != 2 {
		t.Fatalf("loaded size = %d, want 2", loaded.Size())
	}
	hits, err := loaded.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if hits[0].ID != "a" {
		t.Errorf("top hit after reload = %s, want a", hits[0].ID)
	}
}

func TestMemoryIndex_LoadMissingFileNoop(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	if err := idx.Load(filepath.Join(t.TempDir(), "absent.bin")); err != nil {
		t.Fatalf("missing file should be a no-op: %v", err)
	}
	if idx.Size() != 0 {
		t.Errorf("size = %d, want 0", idx.Size())
	}
}

func TestMemoryIndex_LoadDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	idx, _ := NewMemoryIndex(2)
	_ = idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 0}})
	if err := idx.Save(path); err != nil {
		t.Fatal(err)
	}
	other, _ := NewMemoryIndex(3)
	if err := other.Load(path); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestMeta_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	metas := []Meta{
		{ID: "p1", Name: "Prinsep Ghat", Category: "riverside", Snippet: "colonial-era ghat"},
	}
	if err := SaveMeta(path, metas); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadMeta(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["p1"].Name != "Prinsep Ghat" {
		t.Errorf("loaded meta = %+v", got)
	}
}

func TestMeta_MissingFileEmptyMap(t *testing.T) {
	got, err := LoadMeta(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("meta = %v, want empty", got)
	}
}
