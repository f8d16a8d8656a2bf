package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"krllint/internal/diag"
	"krllint/internal/source"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sp := source.Span{File: 3, Start: 4, End: 9}
	diags := []diag.Diagnostic{{
		Severity: diag.SevInfo,
		Code:     diag.KrlKeywordCase,
		Message:  "keyword 'def' should be written 'DEF'",
		Primary:  sp,
		Notes:    []diag.Note{{Span: sp, Msg: "here"}},
		Fixes: []diag.Fix{{
			ID:    "KRL007@3:4-9",
			Title: "write DEF",
			Edits: []diag.TextEdit{{Span: sp, NewText: "DEF", OldText: "def"}},
		}},
	}}

	key := cacheKey([32]byte{1}, Digest{2})
	if err := cache.Put(key, &DiskPayload{Path: "main.src", Diagnostics: detach(diags)}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got DiskPayload
	ok, err := cache.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if diff := cmp.Diff(diags, rebind(got.Diagnostics, 3)); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
	if got.Diagnostics[0].Primary.File != 0 || got.Diagnostics[0].Fixes[0].Edits[0].Span.File != 0 {
		t.Fatal("stored spans must not carry a FileID")
	}

	if ok, err := cache.Get(cacheKey([32]byte{1}, Digest{3}), &got); ok || err != nil {
		t.Fatalf("other key: Get = %v, %v; want miss", ok, err)
	}
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	key := cacheKey([32]byte{7}, Digest{})
	path := cache.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte{0xc1, 0xff, 0x00}, 0o600); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if _, err := cache.Get(key, &out); err == nil {
		t.Fatal("expected a decode error")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("after DropAll: Get = %v, %v; want miss", ok, err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(Digest{}, &DiskPayload{}); ok || err != nil {
		t.Fatalf("nil cache: Get = %v, %v", ok, err)
	}
}
