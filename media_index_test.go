package campaignkit

import (
	"bytes"
	"testing"
)

func testFile(key, uploadedAt string) MediaFile {
	return MediaFile{
		Key:        key,
		URL:        "/media?key=" + key,
		Name:       key,
		Size:       3,
		MIMEType:   "image/png",
		UploadedAt: uploadedAt,
	}
}

func TestMediaIndexEmpty(t *testing.T) {
	ix := mediaIndex{store: setupTestStore(t)}

	files, err := ix.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("empty index should list nothing, got %d", len(files))
	}
}

func TestMediaIndexInsertOrder(t *testing.T) {
	ix := mediaIndex{store: setupTestStore(t)}

	older := testFile("uploads/older.png", "2026-01-01T10:00:00Z")
	newer := testFile("uploads/newer.png", "2026-02-01T10:00:00Z")

	// Insert out of order; List must come back newest first.
	if err := ix.Insert(older); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := ix.Insert(newer); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	files, err := ix.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("List count = %d, want 2", len(files))
	}
	if files[0].Key != newer.Key {
		t.Errorf("first entry = %s, want %s", files[0].Key, newer.Key)
	}
}

func TestMediaIndexGetResolvesBytes(t *testing.T) {
	s := setupTestStore(t)
	ix := mediaIndex{store: s}

	file := testFile("uploads/pic.png", "2026-01-15T10:00:00Z")
	if err := s.PutBlob(file.Key, []byte("png")); err != nil {
		t.Fatalf("PutBlob failed: %v", err)
	}
	if err := ix.Insert(file); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, data, err := ix.Get(file.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", got.MIMEType)
	}
	if !bytes.Equal(data, []byte("png")) {
		t.Errorf("data = %q, want png", data)
	}
}

func TestMediaIndexGetMissing(t *testing.T) {
	s := setupTestStore(t)
	ix := mediaIndex{store: s}

	// Not in the index at all.
	if _, _, err := ix.Get("uploads/nope.png"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for unindexed key, got %v", err)
	}

	// In the index, but the blob is gone.
	orphan := testFile("uploads/orphan.png", "2026-01-01T10:00:00Z")
	if err := ix.Insert(orphan); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, _, err := ix.Get(orphan.Key); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing blob, got %v", err)
	}
}

func TestMediaIndexRemove(t *testing.T) {
	s := setupTestStore(t)
	ix := mediaIndex{store: s}

	file := testFile("uploads/gone.png", "2026-01-15T10:00:00Z")
	if err := s.PutBlob(file.Key, []byte("png")); err != nil {
		t.Fatalf("PutBlob failed: %v", err)
	}
	if err := ix.Insert(file); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := ix.Remove(file.Key); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	files, err := ix.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("index should be empty after Remove, got %d entries", len(files))
	}
	if _, err := s.GetBlob(file.Key); err != ErrNotFound {
		t.Errorf("blob should be deleted, got %v", err)
	}
}

func TestMediaIndexToleratesCorruption(t *testing.T) {
	s := setupTestStore(t)
	ix := mediaIndex{store: s}

	// Not an array at all: reads as empty.
	if err := s.PutBlob(mediaIndexKey, []byte(`{"oops": true}`)); err != nil {
		t.Fatalf("PutBlob failed: %v", err)
	}
	files, err := ix.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("malformed index should read as empty, got %d", len(files))
	}

	// Entries missing key or url are dropped on read.
	if err := s.PutBlob(mediaIndexKey, []byte(`[
		{"key":"uploads/ok.png","url":"/media?key=uploads%2Fok.png","uploadedAt":"2026-01-01T10:00:00Z"},
		{"key":"","url":"/media?key=x","uploadedAt":"2026-01-02T10:00:00Z"},
		{"key":"uploads/nourl.png","uploadedAt":"2026-01-03T10:00:00Z"}
	]`)); err != nil {
		t.Fatalf("PutBlob failed: %v", err)
	}
	files, err = ix.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(files) != 1 || files[0].Key != "uploads/ok.png" {
		t.Errorf("defensive filter failed: %+v", files)
	}
}
