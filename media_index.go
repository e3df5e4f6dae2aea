package campaignkit

import (
	"encoding/json"
	"sort"
)

// mediaIndexKey is the blob key of the JSON catalog of uploaded files.
const mediaIndexKey = "media/index.json"

// mediaIndex maintains the ordered catalog of uploaded files on top of the
// blob store. Insert and Remove are read-modify-write over a single index
// document with no optimistic concurrency control: two admins racing can
// lose one catalog entry (never the blob itself). Accepted for the expected
// single-admin usage.
type mediaIndex struct {
	store *Store
}

// List returns the catalog sorted descending by upload time. An absent or
// malformed index reads as empty; entries missing key or url are dropped
// as defense against partial writes.
func (ix mediaIndex) List() ([]MediaFile, error) {
	raw, err := ix.store.GetBlob(mediaIndexKey)
	if err == ErrNotFound {
		return []MediaFile{}, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []MediaFile
	if err := json.Unmarshal(raw, &entries); err != nil {
		return []MediaFile{}, nil
	}
	files := entries[:0]
	for _, f := range entries {
		if f.Key == "" || f.URL == "" {
			continue
		}
		files = append(files, f)
	}
	sortByUploadedAt(files)
	if files == nil {
		files = []MediaFile{}
	}
	return files, nil
}

// Insert prepends a new entry and writes the whole catalog back.
func (ix mediaIndex) Insert(file MediaFile) error {
	files, err := ix.List()
	if err != nil {
		return err
	}
	files = append([]MediaFile{file}, files...)
	sortByUploadedAt(files)
	return ix.write(files)
}

// Remove deletes the blob under key, then drops its catalog entry.
func (ix mediaIndex) Remove(key string) error {
	if err := ix.store.DeleteBlob(key); err != nil {
		return err
	}
	files, err := ix.List()
	if err != nil {
		return err
	}
	kept := files[:0]
	for _, f := range files {
		if f.Key != key {
			kept = append(kept, f)
		}
	}
	return ix.write(kept)
}

// Get resolves a key to its catalog entry and stored bytes. Returns
// ErrNotFound when either side is missing.
func (ix mediaIndex) Get(key string) (MediaFile, []byte, error) {
	files, err := ix.List()
	if err != nil {
		return MediaFile{}, nil, err
	}
	for _, f := range files {
		if f.Key == key {
			data, err := ix.store.GetBlob(key)
			if err != nil {
				return MediaFile{}, nil, err
			}
			return f, data, nil
		}
	}
	return MediaFile{}, nil, ErrNotFound
}

func (ix mediaIndex) write(files []MediaFile) error {
	raw, err := json.Marshal(files)
	if err != nil {
		return err
	}
	return ix.store.PutBlob(mediaIndexKey, raw)
}

// sortByUploadedAt orders newest first. UploadedAt is RFC 3339, so string
// order matches time order. Stable to keep insertion order for equal
// timestamps.
func sortByUploadedAt(files []MediaFile) {
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].UploadedAt > files[j].UploadedAt
	})
}
