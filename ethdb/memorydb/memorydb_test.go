package memorydb

import (
	"bytes"
	"testing"
)

func TestDeleteNonExistent(t *testing.T) {
	db := New()
	if err := db.Delete([]byte("nonexistent")); err != nil {
		t.Fatalf("delete of non-existent key should not error: %v", err)
	}
}

func TestLen(t *testing.T) {
	db := New()
	if db.Len() != 0 {
		t.Fatal("expected length 0")
	}
	db.Put([]byte("a"), []byte("1"))
	db.Put([]byte("b"), []byte("2"))
	if db.Len() != 2 {
		t.Fatalf("expected length 2, got %d", db.Len())
	}
	db.Delete([]byte("a"))
	if db.Len() != 1 {
		t.Fatalf("expected length 1, got %d", db.Len())
	}
}

func TestOverwrite(t *testing.T) {
	db := New()
	key := []byte("key-ow")
	db.Put(key, []byte("first"))
	db.Put(key, []byte("second"))
	got, _ := db.Get(key)
	if !bytes.Equal(got, []byte("second")) {
		t.Fatalf("expected overwritten value 'second', got %q", got)
	}
}

func TestBatchDeleteMixed(t *testing.T) {
	db := New()
	db.Put([]byte("dk1"), []byte("dv1"))
	db.Put([]byte("dk2"), []byte("dv2"))

	b := db.NewBatch()
	b.Delete([]byte("dk1"))
	b.Put([]byte("dk3"), []byte("dv3"))
	b.Write()

	if ok, _ := db.Has([]byte("dk1")); ok {
		t.Fatal("dk1 should be deleted by batch")
	}
	if ok, _ := db.Has([]byte("dk2")); !ok {
		t.Fatal("dk2 should still exist")
	}
	if ok, _ := db.Has([]byte("dk3")); !ok {
		t.Fatal("dk3 should be created by batch")
	}
}

func TestBatchValueSize(t *testing.T) {
	db := New()
	b := db.NewBatch()
	if b.ValueSize() != 0 {
		t.Fatal("expected initial batch size 0")
	}
	b.Put([]byte("k"), []byte("v"))
	if b.ValueSize() != 2 {
		t.Fatalf("expected batch size 2, got %d", b.ValueSize())
	}
}

func TestIteratorPrefixAndOrder(t *testing.T) {
	db := New()
	db.Put([]byte("x-2"), []byte("v2"))
	db.Put([]byte("x-1"), []byte("v1"))
	db.Put([]byte("y-1"), []byte("v3"))

	it := db.NewIterator([]byte("x-"))
	defer it.Release()

	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	if len(keys) != 2 || keys[0] != "x-1" || keys[1] != "x-2" {
		t.Fatalf("expected sorted [x-1 x-2], got %v", keys)
	}
}

func TestIteratorSnapshotIsolation(t *testing.T) {
	db := New()
	db.Put([]byte("z-1"), []byte("val"))

	it := db.NewIterator([]byte("z-"))
	defer it.Release()

	db.Put([]byte("z-2"), []byte("val2"))

	count := 0
	for it.Next() {
		count++
	}
	if count != 1 {
		t.Fatalf("iterator should only see snapshot at creation, got %d items", count)
	}
}
