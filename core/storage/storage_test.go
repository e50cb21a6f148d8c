package storage

import (
	"path/filepath"
	"testing"
)

func open(t *testing.T) *Storage {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// TestPutGet exercises a single write transaction followed by a read
// transaction over the same bucket.
func TestPutGet(t *testing.T) {
	s := open(t)

	wt, err := NewWriteTransaction(s)
	if err != nil {
		t.Fatalf("NewWriteTransaction: %v", err)
	}
	if err := wt.Access().Put("things", []byte("k1"), []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := wt.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	rt, err := NewReadTransaction(s)
	if err != nil {
		t.Fatalf("NewReadTransaction: %v", err)
	}
	defer rt.Rollback()

	v, err := rt.Access().Get("things", []byte("k1"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != "v1" {
		t.Errorf("Get returned %q, want %q", v, "v1")
	}
}

// TestGetMissingBucket confirms a never-written bucket surfaces
// ErrNoSuchBucket rather than a generic error.
func TestGetMissingBucket(t *testing.T) {
	s := open(t)

	rt, err := NewReadTransaction(s)
	if err != nil {
		t.Fatalf("NewReadTransaction: %v", err)
	}
	defer rt.Rollback()

	_, err = rt.Access().Get("nope", []byte("k"))
	if err != ErrNoSuchBucket {
		t.Errorf("Get on missing bucket: got %v, want ErrNoSuchBucket", err)
	}
}

// TestDelClear confirms Del removes a single key and Clear empties the
// whole bucket while keeping it usable.
func TestDelClear(t *testing.T) {
	s := open(t)

	wt, _ := NewWriteTransaction(s)
	access := wt.Access()
	_ = access.Put("things", []byte("a"), []byte("1"))
	_ = access.Put("things", []byte("b"), []byte("2"))
	if err := wt.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	wt2, _ := NewWriteTransaction(s)
	access2 := wt2.Access()
	if err := access2.Del("things", []byte("a")); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := wt2.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	rt, _ := NewReadTransaction(s)
	v, _ := rt.Access().Get("things", []byte("a"))
	if v != nil {
		t.Errorf("expected %q deleted, got %q", "a", v)
	}
	v, _ = rt.Access().Get("things", []byte("b"))
	if string(v) != "2" {
		t.Errorf("expected %q to survive, got %q", "b", v)
	}
	rt.Rollback()

	wt3, _ := NewWriteTransaction(s)
	access3 := wt3.Access()
	if err := access3.Clear("things"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := wt3.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	rt2, _ := NewReadTransaction(s)
	defer rt2.Rollback()
	cur, err := rt2.Cursor("things")
	if err != nil {
		t.Fatalf("Cursor after Clear: %v", err)
	}
	if k, _ := cur.First(); k != nil {
		t.Errorf("expected empty bucket after Clear, found key %q", k)
	}
}

// TestDrop confirms Drop physically removes the bucket (a later Cursor
// call sees it as never created) and is a no-op on a name that never
// existed.
func TestDrop(t *testing.T) {
	s := open(t)

	wt, _ := NewWriteTransaction(s)
	_ = wt.Access().Put("things", []byte("k"), []byte("v"))
	_ = wt.Commit()

	wt2, _ := NewWriteTransaction(s)
	if err := wt2.Access().Drop("things"); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if err := wt2.Access().Drop("never-existed"); err != nil {
		t.Errorf("Drop on absent bucket should be a no-op, got %v", err)
	}
	if err := wt2.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	rt, _ := NewReadTransaction(s)
	defer rt.Rollback()
	_, err := rt.Cursor("things")
	if err != ErrNoSuchBucket {
		t.Errorf("Cursor after Drop: got %v, want ErrNoSuchBucket", err)
	}
}

// TestEnumerate confirms successive calls hand out strictly increasing
// serials, surviving across write transactions.
func TestEnumerate(t *testing.T) {
	s := open(t)

	first, err := s.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	second, err := s.Enumerate()
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if second <= first {
		t.Errorf("Enumerate not increasing: %d then %d", first, second)
	}
}
