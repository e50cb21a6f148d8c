package collection

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/asaidimu/ledb/core/filter"
	"github.com/asaidimu/ledb/core/modify"
	"github.com/asaidimu/ledb/core/storage"
)

func openCollection(t *testing.T, name string) *Collection {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coll.db")
	st, err := storage.Open(path, nil)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	c, err := Open(st, CollectionDef{Serial: 1, Name: name}, nil)
	if err != nil {
		t.Fatalf("collection.Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// TestInsertAssignsIncreasingIds confirms each Insert returns an id
// strictly greater than the last, regardless of insertion order within a
// single goroutine.
func TestInsertAssignsIncreasingIds(t *testing.T) {
	c := openCollection(t, "docs")

	var last Primary
	for i := 0; i < 5; i++ {
		id, err := c.Insert(Document{"n": i})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if id <= last {
			t.Fatalf("id %d did not increase past %d", id, last)
		}
		last = id
	}
}

// TestGetAfterInsert confirms a fetched document carries the assigned
// Primary under IDField and its original fields.
func TestGetAfterInsert(t *testing.T) {
	c := openCollection(t, "docs")

	id, err := c.Insert(Document{"name": "Ada"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	doc, ok, err := c.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get reported absent after Insert")
	}
	if doc["name"] != "Ada" {
		t.Errorf("name = %v, want Ada", doc["name"])
	}
	if doc[IDField] != id {
		t.Errorf("%s = %v, want %d", IDField, doc[IDField], id)
	}
}

// TestGetMissing confirms Get on an id that was never inserted reports
// absent without an error.
func TestGetMissing(t *testing.T) {
	c := openCollection(t, "docs")

	_, ok, err := c.Get(999)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get reported present for an id never inserted")
	}
}

// TestPutReplacesDocument confirms Put overwrites the document at its own
// Primary.
func TestPutReplacesDocument(t *testing.T) {
	c := openCollection(t, "docs")

	id, err := c.Insert(Document{"name": "Ada"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := c.Put(Document{IDField: id, "name": "Ada Lovelace"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	doc, ok, err := c.Get(id)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if doc["name"] != "Ada Lovelace" {
		t.Errorf("name = %v, want Ada Lovelace", doc["name"])
	}
}

// TestPutMissingIdentifier confirms Put rejects a document with no
// Primary.
func TestPutMissingIdentifier(t *testing.T) {
	c := openCollection(t, "docs")

	err := c.Put(Document{"name": "no id"})
	if !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("Put without id: got %v, want ErrMissingIdentifier", err)
	}
}

// TestDelete confirms Delete removes a document and reports false, not an
// error, on a second call.
func TestDelete(t *testing.T) {
	c := openCollection(t, "docs")

	id, err := c.Insert(Document{"name": "Ada"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	deleted, err := c.Delete(id)
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}

	again, err := c.Delete(id)
	if err != nil {
		t.Fatalf("Delete (second): %v", err)
	}
	if again {
		t.Error("second Delete of the same id reported true")
	}

	_, ok, err := c.Get(id)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if ok {
		t.Error("document still present after Delete")
	}
}

// TestUpdateAppliesModifyToEachMatch confirms Update applies the given
// Modify to every document matched by filter and reports how many changed.
func TestUpdateAppliesModifyToEachMatch(t *testing.T) {
	c := openCollection(t, "docs")

	id1, _ := c.Insert(Document{"status": "pending"})
	id2, _ := c.Insert(Document{"status": "pending"})
	_, _ = c.Insert(Document{"status": "done"})

	n, err := c.Update(filter.Eq("status", "pending"), modify.Set("status", "active"))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n != 2 {
		t.Fatalf("Update changed %d documents, want 2", n)
	}

	for _, id := range []Primary{id1, id2} {
		doc, _, _ := c.Get(id)
		if doc["status"] != "active" {
			t.Errorf("id %d status = %v, want active", id, doc["status"])
		}
	}
}

// TestRemoveDeletesEachMatch confirms Remove deletes every document
// selected by filter.
func TestRemoveDeletesEachMatch(t *testing.T) {
	c := openCollection(t, "docs")

	_, _ = c.Insert(Document{"status": "pending"})
	_, _ = c.Insert(Document{"status": "pending"})
	keepID, _ := c.Insert(Document{"status": "done"})

	n, err := c.Remove(filter.Eq("status", "pending"))
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if n != 2 {
		t.Fatalf("Remove deleted %d documents, want 2", n)
	}

	_, ok, _ := c.Get(keepID)
	if !ok {
		t.Error("Remove deleted a document it should have kept")
	}
}

// TestPurgeEmptiesCollection confirms Purge removes every document.
func TestPurgeEmptiesCollection(t *testing.T) {
	c := openCollection(t, "docs")

	id, _ := c.Insert(Document{"x": 1})
	if err := c.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}

	_, ok, err := c.Get(id)
	if err != nil {
		t.Fatalf("Get after Purge: %v", err)
	}
	if ok {
		t.Error("document survived Purge")
	}
}

// TestLoadReplacesContents confirms Load purges the collection first, then
// writes every supplied document at its own Primary.
func TestLoadReplacesContents(t *testing.T) {
	c := openCollection(t, "docs")

	_, _ = c.Insert(Document{"stale": true})

	n, err := c.Load([]Document{
		{IDField: Primary(10), "name": "A"},
		{IDField: Primary(20), "name": "B"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Fatalf("Load reported %d, want 2", n)
	}

	doc, ok, _ := c.Get(10)
	if !ok || doc["name"] != "A" {
		t.Errorf("Get(10) = %v, ok=%v", doc, ok)
	}

	all, err := c.FindAll(nil, DefaultOrder())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("FindAll returned %d documents, want 2", len(all))
	}
}

// TestCreateIndexBackfillsExistingDocuments confirms CreateIndex populates
// the new index from documents already present, so ordering by it works
// immediately.
func TestCreateIndexBackfillsExistingDocuments(t *testing.T) {
	c := openCollection(t, "docs")

	_, _ = c.Insert(Document{"price": int64(30)})
	_, _ = c.Insert(Document{"price": int64(10)})
	_, _ = c.Insert(Document{"price": int64(20)})

	created, err := c.CreateIndex("price", NonUnique, KeyInt)
	if err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if !created {
		t.Fatal("CreateIndex reported no-op on a fresh field")
	}

	docs, err := c.FindAll(nil, OrderByField("price", Asc))
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("FindAll returned %d documents, want 3", len(docs))
	}
	prices := []any{docs[0]["price"], docs[1]["price"], docs[2]["price"]}
	want := []any{int64(10), int64(20), int64(30)}
	for i := range want {
		if prices[i] != want[i] {
			t.Errorf("prices = %v, want %v", prices, want)
		}
	}
}

// TestIndexStaysConsistentAcrossUpdate confirms an attached index reflects
// a document's new value after Update changes the indexed field.
func TestIndexStaysConsistentAcrossUpdate(t *testing.T) {
	c := openCollection(t, "docs")

	if _, err := c.CreateIndex("price", NonUnique, KeyInt); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}

	id, _ := c.Insert(Document{"price": int64(10)})
	_, _ = c.Insert(Document{"price": int64(20)})

	if _, err := c.Update(filter.Eq(IDField, id), modify.Set("price", int64(50))); err != nil {
		t.Fatalf("Update: %v", err)
	}

	docs, err := c.FindAll(nil, OrderByField("price", Asc))
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(docs) != 2 || docs[0]["price"] != int64(20) || docs[1]["price"] != int64(50) {
		t.Fatalf("unexpected order after update: %v", docs)
	}
}

// TestDropIndexRemovesOrderingCapability confirms ordering by a dropped
// index's field fails with ErrMissingIndex.
func TestDropIndexRemovesOrderingCapability(t *testing.T) {
	c := openCollection(t, "docs")

	if _, err := c.CreateIndex("price", NonUnique, KeyInt); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if _, err := c.DropIndex("price"); err != nil {
		t.Fatalf("DropIndex: %v", err)
	}

	_, err := c.FindAll(nil, OrderByField("price", Asc))
	if !errors.Is(err, ErrMissingIndex) {
		t.Errorf("FindAll after DropIndex: got %v, want ErrMissingIndex", err)
	}
}

// TestSetIndexesIsAdditive confirms SetIndexes never drops an index that
// already exists for a field it doesn't mention.
func TestSetIndexesIsAdditive(t *testing.T) {
	c := openCollection(t, "docs")

	if _, err := c.CreateIndex("price", NonUnique, KeyInt); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
	if err := c.SetIndexes(KeyFields{{Path: "name", Kind: Unique, Key: KeyString}}); err != nil {
		t.Fatalf("SetIndexes: %v", err)
	}

	if !c.HasIndex("price") {
		t.Error("SetIndexes dropped an existing index not mentioned in its argument")
	}
	if !c.HasIndex("name") {
		t.Error("SetIndexes did not create the newly mentioned index")
	}
}

// TestCloneRefCountingDefersPhysicalDelete confirms the backing buckets
// survive until every clone of a handle has been closed, even after
// ToDelete has been called.
func TestCloneRefCountingDefersPhysicalDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coll.db")
	st, err := storage.Open(path, nil)
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	defer st.Close()

	c, err := Open(st, CollectionDef{Serial: 1, Name: "docs"}, nil)
	if err != nil {
		t.Fatalf("collection.Open: %v", err)
	}
	clone := c.Clone()

	id, err := c.Insert(Document{"x": 1})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	c.ToDelete()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// clone is still live: the document must still be reachable through it.
	_, ok, err := clone.Get(id)
	if err != nil {
		t.Fatalf("Get through surviving clone: %v", err)
	}
	if !ok {
		t.Error("document vanished before the last clone was closed")
	}

	if err := clone.Close(); err != nil {
		t.Fatalf("Close (last clone): %v", err)
	}
}

// TestClosedHandleRejectsOperations confirms a specific closed handle
// rejects further calls with ErrCollectionClosed, independent of any
// sibling clone.
func TestClosedHandleRejectsOperations(t *testing.T) {
	c := openCollection(t, "docs")
	clone := c.Clone()
	defer clone.Close()

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := c.Insert(Document{"x": 1}); !errors.Is(err, ErrCollectionClosed) {
		t.Errorf("Insert on closed handle: got %v, want ErrCollectionClosed", err)
	}

	// the sibling clone remains fully usable.
	if _, err := clone.Insert(Document{"x": 1}); err != nil {
		t.Errorf("Insert through surviving clone failed: %v", err)
	}
}
