package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	s, err := Open(filepath.Join(tmpDir, "cards.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const body = "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Alice\r\nEND:VCARD\r\n"

func TestPutAndGet(t *testing.T) {
	s := openTestStore(t)

	rec, err := s.Put(FormatText, "alice.vcf", []byte(body))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if rec.ID == "" || !strings.HasPrefix(rec.CID, "bafk") {
		t.Errorf("unexpected identifiers: id=%q cid=%q", rec.ID, rec.CID)
	}

	got, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Body) != body || got.Name != "alice.vcf" || got.Format != FormatText {
		t.Errorf("record mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}

	byCID, err := s.GetByCID(rec.CID)
	if err != nil {
		t.Fatalf("GetByCID failed: %v", err)
	}
	if byCID.ID != rec.ID {
		t.Errorf("GetByCID returned %s, want %s", byCID.ID, rec.ID)
	}
}

func TestSameBodySameCID(t *testing.T) {
	s := openTestStore(t)

	a, err := s.Put(FormatText, "a", []byte(body))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	b, err := s.Put(FormatText, "b", []byte(body))
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if a.CID != b.CID || a.ID == b.ID {
		t.Errorf("expected same CID, different IDs: %+v %+v", a, b)
	}
	want, _ := ComputeCID([]byte(body))
	if a.CID != want {
		t.Errorf("CID = %s, want %s", a.CID, want)
	}
}

func TestPutRejects(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Put("pdf", "x", []byte("x")); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := s.Put(FormatXML, "x", nil); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
}

func TestListAndDelete(t *testing.T) {
	s := openTestStore(t)
	for _, f := range []string{FormatText, FormatXML, FormatJSON} {
		if _, err := s.Put(f, f, []byte("<"+f+">")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	recs, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	for _, r := range recs {
		if r.Body != nil {
			t.Errorf("List should not return bodies")
		}
	}

	if err := s.Delete(recs[0].ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(recs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := s.Get(recs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if n, err := s.Count(); err != nil || n != 2 {
		t.Errorf("Count = %d, %v", n, err)
	}
}

func TestGetByCIDInvalid(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetByCID("not-a-cid"); err == nil {
		t.Error("expected an error for an invalid CID")
	}
	c, _ := ComputeCID([]byte("missing"))
	if _, err := s.GetByCID(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentPut(t *testing.T) {
	s := openTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Put(FormatJSON, "c", []byte(`["vcard",[]]`)); err != nil {
				t.Errorf("Put failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n, _ := s.Count(); n != 10 {
		t.Errorf("Count = %d, want 10", n)
	}
}
