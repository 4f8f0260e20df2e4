package dedup

import (
	"errors"
	"testing"
)

func noneExist(urlHash, contentHash string) (bool, error) {
	return false, nil
}

func TestPartitionTrailingSlashDuplicate(t *testing.T) {
	cands := []Normalized{
		Normalize(Candidate{URL: "http://a.com/1", Body: "body one"}),
		Normalize(Candidate{URL: "http://a.com/1/", Body: "body two"}),
	}

	fresh, dupes, err := Partition(cands, noneExist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 1 {
		t.Errorf("expected 1 fresh candidate, got %d", len(fresh))
	}
	if len(dupes) != 1 {
		t.Errorf("expected 1 duplicate, got %d", len(dupes))
	}
	if fresh[0].URL != "http://a.com/1" {
		t.Errorf("first occurrence should win, got %s", fresh[0].URL)
	}
}

func TestPartitionContentDuplicateAcrossURLs(t *testing.T) {
	cands := []Normalized{
		Normalize(Candidate{URL: "http://a.com/original", Body: "same body text"}),
		Normalize(Candidate{URL: "http://b.com/mirror", Body: "same   body\ntext"}),
	}

	fresh, dupes, err := Partition(cands, noneExist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 1 || len(dupes) != 1 {
		t.Fatalf("expected 1 fresh + 1 dupe, got %d + %d", len(fresh), len(dupes))
	}
	if dupes[0].URL != "http://b.com/mirror" {
		t.Errorf("mirror should be the duplicate, got %s", dupes[0].URL)
	}
}

func TestPartitionAgainstExistingStore(t *testing.T) {
	known := Normalize(Candidate{URL: "http://a.com/known", Body: "known body"})

	exists := func(urlHash, contentHash string) (bool, error) {
		return urlHash == known.URLHash || contentHash == known.ContentHash, nil
	}

	cands := []Normalized{
		known,
		Normalize(Candidate{URL: "http://a.com/new", Body: "new body"}),
	}

	fresh, dupes, err := Partition(cands, exists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh) != 1 {
		t.Fatalf("expected 1 fresh, got %d", len(fresh))
	}
	if fresh[0].URL != "http://a.com/new" {
		t.Errorf("wrong fresh candidate: %s", fresh[0].URL)
	}
	if len(dupes) != 1 {
		t.Errorf("expected 1 duplicate, got %d", len(dupes))
	}
}

func TestPartitionPreservesAllCandidates(t *testing.T) {
	cands := []Normalized{
		Normalize(Candidate{URL: "http://a.com/1", Body: "one"}),
		Normalize(Candidate{URL: "http://a.com/2", Body: "two"}),
		Normalize(Candidate{URL: "http://a.com/1", Body: "one again"}),
		Normalize(Candidate{URL: "http://a.com/3", Body: "two"}),
	}

	fresh, dupes, err := Partition(cands, noneExist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fresh)+len(dupes) != len(cands) {
		t.Errorf("partition lost candidates: %d + %d != %d", len(fresh), len(dupes), len(cands))
	}
	if len(fresh) != 2 {
		t.Errorf("expected 2 fresh, got %d", len(fresh))
	}
}

func TestPartitionLookupError(t *testing.T) {
	wantErr := errors.New("store down")
	failing := func(urlHash, contentHash string) (bool, error) {
		return false, wantErr
	}

	cands := []Normalized{
		Normalize(Candidate{URL: "http://a.com/1", Body: "one"}),
	}

	_, _, err := Partition(cands, failing)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected lookup error to propagate, got %v", err)
	}
}

func TestNormalizeWritesBackURL(t *testing.T) {
	n := Normalize(Candidate{URL: "HTTP://A.com/path/", Body: "b"})
	if n.URL != "http://a.com/path" {
		t.Errorf("normalized URL not written back: %s", n.URL)
	}
	if n.URLHash != HashURL("http://a.com/path") {
		t.Error("URLHash should match the normalized form")
	}
}
