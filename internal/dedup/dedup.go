package dedup

import "time"

// Candidate is a raw fetched document before dedup and persistence.
type Candidate struct {
	URL         string
	Title       string
	Body        string
	Source      string
	PublishedAt *time.Time
}

// Normalized is a candidate with its dedup key computed.
type Normalized struct {
	Candidate
	URLHash     string
	ContentHash string
}

// Normalize computes both digests for a candidate. The normalized URL is
// written back so the persisted record matches the hashed form.
func Normalize(c Candidate) Normalized {
	c.URL = NormalizeURL(c.URL)
	return Normalized{
		Candidate:   c,
		URLHash:     digest(c.URL),
		ContentHash: HashBody(c.Body),
	}
}

// Lookup reports whether a record with either hash already exists in the
// record store. It is the deduplicator's only capability.
type Lookup func(urlHash, contentHash string) (bool, error)

// Partition splits candidates into fresh and duplicate lists. A candidate is
// a duplicate iff either hash matches an existing record or an earlier
// candidate in the same batch; first occurrence wins. The two lists together
// are exactly the input.
func Partition(cands []Normalized, exists Lookup) (fresh, dupes []Normalized, err error) {
	seenURL := make(map[string]struct{}, len(cands))
	seenContent := make(map[string]struct{}, len(cands))

	for _, c := range cands {
		if _, dup := seenURL[c.URLHash]; dup {
			dupes = append(dupes, c)
			continue
		}
		if _, dup := seenContent[c.ContentHash]; dup {
			dupes = append(dupes, c)
			continue
		}

		known, err := exists(c.URLHash, c.ContentHash)
		if err != nil {
			return nil, nil, err
		}

		// Batch-internal first occurrence claims both hashes either way, so
		// later repeats within the same fetch page stay duplicates.
		seenURL[c.URLHash] = struct{}{}
		seenContent[c.ContentHash] = struct{}{}

		if known {
			dupes = append(dupes, c)
		} else {
			fresh = append(fresh, c)
		}
	}
	return fresh, dupes, nil
}
