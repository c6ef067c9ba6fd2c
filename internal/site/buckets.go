package site

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownBucket = errors.New("unknown openings bucket")

// Storage buckets the openings document is keyed by.
const (
	BucketQueenAnne   = "queenAnne"
	BucketCapitolHill = "capitolHill"
)

// Buckets maps display location keys to the storage bucket holding their
// openings. Keys outside the mapping resolve to no data.
type Buckets struct {
	mapping    map[string]string
	recognized map[string]struct{}
}

func DefaultBuckets() Buckets {
	b, _ := NewBuckets(map[string]string{
		BucketQueenAnne:   BucketQueenAnne,
		BucketCapitolHill: BucketCapitolHill,
	}, []string{BucketQueenAnne, BucketCapitolHill})
	return b
}

// NewBuckets builds the mapping and checks every target is a recognized bucket.
func NewBuckets(mapping map[string]string, recognized []string) (Buckets, error) {
	b := Buckets{
		mapping:    make(map[string]string, len(mapping)),
		recognized: make(map[string]struct{}, len(recognized)),
	}
	for _, r := range recognized {
		r = strings.TrimSpace(r)
		if r != "" {
			b.recognized[r] = struct{}{}
		}
	}
	for k, v := range mapping {
		b.mapping[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return b, b.Validate()
}

func (b Buckets) Validate() error {
	var bad []string
	for k, v := range b.mapping {
		if _, ok := b.recognized[v]; !ok {
			bad = append(bad, fmt.Sprintf("%s->%s", k, v))
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("%w: %s", ErrUnknownBucket, strings.Join(bad, ", "))
	}
	return nil
}

// Resolve returns the storage bucket for a display key.
func (b Buckets) Resolve(key string) (string, bool) {
	bucket, ok := b.mapping[key]
	if !ok {
		return "", false
	}
	if _, ok := b.recognized[bucket]; !ok {
		return "", false
	}
	return bucket, true
}
