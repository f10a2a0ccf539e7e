// Package stats accumulates access-log statistics for a single source.
package stats

import (
	"math/big"
	"slices"
	"strings"
	"time"

	"github.com/ccollicutt/logtally/pkg/accesslog"
)

// TopK is the number of entries returned by TopFrequent.
const TopK = 3

// Entry is a key and the number of times it was seen.
type Entry struct {
	Key   string   `json:"key"`
	Count *big.Int `json:"count"`
}

// Aggregator holds running statistics for one source.
// All counts and sizes are exact; it is not safe for concurrent use.
type Aggregator struct {
	source string
	from   *time.Time
	to     *time.Time

	requests  *big.Int
	resources map[string]*big.Int
	statuses  map[string]*big.Int
	addresses map[string]*big.Int
	referers  map[string]*big.Int
	sizes     []*big.Int
}

// New creates an empty aggregator for the named source.
// The bounds are recorded as given; they are not derived from the data.
func New(source string, from, to *time.Time) *Aggregator {
	return &Aggregator{
		source:    source,
		from:      from,
		to:        to,
		requests:  new(big.Int),
		resources: make(map[string]*big.Int),
		statuses:  make(map[string]*big.Int),
		addresses: make(map[string]*big.Int),
		referers:  make(map[string]*big.Int),
	}
}

// Update folds a record into the statistics.
func (a *Aggregator) Update(r accesslog.Record) {
	a.requests.Add(a.requests, one)
	increment(a.resources, r.RequestTarget())
	increment(a.statuses, r.HTTPStatus())
	increment(a.addresses, r.RemoteAddress())
	increment(a.referers, r.HTTPReferer())
	a.sizes = append(a.sizes, r.BodyBytes())
}

var one = big.NewInt(1)

func increment(m map[string]*big.Int, key string) {
	n, ok := m[key]
	if !ok {
		n = new(big.Int)
		m[key] = n
	}
	n.Add(n, one)
}

// Source returns the source identifier.
func (a *Aggregator) Source() string {
	return a.source
}

// From returns the lower time bound the aggregator was created with.
func (a *Aggregator) From() *time.Time {
	return a.from
}

// To returns the upper time bound the aggregator was created with.
func (a *Aggregator) To() *time.Time {
	return a.to
}

// Requests returns the number of records folded in.
func (a *Aggregator) Requests() *big.Int {
	return new(big.Int).Set(a.requests)
}

// TopResources returns the most requested resources.
func (a *Aggregator) TopResources() []Entry {
	return TopFrequent(a.resources)
}

// TopStatusCodes returns the most common response statuses.
func (a *Aggregator) TopStatusCodes() []Entry {
	return TopFrequent(a.statuses)
}

// TopRemoteAddresses returns the most common client addresses.
func (a *Aggregator) TopRemoteAddresses() []Entry {
	return TopFrequent(a.addresses)
}

// TopReferers returns the most common referers.
func (a *Aggregator) TopReferers() []Entry {
	return TopFrequent(a.referers)
}

// AverageResponseSize returns the truncated mean response size, or 0 without requests.
func (a *Aggregator) AverageResponseSize() *big.Int {
	if a.requests.Sign() == 0 {
		return new(big.Int)
	}
	sum := new(big.Int)
	for _, s := range a.sizes {
		sum.Add(sum, s)
	}
	return sum.Quo(sum, a.requests)
}

// ResponseSizePercentile returns the response size selected by the 95th
// percentile rule used in the reports:
//
//	skip = (n / 100) * 95
//	if skip > 0 { skip += skip - 1 }
//
// The element after skipping that many sorted sizes is returned, or 0 when
// nothing is left. This is not a nearest-rank percentile; for n = 100 it
// skips 189 elements and yields 0.
func (a *Aggregator) ResponseSizePercentile() *big.Int {
	n := len(a.sizes)
	skip := (n / 100) * 95
	if skip > 0 {
		skip += skip - 1
	}
	if skip >= n {
		return new(big.Int)
	}

	sorted := slices.Clone(a.sizes)
	slices.SortFunc(sorted, func(x, y *big.Int) int {
		return x.Cmp(y)
	})
	return new(big.Int).Set(sorted[skip])
}

// TopFrequent returns at most TopK entries of m ordered by descending count.
// Equal counts are ordered by key so reports are reproducible.
func TopFrequent(m map[string]*big.Int) []Entry {
	entries := make([]Entry, 0, len(m))
	for k, v := range m {
		entries = append(entries, Entry{Key: k, Count: new(big.Int).Set(v)})
	}

	slices.SortFunc(entries, func(x, y Entry) int {
		if c := y.Count.Cmp(x.Count); c != 0 {
			return c
		}
		return strings.Compare(x.Key, y.Key)
	})

	if len(entries) > TopK {
		entries = entries[:TopK]
	}
	return entries
}
