// Package analytics derives statistics, time series and reports from task
// and project collections. Every function here is pure: callers read the
// store once and pass the resulting slices in.
package analytics

// NumberFunc extracts an optional numeric field from an item. ok is false
// when the field is absent, in which case the item does not contribute to
// sums or averages over that field.
type NumberFunc[T any] func(item T) (value float64, ok bool)

type aggregationKind int

const (
	aggregateSum aggregationKind = iota
	aggregateAverage
)

// Aggregation is a named per-bucket aggregation. Build one with Sum,
// Average or ConditionalAverage.
type Aggregation[T any] struct {
	Name  string
	kind  aggregationKind
	field NumberFunc[T]
	when  func(T) bool
}

// Sum adds up field over the items of each bucket.
func Sum[T any](name string, field NumberFunc[T]) Aggregation[T] {
	return Aggregation[T]{Name: name, kind: aggregateSum, field: field}
}

// Average is the mean of field over the items of each bucket that report it.
// A bucket where no item reports the field averages to 0.
func Average[T any](name string, field NumberFunc[T]) Aggregation[T] {
	return Aggregation[T]{Name: name, kind: aggregateAverage, field: field}
}

// ConditionalAverage is Average restricted to items satisfying when. Items
// failing the predicate are left out of both numerator and denominator.
func ConditionalAverage[T any](name string, when func(T) bool, field NumberFunc[T]) Aggregation[T] {
	return Aggregation[T]{Name: name, kind: aggregateAverage, field: field, when: when}
}

// Bucket is the aggregated result for one distinct key.
type Bucket[K comparable] struct {
	Key    K
	Count  int
	Values map[string]float64
}

// Value returns the named aggregate, or 0 if it was not requested.
func (b Bucket[K]) Value(name string) float64 {
	return b.Values[name]
}

type accumulator struct {
	sum     float64
	samples int
}

// GroupBy partitions items by key and applies aggs to every partition.
// Buckets come back in first-seen key order; callers sort as needed.
func GroupBy[T any, K comparable](items []T, key func(T) K, aggs ...Aggregation[T]) []Bucket[K] {
	index := make(map[K]int)
	buckets := make([]Bucket[K], 0)
	accs := make([][]accumulator, 0)

	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, Bucket[K]{Key: k})
			accs = append(accs, make([]accumulator, len(aggs)))
		}
		buckets[i].Count++

		for j, agg := range aggs {
			if agg.when != nil && !agg.when(item) {
				continue
			}
			v, present := agg.field(item)
			if !present {
				continue
			}
			accs[i][j].sum += v
			accs[i][j].samples++
		}
	}

	for i := range buckets {
		buckets[i].Values = make(map[string]float64, len(aggs))
		for j, agg := range aggs {
			acc := accs[i][j]
			switch agg.kind {
			case aggregateSum:
				buckets[i].Values[agg.Name] = acc.sum
			case aggregateAverage:
				buckets[i].Values[agg.Name] = safeDivide(acc.sum, float64(acc.samples))
			}
		}
	}

	return buckets
}
