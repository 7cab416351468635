// Package cluster partitions timestamp-sorted photo records into bursts.
//
// A burst is a maximal run of chronologically adjacent records where every
// consecutive gap is within a configurable threshold. Records whose
// timestamps could not be extracted share a synthetic epoch of zero, so they
// collapse into one leading cluster together with any genuinely epoch-zero
// photos. That collapse is intentional.
package cluster

import (
	"sort"

	"github.com/fyrsmithlabs/snapsort/internal/photo"
)

// Cluster is a non-empty ordered run of records, ascending by timestamp.
type Cluster struct {
	Records []photo.Record
}

// Anchor returns the first (earliest) record of the cluster. Exported
// artifacts are named after it.
func (c Cluster) Anchor() photo.Record {
	return c.Records[0]
}

// Paths returns the member paths in cluster order.
func (c Cluster) Paths() []string {
	paths := make([]string, len(c.Records))
	for i, rec := range c.Records {
		paths[i] = rec.Path
	}
	return paths
}

// Sort orders records ascending by effective epoch, in place. The sort is
// stable, so records with equal timestamps keep their collection order. That
// order reflects nondeterministic extraction completion, which is accepted:
// ties carry no meaningful ordering to preserve.
func Sort(records []photo.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Taken.Epoch() < records[j].Taken.Epoch()
	})
}

// Partition splits sorted records into clusters. Two adjacent records stay in
// the same cluster when the gap between them is at most thresholdSeconds; the
// comparison is inclusive, so a gap exactly equal to the threshold does not
// split. A single left-to-right pass, no backtracking.
//
// The input must already be sorted (see Sort). The concatenation of the
// returned clusters is exactly the input: nothing dropped, nothing
// duplicated. Empty input yields an empty list.
func Partition(records []photo.Record, thresholdSeconds int64) []Cluster {
	if len(records) == 0 {
		return nil
	}

	clusters := []Cluster{{Records: []photo.Record{records[0]}}}
	for _, rec := range records[1:] {
		open := &clusters[len(clusters)-1]
		prev := open.Records[len(open.Records)-1]

		delta := rec.Taken.Epoch() - prev.Taken.Epoch()
		if delta <= thresholdSeconds {
			open.Records = append(open.Records, rec)
			continue
		}
		clusters = append(clusters, Cluster{Records: []photo.Record{rec}})
	}
	return clusters
}
