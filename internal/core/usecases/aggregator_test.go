// internal/core/usecases/aggregator_test.go
package usecases

import (
	"sync"
	"testing"

	"github.com/murapadev/face-catcher/internal/core/domain"
	"github.com/murapadev/face-catcher/internal/testutil"
)

func TestAggregator_Counters(t *testing.T) {
	a := NewAggregator(10)

	for i := 0; i < 7; i++ {
		a.RecordFetched()
	}
	for i := 0; i < 3; i++ {
		a.RecordFailedFetch()
	}
	for i := 0; i < 6; i++ {
		a.RecordAnalyzed()
	}
	a.RecordFailedAnalysis()
	for i := 0; i < 5; i++ {
		a.RecordClassified(domain.BucketAssignment{AgeBucket: "adult", EthnicityBucket: "white"})
	}
	a.RecordFailedClassification()

	stats := a.Snapshot()

	testutil.AssertEqual(t, stats.Requested, 10, "requested")
	testutil.AssertEqual(t, stats.Fetched, 7, "fetched")
	testutil.AssertEqual(t, stats.FailedFetch, 3, "failed fetch")
	testutil.AssertEqual(t, stats.Analyzed, 6, "analyzed")
	testutil.AssertEqual(t, stats.FailedAnalysis, 1, "failed analysis")
	testutil.AssertEqual(t, stats.Classified, 5, "classified")
	testutil.AssertEqual(t, stats.FailedClassification, 1, "failed classification")
	testutil.AssertEqual(t, stats.AgeDistribution["adult"], 5, "age distribution")
	testutil.AssertEqual(t, stats.EthnicityDistribution["white"], 5, "ethnicity distribution")

	testutil.AssertNoError(t, stats.CheckInvariants(), "invariants")
}

func TestAggregator_ConcurrentWriters(t *testing.T) {
	const n = 100
	a := NewAggregator(n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a.RecordFetched()
			a.RecordAnalyzed()
			bucket := "adult"
			if i%2 == 0 {
				bucket = "teen"
			}
			a.RecordClassified(domain.BucketAssignment{AgeBucket: bucket, EthnicityBucket: "asian"})
		}(i)
	}
	wg.Wait()

	stats := a.Snapshot()

	testutil.AssertEqual(t, stats.Fetched, n, "fetched")
	testutil.AssertEqual(t, stats.Classified, n, "classified")
	testutil.AssertEqual(t, stats.AgeTotal(), n, "age total")
	testutil.AssertEqual(t, stats.EthnicityDistribution["asian"], n, "ethnicity total")
	testutil.AssertNoError(t, stats.CheckInvariants(), "invariants")
}

func TestAggregator_SnapshotIsolation(t *testing.T) {
	a := NewAggregator(2)
	a.RecordFetched()
	a.RecordAnalyzed()
	a.RecordClassified(domain.BucketAssignment{AgeBucket: "child", EthnicityBucket: "black"})

	first := a.Snapshot()
	first.AgeDistribution["child"] = 99
	first.EthnicityDistribution["black"] = 99

	second := a.Snapshot()
	testutil.AssertEqual(t, second.AgeDistribution["child"], 1, "snapshot must copy age distribution")
	testutil.AssertEqual(t, second.EthnicityDistribution["black"], 1, "snapshot must copy ethnicity distribution")
}
