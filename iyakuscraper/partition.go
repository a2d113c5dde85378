package iyakuscraper

import (
	"time"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/logging"
)

// CountProbe reports how many results the catalog holds for an inclusive
// [from, to] revision-date range.
type CountProbe func(from, to time.Time) (int, error)

const dateLayout = "2006-01-02"

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func newPartition(from, to time.Time, count int, truncated bool) entities.DatePartition {
	return entities.DatePartition{
		From:      from,
		To:        to,
		FromDate:  from.Format(dateLayout),
		ToDate:    to.Format(dateLayout),
		Count:     count,
		Truncated: truncated,
	}
}

// BisectRange splits [from, to] into leaf partitions whose probed result
// counts fit under the server cap. A range over the cap is bisected at its
// integer-day midpoint into two inclusive, contiguous, non-overlapping
// halves. A single-day range that still exceeds the cap cannot be
// subdivided; it is accepted as a truncated leaf rather than failing the
// run. Probe failures put the failed subrange in the second return value
// and the recursion moves on.
func BisectRange(from, to time.Time, limit int, probe CountProbe) (leaves, failed []entities.DatePartition) {
	// Partitions are calendar days. Callers may pass wall-clock times
	// (serve mode refreshes up to time.Now()); a non-midnight bound would
	// let the midpoint split produce an inverted final subrange.
	from, to = dateOnly(from), dateOnly(to)

	count, err := probe(from, to)
	if err != nil {
		logging.Warn("Result-count probe failed, skipping range",
			"from", from.Format(dateLayout), "to", to.Format(dateLayout), "error", err)
		failed = append(failed, newPartition(from, to, -1, false))
		return nil, failed
	}

	logging.Debug("Range probed",
		"from", from.Format(dateLayout), "to", to.Format(dateLayout), "count", count)

	if count <= limit {
		return []entities.DatePartition{newPartition(from, to, count, false)}, nil
	}

	if !from.Before(to) {
		// Single day over the cap: the export will be truncated at the cap.
		logging.Warn("Single-day range exceeds result cap, accepting truncated partition",
			"date", from.Format(dateLayout), "count", count, "cap", limit)
		return []entities.DatePartition{newPartition(from, to, count, true)}, nil
	}

	days := int(to.Sub(from).Hours() / 24)
	mid := from.AddDate(0, 0, days/2)

	leftLeaves, leftFailed := BisectRange(from, mid, limit, probe)
	rightLeaves, rightFailed := BisectRange(mid.AddDate(0, 0, 1), to, limit, probe)

	leaves = append(leftLeaves, rightLeaves...)
	failed = append(leftFailed, rightFailed...)
	return leaves, failed
}
