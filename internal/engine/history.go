package engine

import (
	"github.com/julianstephens/arise/internal/catalog"
	"github.com/julianstephens/arise/internal/models"
	"github.com/julianstephens/arise/internal/utils"
)

func historyEntry(day string, done int) models.HistoryEntry {
	if done <= 0 {
		done = catalog.QuestsPerDay
	}
	return models.HistoryEntry{Date: day, QuestsDone: done}
}

// DayBucket is one day of the history chart.
type DayBucket struct {
	Date       string
	Cleared    bool
	QuestsDone int
}

// HistoryBuckets returns the last days days ending at today, oldest first.
func HistoryBuckets(rec models.PlayerRecord, today string, days int) []DayBucket {
	if days <= 0 {
		return nil
	}
	done := make(map[string]int, len(rec.History))
	for _, h := range rec.History {
		done[h.Date] = h.QuestsDone
	}

	buckets := make([]DayBucket, 0, days)
	for i := days - 1; i >= 0; i-- {
		day, err := utils.AddDays(today, -i)
		if err != nil {
			return nil
		}
		n, ok := done[day]
		buckets = append(buckets, DayBucket{Date: day, Cleared: ok, QuestsDone: n})
	}
	return buckets
}

// ClearedDays counts cleared days among buckets.
func ClearedDays(buckets []DayBucket) int {
	n := 0
	for _, b := range buckets {
		if b.Cleared {
			n++
		}
	}
	return n
}
