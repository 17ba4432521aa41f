package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/arise/internal/engine"
)

const defaultHistoryDays = 30

type HistoryCmd struct {
	Days int `help:"Number of days to show." default:"30"`
}

func (c *HistoryCmd) Run(ctx *Context) error {
	days := c.Days
	if days <= 0 {
		days = defaultHistoryDays
	}

	sess, err := ctx.StartSession(true)
	if err != nil {
		return err
	}
	defer ctx.Close()

	rec := sess.Engine.Snapshot()
	buckets := engine.HistoryBuckets(rec, sess.Activation.Today, days)
	if len(buckets) == 0 {
		return fmt.Errorf("no history for %d days", days)
	}

	ctx.printf("Last %d days (%s to %s)\n\n", days, buckets[0].Date, buckets[len(buckets)-1].Date)
	ctx.println(historyChart(buckets))
	ctx.printf("\nCleared %d of %d days. Total cleared days: %d. Best streak: %d\n",
		engine.ClearedDays(buckets), len(buckets), len(rec.History), rec.BestStreak)
	return nil
}

// historyChart renders one row per week, "█" for cleared days and "·" for
// missed ones.
func historyChart(buckets []engine.DayBucket) string {
	var b strings.Builder
	for i := 0; i < len(buckets); i += 7 {
		end := min(i+7, len(buckets))
		fmt.Fprintf(&b, "%s  ", buckets[i].Date)
		for _, d := range buckets[i:end] {
			if d.Cleared {
				b.WriteString("█ ")
			} else {
				b.WriteString("· ")
			}
		}
		if end < len(buckets) {
			b.WriteString("\n")
		}
	}
	return b.String()
}
