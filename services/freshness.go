package services

import (
	"sort"

	"github.com/montanaflynn/stats"

	"search-analysis/models"
	"search-analysis/platform"
)

// DefaultFreshnessHours is the window within which a post counts as fresh.
const DefaultFreshnessHours = 24

// Freshness computes the hours between upload and collection of every entry
// with an upload time. A post is fresh when the difference is at most
// threshold hours. Upload times are already clock corrected at ingestion.
func Freshness(d models.Dataset, threshold float64) []models.FreshnessRecord {
	out := make([]models.FreshnessRecord, 0, len(d))
	for _, e := range d {
		uploaded, ok := e.UploadTime()
		if !ok {
			continue
		}
		hours := e.CollectedTime.Sub(uploaded).Hours()
		name, _ := e.UserName()
		out = append(out, models.FreshnessRecord{
			URL:           e.URL(),
			Platform:      e.Platform,
			UserName:      name,
			Rank:          e.Fields.Value(string(platform.Rank)),
			Likes:         e.Fields.Value(string(platform.Likes)),
			UploadTime:    uploaded,
			CollectedTime: e.CollectedTime,
			Hours:         hours,
			Fresh:         hours <= threshold,
		})
	}
	return out
}

// FreshnessSummaries reports the fresh share per platform, in order of
// appearance, followed by "all". The denominator is every row of the
// platform, including rows without an upload time.
func FreshnessSummaries(d models.Dataset, threshold float64) []models.FreshnessSummary {
	var out []models.FreshnessSummary
	for _, p := range d.Platforms() {
		out = append(out, freshnessSummary(string(p), d.ByPlatform(p), threshold))
	}
	return append(out, freshnessSummary(string(platform.Any), d, threshold))
}

func freshnessSummary(name string, d models.Dataset, threshold float64) models.FreshnessSummary {
	fresh := 0
	for _, r := range Freshness(d, threshold) {
		if r.Fresh {
			fresh++
		}
	}
	return models.FreshnessSummary{
		Platform:   name,
		Fresh:      fresh,
		Total:      len(d),
		Percentage: round2(percent(fresh, len(d))),
	}
}

// InstagramDayFreshness marks Instagram posts fresh when collected on their
// upload day or the day after. Instagram only exposes upload dates reliably,
// so this is kept apart from the hour based Freshness.
func InstagramDayFreshness(d models.Dataset) []models.DayFreshnessRecord {
	const dayLayout = "01-02"
	var out []models.DayFreshnessRecord
	for _, e := range d.ByPlatform(platform.Instagram) {
		uploaded, ok := e.UploadTime()
		if !ok {
			continue
		}
		collectedDay := e.CollectedTime.Format(dayLayout)
		uploadDay := uploaded.Format(dayLayout)
		name, _ := e.UserName()
		out = append(out, models.DayFreshnessRecord{
			URL:           e.URL(),
			UserName:      name,
			UploadTime:    uploaded,
			CollectedTime: e.CollectedTime,
			UploadDay:     uploadDay,
			CollectedDay:  collectedDay,
			Fresh:         collectedDay == uploadDay || collectedDay == uploaded.AddDate(0, 0, 1).Format(dayLayout),
		})
	}
	return out
}

// DayFreshnessSummary is the fresh share of InstagramDayFreshness records.
func DayFreshnessSummary(records []models.DayFreshnessRecord) models.FreshnessSummary {
	fresh := 0
	for _, r := range records {
		if r.Fresh {
			fresh++
		}
	}
	return models.FreshnessSummary{
		Platform:   string(platform.Instagram),
		Fresh:      fresh,
		Total:      len(records),
		Percentage: round2(percent(fresh, len(records))),
	}
}

// HoursSincePostedPerRank averages hours since posting per (rank, platform),
// ordered by rank then platform.
func HoursSincePostedPerRank(records []models.FreshnessRecord) []models.RankHours {
	type key struct {
		rank     int64
		platform platform.Platform
	}
	groups := make(map[key]stats.Float64Data)
	for _, r := range records {
		rank, ok := r.Rank.Int()
		if !ok {
			continue
		}
		k := key{rank: rank, platform: r.Platform}
		groups[k] = append(groups[k], r.Hours)
	}

	out := make([]models.RankHours, 0, len(groups))
	for k, hours := range groups {
		mean, _ := stats.Mean(hours)
		median, _ := stats.Median(hours)
		out = append(out, models.RankHours{Rank: k.rank, Platform: k.platform, AvgHours: mean, MedianHours: median})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}

// MedianHoursTopRanks is the median hours since posting of ranks 0 to 9 per
// platform, ordered by platform.
func MedianHoursTopRanks(records []models.FreshnessRecord) []models.PlatformMedian {
	groups := make(map[platform.Platform]stats.Float64Data)
	for _, r := range records {
		rank, ok := r.Rank.Int()
		if !ok || rank < 0 || rank > 9 {
			continue
		}
		groups[r.Platform] = append(groups[r.Platform], r.Hours)
	}

	out := make([]models.PlatformMedian, 0, len(groups))
	for p, hours := range groups {
		median, _ := stats.Median(hours)
		out = append(out, models.PlatformMedian{Platform: p, MedianHours: median})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out
}

// LikesOverHours averages likes of posts uploaded at most h hours before
// collection, for h from 1 to maxHours. Buckets without rows report zero.
func LikesOverHours(records []models.FreshnessRecord, maxHours int) []models.LikesAtHours {
	out := make([]models.LikesAtHours, 0, maxHours)
	for h := 1; h <= maxHours; h++ {
		var likes stats.Float64Data
		for _, r := range records {
			if r.Hours > float64(h) {
				continue
			}
			if n, ok := r.Likes.Int(); ok {
				likes = append(likes, float64(n))
			}
		}
		avg := 0.0
		if len(likes) > 0 {
			avg, _ = stats.Mean(likes)
		}
		out = append(out, models.LikesAtHours{Hours: h, AverageLikes: round2(avg), Rows: len(likes)})
	}
	return out
}
