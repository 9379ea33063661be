package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"search-analysis/models"
	"search-analysis/platform"
	"search-analysis/utils"
)

// LikesHorizonHours is the last hour bucket of LikesOverHours.
const LikesHorizonHours = 479

// Hours of LikesOverHours shown by Print.
var likesCheckpoints = []int{1, 6, 12, 24, 48, 168}

type InsightService struct {
	logger *utils.Logger
	out    io.Writer
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger, out: os.Stdout}
}

// Generate computes the report over d. topN bounds the account tables and
// threshold is the freshness window in hours.
func (s *InsightService) Generate(runID string, d models.Dataset, topN int, threshold float64) *models.InsightReport {
	report := &models.InsightReport{RunID: runID}
	if len(d) == 0 {
		return report
	}

	report.TotalRows = len(d)
	report.PlatformStats = PlatformStatistics(d)
	report.VideosPerQuery = VideosPerQuery(d)
	report.QueryByPlatform = VideosPerQueryByPlatform(d)
	report.TopAccounts = AccountsDistribution(d, topN)
	report.TopAccountLikes = TopAccountsByLikes(d, topN)
	report.SameVideoQueries = SameVideoOccurrences(SameVideoDifferentQuery(d))
	report.Top10Rows = len(Top10Posts(d))
	report.SingleRunRows = len(PickOne(d))
	report.RepeatedResults = head(CountNumResults(d), topN)

	records := Freshness(d, threshold)
	report.Freshness = FreshnessSummaries(d, threshold)
	report.TopRankMedians = MedianHoursTopRanks(records)
	report.RankHours = HoursSincePostedPerRank(records)
	report.LikesOverHours = LikesOverHours(records, LikesHorizonHours)

	if day := InstagramDayFreshness(d); len(day) > 0 {
		summary := DayFreshnessSummary(day)
		report.InstagramFresh = &summary
	}

	if lo.SomeBy(d, func(e models.Entry) bool { return e.Category != "" }) {
		report.CategoryShares = CategoryShares(d)
		report.CategoryLikes = AverageLikesPerCategory(d)
		report.OrgFraction = round2(OrgFraction(d))
		report.OrgByLag = OrgShareByTrendingLag(d)
	}

	s.logger.Info("[insights] Report over %d rows: %d platforms, %d queries",
		len(d), len(d.Platforms()), len(report.VideosPerQuery))
	return report
}

// PlatformStatistics reports per platform, in order of appearance, the row
// count, the distinct url count and the distinct account count, followed by
// the same figures for "all".
func PlatformStatistics(d models.Dataset) []models.PlatformStats {
	var out []models.PlatformStats
	for _, p := range d.Platforms() {
		out = append(out, platformStats(string(p), d.ByPlatform(p)))
	}
	return append(out, platformStats(string(platform.Any), d))
}

func platformStats(name string, d models.Dataset) models.PlatformStats {
	return models.PlatformStats{
		Platform:     name,
		TotalVideos:  len(d),
		UniqueVideos: len(UniqueVideos(d)),
		Accounts:     len(accounts(d)),
	}
}

// accounts lists the distinct known user names of d in order of appearance.
func accounts(d models.Dataset) []string {
	names := lo.FilterMap(d, func(e models.Entry, _ int) (string, bool) {
		return knownUser(e)
	})
	return lo.Uniq(names)
}

// knownUser returns the author of e unless it is absent or the literal "None"
// older exports wrote for missing authors.
func knownUser(e models.Entry) (string, bool) {
	name, ok := e.UserName()
	if !ok || name == "None" {
		return "", false
	}
	return name, true
}

// Top10Posts keeps rows ranked 10 or better.
func Top10Posts(d models.Dataset) models.Dataset {
	return d.Filter(func(e models.Entry) bool {
		rank, ok := e.Rank()
		return ok && rank <= 10
	})
}

// VideosPerQuery counts rows per search term, most first. Ties are ordered by term.
func VideosPerQuery(d models.Dataset) []models.QueryCount {
	counts := lo.CountValuesBy(d, func(e models.Entry) string { return e.SearchTerm })
	out := make([]models.QueryCount, 0, len(counts))
	for q, n := range counts {
		out = append(out, models.QueryCount{SearchTerm: q, Videos: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Videos != out[j].Videos {
			return out[i].Videos > out[j].Videos
		}
		return out[i].SearchTerm < out[j].SearchTerm
	})
	return out
}

// VideosPerQueryByPlatform counts rows per search term and platform, ordered
// by total like VideosPerQuery.
func VideosPerQueryByPlatform(d models.Dataset) []models.QueryPlatformCount {
	byQuery := make(map[string]*models.QueryPlatformCount)
	for _, e := range d {
		row, ok := byQuery[e.SearchTerm]
		if !ok {
			row = &models.QueryPlatformCount{SearchTerm: e.SearchTerm, PerPlatform: make(map[platform.Platform]int)}
			byQuery[e.SearchTerm] = row
		}
		row.PerPlatform[e.Platform]++
		row.Total++
	}

	out := make([]models.QueryPlatformCount, 0, len(byQuery))
	for _, row := range byQuery {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].SearchTerm < out[j].SearchTerm
	})
	return out
}

// AccountsDistribution counts rows per author, most first, and keeps the top n.
// A non-positive n keeps every author.
func AccountsDistribution(d models.Dataset, n int) []models.AccountCount {
	counts := make(map[string]int)
	for _, e := range d {
		if name, ok := knownUser(e); ok {
			counts[name]++
		}
	}
	out := make([]models.AccountCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, models.AccountCount{UserName: name, Frequency: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].UserName < out[j].UserName
	})
	return head(out, n)
}

// TopAccountsByLikes sums likes per author over rows with a like count and
// keeps the n largest.
func TopAccountsByLikes(d models.Dataset, n int) []models.AccountLikes {
	sums := make(map[string]int64)
	for _, e := range d {
		name, ok := knownUser(e)
		if !ok {
			continue
		}
		likes, ok := e.Likes()
		if !ok {
			continue
		}
		sums[name] += likes
	}
	out := make([]models.AccountLikes, 0, len(sums))
	for name, likes := range sums {
		out = append(out, models.AccountLikes{UserName: name, Likes: likes})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Likes != out[j].Likes {
			return out[i].Likes > out[j].Likes
		}
		return out[i].UserName < out[j].UserName
	})
	return head(out, n)
}

// CountNumResults reports, per search term and url, the distinct collection
// times that returned the url. Most collections first.
func CountNumResults(d models.Dataset) []models.ResultCount {
	type key struct{ query, url string }
	times := make(map[key]map[int64]time.Time)
	for _, e := range d {
		k := key{query: e.SearchTerm, url: e.URL()}
		if times[k] == nil {
			times[k] = make(map[int64]time.Time)
		}
		times[k][e.CollectedTime.UnixNano()] = e.CollectedTime
	}

	out := make([]models.ResultCount, 0, len(times))
	for k, set := range times {
		list := lo.Values(set)
		sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
		out = append(out, models.ResultCount{URL: k.url, SearchTerm: k.query, Count: len(list), CollectedTimes: list})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].SearchTerm != out[j].SearchTerm {
			return out[i].SearchTerm < out[j].SearchTerm
		}
		return out[i].URL < out[j].URL
	})
	return out
}

// SameVideoDifferentQuery lists, per url, the distinct search terms that
// surfaced it. Urls reached by the most queries come first.
func SameVideoDifferentQuery(d models.Dataset) []models.QuerySpread {
	queries := make(map[string]map[string]struct{})
	for _, e := range d {
		if queries[e.URL()] == nil {
			queries[e.URL()] = make(map[string]struct{})
		}
		queries[e.URL()][e.SearchTerm] = struct{}{}
	}

	out := make([]models.QuerySpread, 0, len(queries))
	for u, set := range queries {
		list := lo.Keys(set)
		sort.Strings(list)
		out = append(out, models.QuerySpread{URL: u, QueriesCount: len(list), Queries: list})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QueriesCount != out[j].QueriesCount {
			return out[i].QueriesCount > out[j].QueriesCount
		}
		return out[i].URL < out[j].URL
	})
	return out
}

// SameVideoOccurrences is the histogram of SameVideoDifferentQuery: how many
// urls were reached by exactly k queries, ordered by k.
func SameVideoOccurrences(spread []models.QuerySpread) []models.OccurrenceCount {
	counts := lo.CountValuesBy(spread, func(s models.QuerySpread) int { return s.QueriesCount })
	keys := lo.Keys(counts)
	sort.Ints(keys)
	return lo.Map(keys, func(k int, _ int) models.OccurrenceCount {
		return models.OccurrenceCount{QueriesCount: k, Videos: counts[k]}
	})
}

// WordFrequency counts word across the whitespace separated words of every
// post text. Words containing any of filters, case-insensitively, are dropped
// first. Rank is 1-based by descending count, ties broken by first
// appearance; it is 0 when the word never occurs.
func WordFrequency(d models.Dataset, word string, filters []string) models.WordStat {
	lowered := lo.Map(filters, func(f string, _ int) string { return strings.ToLower(f) })

	counts := make(map[string]int)
	var order []string
	for _, e := range d {
		for _, w := range strings.Fields(e.Text()) {
			lw := strings.ToLower(w)
			if lo.SomeBy(lowered, func(f string) bool { return strings.Contains(lw, f) }) {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	stat := models.WordStat{Word: word, Count: counts[word]}
	if stat.Count == 0 {
		return stat
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	stat.Rank = lo.IndexOf(order, word) + 1
	return stat
}

// FilterQueries keeps rows whose search term is exactly one of approved.
// An empty list keeps everything.
func FilterQueries(d models.Dataset, approved []string) models.Dataset {
	if len(approved) == 0 {
		return d
	}
	allowed := lo.SliceToMap(approved, func(q string) (string, struct{}) { return q, struct{}{} })
	return d.Filter(func(e models.Entry) bool {
		_, ok := allowed[e.SearchTerm]
		return ok
	})
}

func head[T any](list []T, n int) []T {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}

func (s *InsightService) Print(r *models.InsightReport) {
	w := s.out
	sep := strings.Repeat("═", 62)
	thin := strings.Repeat("─", 62)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 SEARCH RESULT INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Run          : %s\n", r.RunID)
	fmt.Fprintf(w, "  Total rows   : \033[1m%d\033[0m\n", r.TotalRows)
	fmt.Fprintf(w, "  Top 10 ranks : %d rows\n", r.Top10Rows)
	fmt.Fprintf(w, "  First runs   : %d rows (earliest collection per query)\n", r.SingleRunRows)
	fmt.Fprintln(w)

	if r.TotalRows == 0 {
		fmt.Fprintf(w, "  No data collected\n")
		fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}

	// Platforms
	fmt.Fprintf(w, "\033[1;33m  Platforms\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  %-12s %10s %10s %10s\n", "platform", "videos", "unique", "accounts")
	for _, ps := range r.PlatformStats {
		fmt.Fprintf(w, "  %-12s %10d %10d %10d\n", ps.Platform, ps.TotalVideos, ps.UniqueVideos, ps.Accounts)
	}
	fmt.Fprintln(w)

	// Queries
	fmt.Fprintf(w, "\033[1;33m  Videos per Query\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	top := 0
	if len(r.VideosPerQuery) > 0 {
		top = r.VideosPerQuery[0].Videos
	}
	for _, q := range head(r.VideosPerQuery, 10) {
		fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(q.SearchTerm, 28), bar(q.Videos, top, 24), q.Videos)
	}
	fmt.Fprintln(w)

	// Accounts
	fmt.Fprintf(w, "\033[1;33m  Most Frequent Accounts\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopAccounts) == 0 {
		fmt.Fprintf(w, "  No account data\n")
	}
	for i, a := range r.TopAccounts {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s %d\n", i+1, truncate(a.UserName, 38), a.Frequency)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Most Liked Accounts\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopAccountLikes) == 0 {
		fmt.Fprintf(w, "  No like data\n")
	}
	for i, a := range r.TopAccountLikes {
		fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%d ♥\033[0m\n", i+1, truncate(a.UserName, 38), a.Likes)
	}
	fmt.Fprintln(w)

	// Overlap
	fmt.Fprintf(w, "\033[1;33m  Same Video, Different Queries\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, o := range r.SameVideoQueries {
		fmt.Fprintf(w, "  %2d queries : %d videos\n", o.QueriesCount, o.Videos)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Most Repeated Results\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, rc := range r.RepeatedResults {
		fmt.Fprintf(w, "  %-16s %-38s x%d\n", truncate(rc.SearchTerm, 14), truncate(rc.URL, 36), rc.Count)
	}
	fmt.Fprintln(w)

	// Freshness
	fmt.Fprintf(w, "\033[1;33m  Freshness\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, f := range r.Freshness {
		fmt.Fprintf(w, "  %-12s \033[1;32m%6.2f%%\033[0m (%d/%d)\n", f.Platform, f.Percentage, f.Fresh, f.Total)
	}
	if r.InstagramFresh != nil {
		fmt.Fprintf(w, "  %-12s \033[1;32m%6.2f%%\033[0m (%d/%d, same or next day)\n",
			"instagram*", r.InstagramFresh.Percentage, r.InstagramFresh.Fresh, r.InstagramFresh.Total)
	}
	for _, m := range r.TopRankMedians {
		fmt.Fprintf(w, "  %-12s median %.1fh since posting (ranks 0-9)\n", m.Platform, m.MedianHours)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Hours Since Posted per Rank\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, rh := range r.RankHours {
		if rh.Rank > 9 {
			break
		}
		fmt.Fprintf(w, "  rank %-3d %-12s avg %8.1fh  median %8.1fh\n", rh.Rank, rh.Platform, rh.AvgHours, rh.MedianHours)
	}
	for _, h := range likesCheckpoints {
		if h > len(r.LikesOverHours) {
			break
		}
		l := r.LikesOverHours[h-1]
		fmt.Fprintf(w, "  posted within %4dh : %10.2f avg likes (%d rows)\n", l.Hours, l.AverageLikes, l.Rows)
	}
	fmt.Fprintln(w)

	// Categories
	if len(r.CategoryShares) > 0 {
		fmt.Fprintf(w, "\033[1;33m  Organisation Share\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %-12s %10s %10s %10s\n", "platform", "accounts", "videos", "likes")
		for _, c := range r.CategoryShares {
			fmt.Fprintf(w, "  %-12s %9.2f%% %9.2f%% %9.2f%%\n", c.Platform, c.Accounts, c.Videos, c.Likes)
		}
		for _, c := range r.CategoryLikes {
			fmt.Fprintf(w, "  %s average likes : %.2f\n", c.Category, c.AverageLikes)
		}
		fmt.Fprintf(w, "  ORG fraction     : %.2f\n", r.OrgFraction)
		for _, l := range r.OrgByLag {
			fmt.Fprintf(w, "  %6.0fh after trending : %6.2f%% ORG (%d rows)\n", l.LagHours, l.PercentageOrg, l.Rows)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// bar scales n against max onto at most width blocks, keeping at least one
// block for a non-zero n.
func bar(n, max, width int) string {
	if n <= 0 || max <= 0 {
		return ""
	}
	blocks := n * width / max
	if blocks == 0 {
		blocks = 1
	}
	return strings.Repeat("█", blocks)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
