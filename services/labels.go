package services

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"search-analysis/models"
	"search-analysis/utils"
)

// Categorizer tags entries with the ORG or IND bucket of their author.
type Categorizer struct {
	byName map[string]string
	logger *utils.Logger
}

// NewCategorizer indexes labels by user name. A label containing "IND" maps to
// IND and anything else to ORG; a later label for the same name wins.
func NewCategorizer(labels []models.Label, logger *utils.Logger) *Categorizer {
	byName := make(map[string]string, len(labels))
	for _, l := range labels {
		cat := models.CategoryOrg
		if strings.Contains(l.Category, models.CategoryIndividual) {
			cat = models.CategoryIndividual
		}
		byName[l.UserName] = cat
	}
	return &Categorizer{byName: byName, logger: logger}
}

// Categorize returns a copy of d with Category set on every entry whose author
// is labelled. Unmatched entries keep an empty category.
func (c *Categorizer) Categorize(d models.Dataset) models.Dataset {
	out := make(models.Dataset, len(d))
	matched := 0
	for i, e := range d {
		out[i] = e
		out[i].Category = ""
		name, ok := e.UserName()
		if !ok {
			continue
		}
		if cat, found := c.byName[name]; found {
			out[i].Category = cat
			matched++
		}
	}
	c.logger.Info("[labels] Categorized %d/%d entries from %d labels", matched, len(d), len(c.byName))
	return out
}

// CategoryShares reports, per platform in order of appearance, the ORG share
// of distinct accounts, of rows and of likes.
func CategoryShares(d models.Dataset) []models.CategoryShare {
	var out []models.CategoryShare
	for _, p := range d.Platforms() {
		out = append(out, categoryShare(string(p), d.ByPlatform(p)))
	}
	return out
}

func categoryShare(name string, d models.Dataset) models.CategoryShare {
	accounts := make(map[string]struct{})
	orgAccounts := make(map[string]struct{})
	var orgRows int
	var orgLikes, indLikes int64

	for _, e := range d {
		user, hasUser := e.UserName()
		if hasUser {
			accounts[user] = struct{}{}
		}
		likes, _ := e.Likes()
		switch e.Category {
		case models.CategoryOrg:
			orgRows++
			orgLikes += likes
			if hasUser {
				orgAccounts[user] = struct{}{}
			}
		case models.CategoryIndividual:
			indLikes += likes
		}
	}

	return models.CategoryShare{
		Platform: name,
		Accounts: percent(len(orgAccounts), len(accounts)),
		Videos:   percent(orgRows, len(d)),
		Likes:    percent64(orgLikes, orgLikes+indLikes),
	}
}

// AverageLikesPerCategory averages likes over categorized rows with a like count.
func AverageLikesPerCategory(d models.Dataset) []models.CategoryLikes {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, e := range d {
		likes, ok := e.Likes()
		if e.Category == "" || !ok {
			continue
		}
		sums[e.Category] += float64(likes)
		counts[e.Category]++
	}

	cats := lo.Keys(counts)
	sort.Strings(cats)
	return lo.Map(cats, func(cat string, _ int) models.CategoryLikes {
		return models.CategoryLikes{Category: cat, AverageLikes: sums[cat] / float64(counts[cat])}
	})
}

// OrgFraction is ORG rows over categorized rows, 0 when nothing is categorized.
func OrgFraction(d models.Dataset) float64 {
	var org, ind int
	for _, e := range d {
		switch {
		case strings.Contains(e.Category, models.CategoryOrg):
			org++
		case strings.Contains(e.Category, models.CategoryIndividual):
			ind++
		}
	}
	if org+ind == 0 {
		return 0
	}
	return float64(org) / float64(org+ind)
}

// OrgShareByTrendingLag groups rows by the hours between first trending and
// collection and reports the ORG share of each group. Rows without a known
// trending time are left out.
func OrgShareByTrendingLag(d models.Dataset) []models.LagShare {
	type bucket struct{ rows, org int }
	buckets := make(map[float64]*bucket)
	for _, e := range d {
		lag, ok := TrendingLag(e)
		if !ok {
			continue
		}
		b, exists := buckets[lag]
		if !exists {
			b = &bucket{}
			buckets[lag] = b
		}
		b.rows++
		if e.Category == models.CategoryOrg {
			b.org++
		}
	}

	lags := lo.Keys(buckets)
	sort.Float64s(lags)
	out := make([]models.LagShare, 0, len(lags))
	for _, lag := range lags {
		b := buckets[lag]
		out = append(out, models.LagShare{LagHours: lag, Rows: b.rows, PercentageOrg: percent(b.org, b.rows)})
	}
	return out
}

// TrendingLag is the hours between first trending and collection of e. Rows
// from files without a trending time have none.
func TrendingLag(e models.Entry) (float64, bool) {
	if len(e.TrendingTime) == 0 {
		return 0, false
	}
	return e.CollectedTime.Sub(e.FirstTrending).Round(time.Second).Hours(), true
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func percent64(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
