package services

import (
	"sort"
	"time"

	"search-analysis/models"
	"search-analysis/platform"
)

type collectionKey struct {
	platform   platform.Platform
	searchTerm string
	collected  time.Time
}

type matchKey struct {
	collectionKey
	url string
}

// PickOne keeps a single collection run per (platform, search term): the
// earliest collection time. Rows of that run are re-expanded url by url and
// exact repeats are dropped. Rows without a url cannot be matched and are
// dropped. Running PickOne on its own output returns the same rows.
func PickOne(d models.Dataset) models.Dataset {
	urls := make(map[collectionKey][]string)
	var groups []collectionKey
	rows := make(map[matchKey][]int)

	for i, e := range d {
		if e.Fields.Value(string(platform.URL)).IsAbsent() {
			continue
		}
		ck := collectionKey{platform: e.Platform, searchTerm: e.SearchTerm, collected: e.CollectedTime.UTC()}
		if _, ok := urls[ck]; !ok {
			groups = append(groups, ck)
		}
		urls[ck] = append(urls[ck], e.URL())
		mk := matchKey{collectionKey: ck, url: e.URL()}
		rows[mk] = append(rows[mk], i)
	}

	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.platform != b.platform {
			return a.platform < b.platform
		}
		if a.searchTerm != b.searchTerm {
			return a.searchTerm < b.searchTerm
		}
		return a.collected.Before(b.collected)
	})

	type runKey struct {
		platform   platform.Platform
		searchTerm string
	}
	kept := make(map[runKey]struct{})
	seen := make(map[string]struct{})
	var out models.Dataset

	for _, ck := range groups {
		rk := runKey{platform: ck.platform, searchTerm: ck.searchTerm}
		if _, dup := kept[rk]; dup {
			continue
		}
		kept[rk] = struct{}{}

		for _, u := range urls[ck] {
			for _, idx := range rows[matchKey{collectionKey: ck, url: u}] {
				k := d[idx].Key()
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				out = append(out, d[idx])
			}
		}
	}
	return out
}

// UniqueVideos keeps the last entry of every url, in dataset order.
func UniqueVideos(d models.Dataset) models.Dataset {
	last := make(map[string]int, len(d))
	for i, e := range d {
		last[e.URL()] = i
	}
	out := make(models.Dataset, 0, len(last))
	for i, e := range d {
		if last[e.URL()] == i {
			out = append(out, e)
		}
	}
	return out
}
