package storage

import (
	"time"

	"search-analysis/models"
	"search-analysis/platform"
)

func sampleDataset() models.Dataset {
	row := models.NewRow()
	row.Set("url", models.StringValue("https://www.tiktok.com/@alice/video/1"))
	row.Set("likes", models.NumberValue(1500))
	row.Set("user name", models.StringValue("alice"))
	row.Set("upload time", models.TimeValue(time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)))
	row.Set("rank", models.NumberValue(0))
	row.Set("text", models.Absent())

	second := models.NewRow()
	second.Set("url", models.StringValue("https://www.youtube.com/watch?v=abc"))
	second.Set("likes", models.Absent())
	second.Set("user name", models.StringValue("bob"))

	t1 := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
	collected := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	return models.Dataset{
		{
			Fields:        row,
			SearchTerm:    "trump",
			Platform:      platform.TikTok,
			TrendingTime:  []time.Time{t1, t2},
			CollectedTime: collected,
			FirstTrending: t1,
			Category:      models.CategoryOrg,
		},
		{
			Fields:        second,
			SearchTerm:    "biden",
			Platform:      platform.YouTube,
			TrendingTime:  nil,
			CollectedTime: collected,
			FirstTrending: models.UnknownTrending,
		},
	}
}
