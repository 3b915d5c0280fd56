package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndRecentSearches(t *testing.T) {
	db := SetupTestDB(t)

	err := RecordSearch(db, &SearchRecord{
		Tool:        "search_flights",
		Route:       "JFK-LAX",
		Date:        "2026-09-10",
		Legs:        1,
		ResultCount: 12,
		APICalls:    1,
	})
	assert.NoError(t, err)

	failedLeg := 1
	err = RecordSearch(db, &SearchRecord{
		Tool:       "search_multi_city_flights",
		Route:      "SYD-SIN",
		Date:       "2026-09-10",
		Legs:       3,
		Strategy:   "balanced",
		TotalPrice: 1240.50,
		APICalls:   4,
		FailedLeg:  &failedLeg,
	})
	assert.NoError(t, err)

	records, err := RecentSearches(db, 10)
	assert.NoError(t, err)
	assert.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "search_multi_city_flights", records[0].Tool)
	assert.NotNil(t, records[0].FailedLeg)
	assert.Equal(t, 1, *records[0].FailedLeg)
	assert.Equal(t, "search_flights", records[1].Tool)
	assert.Nil(t, records[1].FailedLeg)
}

func TestRecentSearchesLimit(t *testing.T) {
	db := SetupTestDB(t)

	for i := 0; i < 5; i++ {
		assert.NoError(t, RecordSearch(db, &SearchRecord{Tool: "search_flights", Route: "ATL-ORD"}))
	}

	records, err := RecentSearches(db, 3)
	assert.NoError(t, err)
	assert.Len(t, records, 3)
}
