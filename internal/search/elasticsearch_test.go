package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techzeon/internal/models"
)

func TestBuildSearchRequest_MatchAllWithoutFilter(t *testing.T) {
	req := buildSearchRequest(models.EventFilter{})

	assert.Contains(t, req["query"], "match_all")
	sort := req["sort"].([]map[string]any)
	require.Len(t, sort, 3)
	assert.Contains(t, sort[0], "date")
	assert.Equal(t, maxResults, req["size"])
}

func TestBuildSearchRequest_QueryAndCategory(t *testing.T) {
	req := buildSearchRequest(models.EventFilter{Query: "robotics", Category: "Workshop"})

	boolQuery := req["query"].(map[string]any)["bool"].(map[string]any)
	assert.NotContains(t, boolQuery, "must")

	filters := boolQuery["filter"].([]map[string]any)
	require.Len(t, filters, 2)
	assert.Contains(t, filters[0], "wildcard")
	assert.Equal(t, map[string]any{"category": "Workshop"}, filters[1]["term"])

	sort := req["sort"].([]map[string]any)
	assert.Contains(t, sort[0], "date")
}

func TestBuildSearchRequest_QueryIsTitleSubstring(t *testing.T) {
	req := buildSearchRequest(models.EventFilter{Query: "conf"})

	filters := req["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]map[string]any)
	require.Len(t, filters, 1)

	wildcard := filters[0]["wildcard"].(map[string]any)
	require.Len(t, wildcard, 1, "only the title is searched")
	title := wildcard["title.keyword"].(map[string]any)
	assert.Equal(t, "*conf*", title["value"])
	assert.Equal(t, true, title["case_insensitive"])
	assert.NotContains(t, title, "fuzziness")
}

func TestBuildSearchRequest_EscapesWildcardCharacters(t *testing.T) {
	req := buildSearchRequest(models.EventFilter{Query: `C* ?\`})

	filters := req["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]map[string]any)
	title := filters[0]["wildcard"].(map[string]any)["title.keyword"].(map[string]any)
	assert.Equal(t, `*C\* \?\\*`, title["value"])
}

func TestBuildSearchRequest_CategoryOnlyKeepsDateOrder(t *testing.T) {
	req := buildSearchRequest(models.EventFilter{Category: "Conference"})

	boolQuery := req["query"].(map[string]any)["bool"].(map[string]any)
	assert.NotContains(t, boolQuery, "must")
	assert.Contains(t, req["sort"].([]map[string]any)[0], "date")
}

func TestIndexMappingUsesKeywordCategory(t *testing.T) {
	props := indexMapping()["mappings"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, "keyword", props["category"].(map[string]any)["type"])
	assert.Equal(t, "yyyy-MM-dd", props["date"].(map[string]any)["format"])

	keyword := props["title"].(map[string]any)["fields"].(map[string]any)["keyword"].(map[string]any)
	assert.Equal(t, 512, keyword["ignore_above"])
}
