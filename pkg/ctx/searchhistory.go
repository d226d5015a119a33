package ctx

import (
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// RecordSearchHistory inserts or refreshes a query's timestamp, last-write
// wins on conflict.
func (c *Ctx) RecordSearchHistory(environ env.Environment, query string) effects.Effects {
	c.SearchHistory.Record(query, environ.Now().UnixMilli())
	return effects.Changed()
}

// ClearSearchHistory empties the search history bucket.
func (c *Ctx) ClearSearchHistory() effects.Effects {
	c.SearchHistory.Items = map[string]int64{}
	return effects.Changed()
}
