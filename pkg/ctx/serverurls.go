package ctx

import (
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// AddServerUrl inserts a new streaming-server URL, evicting the oldest
// non-default entry once the book is at capacity.
func (c *Ctx) AddServerUrl(environ env.Environment, url string) (int, effects.Effects) {
	id := c.ServerURLs.Add(url, environ.Now().UnixMilli())
	return id, effects.Changed()
}

// DeleteServerUrl removes a streaming-server URL entry; the default slot
// can never be removed.
func (c *Ctx) DeleteServerUrl(id int) (effects.Effects, error) {
	if id == catalogtypes.DefaultServerURLID {
		return effects.None(), otherErr(ServerURLIsDefault)
	}
	if !c.ServerURLs.Delete(id) {
		return effects.None(), otherErr(ServerURLNotFound)
	}
	return effects.Changed(), nil
}
