package ctx

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/addon"
	"github.com/tomtom215/catalogcore/pkg/aggr"
	"github.com/tomtom215/catalogcore/pkg/catalogtypes"
	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
)

// PullNotifications fans lastVideos requests to every addon that declares
// the resource for a library item's type, gathers the results, dedupes by
// (meta, video) and folds them into the notifications bucket.
func (c *Ctx) PullNotifications(environ env.Environment) effects.Effects {
	addons := c.Profile.Addons
	var requests []catalogtypes.ResourceRequest
	metaByRequestKey := make(map[string]string)
	for _, item := range c.Library.Items {
		if item.Removed {
			continue
		}
		path := catalogtypes.ResourcePath{Resource: "lastVideos", Type: item.Type, ID: item.ID}
		for _, r := range aggr.Plan(addons, aggr.AggrRequest{Kind: aggr.AllOfResource, Path: path}) {
			requests = append(requests, r)
			metaByRequestKey[r.Key()] = item.ID
		}
	}
	if len(requests) == 0 {
		return effects.None()
	}

	futures := make([]effects.Effects, 0, len(requests))
	for _, req := range requests {
		req := req
		metaID := metaByRequestKey[req.Key()]
		futures = append(futures, effects.FromFuture(func(ctxt context.Context) effects.Msg {
			transport := addon.NewFactory(environ, req.Base).Build()
			resp, err := transport.Resource(ctxt, req.Path)
			if err != nil {
				return effects.NewInternal("NotificationsPulledFromAddon", notificationsPulled{MetaID: metaID})
			}
			items := make([]catalogtypes.NotificationItem, 0, len(resp.Videos))
			for _, v := range resp.Videos {
				items = append(items, catalogtypes.NotificationItem{MetaID: metaID, VideoID: v.ID, Video: v})
			}
			return effects.NewInternal("NotificationsPulledFromAddon", notificationsPulled{MetaID: metaID, Items: items})
		}))
	}
	return effects.Join(futures...)
}

// notificationsPulled is the Internal message payload each lastVideos
// future resolves to.
type notificationsPulled struct {
	MetaID string
	Items  []catalogtypes.NotificationItem
}

// HandleNotificationsPulledFromAddon folds one addon's lastVideos result
// into the bucket and reports whether the model changed.
func (c *Ctx) HandleNotificationsPulledFromAddon(environ env.Environment, pulled notificationsPulled) effects.Effects {
	if len(pulled.Items) == 0 {
		return effects.None()
	}
	for _, item := range pulled.Items {
		c.Notifications.Add(item)
	}
	now := environ.Now().UnixMilli()
	c.Notifications.LastUpdated = &now
	return effects.Join(effects.Changed(), effects.FromFuture(func(context.Context) effects.Msg {
		return effects.NewEvent("NotificationsChanged", nil)
	}))
}

// DismissNotificationItem clears all pending notifications for one meta
// item.
func (c *Ctx) DismissNotificationItem(metaID string) effects.Effects {
	if _, ok := c.Notifications.Items[metaID]; !ok {
		return effects.None()
	}
	c.Notifications.Dismiss(metaID)
	return effects.Changed()
}
