package ctx

import (
	"context"

	"github.com/tomtom215/catalogcore/pkg/effects"
	"github.com/tomtom215/catalogcore/pkg/env"
	"github.com/tomtom215/catalogcore/pkg/loadable"
)

// GetEvents fetches the two date-scoped API endpoints (modal-of-the-day,
// notification-of-the-day) into their respective Loadable fields.
func (c *Ctx) GetEvents(environ env.Environment, apiURL string) effects.Effects {
	c.Events.Modal = loadable.Loading[any, loadable.ResourceError]()
	c.Events.Notification = loadable.Loading[any, loadable.ResourceError]()

	client := newAPIClient(environ, apiURL)
	date := environ.Now().UnixMilli()

	modal := effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		raw, err := client.getModal(ctxt, date)
		if err != nil {
			return effects.NewInternal("ModalFetched", eventFetchResult{Err: toCtxError(err)})
		}
		return effects.NewInternal("ModalFetched", eventFetchResult{Value: raw})
	})
	notification := effects.FromFutureChanged(func(ctxt context.Context) effects.Msg {
		raw, err := client.getNotification(ctxt, date)
		if err != nil {
			return effects.NewInternal("NotificationOfTheDayFetched", eventFetchResult{Err: toCtxError(err)})
		}
		return effects.NewInternal("NotificationOfTheDayFetched", eventFetchResult{Value: raw})
	})

	return effects.Join(effects.Changed(), modal, notification)
}

// eventFetchResult is the Internal message payload GetEvents' two futures
// resolve to.
type eventFetchResult struct {
	Value any
	Err   CtxError
}

// HandleModalFetched resolves the Modal Loadable field.
func (c *Ctx) HandleModalFetched(result eventFetchResult) effects.Effects {
	c.Events.Modal = loadable.FoldResult[any](result.Value, resultErr(result.Err), isNilValue)
	return effects.Changed()
}

// HandleNotificationOfTheDayFetched resolves the Notification Loadable
// field.
func (c *Ctx) HandleNotificationOfTheDayFetched(result eventFetchResult) effects.Effects {
	c.Events.Notification = loadable.FoldResult[any](result.Value, resultErr(result.Err), isNilValue)
	return effects.Changed()
}

func resultErr(err CtxError) error {
	if err == (CtxError{}) {
		return nil
	}
	return err
}

func isNilValue(v any) bool { return v == nil }
