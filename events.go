package paystream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const eventsPath = "/events"

// Event records something that happened to the account: a charge
// succeeded, a subscription renewed, an invoice was created. Events
// also arrive as webhook deliveries; see the webhook package.
type Event struct {
	ID              string    `json:"id"`
	Object          string    `json:"object"`
	Type            string    `json:"type"`
	Created         int64     `json:"created"`
	Livemode        bool      `json:"livemode"`
	PendingWebhooks int64     `json:"pendingWebhooks"`
	Request         *string   `json:"request"`
	Data            EventData `json:"data"`
}

// CreatedTime returns Created as a time.Time.
func (e *Event) CreatedTime() time.Time {
	return time.Unix(e.Created, 0)
}

func (e *Event) missingField() string {
	if e.ID == "" {
		return "id"
	}
	return ""
}

// EventData carries the resource snapshot an event describes. Object
// stays raw so callers can decode it into the record type the event's
// Type implies, for example a Charge for "charge.succeeded".
type EventData struct {
	Object             json.RawMessage `json:"object"`
	PreviousAttributes json.RawMessage `json:"previousAttributes"`
}

// EventList is one page of events.
type EventList struct {
	Object string  `json:"object"`
	Count  int     `json:"count"`
	Data   []Event `json:"data"`
	URL    string  `json:"url"`
}

// Retrieve fetches an event by ID.
func (s EventsService) Retrieve(ctx context.Context, id string) (*Event, error) {
	return retrieveEvent(ctx, s, id)
}

func retrieveEvent(ctx context.Context, b backend, id string) (*Event, error) {
	var event Event
	if err := b.call(ctx, http.MethodGet, eventsPath+"/"+url.PathEscape(id), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// List pages through recent events. params may carry count, offset,
// and a type filter such as "charge.*"; nil lists with the API
// defaults.
func (s EventsService) List(ctx context.Context, params Params) (*EventList, error) {
	return listEvents(ctx, s, params)
}

func listEvents(ctx context.Context, b backend, params Params) (*EventList, error) {
	var list EventList
	if err := b.call(ctx, http.MethodGet, eventsPath, params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
