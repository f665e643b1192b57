package amazfit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// defaultEventPageLimit matches the page size the official app requests.
const defaultEventPageLimit = 1000

// eventEnvelope wraps a page of items from the events endpoint.
type eventEnvelope struct {
	Items []json.RawMessage `json:"items"`
}

// eventCursor is the minimal per-item decode needed to advance pagination.
type eventCursor struct {
	Timestamp unixMillis `json:"timestamp"`
}

// events fetches all items of the given event type in the inclusive date
// range, walking the timestamp cursor until a short page or the end of the
// range. Items are returned raw; each caller decodes its own shape.
func (c *Client) events(ctx context.Context, eventType string, start, end time.Time, extra url.Values) ([]json.RawMessage, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%s/users/%s/events", c.eventsBaseURL, url.PathEscape(c.userID))
	cursor, endMs := rangeMillis(start, end)
	endpoint := "events/" + eventType

	var items []json.RawMessage
	for cursor <= endMs {
		q := url.Values{}
		q.Set("eventType", eventType)
		q.Set("limit", strconv.Itoa(c.eventPageLimit))
		q.Set("from", strconv.FormatInt(cursor, 10))
		q.Set("to", strconv.FormatInt(endMs, 10))
		for k, vs := range extra {
			for _, v := range vs {
				q.Set(k, v)
			}
		}

		var page eventEnvelope
		if err := c.getJSON(ctx, endpoint, base+"?"+q.Encode(), &page); err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			break
		}

		items = append(items, page.Items...)

		if len(page.Items) < c.eventPageLimit {
			break
		}

		// Full page: advance the cursor past the newest timestamp seen so
		// the truncated tail is refetched from the right position.
		var maxTs int64
		for _, raw := range page.Items {
			var cur eventCursor
			if err := json.Unmarshal(raw, &cur); err != nil {
				continue
			}
			if int64(cur.Timestamp) > maxTs {
				maxTs = int64(cur.Timestamp)
			}
		}
		if maxTs <= cursor || maxTs >= endMs {
			break
		}
		cursor = maxTs + 1
	}

	return items, nil
}
