package aircall

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const pageSize = 50

// RequestAllItems fetches every page of a list endpoint and concatenates the
// arrays found under property, preserving server order. A page without the
// property contributes zero items. meta.next_page_link being non-null and
// non-empty is the sole continue signal; the loop otherwise trusts the server
// to terminate, bounded only by the client's optional MaxPages ceiling.
func (c *Client) RequestAllItems(ctx context.Context, method, endpoint, property string, body map[string]any, query url.Values) ([]any, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", strconv.Itoa(pageSize))

	var returnData []any
	page := 1

	for {
		query.Set("page", strconv.Itoa(page))

		response, err := c.Request(ctx, method, endpoint, body, query)
		if err != nil {
			return nil, err
		}

		if items, ok := response[property].([]any); ok {
			returnData = append(returnData, items...)
		}

		if !hasNextPage(response) {
			return returnData, nil
		}

		page++
		if c.maxPages > 0 && page > c.maxPages {
			return nil, fmt.Errorf("%w: stopped after %d pages of %s", ErrPaginationLimit, c.maxPages, endpoint)
		}
	}
}

func hasNextPage(response map[string]any) bool {
	meta, ok := response["meta"].(map[string]any)
	if !ok {
		return false
	}
	link, ok := meta["next_page_link"].(string)
	return ok && link != ""
}
