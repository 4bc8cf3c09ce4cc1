package sciener

import (
	"context"
	"net/url"
)

// Unlock opens the lock remotely through its gateway.
func (c *Client) Unlock(ctx context.Context, args UnlockArgs) (*Result, error) {
	form := url.Values{}
	setCredentials(form, args.LockCredentials)
	form.Set("date", c.nowMillis())

	var out Result
	if err := c.postForm(ctx, unlockPath, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
