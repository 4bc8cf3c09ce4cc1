package sciener

import (
	"context"
	"net/url"
	"strconv"
)

// AddPasscode registers a time-boxed custom passcode on the lock.
func (c *Client) AddPasscode(ctx context.Context, args AddPasscodeArgs) (*AddPasscodeResponse, error) {
	form := url.Values{}
	setCredentials(form, args.LockCredentials)
	form.Set("keyboardPwd", args.Passcode)
	form.Set("keyboardPwdName", args.Label)
	form.Set("keyboardPwdType", "")
	form.Set("startDate", strconv.FormatInt(args.Start.UnixMilli(), 10))
	form.Set("endDate", strconv.FormatInt(args.End.UnixMilli(), 10))
	form.Set("addType", strconv.Itoa(addTypeViaGateway))
	form.Set("date", c.nowMillis())

	var out AddPasscodeResponse
	if err := c.postForm(ctx, addPasscodePath, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePasscode revokes a passcode previously registered with AddPasscode.
func (c *Client) DeletePasscode(ctx context.Context, args DeletePasscodeArgs) (*Result, error) {
	form := url.Values{}
	setCredentials(form, args.LockCredentials)
	form.Set("keyboardPwdId", strconv.FormatInt(args.KeyboardPwdID, 10))
	form.Set("deleteType", strconv.Itoa(deleteTypeViaGateway))
	form.Set("date", c.nowMillis())

	var out Result
	if err := c.postForm(ctx, deletePasscodePath, form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
