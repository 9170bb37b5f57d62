package ghapi

import "net/url"

// SetBaseURLForTest points the underlying API client at a local server.
func (x *Client) SetBaseURLForTest(u *url.URL) {
	x.gh.BaseURL = u
}
