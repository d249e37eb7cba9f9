package evm

import (
	"errors"
	"net/url"
)

// redactEndpoint reduces an RPC endpoint to scheme and host. Providers put
// API keys in the path, the query or the userinfo.
func redactEndpoint(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "<rpc endpoint>"
	}
	if (u.Path == "" || u.Path == "/") && u.RawQuery == "" && u.User == nil {
		return u.Scheme + "://" + u.Host
	}
	return u.Scheme + "://" + u.Host + "/…"
}

// redactErr rewrites the URL of every *url.Error in err's chain. The HTTP
// transport reports the full endpoint in its error text.
func redactErr(err error) error {
	for e := err; e != nil; {
		var ue *url.Error
		if !errors.As(e, &ue) {
			break
		}
		ue.URL = redactEndpoint(ue.URL)
		e = ue.Err
	}
	return err
}
