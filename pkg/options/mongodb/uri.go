package mongodb

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// BuildURI builds a MongoDB connection string from options.
//
// An explicit URI is used as the base; otherwise one is built from host,
// port and database. Credentials are never embedded, they are applied to the
// client separately. ReplicaSet, Direct and DriverOptions are appended as
// query parameters, sorted by key.
func BuildURI(opts *Options) string {
	base := opts.URI
	if base == "" {
		host := opts.Host
		if opts.Port != 0 {
			host = net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
		}
		base = "mongodb://" + host + "/" + opts.Database
	}

	params := url.Values{}
	if opts.ReplicaSet != "" {
		params.Set("replicaSet", opts.ReplicaSet)
	}
	if opts.Direct {
		params.Set("directConnection", "true")
	}
	for k, v := range opts.DriverOptions {
		params.Set(k, v)
	}

	if len(params) == 0 {
		return base
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + params.Encode()
}

// Redact returns uri with any password replaced, for logging.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), redactedPassword)
	}
	return u.String()
}
