package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/godbc/godbc/dberr"
)

// URL is the parsed form of a "cpp_dbc:<backend>://..." connection string
// (spec.md §3, ConnectionURL; §6, URL grammar). The "cpp_dbc:" scheme
// prefix is kept verbatim — it is the wire-level constant the spec's
// worked examples use, and changing it would break URL compatibility.
type URL struct {
	Raw      string
	Backend  string
	Host     string
	Port     int
	HasPort  bool
	Database string
	Options  map[string]string
}

// ParseURL parses the common "cpp_dbc:<backend>://[host[:port]][/db][?k=v]"
// grammar shared by every driver. sqlite's "cpp_dbc:sqlite://<path>" form,
// where <path> may be ":memory:" or a filesystem path, is special-cased:
// the whole authority+path segment becomes Database and Host is empty.
func ParseURL(raw string) (*URL, error) {
	const prefix = "cpp_dbc:"
	if !strings.HasPrefix(raw, prefix) {
		return nil, dberr.Newf(dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid,
			"url %q missing cpp_dbc: scheme prefix", raw)
	}
	rest := raw[len(prefix):]

	sepIdx := strings.Index(rest, "://")
	if sepIdx < 0 {
		return nil, dberr.Newf(dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid,
			"url %q missing backend://", raw)
	}
	backend := rest[:sepIdx]
	body := rest[sepIdx+3:]

	query := ""
	if qIdx := strings.Index(body, "?"); qIdx >= 0 {
		query = body[qIdx+1:]
		body = body[:qIdx]
	}

	options := map[string]string{}
	if query != "" {
		for _, kv := range strings.Split(query, "&") {
			if kv == "" {
				continue
			}
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) == 2 {
				options[parts[0]] = parts[1]
			} else {
				options[parts[0]] = ""
			}
		}
	}

	if backend == "sqlite" {
		return &URL{Raw: raw, Backend: backend, Database: body, Options: options}, nil
	}

	authority := body
	database := ""
	if slashIdx := strings.Index(body, "/"); slashIdx >= 0 {
		authority = body[:slashIdx]
		database = body[slashIdx+1:]
	}

	host := authority
	port := 0
	hasPort := false
	if colonIdx := strings.LastIndex(authority, ":"); colonIdx >= 0 {
		host = authority[:colonIdx]
		p, err := strconv.Atoi(authority[colonIdx+1:])
		if err != nil {
			return nil, dberr.Newf(dberr.CodeRegistryURLParseFailed, dberr.KindURLInvalid,
				"url %q has non-numeric port", raw)
		}
		port = p
		hasPort = true
	}

	return &URL{
		Raw: raw, Backend: backend, Host: host, Port: port, HasPort: hasPort,
		Database: database, Options: options,
	}, nil
}

// BuildURI reconstructs a URL string from its parts, the way each driver's
// BuildURI(host, port, db, options) publishes its own canonical form
// (spec.md §6).
func BuildURI(backend, host string, port int, database string, options map[string]string) string {
	var b strings.Builder
	b.WriteString("cpp_dbc:")
	b.WriteString(backend)
	b.WriteString("://")
	b.WriteString(host)
	if port > 0 {
		fmt.Fprintf(&b, ":%d", port)
	}
	if database != "" {
		b.WriteString("/")
		b.WriteString(database)
	}
	if len(options) > 0 {
		b.WriteString("?")
		first := true
		for k, v := range options {
			if !first {
				b.WriteString("&")
			}
			first = false
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(v)
		}
	}
	return b.String()
}
