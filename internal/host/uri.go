package host

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

// ErrBadBufferURI indicates a URI that does not carry a backend buffer
// id in its authority component.
var ErrBadBufferURI = errors.New("host: not a buffer uri")

// BufferURI builds the synthetic URI for a backend-originated buffer.
// The buffer id becomes the authority and the buffer's backend-side name
// the path, so the id survives round trips through the host unchanged.
func BufferURI(scheme string, id int, name string) string {
	u := url.URL{
		Scheme: scheme,
		Host:   strconv.Itoa(id),
		Path:   "/" + strings.TrimPrefix(name, "/"),
	}
	return u.String()
}

// ParseBufferURI extracts the backend buffer id and name from a URI
// produced by BufferURI.
func ParseBufferURI(uri string) (id int, name string, err error) {
	u, err := url.Parse(uri)
	if err != nil {
		return 0, "", ErrBadBufferURI
	}
	id, err = strconv.Atoi(u.Host)
	if err != nil || id <= 0 {
		return 0, "", ErrBadBufferURI
	}
	return id, strings.TrimPrefix(u.Path, "/"), nil
}

// FileURI turns a backend-side buffer name into a host document URI.
// Names that already carry a scheme pass through unchanged; plain paths
// become file URIs.
func FileURI(name string) string {
	if URIScheme(name) != "" {
		return name
	}
	u := url.URL{
		Scheme: "file",
		Path:   "/" + strings.TrimPrefix(name, "/"),
	}
	return u.String()
}

// URIScheme returns the scheme of uri, or "" when uri is not a URI.
// Backend buffer names are frequently plain file paths; those yield "".
func URIScheme(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return ""
	}
	// A single-letter scheme is almost always a Windows drive path.
	if len(u.Scheme) < 2 {
		return ""
	}
	return u.Scheme
}

// IsHostURI reports whether uri belongs to the host editor, judged by
// its scheme. Buffer names that are not URIs never match.
func IsHostURI(uri string, hostSchemes []string) bool {
	scheme := URIScheme(uri)
	if scheme == "" {
		return false
	}
	for _, s := range hostSchemes {
		if scheme == s {
			return true
		}
	}
	return false
}
