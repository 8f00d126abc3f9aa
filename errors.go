package sdmx

import "fmt"

// HTTPError reports a non-2xx response from a source.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("sdmx: %s returned %s", e.URL, e.Status)
}

// UnsupportedResourceError reports a query for an endpoint the source
// does not implement, detected before any I/O.
type UnsupportedResourceError struct {
	SourceID string
	Resource string
}

func (e *UnsupportedResourceError) Error() string {
	return fmt.Sprintf("sdmx: source %s does not support the %s endpoint", e.SourceID, e.Resource)
}

// UnknownContentTypeError reports a payload no reader recognizes, after
// the source's response hook had its chance to repair it.
type UnknownContentTypeError struct {
	ContentType string
	URL         string
}

func (e *UnknownContentTypeError) Error() string {
	return fmt.Sprintf("sdmx: no reader for content type %q from %s", e.ContentType, e.URL)
}
