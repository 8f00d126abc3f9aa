package source

import (
	"bytes"
	"net/http"
)

// The SDMX Global Registry serves SDMX-ML under a generic content type,
// so no reader claims the payload. When the body is recognizably XML,
// repair the content type and let reader selection run again.
func sgrHandleResponse(_ *Source, resp *http.Response, body []byte) (*http.Response, []byte, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<")) {
		resp.Header.Set("Content-Type", "application/xml")
	}
	return resp, body, nil
}
