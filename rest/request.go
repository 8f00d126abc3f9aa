package rest

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gosdmx/sdmx/model"
)

// RequestArgs collects everything needed to build a query URL. A source
// hook may adjust the arguments before the URL is constructed.
type RequestArgs struct {
	Resource Resource

	// Artefact reference. For data queries ID names the dataflow.
	AgencyID string
	ID       string
	Version  string

	// Data query selectors.
	Key      string
	Provider string

	// Query parameters.
	StartPeriod string
	EndPeriod   string
	Detail      string
	References  string

	// Headers to send with the request.
	Headers http.Header

	// DSD aids parsing of structure-specific data and triggers the
	// structure-specific Accept header on XML sources.
	DSD *model.DataStructureDefinition
}

// SetHeader sets a request header, allocating the header map if needed.
func (a *RequestArgs) SetHeader(key, value string) {
	if a.Headers == nil {
		a.Headers = make(http.Header)
	}
	a.Headers.Set(key, value)
}

// HasHeader reports whether the header is already set.
func (a *RequestArgs) HasHeader(key string) bool {
	return a.Headers != nil && a.Headers.Get(key) != ""
}

// URL builds the query URL against base.
//
// Data queries use the form data/<flow>/<key>/<provider>; structure
// queries use <resource>/<agency>/<id>/<version>. Empty selectors fall
// back to the "all" (and "latest" for version) wildcards defined by the
// standard.
func (a *RequestArgs) URL(base string) (string, error) {
	if base == "" {
		return "", fmt.Errorf("cannot build query URL without a base URL")
	}
	if !a.Resource.Valid() {
		return "", fmt.Errorf("unknown SDMX-REST resource %q", string(a.Resource))
	}

	var parts []string
	if a.Resource == Data {
		if a.ID == "" {
			return "", fmt.Errorf("data query requires a dataflow ID")
		}
		flow := a.ID
		if a.AgencyID != "" {
			flow = a.AgencyID + "," + a.ID
			if a.Version != "" {
				flow += "," + a.Version
			}
		}
		parts = []string{string(Data), flow}
		if a.Key != "" || a.Provider != "" {
			parts = append(parts, orAll(a.Key))
		}
		if a.Provider != "" {
			parts = append(parts, a.Provider)
		}
	} else {
		parts = []string{string(a.Resource), orAll(a.AgencyID), orAll(a.ID)}
		if a.Version != "" {
			parts = append(parts, a.Version)
		} else if a.References != "" || a.Detail != "" {
			parts = append(parts, "latest")
		}
	}

	u := strings.TrimRight(base, "/") + "/" + strings.Join(parts, "/")

	q := url.Values{}
	if a.StartPeriod != "" {
		q.Set("startPeriod", a.StartPeriod)
	}
	if a.EndPeriod != "" {
		q.Set("endPeriod", a.EndPeriod)
	}
	if a.Detail != "" {
		q.Set("detail", a.Detail)
	}
	if a.References != "" {
		q.Set("references", a.References)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u, nil
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}
