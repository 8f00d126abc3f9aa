package sdmx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/gosdmx/sdmx/logger"
	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
	"github.com/gosdmx/sdmx/reader"
	"github.com/gosdmx/sdmx/rest"
	"github.com/gosdmx/sdmx/source"
	"github.com/gosdmx/sdmx/worker"

	// Register the bundled readers.
	_ "github.com/gosdmx/sdmx/reader/sdmxjson"
	_ "github.com/gosdmx/sdmx/reader/sdmxml"
)

// maxBodyBytes caps the size of a response payload.
const maxBodyBytes = 512 << 20

// Client queries one SDMX data source.
type Client struct {
	src     *source.Source
	opts    *Options
	http    *http.Client
	cache   *gocache.Cache
	metrics *Metrics
	log     *logger.Logger
}

// NewClient creates a client for the source with the given registry ID.
// An empty ID creates a source-less client; it requires WithBaseURL and
// uses the default request behavior.
func NewClient(sourceID string, opts ...Option) (*Client, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	src := source.NoSource
	if sourceID != "" {
		var err error
		src, err = source.Lookup(sourceID)
		if err != nil {
			return nil, err
		}
	} else if options.BaseURL == "" {
		return nil, fmt.Errorf("sdmx: a client needs a source ID or WithBaseURL")
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	c := &Client{
		src:     src,
		opts:    options,
		http:    httpClient,
		metrics: NewMetrics(),
		log:     options.Logger,
	}
	if options.CacheEnabled {
		c.cache = gocache.New(options.CacheTTL, 2*options.CacheTTL)
	}
	return c, nil
}

// Source returns the source configuration the client queries.
func (c *Client) Source() *source.Source { return c.src }

// Metrics returns the client's metrics.
func (c *Client) Metrics() *Metrics { return c.metrics }

// baseURL returns the effective base URL for queries.
func (c *Client) baseURL() string {
	if c.opts.BaseURL != "" {
		return c.opts.BaseURL
	}
	return c.src.URL
}

// cachedResponse is what the response cache stores: enough to re-parse
// without re-fetching.
type cachedResponse struct {
	contentType string
	body        []byte
}

// Get performs one query described by args: the source hook adjusts the
// arguments, the URL is built, the response is fetched (or served from
// cache), matched to a reader and parsed, and the source's
// post-processing hook runs on the message.
func (c *Client) Get(ctx context.Context, args *rest.RequestArgs) (message.Message, error) {
	// Shallow copy so hook adjustments do not leak back to the caller.
	a := *args

	if err := c.src.ModifyRequestArgs(&a); err != nil {
		return nil, err
	}

	if err := c.checkSupport(&a); err != nil {
		return nil, err
	}

	u, err := a.URL(c.baseURL())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}
	for k, v := range c.src.Headers {
		req.Header.Set(k, v)
	}
	for k, vs := range a.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	contentType, body, err := c.fetch(req)
	if err != nil {
		return nil, err
	}

	rdr, resolvedType, body, err := c.selectReader(contentType, body, u)
	if err != nil {
		return nil, err
	}

	msg, err := rdr.Read(bytes.NewReader(body), a.DSD)
	if err != nil {
		return nil, err
	}
	c.storeCache(cacheKey(req), resolvedType, body)

	return c.src.FinishMessage(msg, req)
}

// checkSupport rejects queries for endpoints the source does not
// implement before any I/O happens.
func (c *Client) checkSupport(a *rest.RequestArgs) error {
	if c.src == source.NoSource {
		return nil
	}
	if !c.src.SupportsResource(a.Resource) {
		return &UnsupportedResourceError{SourceID: c.src.ID, Resource: string(a.Resource)}
	}
	if a.Detail == "serieskeysonly" && !c.src.Supports[source.CapabilityPreview] {
		return &UnsupportedResourceError{SourceID: c.src.ID, Resource: source.CapabilityPreview}
	}
	return nil
}

func cacheKey(req *http.Request) string {
	return req.URL.String() + "\x00" + req.Header.Get("Accept")
}

// fetch returns the response content type and body, served from the
// cache when possible.
func (c *Client) fetch(req *http.Request) (string, []byte, error) {
	key := cacheKey(req)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			cached := v.(cachedResponse)
			c.metrics.RecordCacheHit()
			c.log.Debug("cache hit for %s", req.URL)
			return cached.contentType, cached.body, nil
		}
		c.metrics.RecordCacheMiss()
	}

	c.log.Info("GET %s", req.URL)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRequest(time.Since(start), true)
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	failed := err != nil || resp.StatusCode >= 400
	c.metrics.RecordRequest(time.Since(start), failed)
	if err != nil {
		return "", nil, err
	}
	c.metrics.RecordBytes(len(body))

	if resp.StatusCode >= 400 {
		c.log.Warn("GET %s returned %s", req.URL, resp.Status)
		return "", nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        req.URL.String(),
			Body:       body,
		}
	}

	return resp.Header.Get("Content-Type"), body, nil
}

// selectReader matches the payload to a reader: first by the response
// content type, then, after giving the source's response hook a chance
// to repair the response, by sniffing the payload head.
func (c *Client) selectReader(contentType string, body []byte, url string) (reader.Reader, string, []byte, error) {
	if rdr, ok := reader.ForMediaType(contentType); ok {
		return rdr, contentType, body, nil
	}

	resp := &http.Response{Header: http.Header{}}
	if contentType != "" {
		resp.Header.Set("Content-Type", contentType)
	}
	resp, body, err := c.src.HandleResponse(resp, body)
	if err != nil {
		return nil, "", nil, err
	}
	repaired := resp.Header.Get("Content-Type")
	if rdr, ok := reader.ForMediaType(repaired); ok {
		return rdr, repaired, body, nil
	}

	if rdr, ok := reader.Detect(head(body)); ok {
		c.log.Debug("content type %q unknown, matched reader by sniffing", contentType)
		return rdr, contentType, body, nil
	}
	return nil, "", nil, &UnknownContentTypeError{ContentType: contentType, URL: url}
}

func head(body []byte) []byte {
	if len(body) > 512 {
		return body[:512]
	}
	return body
}

func (c *Client) storeCache(key, contentType string, body []byte) {
	if c.cache == nil {
		return
	}
	c.cache.Set(key, cachedResponse{contentType: contentType, body: body}, gocache.DefaultExpiration)
}

// --- Convenience queries ---

// errorMessageErr converts a service-level error message into an error.
func errorMessageErr(em *message.ErrorMessage) error {
	return fmt.Errorf("sdmx: service error %d: %s", em.Code, strings.Join(em.Texts, "; "))
}

// structure performs a structural-metadata query. The agency defaults to
// the source ID, matching the common layout of agency-run services.
func (c *Client) structure(ctx context.Context, res rest.Resource, id, version string) (*message.StructureMessage, error) {
	args := &rest.RequestArgs{
		Resource: res,
		AgencyID: c.src.ID,
		ID:       id,
		Version:  version,
	}
	msg, err := c.Get(ctx, args)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *message.StructureMessage:
		return m, nil
	case *message.ErrorMessage:
		return nil, errorMessageErr(m)
	default:
		return nil, fmt.Errorf("sdmx: %s query returned %T", res, msg)
	}
}

// Codelist fetches a codelist maintained by the source's agency.
func (c *Client) Codelist(ctx context.Context, id string) (*message.StructureMessage, error) {
	return c.structure(ctx, rest.Codelist, id, "")
}

// ConceptScheme fetches a concept scheme.
func (c *Client) ConceptScheme(ctx context.Context, id string) (*message.StructureMessage, error) {
	return c.structure(ctx, rest.ConceptScheme, id, "")
}

// CategoryScheme fetches a category scheme.
func (c *Client) CategoryScheme(ctx context.Context, id string) (*message.StructureMessage, error) {
	return c.structure(ctx, rest.CategoryScheme, id, "")
}

// AgencyScheme fetches an agency scheme.
func (c *Client) AgencyScheme(ctx context.Context, id string) (*message.StructureMessage, error) {
	return c.structure(ctx, rest.AgencyScheme, id, "")
}

// Dataflow fetches a dataflow definition. An empty id lists all
// dataflows of the source's agency.
func (c *Client) Dataflow(ctx context.Context, id string) (*message.StructureMessage, error) {
	return c.structure(ctx, rest.Dataflow, id, "")
}

// DataStructure fetches a data structure definition, with its codelists
// and concept schemes pulled in through the references parameter.
func (c *Client) DataStructure(ctx context.Context, id string) (*message.StructureMessage, error) {
	args := &rest.RequestArgs{
		Resource:   rest.DataStructure,
		AgencyID:   c.src.ID,
		ID:         id,
		References: "children",
	}
	msg, err := c.Get(ctx, args)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *message.StructureMessage:
		return m, nil
	case *message.ErrorMessage:
		return nil, errorMessageErr(m)
	default:
		return nil, fmt.Errorf("sdmx: datastructure query returned %T", msg)
	}
}

// Data fetches observations for a dataflow. The key selects series in
// the dotted SDMX-REST form ("M.USD.EUR..."); empty fetches everything.
// The optional DSD aids parsing of structure-specific responses.
func (c *Client) Data(ctx context.Context, flowID, key string, dsd *model.DataStructureDefinition) (*message.DataMessage, error) {
	args := &rest.RequestArgs{
		Resource: rest.Data,
		AgencyID: c.src.ID,
		ID:       flowID,
		Key:      key,
		DSD:      dsd,
	}
	msg, err := c.Get(ctx, args)
	if err != nil {
		return nil, err
	}
	switch m := msg.(type) {
	case *message.DataMessage:
		return m, nil
	case *message.ErrorMessage:
		return nil, errorMessageErr(m)
	default:
		return nil, fmt.Errorf("sdmx: data query returned %T", msg)
	}
}

// Preview fetches only the series keys of a dataflow, without
// observations. Fails up front for sources without the capability.
func (c *Client) Preview(ctx context.Context, flowID string) (*message.DataMessage, error) {
	args := &rest.RequestArgs{
		Resource: rest.Data,
		AgencyID: c.src.ID,
		ID:       flowID,
		Detail:   "serieskeysonly",
	}
	msg, err := c.Get(ctx, args)
	if err != nil {
		return nil, err
	}
	dm, ok := msg.(*message.DataMessage)
	if !ok {
		return nil, fmt.Errorf("sdmx: preview query returned %T", msg)
	}
	return dm, nil
}

// GetMany runs the queries in parallel with at most workers in flight
// (non-positive means one per CPU) and returns the results in input
// order. Failures are reported per query, not as a single error.
func (c *Client) GetMany(ctx context.Context, argsList []*rest.RequestArgs, workers int) *worker.BatchResult {
	return worker.FetchAll(ctx, c, argsList, workers)
}
