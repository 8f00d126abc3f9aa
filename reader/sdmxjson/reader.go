// Package sdmxjson reads SDMX-JSON 1.0 data messages. The format is
// index-based: series and observation keys are tuples of indices into
// the value catalogs carried in the message's structure block.
package sdmxjson

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/gosdmx/sdmx/format"
	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
	"github.com/gosdmx/sdmx/reader"
)

func init() {
	reader.Register(Reader{})
}

// Reader decodes SDMX-JSON 1.0.
type Reader struct{}

// MediaTypes implements reader.Reader.
func (Reader) MediaTypes() []string {
	return append([]string{"application/json", "text/json"}, format.ListContentTypes("json")...)
}

// Suffixes implements reader.Reader.
func (Reader) Suffixes() []string { return []string{".json"} }

// Detect implements reader.Reader.
func (Reader) Detect(head []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(head, " \t\r\n"), []byte("{"))
}

// ParseError reports a malformed or unexpected SDMX-JSON document.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string { return "sdmxjson: " + e.Msg }

func (e *ParseError) Unwrap() error { return e.Err }

// --- Wire structures ---

type jsonMessage struct {
	Header    jsonHeader    `json:"header"`
	DataSets  []jsonDataSet `json:"dataSets"`
	Structure jsonStructure `json:"structure"`
	Errors    []jsonError   `json:"errors"`
}

type jsonHeader struct {
	ID       string     `json:"id"`
	Test     bool       `json:"test"`
	Prepared string     `json:"prepared"`
	Sender   *jsonParty `json:"sender"`
	Receiver *jsonParty `json:"receiver"`
}

type jsonParty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type jsonError struct {
	Code  int    `json:"code"`
	Title string `json:"title"`
}

type jsonDataSet struct {
	Action       string                `json:"action"`
	ValidFrom    string                `json:"validFrom"`
	Series       map[string]jsonSeries `json:"series"`
	Observations map[string][]any      `json:"observations"`
}

type jsonSeries struct {
	Attributes   []*int           `json:"attributes"`
	Observations map[string][]any `json:"observations"`
}

type jsonStructure struct {
	Dimensions jsonComponentLists `json:"dimensions"`
	Attributes jsonComponentLists `json:"attributes"`
}

type jsonComponentLists struct {
	DataSet     []jsonComponent `json:"dataSet"`
	Series      []jsonComponent `json:"series"`
	Observation []jsonComponent `json:"observation"`
}

type jsonComponent struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Values []jsonValue `json:"values"`
}

type jsonValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// --- Decoding ---

// Read implements reader.Reader. The DSD argument is accepted for
// interface symmetry; SDMX-JSON messages are self-describing.
func (Reader) Read(src io.Reader, dsd *model.DataStructureDefinition) (message.Message, error) {
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, &ParseError{Msg: "reading payload", Err: err}
	}
	var wire jsonMessage
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &ParseError{Msg: "malformed document", Err: err}
	}

	header := readHeader(wire.Header)

	if len(wire.Errors) > 0 {
		em := &message.ErrorMessage{Header: header, Code: wire.Errors[0].Code}
		for _, e := range wire.Errors {
			em.Texts = append(em.Texts, e.Title)
		}
		return em, nil
	}

	msg := &message.DataMessage{Header: header, Structure: dsd}
	if obs := wire.Structure.Dimensions.Observation; len(obs) > 0 {
		msg.ObservationDimension = obs[0].ID
	}

	for _, jds := range wire.DataSets {
		ds, err := readDataSet(jds, &wire.Structure)
		if err != nil {
			return nil, err
		}
		ds.Structure = dsd
		msg.DataSets = append(msg.DataSets, ds)
	}
	return msg, nil
}

func readHeader(h jsonHeader) *message.Header {
	header := &message.Header{ID: h.ID, Test: h.Test}
	if t, err := time.Parse(time.RFC3339, h.Prepared); err == nil {
		header.Prepared = t
	}
	header.Sender = readParty(h.Sender)
	header.Receiver = readParty(h.Receiver)
	return header
}

func readParty(p *jsonParty) *model.Agency {
	if p == nil {
		return nil
	}
	a := &model.Agency{}
	a.ID = p.ID
	if p.Name != "" {
		a.Name = model.InternationalString{"en": p.Name}
	}
	return a
}

func readDataSet(jds jsonDataSet, structure *jsonStructure) (*model.DataSet, error) {
	ds := &model.DataSet{
		Action:    model.ActionType(jds.Action),
		ValidFrom: jds.ValidFrom,
	}

	for key, jser := range jds.Series {
		seriesKey, err := decodeKey(key, structure.Dimensions.Series)
		if err != nil {
			return nil, err
		}
		sk := &model.SeriesKey{Key: model.Key{Values: seriesKey}}
		sk.Attribs, err = decodeAttributes(jser.Attributes, structure.Attributes.Series)
		if err != nil {
			return nil, err
		}
		s := &model.Series{Key: sk}
		for obsKey, tuple := range jser.Observations {
			o, err := decodeObs(obsKey, tuple, structure)
			if err != nil {
				return nil, err
			}
			s.Obs = append(s.Obs, o)
		}
		ds.AddSeries(s)
	}

	// Flat datasets key observations by the full dimension tuple.
	for obsKey, tuple := range jds.Observations {
		o, err := decodeFlatObs(obsKey, tuple, structure)
		if err != nil {
			return nil, err
		}
		ds.AddObs(o)
	}
	return ds, nil
}

// decodeKey resolves a colon-joined index tuple against the component
// catalog, e.g. "0:2" with series dimensions [FREQ, CURRENCY].
func decodeKey(key string, components []jsonComponent) ([]model.KeyValue, error) {
	parts := strings.Split(key, ":")
	if len(parts) != len(components) {
		return nil, &ParseError{Msg: fmt.Sprintf("key %q has %d parts for %d dimensions", key, len(parts), len(components))}
	}
	vals := make([]model.KeyValue, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 || idx >= len(components[i].Values) {
			return nil, &ParseError{Msg: fmt.Sprintf("key %q: index %q out of range for dimension %s", key, part, components[i].ID)}
		}
		vals[i] = model.KeyValue{ID: components[i].ID, Value: components[i].Values[idx].ID}
	}
	return vals, nil
}

// decodeAttributes resolves attribute indices; null entries mean the
// attribute is not reported.
func decodeAttributes(indices []*int, components []jsonComponent) ([]model.AttributeValue, error) {
	var out []model.AttributeValue
	for i, idx := range indices {
		if idx == nil || i >= len(components) {
			continue
		}
		comp := components[i]
		if *idx < 0 || *idx >= len(comp.Values) {
			return nil, &ParseError{Msg: fmt.Sprintf("attribute %s: index %d out of range", comp.ID, *idx)}
		}
		out = append(out, model.AttributeValue{ID: comp.ID, Value: comp.Values[*idx].ID})
	}
	return out, nil
}

// decodeObs resolves a series-level observation: the key indexes the
// observation dimension, the tuple is [value, attribute indices...].
func decodeObs(key string, tuple []any, structure *jsonStructure) (*model.Observation, error) {
	o := &model.Observation{}

	obsDims := structure.Dimensions.Observation
	idx, err := strconv.Atoi(key)
	if err != nil || len(obsDims) == 0 || idx < 0 || idx >= len(obsDims[0].Values) {
		return nil, &ParseError{Msg: fmt.Sprintf("observation key %q out of range", key)}
	}
	o.Dimension = model.KeyValue{ID: obsDims[0].ID, Value: obsDims[0].Values[idx].ID}

	if err := fillObsTuple(o, tuple, structure.Attributes.Observation); err != nil {
		return nil, err
	}
	return o, nil
}

// decodeFlatObs resolves a dataset-level observation keyed by the full
// dimension tuple.
func decodeFlatObs(key string, tuple []any, structure *jsonStructure) (*model.Observation, error) {
	vals, err := decodeKey(key, structure.Dimensions.Observation)
	if err != nil {
		return nil, err
	}
	o := &model.Observation{}
	if len(vals) > 0 {
		o.Dimension = vals[len(vals)-1]
	}
	if len(vals) > 1 {
		o.Series = &model.SeriesKey{Key: model.Key{Values: vals[:len(vals)-1]}}
	}
	if err := fillObsTuple(o, tuple, structure.Attributes.Observation); err != nil {
		return nil, err
	}
	return o, nil
}

// fillObsTuple applies an observation tuple: the first element is the
// value, the remainder are attribute indices.
func fillObsTuple(o *model.Observation, tuple []any, attComponents []jsonComponent) error {
	if len(tuple) == 0 {
		return nil
	}
	switch v := tuple[0].(type) {
	case nil:
		// Missing value.
	case float64:
		o.SetValue(strconv.FormatFloat(v, 'f', -1, 64))
	case string:
		o.SetValue(v)
	case json.Number:
		o.SetValue(v.String())
	default:
		return &ParseError{Msg: fmt.Sprintf("unexpected observation value %T", tuple[0])}
	}

	for i, elem := range tuple[1:] {
		if elem == nil || i >= len(attComponents) {
			continue
		}
		f, ok := elem.(float64)
		if !ok {
			return &ParseError{Msg: fmt.Sprintf("unexpected attribute index %T", elem)}
		}
		idx := int(f)
		comp := attComponents[i]
		if idx < 0 || idx >= len(comp.Values) {
			return &ParseError{Msg: fmt.Sprintf("attribute %s: index %d out of range", comp.ID, idx)}
		}
		o.Attribs = append(o.Attribs, model.AttributeValue{ID: comp.ID, Value: comp.Values[idx].ID})
	}
	return nil
}
