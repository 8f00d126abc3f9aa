package model

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ActionType states what a dataset asks the receiver to do with it.
type ActionType string

// Dataset actions.
const (
	ActionAppend      ActionType = "Append"
	ActionReplace     ActionType = "Replace"
	ActionDelete      ActionType = "Delete"
	ActionInformation ActionType = "Information"
)

// KeyValue is a single dimension ID and its value.
type KeyValue struct {
	ID    string
	Value string
}

// AttributeValue is a single attribute ID and its value.
type AttributeValue struct {
	ID    string
	Value string
}

// Key is an ordered set of dimension values identifying an observation
// or a series.
type Key struct {
	Values []KeyValue
}

// Get returns the value for the dimension with the given ID.
func (k *Key) Get(id string) (string, bool) {
	for _, kv := range k.Values {
		if kv.ID == id {
			return kv.Value, true
		}
	}
	return "", false
}

// String renders the key in the dotted SDMX-REST form, with values in
// dimension-ID order to make the rendering stable.
func (k *Key) String() string {
	sorted := make([]KeyValue, len(k.Values))
	copy(sorted, k.Values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	parts := make([]string, len(sorted))
	for i, kv := range sorted {
		parts[i] = kv.Value
	}
	return strings.Join(parts, ".")
}

// SeriesKey identifies a time series within a dataset and carries the
// attribute values attached at series level.
type SeriesKey struct {
	Key
	Attribs []AttributeValue
}

// GroupKey is a partial key identifying a group of series, with the
// attribute values attached at group level.
type GroupKey struct {
	Key
	Attribs []AttributeValue
}

// Observation is a single data point. The value is kept both as the
// decimal it parses to and as the raw text from the message, since
// observation values may be non-numeric status markers.
type Observation struct {
	Dimension KeyValue
	Value     decimal.Decimal
	RawValue  string
	Valid     bool
	Attribs   []AttributeValue
	Series    *SeriesKey
}

// SetValue parses raw as a decimal observation value. Non-numeric values
// are preserved in RawValue with Valid false.
func (o *Observation) SetValue(raw string) {
	o.RawValue = raw
	if d, err := decimal.NewFromString(raw); err == nil {
		o.Value = d
		o.Valid = true
	}
}

// Series is a sequence of observations sharing a series key.
type Series struct {
	Key *SeriesKey
	Obs []*Observation
}

// DataSet holds the observations of a data message, both in flat form
// and grouped by series.
type DataSet struct {
	Action         ActionType
	ValidFrom      string
	StructureRef   string
	Structure      *DataStructureDefinition
	Series         []*Series
	Groups         []*GroupKey
	Obs            []*Observation
}

// AddSeries appends a series and folds its observations into the flat
// observation list, linking each back to the series key.
func (ds *DataSet) AddSeries(s *Series) {
	for _, o := range s.Obs {
		o.Series = s.Key
		ds.Obs = append(ds.Obs, o)
	}
	ds.Series = append(ds.Series, s)
}

// AddObs appends a flat (non-series) observation.
func (ds *DataSet) AddObs(o *Observation) {
	ds.Obs = append(ds.Obs, o)
}
