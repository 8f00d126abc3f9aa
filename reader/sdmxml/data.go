package sdmxml

import (
	"encoding/xml"
	"strings"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
)

// readDataMessage consumes a data document. The four data message roots
// share their layout pairwise: the Generic* roots carry gen:-qualified
// key and value elements, the StructureSpecific* roots encode component
// values as XML attributes.
func (p *parser) readDataMessage(root xml.StartElement, dsd *model.DataStructureDefinition) (*message.DataMessage, error) {
	msg := &message.DataMessage{Header: &message.Header{}, Structure: dsd}
	structureSpecific := strings.HasPrefix(root.Name.Local, "StructureSpecific")

	err := p.eachChild(root, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Header":
			info, err := p.readHeader(child)
			if err != nil {
				return err
			}
			msg.Header = info.header
			msg.ObservationDimension = info.obsDimension
		case "Footer":
			footer, err := p.readFooter(child)
			if err != nil {
				return err
			}
			msg.Footer = footer
		case "DataSet":
			var (
				ds  *model.DataSet
				err error
			)
			if structureSpecific {
				ds, err = p.readSSDataSet(child, dsd, msg.ObservationDimension)
			} else {
				ds, err = p.readGenericDataSet(child)
			}
			if err != nil {
				return err
			}
			ds.Structure = dsd
			msg.DataSets = append(msg.DataSets, ds)
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// --- Generic data ---

func newDataSet(se xml.StartElement) *model.DataSet {
	return &model.DataSet{
		Action:       model.ActionType(attr(se, "action")),
		ValidFrom:    attr(se, "validFromDate"),
		StructureRef: attr(se, "structureRef"),
	}
}

func (p *parser) readGenericDataSet(se xml.StartElement) (*model.DataSet, error) {
	ds := newDataSet(se)
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Series":
			s, err := p.readGenericSeries(child)
			if err != nil {
				return err
			}
			ds.AddSeries(s)
		case "Group":
			gk, err := p.readGenericGroup(child)
			if err != nil {
				return err
			}
			ds.Groups = append(ds.Groups, gk)
		case "Obs":
			o, err := p.readGenericObs(child)
			if err != nil {
				return err
			}
			ds.AddObs(o)
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (p *parser) readGenericSeries(se xml.StartElement) (*model.Series, error) {
	s := &model.Series{Key: &model.SeriesKey{}}
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "SeriesKey":
			vals, err := p.readKeyValues(child)
			if err != nil {
				return err
			}
			s.Key.Values = vals
		case "Attributes":
			atts, err := p.readAttributeValues(child)
			if err != nil {
				return err
			}
			s.Key.Attribs = atts
		case "Obs":
			o, err := p.readGenericObs(child)
			if err != nil {
				return err
			}
			s.Obs = append(s.Obs, o)
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) readGenericGroup(se xml.StartElement) (*model.GroupKey, error) {
	gk := &model.GroupKey{}
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "GroupKey":
			vals, err := p.readKeyValues(child)
			if err != nil {
				return err
			}
			gk.Values = vals
		case "Attributes":
			atts, err := p.readAttributeValues(child)
			if err != nil {
				return err
			}
			gk.Attribs = atts
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return gk, nil
}

// readGenericObs reads a gen:Obs, either within a series (gen:ObsDimension)
// or flat within the dataset (gen:ObsKey).
func (p *parser) readGenericObs(se xml.StartElement) (*model.Observation, error) {
	o := &model.Observation{}
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "ObsDimension":
			o.Dimension = model.KeyValue{ID: attr(child, "id"), Value: attr(child, "value")}
		case "ObsValue":
			o.SetValue(attr(child, "value"))
		case "ObsKey":
			vals, err := p.readKeyValues(child)
			if err != nil {
				return err
			}
			o.Series = &model.SeriesKey{Key: model.Key{Values: vals}}
			return nil
		case "Attributes":
			atts, err := p.readAttributeValues(child)
			if err != nil {
				return err
			}
			o.Attribs = atts
			return nil
		}
		return p.skip()
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (p *parser) readKeyValues(se xml.StartElement) ([]model.KeyValue, error) {
	var vals []model.KeyValue
	err := p.eachChild(se, func(child xml.StartElement) error {
		if child.Name.Local == "Value" {
			vals = append(vals, model.KeyValue{ID: attr(child, "id"), Value: attr(child, "value")})
		}
		return p.skip()
	})
	return vals, err
}

func (p *parser) readAttributeValues(se xml.StartElement) ([]model.AttributeValue, error) {
	var atts []model.AttributeValue
	err := p.eachChild(se, func(child xml.StartElement) error {
		if child.Name.Local == "Value" {
			atts = append(atts, model.AttributeValue{ID: attr(child, "id"), Value: attr(child, "value")})
		}
		return p.skip()
	})
	return atts, err
}

// --- Structure-specific data ---

// componentSets splits the DSD's component IDs into dimensions and
// attributes, for classifying the XML attributes of Series and Obs
// elements. Both maps are nil when no DSD is available.
func componentSets(dsd *model.DataStructureDefinition) (dims, atts map[string]bool) {
	if dsd == nil || dsd.Dimensions == nil {
		return nil, nil
	}
	dims = make(map[string]bool)
	for _, d := range dsd.Dimensions.Dimensions {
		dims[d.ID] = true
	}
	if dsd.Dimensions.TimeDimension != nil {
		dims[dsd.Dimensions.TimeDimension.ID] = true
	}
	if dsd.Dimensions.MeasureDimension != nil {
		dims[dsd.Dimensions.MeasureDimension.ID] = true
	}
	atts = make(map[string]bool)
	if dsd.Attributes != nil {
		for _, a := range dsd.Attributes.Attributes {
			atts[a.ID] = true
		}
	}
	return dims, atts
}

// structuralAttr reports whether an XML attribute belongs to the message
// framing rather than to a component. Component values are always
// unqualified.
func structuralAttr(name xml.Name) bool {
	if name.Space != "" {
		return true
	}
	switch name.Local {
	case "action", "structureRef", "validFromDate", "dataScope", "type":
		return true
	}
	return false
}

func (p *parser) readSSDataSet(se xml.StartElement, dsd *model.DataStructureDefinition, obsDim string) (*model.DataSet, error) {
	if obsDim == "" {
		obsDim = "TIME_PERIOD"
	}
	dims, atts := componentSets(dsd)
	ds := newDataSet(se)
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Series":
			s, err := p.readSSSeries(child, dims, atts, obsDim)
			if err != nil {
				return err
			}
			ds.AddSeries(s)
		case "Group":
			gk := &model.GroupKey{}
			gk.Values, gk.Attribs = splitComponents(child, dims, atts)
			ds.Groups = append(ds.Groups, gk)
			return p.skip()
		case "Obs":
			o, err := p.readSSObs(child, dims, obsDim)
			if err != nil {
				return err
			}
			ds.AddObs(o)
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// splitComponents classifies the XML attributes of an element into key
// values and attribute values. Without a DSD, everything is taken as a
// key value, matching the element kinds where that is the common case.
func splitComponents(se xml.StartElement, dims, atts map[string]bool) ([]model.KeyValue, []model.AttributeValue) {
	var keyVals []model.KeyValue
	var attVals []model.AttributeValue
	for _, a := range se.Attr {
		if structuralAttr(a.Name) {
			continue
		}
		switch {
		case atts != nil && atts[a.Name.Local]:
			attVals = append(attVals, model.AttributeValue{ID: a.Name.Local, Value: a.Value})
		case dims == nil || dims[a.Name.Local]:
			keyVals = append(keyVals, model.KeyValue{ID: a.Name.Local, Value: a.Value})
		default:
			attVals = append(attVals, model.AttributeValue{ID: a.Name.Local, Value: a.Value})
		}
	}
	return keyVals, attVals
}

func (p *parser) readSSSeries(se xml.StartElement, dims, atts map[string]bool, obsDim string) (*model.Series, error) {
	key := &model.SeriesKey{}
	key.Values, key.Attribs = splitComponents(se, dims, atts)
	s := &model.Series{Key: key}
	err := p.eachChild(se, func(child xml.StartElement) error {
		if child.Name.Local != "Obs" {
			return p.skip()
		}
		o, err := p.readSSObs(child, dims, obsDim)
		if err != nil {
			return err
		}
		s.Obs = append(s.Obs, o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// readSSObs reads an Obs element encoded as XML attributes. Dimension
// values beyond the observation dimension occur only on flat (non-series)
// observations; they become the observation's key.
func (p *parser) readSSObs(se xml.StartElement, dims map[string]bool, obsDim string) (*model.Observation, error) {
	o := &model.Observation{}
	var keyVals []model.KeyValue
	for _, a := range se.Attr {
		if structuralAttr(a.Name) {
			continue
		}
		switch {
		case a.Name.Local == "OBS_VALUE":
			o.SetValue(a.Value)
		case a.Name.Local == obsDim:
			o.Dimension = model.KeyValue{ID: obsDim, Value: a.Value}
		case dims != nil && dims[a.Name.Local]:
			keyVals = append(keyVals, model.KeyValue{ID: a.Name.Local, Value: a.Value})
		default:
			o.Attribs = append(o.Attribs, model.AttributeValue{ID: a.Name.Local, Value: a.Value})
		}
	}
	if len(keyVals) > 0 {
		o.Series = &model.SeriesKey{Key: model.Key{Values: keyVals}}
	}
	return o, p.skip()
}
