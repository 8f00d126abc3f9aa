package sdmxml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
	readsdmxml "github.com/gosdmx/sdmx/reader/sdmxml"
)

func sampleMessage() *message.StructureMessage {
	msg := message.NewStructureMessage()
	msg.Header.ID = "IREFTEST"

	ecb := &model.Agency{}
	ecb.ID = "ECB"

	cl := &model.Codelist{}
	cl.ID = "CL_FREQ"
	cl.Version = "1.0"
	cl.Maintainer = ecb
	cl.Name = model.InternationalString{"en": "Frequency code list"}
	annual := &model.Code{}
	annual.ID = "A"
	annual.Name = model.InternationalString{"en": "Annual", "de": "Jährlich"}
	cl.Append(annual)
	msg.Codelists[cl.ID] = cl

	cs := &model.ConceptScheme{}
	cs.ID = "ECB_CONCEPTS"
	cs.Version = "1.0"
	cs.Maintainer = ecb
	cs.Name = model.InternationalString{"en": "ECB concepts"}
	freq := &model.Concept{}
	freq.ID = "FREQ"
	freq.Name = model.InternationalString{"en": "Frequency"}
	cs.Append(freq)
	msg.ConceptSchemes[cs.ID] = cs

	dsd := &model.DataStructureDefinition{}
	dsd.ID = "ECB_EXR1"
	dsd.Version = "1.0"
	dsd.Maintainer = ecb
	dsd.Name = model.InternationalString{"en": "Exchange rates"}
	dim := &model.Dimension{Position: 1}
	dim.ID = "FREQ"
	dim.ConceptIdentity = freq
	dim.LocalRepresentation = &model.Representation{Enumerated: cl}
	td := &model.TimeDimension{}
	td.ID = "TIME_PERIOD"
	td.Position = 2
	status := &model.DataAttribute{UsageStatus: "Mandatory", Relationship: &model.AttributeRelationship{PrimaryMeasure: true}}
	status.ID = "OBS_STATUS"
	pm := &model.PrimaryMeasure{}
	pm.ID = "OBS_VALUE"
	dsd.Dimensions = &model.DimensionDescriptor{Dimensions: []*model.Dimension{dim}, TimeDimension: td}
	dsd.Attributes = &model.AttributeDescriptor{Attributes: []*model.DataAttribute{status}}
	dsd.Measures = &model.MeasureDescriptor{PrimaryMeasure: pm}
	msg.DataStructures[dsd.ID] = dsd

	df := &model.DataflowDefinition{}
	df.ID = "EXR"
	df.Version = "1.0"
	df.Maintainer = ecb
	df.Name = model.InternationalString{"en": "Exchange rates flow"}
	df.Structure = dsd
	msg.Dataflows[df.ID] = df

	return msg
}

func TestWriteRoundTrip(t *testing.T) {
	out, err := Marshal(sampleMessage())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	got, err := readsdmxml.Reader{}.Read(bytes.NewReader(out), nil)
	if err != nil {
		t.Fatalf("reading the written document failed: %v\n%s", err, out)
	}
	sm, ok := got.(*message.StructureMessage)
	if !ok {
		t.Fatalf("round trip returned %T", got)
	}

	if sm.Header.ID != "IREFTEST" {
		t.Errorf("Header.ID = %q", sm.Header.ID)
	}

	cl := sm.Codelists["CL_FREQ"]
	if cl == nil || cl.Len() != 1 {
		t.Fatalf("codelist lost in round trip: %v", cl)
	}
	if got := cl.Get("A").Name.Localized("de"); got != "Jährlich" {
		t.Errorf("localized code name = %q", got)
	}
	if cl.Maintainer == nil || cl.Maintainer.ID != "ECB" {
		t.Errorf("codelist maintainer = %+v", cl.Maintainer)
	}

	dsd := sm.DataStructures["ECB_EXR1"]
	if dsd == nil {
		t.Fatal("DSD lost in round trip")
	}
	freq := dsd.Dimensions.Get("FREQ")
	if freq == nil || freq.Position != 1 {
		t.Fatalf("FREQ dimension = %+v", freq)
	}
	if freq.ConceptIdentity == nil || freq.ConceptIdentity.ID != "FREQ" {
		t.Errorf("FREQ concept identity = %+v", freq.ConceptIdentity)
	}
	if rep := freq.Representation(); rep == nil || rep.Enumerated == nil || rep.Enumerated.ID != "CL_FREQ" {
		t.Errorf("FREQ representation = %+v", rep)
	}
	if dsd.Dimensions.TimeDimension == nil || dsd.Dimensions.TimeDimension.ID != "TIME_PERIOD" {
		t.Errorf("time dimension = %+v", dsd.Dimensions.TimeDimension)
	}
	status := dsd.Attributes.Get("OBS_STATUS")
	if status == nil || status.UsageStatus != "Mandatory" || status.Relationship == nil || !status.Relationship.PrimaryMeasure {
		t.Errorf("OBS_STATUS = %+v", status)
	}
	if dsd.Measures == nil || dsd.Measures.PrimaryMeasure == nil || dsd.Measures.PrimaryMeasure.ID != "OBS_VALUE" {
		t.Errorf("measures = %+v", dsd.Measures)
	}

	df := sm.Dataflows["EXR"]
	if df == nil {
		t.Fatal("dataflow lost in round trip")
	}
	if df.Structure != dsd {
		t.Error("dataflow structure reference not resolved after round trip")
	}
}

func TestWriteHeaderDefaults(t *testing.T) {
	msg := message.NewStructureMessage()
	out, err := Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<mes:ID>IREF") {
		t.Errorf("generated header ID missing:\n%s", s)
	}
	if !strings.Contains(s, "<mes:Prepared>") {
		t.Errorf("Prepared missing:\n%s", s)
	}
	// Empty containers are omitted entirely.
	if strings.Contains(s, "<str:Codelists>") {
		t.Errorf("empty container written:\n%s", s)
	}
}

func TestNewMessageID(t *testing.T) {
	a, b := NewMessageID(), NewMessageID()
	if !strings.HasPrefix(a, "IREF") || len(a) != 4+32 {
		t.Errorf("NewMessageID() = %q", a)
	}
	if a == b {
		t.Error("message IDs should be unique")
	}
}
