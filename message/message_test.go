package message

import "testing"

func TestMessageInterface(t *testing.T) {
	h := &Header{ID: "M1"}
	f := &Footer{Code: 413, Severity: SeverityWarning}

	msgs := []Message{
		&StructureMessage{Header: h, Footer: f},
		&DataMessage{Header: h, Footer: f},
		&ErrorMessage{Header: h, Footer: f},
	}
	for _, m := range msgs {
		if got := m.MessageHeader(); got != h {
			t.Errorf("%T header = %v; want %v", m, got, h)
		}
		if got := m.MessageFooter(); got != f {
			t.Errorf("%T footer = %v; want %v", m, got, f)
		}
	}
}

func TestNewStructureMessage(t *testing.T) {
	m := NewStructureMessage()
	if m.Header == nil {
		t.Fatal("header not allocated")
	}
	// Every artefact map must be usable without further allocation.
	if m.Codelists == nil || m.ConceptSchemes == nil || m.CategorySchemes == nil ||
		m.AgencySchemes == nil || m.DataProviderSchemes == nil || m.DataConsumerSchemes == nil ||
		m.Dataflows == nil || m.DataStructures == nil || m.Categorisations == nil ||
		m.Constraints == nil || m.ProvisionAgreements == nil {
		t.Error("artefact maps not allocated")
	}
}
