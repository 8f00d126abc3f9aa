// Package message defines the containers returned by SDMX web services:
// structure messages, data messages and error messages, each wrapping a
// header and an optional footer.
package message

import (
	"time"

	"github.com/gosdmx/sdmx/model"
)

// Header carries the metadata common to all SDMX messages.
type Header struct {
	ID       string
	Test     bool
	Prepared time.Time
	Sender   *model.Agency
	Receiver *model.Agency
	Source   string
}

// Severity levels used in message footers.
const (
	SeverityError   = "Error"
	SeverityWarning = "Warning"
	SeverityInfo    = "Information"
)

// Footer carries out-of-band information appended by some services, such
// as Eurostat's pointer to an asynchronously prepared zip file.
type Footer struct {
	Code     int
	Severity string
	Texts    []string
}

// Message is implemented by all message containers.
type Message interface {
	MessageHeader() *Header
	MessageFooter() *Footer
}

// StructureMessage holds structural metadata artefacts keyed by their ID.
type StructureMessage struct {
	Header *Header
	Footer *Footer

	Codelists           map[string]*model.Codelist
	ConceptSchemes      map[string]*model.ConceptScheme
	CategorySchemes     map[string]*model.CategoryScheme
	AgencySchemes       map[string]*model.AgencyScheme
	DataProviderSchemes map[string]*model.DataProviderScheme
	DataConsumerSchemes map[string]*model.DataConsumerScheme
	Dataflows           map[string]*model.DataflowDefinition
	DataStructures      map[string]*model.DataStructureDefinition
	Categorisations     map[string]*model.Categorisation
	Constraints         map[string]*model.ContentConstraint
	ProvisionAgreements map[string]*model.ProvisionAgreement
}

// NewStructureMessage returns a StructureMessage with all artefact maps
// allocated.
func NewStructureMessage() *StructureMessage {
	return &StructureMessage{
		Header:              &Header{},
		Codelists:           make(map[string]*model.Codelist),
		ConceptSchemes:      make(map[string]*model.ConceptScheme),
		CategorySchemes:     make(map[string]*model.CategoryScheme),
		AgencySchemes:       make(map[string]*model.AgencyScheme),
		DataProviderSchemes: make(map[string]*model.DataProviderScheme),
		DataConsumerSchemes: make(map[string]*model.DataConsumerScheme),
		Dataflows:           make(map[string]*model.DataflowDefinition),
		DataStructures:      make(map[string]*model.DataStructureDefinition),
		Categorisations:     make(map[string]*model.Categorisation),
		Constraints:         make(map[string]*model.ContentConstraint),
		ProvisionAgreements: make(map[string]*model.ProvisionAgreement),
	}
}

// MessageHeader implements Message.
func (m *StructureMessage) MessageHeader() *Header { return m.Header }

// MessageFooter implements Message.
func (m *StructureMessage) MessageFooter() *Footer { return m.Footer }

// DataMessage holds the datasets of a data query response.
type DataMessage struct {
	Header *Header
	Footer *Footer

	DataSets []*model.DataSet

	// Structure referenced by the message, when known.
	Structure *model.DataStructureDefinition

	// ObservationDimension is the dimension reported at observation
	// level, usually TIME_PERIOD.
	ObservationDimension string
}

// MessageHeader implements Message.
func (m *DataMessage) MessageHeader() *Header { return m.Header }

// MessageFooter implements Message.
func (m *DataMessage) MessageFooter() *Footer { return m.Footer }

// ErrorMessage is returned by services in place of the requested content.
type ErrorMessage struct {
	Header *Header
	Footer *Footer

	// Code and Texts mirror the ErrorMessage elements of the response.
	Code  int
	Texts []string
}

// MessageHeader implements Message.
func (m *ErrorMessage) MessageHeader() *Header { return m.Header }

// MessageFooter implements Message.
func (m *ErrorMessage) MessageFooter() *Footer { return m.Footer }
