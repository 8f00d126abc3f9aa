package sdmxml

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
)

var preparedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02",
}

func parsePrepared(s string) time.Time {
	for _, layout := range preparedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// headerInfo carries the header plus the data-message details embedded
// in it.
type headerInfo struct {
	header       *message.Header
	structureRef string
	obsDimension string
}

// readHeader consumes a mes:Header element.
func (p *parser) readHeader(se xml.StartElement) (*headerInfo, error) {
	info := &headerInfo{header: &message.Header{}}
	err := p.eachChild(se, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "ID":
			s, err := p.text(child)
			if err != nil {
				return err
			}
			info.header.ID = s
		case "Test":
			s, err := p.text(child)
			if err != nil {
				return err
			}
			info.header.Test = s == "true"
		case "Prepared":
			s, err := p.text(child)
			if err != nil {
				return err
			}
			info.header.Prepared = parsePrepared(s)
		case "Sender":
			a, err := p.readHeaderParty(child)
			if err != nil {
				return err
			}
			info.header.Sender = a
		case "Receiver":
			a, err := p.readHeaderParty(child)
			if err != nil {
				return err
			}
			info.header.Receiver = a
		case "Source":
			s, err := p.text(child)
			if err != nil {
				return err
			}
			info.header.Source = s
		case "Structure":
			// <mes:Structure structureID=... dimensionAtObservation=...>
			info.obsDimension = attr(child, "dimensionAtObservation")
			info.structureRef = attr(child, "structureID")
			return p.skip()
		default:
			return p.skip()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// readHeaderParty reads a mes:Sender or mes:Receiver element into the
// Agency the tag registry maps those elements to.
func (p *parser) readHeaderParty(se xml.StartElement) (*model.Agency, error) {
	a := &model.Agency{}
	a.ID = attr(se, "id")
	a.Name = make(model.InternationalString)
	err := p.eachChild(se, func(child xml.StartElement) error {
		if child.Name.Local == "Name" {
			lang := langOf(child)
			s, err := p.text(child)
			if err != nil {
				return err
			}
			a.Name[lang] = s
			return nil
		}
		return p.skip()
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// readFooter consumes a footer:Footer element.
func (p *parser) readFooter(se xml.StartElement) (*message.Footer, error) {
	footer := &message.Footer{}
	err := p.eachChild(se, func(child xml.StartElement) error {
		if child.Name.Local != "Message" {
			return p.skip()
		}
		if code := attr(child, "code"); code != "" {
			footer.Code, _ = strconv.Atoi(code)
		}
		footer.Severity = attr(child, "severity")
		return p.eachChild(child, func(text xml.StartElement) error {
			if text.Name.Local == "Text" {
				s, err := p.text(text)
				if err != nil {
					return err
				}
				footer.Texts = append(footer.Texts, s)
				return nil
			}
			return p.skip()
		})
	})
	if err != nil {
		return nil, err
	}
	return footer, nil
}

// readErrorMessage consumes a mes:Error document.
func (p *parser) readErrorMessage(root xml.StartElement) (*message.ErrorMessage, error) {
	msg := &message.ErrorMessage{Header: &message.Header{}}
	err := p.eachChild(root, func(child xml.StartElement) error {
		switch child.Name.Local {
		case "Header":
			info, err := p.readHeader(child)
			if err != nil {
				return err
			}
			msg.Header = info.header
		case "ErrorMessage":
			if code := attr(child, "code"); code != "" {
				msg.Code, _ = strconv.Atoi(code)
			}
			return p.eachChild(child, func(text xml.StartElement) error {
				if text.Name.Local == "Text" {
					s, err := p.text(text)
					if err != nil {
						return err
					}
					msg.Texts = append(msg.Texts, s)
					return nil
				}
				return p.skip()
			})
		case "Footer":
			footer, err := p.readFooter(child)
			if err != nil {
				return err
			}
			msg.Footer = footer
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
