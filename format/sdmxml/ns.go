// Package sdmxml holds the static knowledge about the SDMX-ML 2.1 file
// format: the XML namespaces, the known media types and the bidirectional
// correspondence between qualified element names and the model or message
// types they represent.
package sdmxml

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/gosdmx/sdmx/cache"
	"github.com/gosdmx/sdmx/format"
)

// ContentTypes lists the media types an SDMX-ML reader handles.
var ContentTypes = append([]string{
	"application/xml",
	"text/xml",
}, format.ListContentTypes("xml")...)

const baseNS = "http://www.sdmx.org/resources/sdmxml/schemas/v2_1"

// NS maps namespace prefixes to the SDMX-ML 2.1 namespace URIs. The
// empty prefix stands for "no namespace".
var NS = map[string]string{
	"":       "",
	"com":    baseNS + "/common",
	"data":   baseNS + "/data/structurespecific",
	"str":    baseNS + "/structure",
	"mes":    baseNS + "/message",
	"gen":    baseNS + "/data/generic",
	"footer": baseNS + "/message/footer",
	"xml":    "http://www.w3.org/XML/1998/namespace",
	"xsi":    "http://www.w3.org/2001/XMLSchema-instance",
}

var qnameCache = cache.New[string, xml.Name](256)

// QName returns the fully qualified name for a "prefix:local" string,
// e.g. QName("mes:Structure"). A string without a prefix yields a name
// in no namespace. Unknown prefixes panic: the tables built from QName
// are static, so an unknown prefix is a programming error.
func QName(s string) xml.Name {
	return qnameCache.GetOrSet(s, func() xml.Name {
		prefix, local := "", s
		if i := strings.IndexByte(s, ':'); i >= 0 {
			prefix, local = s[:i], s[i+1:]
		}
		uri, ok := NS[prefix]
		if !ok {
			panic(fmt.Sprintf("sdmxml: unknown namespace prefix %q", prefix))
		}
		return xml.Name{Space: uri, Local: local}
	})
}

// QNameNS returns the qualified name for an explicit prefix and local name.
func QNameNS(prefix, local string) xml.Name {
	if prefix == "" {
		return xml.Name{Local: local}
	}
	return QName(prefix + ":" + local)
}
