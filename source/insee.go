package source

import (
	"github.com/gosdmx/sdmx/rest"
)

// INSEE rejects the versioned SDMX media types on structure queries;
// a plain XML Accept header keeps the service happy.
func inseeModifyRequestArgs(s *Source, args *rest.RequestArgs) error {
	if args.Resource != rest.Data && !args.HasHeader("Accept") {
		args.SetHeader("Accept", "application/xml")
	}
	return s.DefaultModifyRequestArgs(args)
}
