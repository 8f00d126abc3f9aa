package source

import (
	"fmt"

	"github.com/gosdmx/sdmx/rest"
)

// The ABS .Stat service speaks SDMX-JSON and exposes only the data
// endpoint; structure queries must fail before any I/O happens.
func absModifyRequestArgs(s *Source, args *rest.RequestArgs) error {
	if args.Resource != rest.Data {
		return fmt.Errorf("%s does not provide a %s endpoint", s.ID, args.Resource)
	}
	return s.DefaultModifyRequestArgs(args)
}
