package source

import (
	"fmt"

	"github.com/gosdmx/sdmx/rest"
)

// The OECD .Stat service speaks SDMX-JSON; like ABS, only the data
// endpoint exists, and the key selector is mandatory.
func oecdModifyRequestArgs(s *Source, args *rest.RequestArgs) error {
	if args.Resource != rest.Data {
		return fmt.Errorf("%s does not provide a %s endpoint", s.ID, args.Resource)
	}
	if args.Key == "" {
		args.Key = "all"
	}
	return s.DefaultModifyRequestArgs(args)
}
