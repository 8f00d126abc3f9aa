// Package sdmx is a client for SDMX (Statistical Data and Metadata
// eXchange) web services, as run by the ECB, Eurostat, the OECD, the
// World Bank and other statistical agencies.
//
// A Client is bound to one data source from the built-in catalog:
//
//	c, err := sdmx.NewClient("ECB")
//	if err != nil {
//		log.Fatal(err)
//	}
//	flows, err := c.Dataflow(ctx, "EXR")
//
// Data queries return parsed datasets, decoded from SDMX-ML 2.1 or
// SDMX-JSON depending on what the source serves:
//
//	msg, err := c.Data(ctx, "EXR", "M.USD.EUR.SP00.A", nil)
//
// The subpackages are usable on their own: model holds the SDMX
// information model, urn converts model objects to and from SDMX URNs,
// source is the catalog of known services, rest builds SDMX-REST query
// URLs, and reader/writer decode and encode messages.
package sdmx
