package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/gosdmx/sdmx/message"
	"github.com/gosdmx/sdmx/model"
	"github.com/gosdmx/sdmx/rest"
	"github.com/gosdmx/sdmx/source"
)

func init() {
	rootCmd.AddCommand(sourcesCmd, codelistCmd, dataflowCmd, datastructureCmd, dataCmd)

	dataCmd.Flags().String("start", "", "start period, e.g. 2020 or 2020-01")
	dataCmd.Flags().String("end", "", "end period")
	dataCmd.Flags().Bool("keys-only", false, "fetch series keys without observations")
}

// Row types for the JSON output mode. The text mode renders the same
// rows through tabwriter.

type sourceRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type itemRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type schemeRow struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Items []itemRow `json:"items,omitempty"`
}

type obsRow struct {
	Series string `json:"series,omitempty"`
	Period string `json:"period"`
	Value  string `json:"value"`
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the known data sources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var rows []sourceRow
		for _, id := range source.IDs() {
			src, err := source.Lookup(id)
			if err != nil {
				return err
			}
			rows = append(rows, sourceRow{
				ID:          src.ID,
				Name:        src.Name,
				URL:         src.URL,
				ContentType: src.ContentType.String(),
			})
		}
		if jsonOutput() {
			return writeJSON(cmd, rows)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.ContentType, r.Name)
		}
		return w.Flush()
	},
}

var codelistCmd = &cobra.Command{
	Use:   "codelist <ID>",
	Short: "Fetch a codelist and print its codes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		msg, err := c.Codelist(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		var rows []schemeRow
		for _, cl := range sortedArtefacts(msg.Codelists) {
			row := schemeRow{ID: cl.MaintainedID(), Name: localized(cl.Name)}
			for _, code := range cl.Items {
				row.Items = append(row.Items, itemRow{ID: code.ID, Name: localized(code.Name)})
			}
			rows = append(rows, row)
		}
		if jsonOutput() {
			return writeJSON(cmd, rows)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\n", r.ID, r.Name)
			for _, it := range r.Items {
				fmt.Fprintf(w, "  %s\t%s\n", it.ID, it.Name)
			}
		}
		return w.Flush()
	},
}

var dataflowCmd = &cobra.Command{
	Use:   "dataflow [ID]",
	Short: "List dataflows, or show one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		msg, err := c.Dataflow(cmd.Context(), id)
		if err != nil {
			return err
		}
		var rows []schemeRow
		for _, df := range sortedArtefacts(msg.Dataflows) {
			rows = append(rows, schemeRow{ID: df.MaintainedID(), Name: localized(df.Name)})
		}
		if jsonOutput() {
			return writeJSON(cmd, rows)
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%s\n", r.ID, r.Name)
		}
		return w.Flush()
	},
}

var datastructureCmd = &cobra.Command{
	Use:   "datastructure <ID>",
	Short: "Show the components of a data structure definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		msg, err := c.DataStructure(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, dsd := range sortedArtefacts(msg.DataStructures) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dsd.MaintainedID(), localized(dsd.Name))
			printComponents(cmd, dsd)
		}
		return nil
	},
}

func printComponents(cmd *cobra.Command, dsd *model.DataStructureDefinition) {
	out := cmd.OutOrStdout()
	if dsd.Dimensions != nil {
		fmt.Fprintln(out, "dimensions:")
		for _, dim := range dsd.Dimensions.Dimensions {
			fmt.Fprintf(out, "  %d %s%s\n", dim.Position, dim.ID, enumerationOf(&dim.Component))
		}
		if td := dsd.Dimensions.TimeDimension; td != nil {
			fmt.Fprintf(out, "  %d %s (time)\n", td.Position, td.ID)
		}
	}
	if dsd.Attributes != nil && len(dsd.Attributes.Attributes) > 0 {
		fmt.Fprintln(out, "attributes:")
		for _, att := range dsd.Attributes.Attributes {
			fmt.Fprintf(out, "  %s %s\n", att.ID, att.UsageStatus)
		}
	}
	if dsd.Measures != nil && dsd.Measures.PrimaryMeasure != nil {
		fmt.Fprintf(out, "measure: %s\n", dsd.Measures.PrimaryMeasure.ID)
	}
}

func enumerationOf(c *model.Component) string {
	rep := c.Representation()
	if rep == nil {
		return ""
	}
	switch {
	case rep.Enumerated != nil:
		return " <- " + rep.Enumerated.MaintainedID()
	case rep.EnumeratedRef != "":
		return " <- " + rep.EnumeratedRef
	default:
		return ""
	}
}

var dataCmd = &cobra.Command{
	Use:   "data <FLOW> [KEY]",
	Short: "Download observations for a dataflow",
	Long: `Download observations for a dataflow. KEY selects series in the
dotted SDMX-REST form, e.g. M.USD.EUR.SP00.A; omit it to fetch
everything the source allows.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}

		keysOnly, _ := cmd.Flags().GetBool("keys-only")
		if keysOnly {
			dm, err := c.Preview(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printSeriesKeys(cmd, dm)
		}

		req := &rest.RequestArgs{
			Resource: rest.Data,
			AgencyID: c.Source().ID,
			ID:       args[0],
		}
		if len(args) > 1 {
			req.Key = args[1]
		}
		req.StartPeriod, _ = cmd.Flags().GetString("start")
		req.EndPeriod, _ = cmd.Flags().GetString("end")

		msg, err := c.Get(cmd.Context(), req)
		if err != nil {
			return err
		}
		dm, ok := msg.(*message.DataMessage)
		if !ok {
			return fmt.Errorf("data query returned %T", msg)
		}
		return printObservations(cmd, dm)
	},
}

func printSeriesKeys(cmd *cobra.Command, dm *message.DataMessage) error {
	var keys []string
	for _, ds := range dm.DataSets {
		for _, s := range ds.Series {
			keys = append(keys, s.Key.String())
		}
	}
	if jsonOutput() {
		return writeJSON(cmd, keys)
	}
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}

func printObservations(cmd *cobra.Command, dm *message.DataMessage) error {
	var rows []obsRow
	for _, ds := range dm.DataSets {
		for _, o := range ds.Obs {
			row := obsRow{Period: o.Dimension.Value, Value: o.RawValue}
			if o.Series != nil {
				row.Series = o.Series.String()
			}
			rows = append(rows, row)
		}
	}
	if jsonOutput() {
		return writeJSON(cmd, rows)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Series, r.Period, r.Value)
	}
	return w.Flush()
}

// localized picks the configured locale's text, falling back to English.
func localized(is model.InternationalString) string {
	return is.Localized(cfg.Lang)
}

// sortedArtefacts returns the map's values in key order.
func sortedArtefacts[V any](m map[string]V) []V {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
