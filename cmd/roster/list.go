package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/roster/internal/student"
)

type listOptions struct {
	jsonOutput bool
	filter     string
}

func newListCmd(flags *rootFlags) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, flags, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "Only show students whose name or major contains this text")

	return cmd
}

func runList(cmd *cobra.Command, flags *rootFlags, opts *listOptions) error {
	app, err := loadAppContext(cmd, flags, "list")
	if err != nil {
		return err
	}

	gw, err := app.Gateway(app.Logger)
	if err != nil {
		return err
	}

	records, err := gw.List(cmd.Context())
	if err != nil {
		app.Logger.Error(err, "list failed")
		return newCommandError("list students", fmt.Sprintf("fetching %s", gw.CollectionURL()), err, gatewaySuggestion(err, app.Host()))
	}
	records = student.Filter(records, opts.filter)

	if opts.jsonOutput {
		return renderListJSON(cmd, records)
	}
	if len(records) == 0 {
		return renderEmptyList(cmd, opts.filter)
	}
	return renderListTable(cmd, records)
}

func renderEmptyList(cmd *cobra.Command, filter string) error {
	if strings.TrimSpace(filter) != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "No students match %q.\n", filter)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "No students yet.")
	fmt.Fprintln(cmd.OutOrStdout(), "\nRun 'roster add --name <name> --major <major> --year <year>' to add the first one.")
	return nil
}

func renderListTable(cmd *cobra.Command, records []student.Record) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintln(writer, "ID\tNAME\tMAJOR\tENROLLMENT YEAR")
	for _, r := range records {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\n", r.ID, r.Name, r.Major, r.EnrollmentYear)
	}

	return writer.Flush()
}

type listJSONPayload struct {
	Version  string           `json:"version"`
	Count    int              `json:"count"`
	Students []student.Record `json:"students"`
}

func renderListJSON(cmd *cobra.Command, records []student.Record) error {
	if records == nil {
		records = []student.Record{}
	}
	payload := listJSONPayload{
		Version:  "1.0",
		Count:    len(records),
		Students: records,
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
