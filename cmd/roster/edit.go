package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/roster/internal/gateway"
	"github.com/alexisbeaulieu97/roster/internal/student"
	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

func newEditCmd(flags *rootFlags) *cobra.Command {
	opts := &studentFlags{}

	cmd := &cobra.Command{
		Use:   "edit <student-id>",
		Short: "Change the fields of a student",
		Example: `  roster edit 3f2a... --major Physics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, flags, args[0], opts)
		},
	}

	opts.register(cmd)

	return cmd
}

func runEdit(cmd *cobra.Command, flags *rootFlags, id string, opts *studentFlags) error {
	if strings.TrimSpace(id) == "" {
		return newCommandError("edit student", "validating student ID", errors.New("student ID cannot be empty"), "Run 'roster list' to find the ID.")
	}

	changed := cmd.Flags().Changed("name") || cmd.Flags().Changed("major") || cmd.Flags().Changed("year")
	if !changed {
		return newCommandError("edit student", fmt.Sprintf("updating %q", id), errors.New("no fields to change"), "Pass at least one of --name, --major or --year.")
	}

	app, err := loadAppContext(cmd, flags, "edit")
	if err != nil {
		return err
	}

	gw, err := app.Gateway(app.Logger)
	if err != nil {
		return err
	}

	current, err := findStudent(cmd.Context(), gw, id)
	if err != nil {
		return newCommandError("edit student", fmt.Sprintf("looking up %q", id), err, gatewaySuggestion(err, app.Host()))
	}

	draft := student.DraftFrom(current)
	if cmd.Flags().Changed("name") {
		draft.Name = opts.name
	}
	if cmd.Flags().Changed("major") {
		draft.Major = opts.major
	}
	if cmd.Flags().Changed("year") {
		draft.EnrollmentYear = opts.year
	}
	draft = draft.Normalized()

	if err := student.ValidateDraft(draft); err != nil {
		return newCommandError("edit student", "validating fields", err, fmt.Sprintf("Names and majors cannot be blank and the year must be after %d.", student.MinEnrollmentYear))
	}

	updated, err := gw.Update(cmd.Context(), id, draft)
	if err != nil {
		app.Logger.Error(err, "update failed")
		return newCommandError("edit student", fmt.Sprintf("updating %q", id), err, gatewaySuggestion(err, app.Host()))
	}

	app.Logger.With("student_id", id).Info("student updated")

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated student '%s'\n", updated.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  Major: %s\n", updated.Major)
	fmt.Fprintf(cmd.OutOrStdout(), "  Year:  %d\n", updated.EnrollmentYear)

	return nil
}

// findStudent looks a record up through the collection listing; the API has
// no single-record read.
func findStudent(ctx context.Context, gw gateway.Gateway, id string) (student.Record, error) {
	records, err := gw.List(ctx)
	if err != nil {
		return student.Record{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return student.Record{}, rostererrors.NewNotFoundError(id)
}
