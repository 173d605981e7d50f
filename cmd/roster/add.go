package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/roster/internal/student"
)

type studentFlags struct {
	name  string
	major string
	year  int
}

func (f *studentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Student name")
	cmd.Flags().StringVarP(&f.major, "major", "m", "", "Student major")
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, fmt.Sprintf("Enrollment year (after %d)", student.MinEnrollmentYear))
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	opts := &studentFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a student",
		Example: `  roster add --name "Ada Lovelace" --major Mathematics --year 2021`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, flags, opts)
		},
	}

	opts.register(cmd)

	return cmd
}

func runAdd(cmd *cobra.Command, flags *rootFlags, opts *studentFlags) error {
	app, err := loadAppContext(cmd, flags, "add")
	if err != nil {
		return err
	}

	draft := student.Draft{Name: opts.name, Major: opts.major, EnrollmentYear: opts.year}.Normalized()
	if err := student.ValidateDraft(draft); err != nil {
		return newCommandError("add student", "validating fields", err, fmt.Sprintf("Pass a non-empty --name and --major with a --year after %d.", student.MinEnrollmentYear))
	}

	gw, err := app.Gateway(app.Logger)
	if err != nil {
		return err
	}

	created, err := gw.Create(cmd.Context(), draft)
	if err != nil {
		app.Logger.Error(err, "create failed")
		return newCommandError("add student", fmt.Sprintf("creating %q", draft.Name), err, gatewaySuggestion(err, app.Host()))
	}

	app.Logger.With("student_id", created.ID).Info("student added")

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added student '%s'\n", created.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "  ID:    %s\n", created.ID)
	fmt.Fprintf(cmd.OutOrStdout(), "  Major: %s\n", created.Major)
	fmt.Fprintf(cmd.OutOrStdout(), "  Year:  %d\n", created.EnrollmentYear)

	return nil
}
