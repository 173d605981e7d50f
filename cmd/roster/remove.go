package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/roster/internal/student"
	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

type removeOptions struct {
	force bool
}

func newRemoveCmd(flags *rootFlags) *cobra.Command {
	opts := &removeOptions{}

	cmd := &cobra.Command{
		Use:     "remove <student-id>",
		Aliases: []string{"rm", "delete"},
		Short:   "Delete a student",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, flags, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Remove without confirmation")

	return cmd
}

func runRemove(cmd *cobra.Command, flags *rootFlags, id string, opts *removeOptions) error {
	if strings.TrimSpace(id) == "" {
		return newCommandError("remove student", "validating student ID", errors.New("student ID cannot be empty"), "Provide the ID of the student you wish to remove.")
	}

	app, err := loadAppContext(cmd, flags, "remove")
	if err != nil {
		return err
	}

	gw, err := app.Gateway(app.Logger)
	if err != nil {
		return err
	}

	target, err := findStudent(cmd.Context(), gw, id)
	if err != nil {
		return newCommandError("remove student", fmt.Sprintf("looking up %q", id), err, gatewaySuggestion(err, app.Host()))
	}

	if !opts.force {
		confirmed, err := confirmRemoval(cmd, target)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	err = gw.Remove(cmd.Context(), id)
	switch {
	case rostererrors.IsNotFound(err):
		app.Logger.With("student_id", id).Warn("student was already removed")
	case err != nil:
		app.Logger.Error(err, "remove failed")
		return newCommandError("remove student", fmt.Sprintf("removing %q", id), err, gatewaySuggestion(err, app.Host()))
	default:
		app.Logger.With("student_id", id).Info("student removed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed student '%s' (%s)\n", target.Name, id)

	return nil
}

func confirmRemoval(cmd *cobra.Command, target student.Record) (bool, error) {
	if !isTerminal(cmd.InOrStdin()) {
		return false, newCommandError("remove student", "prompting for confirmation", errors.New("not a terminal"), "Use --force when running in non-interactive environments.")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Remove student '%s' (%s, %d)? [y/N]: ", target.Name, target.Major, target.EnrollmentYear)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false, scanner.Err()
	}

	answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return answer == "y" || answer == "yes", nil
}

func isTerminal(reader any) bool {
	if file, ok := reader.(*os.File); ok {
		return termIsTerminal(int(file.Fd()))
	}
	return false
}

var termIsTerminal = func(fd int) bool {
	return term.IsTerminal(fd)
}
