package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultExportFile = "technologies-backup.json"

func newDataCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export, import or clear stored technologies",
	}
	cmd.AddCommand(newDataExportCmd(s), newDataImportCmd(s), newDataClearCmd(s))
	return cmd
}

func newDataExportCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all technologies to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.get()
			if err != nil {
				return err
			}
			data, err := app.Technologies.Export(cmd.Context())
			if err != nil {
				return err
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultExportFile, `Target file, "-" for standard output`)
	return cmd
}

func newDataImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all technologies with the contents of a JSON backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := s.get()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			count, err := app.Technologies.Import(cmd.Context(), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d technologies\n", count)
			return nil
		},
	}
}

func newDataClearCmd(s *session) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all technologies",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to remove all technologies without --yes")
			}
			app, err := s.get()
			if err != nil {
				return err
			}
			if err := app.Technologies.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All technologies removed")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm removal")
	return cmd
}
