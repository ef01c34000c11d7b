package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mehulBhatt911/Studysyn/backend/storage"
)

// ValidFormats defines the allowed export formats.
var ValidFormats = []string{"json", "yaml"}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Import a browser-storage backup",
		Long: `Import a browser-storage backup.

Records are appended after the existing ones unless --replace is given.
Malformed sections and records are skipped and reported on stderr.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, rootOpts, args[0], replace)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "replace all stored records")

	return cmd
}

func runImport(cmd *cobra.Command, opts *RootOptions, path string, replace bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}

	e, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	backup, warnings, err := e.store.Import(cmd.Context(), data, replace)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	e.log.Debug("import finished", zap.String("file", path), zap.Bool("replace", replace))

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d exams and %d challenges\n", len(backup.Exams), len(backup.Challenges))
	return nil
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Export every record as a backup",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(format) {
				return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
			}
			return runExport(cmd, rootOpts, format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json|yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func runExport(cmd *cobra.Command, opts *RootOptions, format, output string) error {
	e, err := opts.open(cmd.Context())
	if err != nil {
		return err
	}
	defer e.close()

	backup, err := e.store.Export(cmd.Context())
	if err != nil {
		return err
	}
	data, err := encode(backup, format)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if format == "json" {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

func encode(b storage.Backup, format string) ([]byte, error) {
	if format == "yaml" {
		return yaml.Marshal(b)
	}
	return storage.EncodeBackup(b)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
