package main

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/tabreport/internal/config"
)

//go:embed templates/tabreport.yaml
var configTemplate embed.FS

// templatePath is the embedded template location.
const templatePath = "templates/tabreport.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented tabreport configuration file",
		Long: `Init writes a configuration template listing every report setting
(input and output files, column names, threshold, missing-value tokens,
mean policy, history) with its default value commented out.

Uncomment a line to override the default. Command-line flags still take
precedence over the file.

Examples:
  # Create .tabreport in the current directory
  tabreport init

  # Create the per-user configuration
  tabreport init -o ~/.config/tabreport/config.yaml

  # Show the template without writing it
  tabreport init --print`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile, "Path of the configuration file to create")
	cmd.Flags().BoolP("force", "f", false, "Replace an existing configuration file")
	cmd.Flags().BoolP("print", "p", false, "Print the template to stdout instead of writing a file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	outputPath, err := flags.GetString("output")
	if err != nil {
		return err
	}
	force, err := flags.GetBool("force")
	if err != nil {
		return err
	}
	printOnly, err := flags.GetBool("print")
	if err != nil {
		return err
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if printOnly {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}

	if err := writeTemplate(outputPath, content, force); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created configuration file: %s\n", outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'tabreport -c %s' or place it where tabreport looks for %s.\n",
		outputPath, config.DefaultConfigFile)
	return nil
}

// writeTemplate writes content to path with owner-only permissions,
// creating parent directories. An existing file is kept unless force is set.
func writeTemplate(path string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
