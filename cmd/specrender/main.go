package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/frederic-klein/specrender/internal/epochs"
	"github.com/frederic-klein/specrender/internal/render"
	"github.com/frederic-klein/specrender/internal/requirements"
	"github.com/frederic-klein/specrender/internal/style"
)

var (
	specStyle        string
	requirementFiles []string
	epochFile        string
	outputPath       string
	verbose          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "specrender [template]",
		Short: "Render a distro-specific RPM spec file from a spec template",
		Long: "Specrender renders a .spec.j2 template into an RPM spec file, resolving " +
			"package names, versions, releases, epochs and licenses for the target " +
			"distribution style.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runRender,
	}

	rootCmd.Flags().StringVar(&specStyle, "spec-style", "", "Distro style to render for (suse, fedora); autodetected from the host when unset")
	rootCmd.Flags().StringArrayVarP(&requirementFiles, "requirements", "r", nil, "Requirements file to take dependency versions from; repeatable, later files win")
	rootCmd.Flags().StringVar(&epochFile, "epochs", "", "YAML file with package epochs")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output filename instead of stdout")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	templatePath := args[0]

	st, err := style.Resolve(specStyle)
	if err != nil {
		return err
	}
	log.Debug("resolved spec style", "style", st)

	epochTable, err := epochs.Load(epochFile)
	if err != nil {
		return err
	}

	reqTable, err := requirements.Merge(requirementFiles)
	if err != nil {
		return err
	}
	log.Debug("merged requirements", "files", len(requirementFiles), "entries", len(reqTable))

	// fetched sources land next to the rendered spec; without an explicit
	// output there is nowhere to put them
	outputDir := ""
	if outputPath != "" {
		outputDir = filepath.Dir(outputPath)
	}

	ctx := render.NewContext(st, epochTable, reqTable, filepath.Dir(templatePath), outputDir)
	spec, err := render.GenerateSpec(ctx, templatePath)
	if err != nil {
		return err
	}

	if outputPath == "" {
		fmt.Print(spec)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(spec), 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	log.Debug("wrote spec", "path", outputPath)
	return nil
}
