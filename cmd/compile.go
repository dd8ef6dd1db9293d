package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManiMozaffar/richapi-go/internal/analytics"
	"github.com/ManiMozaffar/richapi-go/internal/compiler"
	"github.com/ManiMozaffar/richapi-go/internal/config"
	"github.com/ManiMozaffar/richapi-go/internal/output"
	"github.com/ManiMozaffar/richapi-go/internal/pyast"
)

var compileCmd = &cobra.Command{
	Use:   "compile <module:attribute> [target_path] [scan_module]",
	Short: "Compile an application's OpenAPI document enriched with discovered HTTP exception responses",
	Args:  cobra.RangeArgs(1, 3),
	RunE:  runCompile,
}

func init() {
	compileCmd.Flags().String("root", ".", "Project root directory to scan for Python source")
	compileCmd.Flags().String("config", "", "Path to a .richapi.yaml config file (default: <root>/.richapi.yaml)")
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	debug, _ := cmd.Flags().GetBool("debug")
	root, _ := cmd.Flags().GetString("root")
	configPath, _ := cmd.Flags().GetString("config")

	verbosity := output.VerbosityDefault
	if debug {
		verbosity = output.VerbosityDebug
	} else if verbose {
		verbosity = output.VerbosityVerbose
	}
	logger := output.NewLogger(verbosity)

	moduleName, attrName, err := parseModuleSpec(args[0])
	if err != nil {
		analytics.ReportEventWithProperties(analytics.CompileFailed, map[string]interface{}{"error_type": "validation"})
		return err
	}

	targetPath := "./openapi.json"
	if len(args) > 1 {
		targetPath = args[1]
	}
	scanModule := ""
	if len(args) > 2 {
		scanModule = args[2]
	}

	analytics.ReportEvent(analytics.CompileStarted)

	doc, err := compileDoc(root, configPath, moduleName, attrName, scanModule, logger)
	if err != nil {
		analytics.ReportEventWithProperties(analytics.CompileFailed, map[string]interface{}{
			"error_type": "missing_scope",
			"fatal":      errors.Is(err, config.ErrMissingScope),
		})
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("compile: encode openapi document: %w", err)
	}
	if err := os.WriteFile(targetPath, data, 0o644); err != nil {
		return fmt.Errorf("compile: write %s: %w", targetPath, err)
	}

	logger.Progress("wrote %s", targetPath)
	analytics.ReportEvent(analytics.CompileCompleted)
	return nil
}

func compileDoc(root, configPath, moduleName, attrName, scanModule string, logger *output.Logger) (map[string]interface{}, error) {
	idx := pyast.NewProjectIndex(0)
	if err := idx.Discover(root); err != nil {
		return nil, fmt.Errorf("compile: discover project under %s: %w", root, err)
	}

	if configPath == "" {
		configPath = filepath.Join(root, config.FileName)
	}

	scanPrefixes, err := config.InferScope(root, scanModule, moduleName)
	if err != nil {
		return nil, err
	}

	exceptionRoots := []string{config.DefaultExceptionRoot}
	if cfg, err := config.Load(configPath); err == nil {
		exceptionRoots = cfg.ExceptionRoots
	}

	return compiler.Compile(idx, compiler.Target{ModuleName: moduleName, AppName: attrName}, compiler.Options{
		ScanPrefixes:   scanPrefixes,
		ExceptionRoots: exceptionRoots,
		Logger:         logger,
	})
}

// parseModuleSpec splits "module.path:attribute" into its two halves: the
// dotted module to parse and the application attribute defined in it,
// the same target shape FastAPI's own CLI tooling expects ("import
// module, getattr(module, attribute)").
func parseModuleSpec(spec string) (moduleName, attrName string, err error) {
	idx := strings.LastIndex(spec, ":")
	if idx <= 0 || idx == len(spec)-1 {
		return "", "", fmt.Errorf("compile: malformed module spec %q, expected module.path:attribute", spec)
	}
	return spec[:idx], spec[idx+1:], nil
}
