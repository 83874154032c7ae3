package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claimline/claimline/internal/pipeline"
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify <file>",
	Short: "Report which strategy tier would handle a file",
	Long: `Classify inspects a claim export without extracting anything and
reports the strategy tier that would handle it:

  FIXED_SCHEMA         matches the configured claim types
  CONFIGURABLE_SCHEMA  claim arrays discovered by field inspection
  HEURISTIC            only a minimal record scan applies
  NONE                 nothing usable found

Example:
  claimline classify export.json
  claimline classify legacy.json --types mytypes.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&typesFile, "types", "", "claim type configuration file (JSON or YAML)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Cache.Enabled = false

	types, err := loadTypes(cfg)
	if err != nil {
		return err
	}

	tier, err := pipeline.NewPipeline(cfg, types).Classify(args[0])
	if err != nil {
		return renderFailure(err)
	}

	fmt.Println(string(tier))
	return nil
}
