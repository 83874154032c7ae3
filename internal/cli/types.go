package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claimline/claimline/internal/model"
	"github.com/claimline/claimline/internal/schemas"
)

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Inspect claim type configurations",
	Long:  `Inspect the built-in claim types or validate a user configuration.`,
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active claim types",
	Long: `List the claim types the parser would use: the built-in set, or a
user configuration when --types is given.

Example:
  claimline types list
  claimline types list --types mytypes.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}
		types, err := loadTypes(cfg)
		if err != nil {
			return err
		}

		for _, t := range types {
			fmt.Printf("%s\n", t.Name)
			fmt.Printf("  array:  %s\n", t.ArrayPath)
			fmt.Printf("  color:  %s\n", t.Color)
			fmt.Printf("  start:  %s\n", describeDateField(t.StartDate))
			fmt.Printf("  end:    %s\n", describeDateField(t.EndDate))
			if t.DisplayName.Path != "" {
				fmt.Printf("  name:   %s\n", t.DisplayName.Path)
			}
			fmt.Println()
		}
		return nil
	},
}

var typesCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a claim type configuration file",
	Long: `Check validates a claim type configuration against the schema and
the parser's invariants without parsing anything.

Example:
  claimline types check mytypes.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := schemas.ValidateClaimConfigFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s\n", err)
			return fmt.Errorf("validation failed")
		}
		types, err := model.LoadClaimTypes(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %v\n", err)
			return fmt.Errorf("validation failed")
		}

		fmt.Printf("✓ %s defines %d valid claim types\n", path, len(types))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
	typesCmd.AddCommand(typesListCmd)
	typesCmd.AddCommand(typesCheckCmd)

	typesListCmd.Flags().StringVar(&typesFile, "types", "", "claim type configuration file (JSON or YAML)")
}

func describeDateField(dc model.DateFieldConfig) string {
	switch dc.Kind {
	case model.DateKindCalculation:
		calc := dc.Calculation
		operand := fmt.Sprintf("%g", calc.Operand)
		if calc.OperandPath != "" {
			operand = calc.OperandPath
		}
		return fmt.Sprintf("%s %s %s %s", calc.BaseField, calc.Op, operand, calc.Unit)
	case model.DateKindFixed:
		return fmt.Sprintf("fixed %s", dc.Value)
	default:
		if len(dc.Fallbacks) > 0 {
			return fmt.Sprintf("%s (fallbacks: %v)", dc.Path, dc.Fallbacks)
		}
		return dc.Path
	}
}
