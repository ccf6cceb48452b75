package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dbrafael/tempa/internal/pipeline"
)

// planCmd represents the plan command
var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"p"},
	Short:   "Preview the operations a generate run would perform",
	Long: `Walk the template directory and print the pending file operations
without touching the output directory. Useful for checking which files would
be rendered, which entries would be skipped, and where each file would land.

Examples:
  tempa plan -i ./template -o ./app             # table output
  tempa plan -i ./template -o ./app -f json     # JSON output
  tempa plan -i ./template -o ./app -f yaml     # YAML output`,
	RunE: runPlan,
}

var (
	planInput  string
	planOutput string
	planFormat string
)

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&planInput, "input", "i", "", "template directory to walk")
	planCmd.Flags().StringVarP(&planOutput, "output", "o", "", "destination directory to mirror against")
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "table", "output format (table, json, yaml)")
	planCmd.MarkFlagRequired("input")
	planCmd.MarkFlagRequired("output")
}

// planEntry is the serializable view of one pending operation.
type planEntry struct {
	Op     string `json:"op" yaml:"op"`
	Source string `json:"source" yaml:"source"`
	Dest   string `json:"dest,omitempty" yaml:"dest,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	ops, err := pipeline.Walk(planInput, planOutput)
	if err != nil {
		return err
	}

	entries := make([]planEntry, 0, len(ops))
	for _, op := range ops {
		entries = append(entries, planEntry{
			Op:     op.Kind.String(),
			Source: op.Source,
			Dest:   op.Dest,
		})
	}

	switch planFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(entries)
	case "table":
		return printPlanTable(entries)
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, json, yaml)", planFormat)
	}
}

func printPlanTable(entries []planEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OP\tSOURCE\tDEST")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Op, e.Source, e.Dest)
	}
	fmt.Fprintf(w, "\n%d operations\n", len(entries))
	return w.Flush()
}
