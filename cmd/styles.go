// cmd/styles.go
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/julienpequegnot/bannergen/internal/style"
	"github.com/julienpequegnot/bannergen/internal/ui"
	"github.com/spf13/cobra"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List available DeepAI styles",
	Long: `Lists the DeepAI styles from deepai_styles.local.yaml or deepai_styles.yaml
in the current directory, or the built-in set when neither exists.`,
	Args: cobra.NoArgs,
	RunE: runStyles,
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}

func runStyles(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	registry := style.Load(".", rt.logger)

	var rows [][]string
	for _, s := range registry.List() {
		slug := s.Slug
		if slug == rt.cfg.Defaults.DeepAIStyle {
			slug += " *"
		}
		rows = append(rows, []string{slug, s.Name, s.Endpoint, s.Description})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Table(0, []string{"Slug", "Name", "Endpoint", "Description"}, rows))
	fmt.Fprintln(out, ui.MutedStyle.Render(fmt.Sprintf("%d styles from %s, * marks the default", len(rows), registry.Source())))
	return nil
}

// checkStyle warns when slug is not in the registry. Rendering then falls
// back to text2img.
func checkStyle(out io.Writer, registry *style.Registry, slug string) {
	if registry.Exists(slug) {
		return
	}
	fmt.Fprintln(out, ui.WarnStyle.Render(fmt.Sprintf("Unknown DeepAI style %q, text2img will be used", slug)))
	fmt.Fprintln(out, ui.MutedStyle.Render("Available styles: "+strings.Join(registry.Slugs(), ", ")))
}
