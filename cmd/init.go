package cmd

import (
	"fmt"
	"os"

	"github.com/julienpequegnot/bannergen/internal/config"
	"github.com/julienpequegnot/bannergen/internal/database"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bannergen configuration and history database",
	Long: `Creates the ~/.bannergen directory (or $BANNERGEN_HOME) with config.yaml
and the SQLite history database. An existing config.yaml is kept unless --force is given.`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := config.Dir()
	out := cmd.OutOrStdout()

	// Create directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Create config
	if _, err := os.Stat(config.Path()); err == nil && !initForce {
		fmt.Fprintf(out, "Keeping existing config at %s\n", config.Path())
	} else {
		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(out, "Created config at %s\n", config.Path())
	}

	// Create database
	db, err := database.New(config.DBPath())
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	fmt.Fprintf(out, "Created database at %s\n", db.Path())
	db.Close()

	fmt.Fprintln(out, "\nBannergen initialized! Next steps:")
	fmt.Fprintln(out, "  export OPENAI_API_KEY=... DEEPAI_API_KEY=...   (or put them in .env)")
	fmt.Fprintln(out, "  bannergen styles                             List DeepAI styles")
	fmt.Fprintln(out, "  bannergen generate -i ./posts                Generate banners for a post")

	return nil
}
