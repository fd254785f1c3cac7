// cmd/direct.go
package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienpequegnot/bannergen/internal/banner"
	"github.com/julienpequegnot/bannergen/internal/config"
	"github.com/julienpequegnot/bannergen/internal/database"
	"github.com/julienpequegnot/bannergen/internal/deepai"
	"github.com/julienpequegnot/bannergen/internal/history"
	"github.com/julienpequegnot/bannergen/internal/style"
	"github.com/julienpequegnot/bannergen/internal/ui"
	"github.com/spf13/cobra"
)

var directCmd = &cobra.Command{
	Use:   "direct <prompt>",
	Short: "Render a banner straight from a prompt",
	Long:  `Skips OpenAI and sends the given prompt to DeepAI as is.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDirect,
}

var (
	directOutput    string
	directWidth     int
	directHeight    int
	directVersion   string
	directStyle     string
	directDeepAIKey string
)

func init() {
	rootCmd.AddCommand(directCmd)
	f := directCmd.Flags()
	f.StringVarP(&directOutput, "output", "o", "banner.png", "Output file path")
	f.IntVarP(&directWidth, "width", "w", 0, "Banner width (multiple of 32)")
	f.IntVarP(&directHeight, "height", "H", 0, "Banner height (multiple of 32)")
	f.StringVarP(&directVersion, "version", "v", "", "DeepAI generator version: standard, hd or genius")
	f.StringVarP(&directStyle, "deepai-style", "s", "", "DeepAI style slug")
	f.StringVar(&directDeepAIKey, "deepai-key", "", "DeepAI API key (default $DEEPAI_API_KEY)")
}

func runDirect(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Defaults.Width = directWidth
	}
	if flags.Changed("height") {
		cfg.Defaults.Height = directHeight
	}
	if flags.Changed("version") {
		cfg.Defaults.Version = strings.ToLower(directVersion)
	}
	if flags.Changed("deepai-style") {
		cfg.Defaults.DeepAIStyle = directStyle
	}
	if directDeepAIKey != "" {
		cfg.DeepAI.APIKey = directDeepAIKey
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	if err := cfg.RequireDeepAIKey(); err != nil {
		return err
	}

	prompt := strings.TrimSpace(args[0])
	if prompt == "" {
		return fmt.Errorf("prompt must not be empty")
	}

	out := cmd.OutOrStdout()
	styles := style.Load(".", rt.logger)
	checkStyle(out, styles, cfg.Defaults.DeepAIStyle)
	fmt.Fprintln(out, ui.Panel("Generation info",
		ui.Field{Label: "Prompt", Value: prompt},
		ui.Field{Label: "Dimensions", Value: strconv.Itoa(cfg.Defaults.Width) + "x" + strconv.Itoa(cfg.Defaults.Height)},
		ui.Field{Label: "Version", Value: cfg.Defaults.Version},
		ui.Field{Label: "Style", Value: cfg.Defaults.DeepAIStyle},
		ui.Field{Label: "Output", Value: directOutput},
	))

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	images := deepai.NewClient(deepai.Options{
		APIKey:      cfg.DeepAI.APIKey,
		BaseURL:     cfg.DeepAI.BaseURL,
		Timeout:     time.Duration(cfg.DeepAI.TimeoutSeconds) * time.Second,
		MaxRetries:  cfg.DeepAI.MaxRetries,
		MinInterval: time.Duration(cfg.DeepAI.MinIntervalMS) * time.Millisecond,
	}, styles, rt.logger)

	renderer := banner.NewRenderer(images, history.NewRepository(db), 1, rt.logger)
	results := renderer.Render(cmd.Context(), uuid.NewString(), []banner.Job{{
		PostPath:  "-",
		PostTitle: "direct",
		Request: deepai.Request{
			Prompt:  prompt,
			Style:   cfg.Defaults.DeepAIStyle,
			Width:   cfg.Defaults.Width,
			Height:  cfg.Defaults.Height,
			Version: cfg.Defaults.Version,
		},
		OutputPath: directOutput,
	}})

	if err := results[0].Err; err != nil {
		return fmt.Errorf("banner generation failed: %w", err)
	}
	fmt.Fprintf(out, "\n%s\n", ui.Success("Done! Banner saved to: "+directOutput))
	return nil
}
