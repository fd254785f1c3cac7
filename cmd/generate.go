// cmd/generate.go
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julienpequegnot/bannergen/internal/banner"
	"github.com/julienpequegnot/bannergen/internal/config"
	"github.com/julienpequegnot/bannergen/internal/database"
	"github.com/julienpequegnot/bannergen/internal/deepai"
	"github.com/julienpequegnot/bannergen/internal/feed"
	"github.com/julienpequegnot/bannergen/internal/history"
	"github.com/julienpequegnot/bannergen/internal/llm"
	"github.com/julienpequegnot/bannergen/internal/output"
	"github.com/julienpequegnot/bannergen/internal/post"
	"github.com/julienpequegnot/bannergen/internal/prompts"
	"github.com/julienpequegnot/bannergen/internal/style"
	"github.com/julienpequegnot/bannergen/internal/ui"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate banners for a blog post",
	Long: `Pick a Markdown post (or a feed entry), let OpenAI write image prompts
for it, choose the prompts you like and render them with DeepAI.

Modes:
  origami  several prompts in the chosen DeepAI style, pick any subset
  simple   a single prompt, confirm and render`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

const feedTimeout = 30 * time.Second

var (
	genInputDir  string
	genOutputDir string
	genMode      string
	genStyle     string
	genCount     int
	genWidth     int
	genHeight    int
	genVersion   string
	genParallel  int
	genFeed      string
	genOpenAIKey string
	genDeepAIKey string
	genDryRun    bool
)

func init() {
	rootCmd.AddCommand(generateCmd)
	f := generateCmd.Flags()
	f.StringVarP(&genInputDir, "input-dir", "i", "", "Directory containing Markdown posts")
	f.StringVarP(&genOutputDir, "output-dir", "o", "", "Directory for generated banners")
	f.StringVarP(&genMode, "mode", "m", "", "Prompt mode: simple or origami")
	f.StringVarP(&genStyle, "deepai-style", "s", "", "DeepAI style slug (see 'bannergen styles')")
	f.IntVarP(&genCount, "count", "n", 0, "Number of prompts to request in origami mode")
	f.IntVarP(&genWidth, "width", "w", 0, "Banner width (multiple of 32)")
	f.IntVarP(&genHeight, "height", "H", 0, "Banner height (multiple of 32)")
	f.StringVarP(&genVersion, "version", "v", "", "DeepAI generator version: standard, hd or genius")
	f.IntVarP(&genParallel, "parallel", "p", 0, "Banners rendered at the same time")
	f.StringVar(&genFeed, "feed", "", "Read posts from an RSS/Atom feed or a site URL instead of a directory")
	f.StringVar(&genOpenAIKey, "openai-key", "", "OpenAI API key (default $OPENAI_API_KEY)")
	f.StringVar(&genDeepAIKey, "deepai-key", "", "DeepAI API key (default $DEEPAI_API_KEY)")
	f.BoolVar(&genDryRun, "dry-run", false, "Stop after prompt selection and print the planned banners")
}

// applyGenerateFlags overrides configuration with flags set on the command
// line.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.Defaults.InputDir = genInputDir
	}
	if flags.Changed("output-dir") {
		cfg.Defaults.OutputDir = genOutputDir
	}
	if flags.Changed("mode") {
		cfg.Defaults.Mode = strings.ToLower(genMode)
	}
	if flags.Changed("deepai-style") {
		cfg.Defaults.DeepAIStyle = genStyle
	}
	if flags.Changed("count") {
		cfg.Defaults.PromptCount = genCount
	}
	if flags.Changed("width") {
		cfg.Defaults.Width = genWidth
	}
	if flags.Changed("height") {
		cfg.Defaults.Height = genHeight
	}
	if flags.Changed("version") {
		cfg.Defaults.Version = strings.ToLower(genVersion)
	}
	if flags.Changed("parallel") {
		cfg.Defaults.Parallel = genParallel
	}
	if genOpenAIKey != "" {
		cfg.OpenAI.APIKey = genOpenAIKey
	}
	if genDeepAIKey != "" {
		cfg.DeepAI.APIKey = genDeepAIKey
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.cfg
	applyGenerateFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	if err := cfg.RequireOpenAIKey(); err != nil {
		return err
	}
	if !genDryRun {
		if err := cfg.RequireDeepAIKey(); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	prompter := ui.NewPrompter(cmd.InOrStdin(), out)
	styles := style.Load(".", rt.logger)
	templates := prompts.Load(".", rt.logger)

	styleSlug := cfg.Defaults.DeepAIStyle
	checkStyle(out, styles, styleSlug)
	st, ok := styles.Get(styleSlug)
	if !ok {
		st = style.Style{Slug: styleSlug, Name: styleSlug}
	}

	p, err := choosePost(ctx, rt, prompter)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, ui.Panel(p.Title,
		ui.Field{Label: "Source", Value: p.Path},
		ui.Field{Label: "Tags", Value: orDash(strings.Join(p.Keywords(5), ", "))},
		ui.Field{Label: "Mode", Value: cfg.Defaults.Mode},
		ui.Field{Label: "Style", Value: st.Name},
	))

	client := llm.NewClient(llm.Options{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
	}, templates, rt.logger)

	chosen, err := choosePrompts(ctx, cfg, client, prompter, p, st)
	if err != nil {
		return err
	}
	if len(chosen) == 0 {
		fmt.Fprintln(out, ui.WarnStyle.Render("Nothing to generate."))
		return nil
	}

	paths := output.BatchPaths(outputName(p), cfg.Defaults.OutputDir, len(chosen), "")
	jobs := make([]banner.Job, len(chosen))
	for i, prompt := range chosen {
		jobs[i] = banner.Job{
			PostPath:  p.Path,
			PostTitle: p.Title,
			Request: deepai.Request{
				Prompt:  prompt,
				Style:   styleSlug,
				Width:   cfg.Defaults.Width,
				Height:  cfg.Defaults.Height,
				Version: cfg.Defaults.Version,
			},
			OutputPath: paths[i],
		}
	}

	if genDryRun {
		rows := make([][]string, len(jobs))
		for i, j := range jobs {
			rows[i] = []string{filepath.Base(j.OutputPath), j.Request.Prompt}
		}
		fmt.Fprintln(out, ui.Table(100, []string{"Banner", "Prompt"}, rows))
		fmt.Fprintln(out, ui.MutedStyle.Render("Dry run: no banners rendered."))
		return nil
	}

	return renderJobs(ctx, rt, cmd, styles, jobs, cfg.Defaults.OutputDir)
}

func choosePost(ctx context.Context, rt *runtime, prompter *ui.Prompter) (*post.Post, error) {
	if genFeed != "" {
		prompter.Println(fmt.Sprintf("Fetching posts from %s", genFeed))
		fetcher := feed.NewFetcher(feedTimeout, rt.logger)
		posts, err := fetcher.Load(ctx, genFeed)
		if err != nil {
			return nil, err
		}
		if len(posts) == 0 {
			return nil, fmt.Errorf("no posts found in %s", genFeed)
		}

		labels := make([]string, len(posts))
		for i, p := range posts {
			labels[i] = ui.Truncate(p.Title, 80)
		}
		idx, err := prompter.SelectFile(labels)
		if err != nil {
			return nil, err
		}
		return posts[idx], nil
	}

	dir := rt.cfg.Defaults.InputDir
	prompter.Println(fmt.Sprintf("Searching for Markdown files in %s", dir))
	files, err := post.FindMarkdown(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		rt.logger.Warn("no markdown files", "dir", dir)
		return nil, fmt.Errorf("no markdown files found in %s", dir)
	}
	prompter.Println(ui.Success(fmt.Sprintf("Found %d markdown file(s)", len(files))))

	labels := make([]string, len(files))
	for i, f := range files {
		labels[i] = filepath.Base(f)
	}
	idx, err := prompter.SelectFile(labels)
	if err != nil {
		return nil, err
	}
	return post.Parse(files[idx])
}

func choosePrompts(ctx context.Context, cfg *config.Config, client *llm.Client, prompter *ui.Prompter, p *post.Post, st style.Style) ([]string, error) {
	switch cfg.Defaults.Mode {
	case "simple":
		prompt, err := client.GenerateSimplePrompt(ctx, p.Title, p.Body)
		if err != nil {
			return nil, err
		}
		prompter.Println(ui.Panel("Generated prompt", ui.Field{Label: "Prompt", Value: prompt}))
		ok, err := prompter.Confirm("Generate a banner with this prompt?")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return []string{prompt}, nil

	default:
		list, err := client.GeneratePrompts(ctx, p.Title, p.Body, st.Name, st.Description, cfg.Defaults.PromptCount)
		if err != nil {
			return nil, err
		}
		indices, err := prompter.SelectPrompts(list)
		if err != nil {
			return nil, err
		}
		chosen := make([]string, len(indices))
		for i, idx := range indices {
			chosen[i] = list[idx]
		}
		return chosen, nil
	}
}

func renderJobs(ctx context.Context, rt *runtime, cmd *cobra.Command, styles *style.Registry, jobs []banner.Job, outDir string) error {
	out := cmd.OutOrStdout()

	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	images := deepai.NewClient(deepai.Options{
		APIKey:      rt.cfg.DeepAI.APIKey,
		BaseURL:     rt.cfg.DeepAI.BaseURL,
		Timeout:     time.Duration(rt.cfg.DeepAI.TimeoutSeconds) * time.Second,
		MaxRetries:  rt.cfg.DeepAI.MaxRetries,
		MinInterval: time.Duration(rt.cfg.DeepAI.MinIntervalMS) * time.Millisecond,
	}, styles, rt.logger)

	runID := uuid.NewString()
	renderer := banner.NewRenderer(images, history.NewRepository(db), rt.cfg.Defaults.Parallel, rt.logger)

	fmt.Fprintf(out, "\nGenerating %d banner(s)...\n", len(jobs))
	results := renderer.Render(ctx, runID, jobs)

	for _, res := range results {
		name := filepath.Base(res.Job.OutputPath)
		if res.OK() {
			fmt.Fprintln(out, "  "+ui.Success(name))
		} else {
			fmt.Fprintln(out, "  "+ui.Failure(name+": "+res.Err.Error()))
		}
	}

	ok, failed := banner.Summarize(results)
	if len(results) == 1 {
		if ok == 0 {
			return fmt.Errorf("banner generation failed")
		}
		fmt.Fprintf(out, "\nDone! Banner saved to: %s\n", results[0].Job.OutputPath)
	} else {
		fmt.Fprintf(out, "\nBatch complete! ✓ %d successful, ✗ %d failed\n", ok, failed)
		fmt.Fprintf(out, "Output directory: %s\n", outDir)
		if ok == 0 {
			return fmt.Errorf("all %d banners failed", failed)
		}
	}
	fmt.Fprintln(out, ui.MutedStyle.Render("Run "+runID+" (bannergen history --run "+runID+")"))
	return nil
}

// outputName is the name output paths are derived from: the Markdown file,
// or the slug for feed entries.
func outputName(p *post.Post) string {
	if strings.HasSuffix(p.Path, ".md") {
		return p.Path
	}
	return p.Slug + ".md"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
