// cmd/history.go
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/julienpequegnot/bannergen/internal/config"
	"github.com/julienpequegnot/bannergen/internal/database"
	"github.com/julienpequegnot/bannergen/internal/history"
	"github.com/julienpequegnot/bannergen/internal/ui"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show generated banners",
	Long:  `Lists banners recorded by generate and direct, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var (
	historyLimit  int
	historyRun    string
	historySearch string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of banners to show")
	historyCmd.Flags().StringVar(&historyRun, "run", "", "Only show banners of one run")
	historyCmd.Flags().StringVarP(&historySearch, "search", "q", "", "Only show banners whose prompt or post title contains this text")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := database.New(config.DBPath())
	if err != nil {
		return err
	}
	defer db.Close()

	repo := history.NewRepository(db)

	var records []history.Record
	switch {
	case historyRun != "":
		records, err = repo.ListRun(historyRun)
	case historySearch != "":
		records, err = repo.Search(historySearch, historyLimit)
	default:
		records, err = repo.List(historyLimit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No banners found. Run 'bannergen generate' to create some.")
		return nil
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		status := ui.SuccessStyle.Render(r.Status)
		if r.Status != history.StatusOK {
			status = ui.ErrorStyle.Render(r.Status)
		}
		rows[i] = []string{
			fmt.Sprintf("%d", r.ID),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			status,
			r.Style,
			filepath.Base(r.OutputPath),
			ui.Truncate(r.Prompt, 50),
		}
	}
	fmt.Fprintln(out, ui.Table(0, []string{"#", "Date", "Status", "Style", "Banner", "Prompt"}, rows))

	for _, r := range records {
		if r.Error != "" {
			fmt.Fprintf(out, "%s %s\n", ui.LabelStyle.Render(fmt.Sprintf("#%d:", r.ID)), ui.ErrorStyle.Render(r.Error))
		}
	}

	total, err := repo.Count()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, ui.MutedStyle.Render(fmt.Sprintf("Showing %d of %d banner(s)", len(records), total)))
	return nil
}
