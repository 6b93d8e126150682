package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/mock-interview/internal/fetch"
	"github.com/jonathan/mock-interview/internal/observability"
)

var (
	importUseBrowser bool
	importOutputFile string
	importVerbose    bool
)

var importJobCmd = &cobra.Command{
	Use:   "import-job <url>",
	Short: "Fetch a job posting and extract its text",
	Long: "Fetch a job posting URL and print its title and description. With --browser, pages whose " +
		"text is too short are rendered in headless Chrome and extracted again.",
	Args: cobra.ExactArgs(1),
	RunE: runImportJob,
}

func init() {
	importJobCmd.Flags().BoolVar(&importUseBrowser, "browser", false, "Render short pages with headless Chrome (default from USE_BROWSER)")
	importJobCmd.Flags().StringVarP(&importOutputFile, "out", "o", "", "Write JSON to this file instead of stdout")
	importJobCmd.Flags().BoolVarP(&importVerbose, "verbose", "v", false, "Print a summary")
	rootCmd.AddCommand(importJobCmd)
}

func runImportJob(cmd *cobra.Command, args []string) error {
	useBrowser := cfg.Fetch.UseBrowser
	if cmd.Flags().Changed("browser") {
		useBrowser = importUseBrowser
	}

	job, err := fetch.NewImporter(cfg.Fetch.Timeout, logger).Import(cmd.Context(), args[0], useBrowser)
	if err != nil {
		return err
	}

	if importVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintImportedJob(job)
	}
	return writeJSON(cmd, importOutputFile, job)
}
