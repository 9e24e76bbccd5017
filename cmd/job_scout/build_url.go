package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-scout/internal/search"
)

var buildURLCmd = &cobra.Command{
	Use:   "build-url",
	Short: "Print the search URL for a title and location",
	RunE:  runBuildURL,
}

var (
	urlTitle    string
	urlLocation string
	urlPage     int
	filterFlags searchFilterFlags
)

// searchFilterFlags are the filter flags shared by build-url and search.
type searchFilterFlags struct {
	workType   string
	remote     string
	salary     string
	datePosted string
}

func (f *searchFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.workType, "work-type", "", "Work type: full-time, part-time, contract-temp, casual-vacation")
	cmd.Flags().StringVar(&f.remote, "remote", "", "Remote option: remote, hybrid, on-site")
	cmd.Flags().StringVar(&f.salary, "salary", "", "Minimum salary label, e.g. 80K+")
	cmd.Flags().StringVar(&f.datePosted, "date-posted", "", "Listing age: today, 3, last 7 days")
}

func (f *searchFilterFlags) filters() (search.Filters, error) {
	filters := search.Filters{WorkType: f.workType, Remote: f.remote, DatePosted: f.datePosted}
	if f.salary != "" {
		amount, ok := search.ParseSalaryFilter(f.salary)
		if !ok {
			return filters, &search.InvalidInputError{Field: "salary", Value: f.salary, Message: "expected a label like 80K+"}
		}
		filters.SalaryMin = amount
	}
	return filters, nil
}

func init() {
	buildURLCmd.Flags().StringVarP(&urlTitle, "title", "t", "", "Job title to search for (required)")
	buildURLCmd.Flags().StringVarP(&urlLocation, "location", "l", "", "Location to search in (required)")
	buildURLCmd.Flags().IntVar(&urlPage, "page", 1, "Result page number")
	filterFlags.register(buildURLCmd)

	_ = buildURLCmd.MarkFlagRequired("title")
	_ = buildURLCmd.MarkFlagRequired("location")

	rootCmd.AddCommand(buildURLCmd)
}

func runBuildURL(cmd *cobra.Command, _ []string) error {
	filters, err := filterFlags.filters()
	if err != nil {
		return err
	}
	searchURL, err := search.NewBuilder(appConfig.Scraping.BaseURL).Build(urlTitle, urlLocation, filters, urlPage)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), searchURL)
	return nil
}
