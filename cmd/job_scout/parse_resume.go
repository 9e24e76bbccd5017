package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-scout/internal/observability"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Parse a resume into a structured candidate profile",
	Long:  "Parse a plain-text or Markdown resume with the configured language model and print the extracted candidate profile.",
	RunE:  runParseResume,
}

var (
	parseResumeFile string
	parseOutputFile string
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResumeFile, "resume", "r", "", "Path to the resume file (required)")
	parseResumeCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Write the profile as JSON to this file")
	_ = parseResumeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	extractor, client, err := newExtractor(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	session := newProfileSession(extractor, nil, appConfig, appLogger)
	profile, err := parseProfile(ctx, session, parseResumeFile, appConfig, appLogger)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintCandidateProfile(profile)

	if parseOutputFile == "" {
		return nil
	}
	jsonBytes, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(parseOutputFile, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", parseOutputFile)
	return nil
}
