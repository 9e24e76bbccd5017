package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/browser"
	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/llm"
	"github.com/jonathan/job-scout/internal/matching"
	"github.com/jonathan/job-scout/internal/parsing"
	"github.com/jonathan/job-scout/internal/resume"
	"github.com/jonathan/job-scout/internal/types"
)

// newExtractor connects to the configured provider. The returned client must be closed.
func newExtractor(ctx context.Context, cfg *config.Config, log *zap.Logger) (*llm.Extractor, llm.Client, error) {
	apiKey, err := cfg.APIKey()
	if err != nil {
		return nil, nil, err
	}
	settings := cfg.LLMSettings()
	client, err := llm.NewClient(ctx, settings, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return llm.NewExtractor(client, settings, log), client, nil
}

// newCache returns the configured match cache and a function releasing it.
func newCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (matching.Cache, func(), error) {
	if cfg.Cache.Backend != "redis" {
		return matching.NewMemoryCache(), func() {}, nil
	}

	client, err := matching.DialRedis(ctx, cfg.Cache.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis match cache", zap.String("prefix", cfg.Cache.Prefix), zap.Duration("ttl", cfg.Cache.TTL))
	return matching.NewRedisCache(client, cfg.Cache.Prefix, cfg.Cache.TTL), func() {
		if err := client.Close(); err != nil {
			log.Warn("failed to close redis client", zap.Error(err))
		}
	}, nil
}

// newLauncher picks Chrome or plain HTTP page loading.
func newLauncher(cfg *config.Config, log *zap.Logger) browser.Launcher {
	if cfg.Browser.Driver == "http" {
		return &browser.HTTPLauncher{Timeout: cfg.Scraping.PageLoadTimeout}
	}
	return browser.NewChromeLauncher(cfg.BrowserOptions(), log)
}

// readResume loads the resume at path and returns its document name and text.
func readResume(path string, cfg *config.Config, log *zap.Logger) (string, string, error) {
	doc, closer, err := resume.Open(path)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = closer.Close() }()

	source := resume.NewFileSource(cfg.Resume.MaxFileBytes, cfg.Resume.AllowedExtensions, log)
	text, err := source.ExtractText(doc)
	if err != nil {
		return "", "", err
	}
	return doc.Name, text, nil
}

// parseProfile reads and parses the resume at path through session.
func parseProfile(ctx context.Context, session *matching.ProfileSession, path string, cfg *config.Config, log *zap.Logger) (*types.CandidateProfile, error) {
	name, text, err := readResume(path, cfg, log)
	if err != nil {
		return nil, err
	}
	profile, err := session.Profile(ctx, name, text)
	if parsing.IsModelUnavailable(err) {
		return nil, fmt.Errorf("language model unreachable, check llm settings and network: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse resume: %w", err)
	}
	return profile, nil
}

// newProfileSession wires a parser over extractor.
func newProfileSession(extractor llm.StructuredExtractor, cache matching.Cache, cfg *config.Config, log *zap.Logger) *matching.ProfileSession {
	parser := parsing.NewParser(extractor, cfg.LLM.MaxResumeChars, log)
	return matching.NewProfileSession(parser, cache, log)
}
