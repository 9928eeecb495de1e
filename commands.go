package main

import (
	"flag"
	"fmt"

	"github.com/mononoke-scm/testharness/config"
	"github.com/mononoke-scm/testharness/fixtures"
	"github.com/mononoke-scm/testharness/harness"
	"github.com/mononoke-scm/testharness/hgconfig"
)

func cmdStartServer(args []string) int {
	fs := flag.NewFlagSet("start-server", flag.ExitOnError)
	var common commonParams
	common.addFlags(fs)
	repo := fs.String("repo", "", "repository path (required)")
	_ = fs.Parse(args)
	if *repo == "" {
		printError("-repo is required")
		return 2
	}

	h, err := common.newHarness()
	if err != nil {
		printError("%s", err)
		return 1
	}

	// Remaining arguments are passed through to the server binary.
	svc, err := h.StartServer(*repo, fs.Args()...)
	if err != nil {
		printError("%s", err)
		return 1
	}

	fmt.Printf("pid ledger: %s\n", h.Run().Ledger.Path())
	switch svc.State {
	case fixtures.Ready:
		printReady("%s ready (pid %d)", svc.Name, svc.Process.PID)
		return 0
	default:
		// The service stays running and stays in the ledger; a later
		// operation against it will produce the more specific failure.
		printWarning("%s %s waiting for %s", svc.Name, svc.State, fixtures.SocketPath(*repo))
		return 1
	}
}

func cmdAwaitReady(args []string) int {
	fs := flag.NewFlagSet("await-ready", flag.ExitOnError)
	var common commonParams
	common.addFlags(fs)
	path := fs.String("path", "", "readiness artifact path (required)")
	_ = fs.Parse(args)
	if *path == "" {
		printError("-path is required")
		return 2
	}

	cfg, err := common.loadConfig()
	if err != nil {
		printError("%s", err)
		return 1
	}
	poller := harness.Poller{
		Interval: cfg.PollInterval(),
		Attempts: cfg.Poll.Attempts,
		Logger:   common.logger(),
	}
	if poller.Wait(*path) == harness.Ready {
		printReady("%s exists", *path)
		return 0
	}
	printWarning("timed out waiting for %s", *path)
	return 1
}

func cmdConfigureRepo(args []string) int {
	fs := flag.NewFlagSet("configure-repo", flag.ExitOnError)
	var common commonParams
	common.addFlags(fs)
	repo := fs.String("repo", "", "repository path (required)")
	roleName := fs.String("role", "", "repository role: server, client, shallow-tree-server, shallow-tree-client")
	repoName := fs.String("reponame", "", "repository name used in the generated configuration")
	cachePath := fs.String("cachepath", "", "remotefilelog cache path")
	var sendTrees, treeOnly, shallow optionalBoolFlag
	fs.Var(&sendTrees, "sendtrees", "enable or disable sending trees")
	fs.Var(&treeOnly, "treeonly", "enable or disable tree-only mode")
	fs.Var(&shallow, "shallow", "enable or disable shallow file history")
	_ = fs.Parse(args)
	if *repo == "" || *roleName == "" {
		printError("-repo and -role are required")
		return 2
	}

	role, err := hgconfig.ParseRole(*roleName)
	if err != nil {
		printError("%s", err)
		return 2
	}

	h, err := common.newHarness()
	if err != nil {
		printError("%s", err)
		return 1
	}

	opts := hgconfig.Options{
		RepoName:  *repoName,
		CachePath: *cachePath,
		SendTrees: sendTrees.value,
		TreeOnly:  treeOnly.value,
		Shallow:   shallow.value,
	}
	if err := h.ConfigureRepo(*repo, role, opts); err != nil {
		printError("%s", err)
		return 1
	}
	printReady("%s configured as %s", *repo, role)
	return 0
}

func cmdBlobimport(args []string) int {
	fs := flag.NewFlagSet("blobimport", flag.ExitOnError)
	var common commonParams
	common.addFlags(fs)
	src := fs.String("src", "", "legacy repository to import (required)")
	data := fs.String("data", "", "destination data directory (required)")
	_ = fs.Parse(args)
	if *src == "" || *data == "" {
		printError("-src and -data are required")
		return 2
	}

	h, err := common.newHarness()
	if err != nil {
		printError("%s", err)
		return 1
	}
	if err := h.Blobimport(*src, *data, fs.Args()...); err != nil {
		printError("%s", err)
		return 1
	}
	printReady("imported %s into %s", *src, *data)
	return 0
}

func cmdSetup(args []string) int {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	var common commonParams
	common.addFlags(fs)
	manifestPath := fs.String("manifest", "", "fixture manifest file (YAML, required)")
	var filters fixtures.RegexFilters
	fs.Var(&filters.MustMatch, "run", "regex pattern(s) to select repositories to configure")
	fs.Var(&filters.MustNotMatch, "skip", "regex pattern(s) to select repositories not to configure")
	_ = fs.Parse(args)
	if *manifestPath == "" {
		printError("-manifest is required")
		return 2
	}

	manifest, err := config.LoadManifestFile(*manifestPath)
	if err != nil {
		printError("%s", err)
		return 1
	}

	h, err := common.newHarness()
	if err != nil {
		printError("%s", err)
		return 1
	}

	results := h.Apply(manifest, filters.AsFilter)
	printResults(results)
	if !results.OK() {
		return 1
	}
	return 0
}
