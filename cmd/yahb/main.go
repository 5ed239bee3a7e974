package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frederic-klein/yahb/internal/bootstrap"
	"github.com/frederic-klein/yahb/internal/epel"
	"github.com/frederic-klein/yahb/internal/hostinfo"
	"github.com/frederic-klein/yahb/internal/installer"
	"github.com/frederic-klein/yahb/internal/manifest"
)

var (
	manifestPath     string
	cacheDir         string
	dryRun           bool
	skipReleaseCheck bool
	checkHost        bool
	writeInPlace     bool
	verbose          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "yahb",
		Short: "Yet Another Host Bootstrapper - prepares RPM-based hosts from prerequisite manifests",
		Long:  "YAHB reads a bootstrap manifest (an EPEL repository source plus an ordered list of rpm/pypi requirements) and prepares a host for running an orchestration tool on top of it.",
	}

	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "f", "./bootstrap.manifest", "Input manifest path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Parse and validate a manifest",
		RunE:  runCheck,
	}
	checkCmd.Flags().BoolVar(&checkHost, "host", false, "Also check the current host against MIN_RELEASE")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the bootstrap steps declared by the manifest",
		RunE:  runRun,
	}
	runCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Download cache directory (default ~/.yahb/cache)")
	runCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print commands instead of executing them")
	runCmd.Flags().BoolVar(&skipReleaseCheck, "skip-release-check", false, "Skip the MIN_RELEASE host check")

	fmtCmd := &cobra.Command{
		Use:   "fmt",
		Short: "Rewrite a manifest in canonical form",
		RunE:  runFmt,
	}
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Write result back to the manifest instead of stdout")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the parsed manifest as YAML",
		RunE:  runExport,
	}

	rootCmd.AddCommand(checkCmd, runCmd, fmtCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func logf() func(string, ...interface{}) {
	return func(format string, args ...interface{}) {
		if verbose {
			fmt.Printf(format+"\n", args...)
		}
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	m, err := manifest.NewParser().ParseFile(manifestPath)
	if err != nil {
		return err
	}

	rpms, pypis := 0, 0
	for _, r := range m.Requirements {
		switch r.Provider {
		case manifest.ProviderRPM:
			rpms++
		case manifest.ProviderPypi:
			pypis++
		}
	}
	fmt.Printf("%s: shortname=%s min_release=%s steps=%v\n",
		manifestPath, m.Shortname, m.MinRelease, m.Steps)
	fmt.Printf("requirements: %d rpm, %d pypi\n", rpms, pypis)

	if checkHost && m.MinRelease != "" {
		release, err := hostinfo.Detect()
		if err != nil {
			return fmt.Errorf("detecting host release: %w", err)
		}
		ok, err := release.AtLeast(m.MinRelease)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("host %s release %s does not meet minimum %s",
				release.ID, release.Version, m.MinRelease)
		}
		fmt.Printf("host %s release %s meets minimum %s\n", release.ID, release.Version, m.MinRelease)
	}
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logf()

	log("Parsing manifest: %s", manifestPath)
	m, err := manifest.NewParser().ParseFile(manifestPath)
	if err != nil {
		return err
	}

	var release *hostinfo.Release
	if !skipReleaseCheck {
		release, err = hostinfo.Detect()
		if err != nil {
			return fmt.Errorf("detecting host release: %w", err)
		}
		log("Detected %s release %s", release.ID, release.Version)
	}

	cache := cacheDir
	if cache == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		cache = filepath.Join(homeDir, ".yahb", "cache")
	}

	var runner installer.Runner = installer.NewExecRunner(os.Stdout, os.Stderr)
	if dryRun {
		runner = &installer.DryRunner{Out: os.Stdout}
	}

	steps := map[string]bootstrap.Step{
		manifest.StepPackages: &bootstrap.PackagesStep{
			Requirements: m.Requirements,
			Installers:   installer.ForProviders(runner),
			Logf:         log,
		},
	}
	if m.EpelRPMURL != "" {
		steps[manifest.StepEpel] = epel.New(m.EpelRPMURL, cache, runner, log)
	}

	b := &bootstrap.Runner{Manifest: m, Steps: steps, Release: release, Logf: log}
	if err := b.Run(cmd.Context()); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	fmt.Printf("Bootstrapped %s host: %d steps, %d requirements\n",
		m.Shortname, len(m.Steps), len(m.Requirements))
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	m, err := manifest.NewParser().ParseFile(manifestPath)
	if err != nil {
		return err
	}

	if !writeInPlace {
		return manifest.NewEmitter(os.Stdout).Emit(m)
	}

	// Write to temp file first, then rename
	tmp, err := os.CreateTemp(filepath.Dir(manifestPath), ".yahb-fmt-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if err := manifest.NewEmitter(tmp).Emit(m); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), manifestPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing manifest: %w", err)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	m, err := manifest.NewParser().ParseFile(manifestPath)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}
