// Command idlgen emits interface, proxy and stub sources for the interfaces
// of an IDL type model.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"idlgen/internal"
	"idlgen/internal/generation"
	"idlgen/internal/generation/cpp"
	"idlgen/internal/generation/golang"
	"idlgen/internal/metadata"
	"idlgen/internal/verify"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "0.4.0-dev"

type config struct {
	model        string
	lang         string
	out          string
	iface        string
	all          bool
	list         bool
	artifacts    string
	baseID       uint
	importPrefix string
	clean        bool
	forceClean   bool
	dryRun       bool
	verify       bool
	verbose      bool
	version      bool
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fset := flag.NewFlagSet("idlgen", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.StringVar(&cfg.model, "model", "", "The path or http(s) URL of the JSON type model.")
	fset.StringVar(&cfg.lang, "lang", "cpp", "Target language: "+strings.Join(dialectNames(), ", ")+".")
	fset.StringVar(&cfg.out, "out", "./output/", "The directory where all generated files will be placed.")
	fset.StringVar(&cfg.iface, "interface", "", "The interface to generate. Default: the first interface that is not external.")
	fset.BoolVar(&cfg.all, "all", false, "Generate every interface that is not external.")
	fset.BoolVar(&cfg.list, "list", false, "List the interfaces of the model and exit.")
	fset.StringVar(&cfg.artifacts, "artifacts", "interface,proxy,stub", "Comma separated artifacts to emit.")
	fset.UintVar(&cfg.baseID, "base-id", uint(generation.DefaultBaseCommand), "The command id of the first method.")
	fset.StringVar(&cfg.importPrefix, "go-import-prefix", "", "Import path of the output directory (go only).")
	fset.BoolVar(&cfg.clean, "clean", false, "Empty the output directory before generation, after confirmation.")
	fset.BoolVar(&cfg.forceClean, "force-clean", false, "Like -clean, without asking.")
	fset.BoolVar(&cfg.dryRun, "dry-run", false, "Render into memory and print the files that would be written.")
	fset.BoolVar(&cfg.verify, "verify", false, "Type-check the generated packages (go only).")
	fset.BoolVar(&cfg.verbose, "verbose", false, "Log every emitted file.")
	fset.BoolVar(&cfg.version, "version", false, "Print the version and exit.")
	fset.Usage = func() {
		fmt.Fprintln(stderr, "App that generates interface, proxy and stub code from an IDL type model.")
		fset.PrintDefaults()
	}

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if cfg.version {
		return cfg, nil
	}

	if cfg.model == "" {
		return nil, errors.New("model path is missing")
	}
	if cfg.list {
		return cfg, nil
	}
	if cfg.all && cfg.iface != "" {
		return nil, errors.New("-all and -interface are mutually exclusive")
	}
	if cfg.baseID > 1<<31-1 {
		return nil, fmt.Errorf("-base-id %d does not fit a command id", cfg.baseID)
	}
	if cfg.verify && (cfg.lang != "go" || cfg.dryRun) {
		return nil, errors.New("-verify needs -lang go and a real output directory")
	}
	return cfg, nil
}

var dialects = map[string]func(cfg *config) (generation.Dialect, error){
	"cpp": func(*config) (generation.Dialect, error) {
		return cpp.New(), nil
	},
	"go": func(cfg *config) (generation.Dialect, error) {
		return golang.New(golang.Options{ImportPrefix: cfg.importPrefix})
	},
}

func dialectNames() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newLogger(verbose bool) *zap.Logger {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zcfg.DisableStacktrace = true
	return internal.Must(zcfg.Build())
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.version {
		v := version.Must(version.NewVersion(Version))
		fmt.Printf("idlgen %s (model formats %s)\n", v, metadata.SupportedFormats)
		return
	}

	logger := newLogger(cfg.verbose)
	defer logger.Sync() //nolint:errcheck
	generation.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("generation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	reader, err := metadata.NewReader(cfg.model)
	if err != nil {
		return err
	}
	component := reader.Component()
	logger.Debug("loaded model",
		zap.String("model", cfg.model),
		zap.Int("types", len(component.Types)),
		zap.Int("interfaces", len(component.Interfaces)),
	)

	if cfg.list {
		return listInterfaces(reader, stdout)
	}

	if cfg.iface != "" {
		if _, found := reader.TryGetInterface(cfg.iface); !found {
			return fmt.Errorf("interface %q is not declared in %s", cfg.iface, cfg.model)
		}
	} else if _, ok := reader.Primary(); !ok {
		return fmt.Errorf("%s declares no interface to generate", cfg.model)
	}

	newDialect, ok := dialects[cfg.lang]
	if !ok {
		return fmt.Errorf("unknown language %q, want one of %s", cfg.lang, strings.Join(dialectNames(), ", "))
	}
	dialect, err := newDialect(cfg)
	if err != nil {
		return err
	}

	artifacts, err := generation.ParseArtifacts(cfg.artifacts)
	if err != nil {
		return err
	}

	var output generation.Output
	memory := generation.NewMemoryOutput()
	if cfg.dryRun {
		output = memory
	} else {
		if err := prepareOutput(cfg.out, cfg.clean || cfg.forceClean, cfg.forceClean, stdin, stdout); err != nil {
			return err
		}
		output = generation.DirOutput{Root: cfg.out}
	}

	opts := generation.Options{Interface: cfg.iface, BaseCommand: generation.Base(uint32(cfg.baseID))}
	var result *generation.Result
	if cfg.all {
		result, err = generation.GenerateAll(ctx, component, dialect, output, opts, artifacts...)
	} else {
		result, err = generateOne(component, dialect, output, opts, artifacts)
	}
	if result != nil {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(stdout, "warning:", d)
		}
	}
	if err != nil {
		return err
	}

	if cfg.dryRun {
		for _, path := range memory.Paths() {
			fmt.Fprintln(stdout, path)
		}
		return nil
	}
	logger.Info("generation finished",
		zap.Strings("interfaces", result.Interfaces),
		zap.Int("files", len(result.Written)),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)

	if cfg.verify {
		return verify.Check(ctx, logger, cfg.out)
	}
	return nil
}

func generateOne(component *metadata.Component, dialect generation.Dialect, output generation.Output, opts generation.Options, artifacts []generation.Artifact) (*generation.Result, error) {
	emitter, err := generation.NewCodeEmitter(component, dialect, output, opts)
	if err != nil {
		return nil, err
	}
	err = emitter.Emit(artifacts...)
	return &generation.Result{
		Interfaces:  []string{emitter.Names().FullName},
		Written:     emitter.Written(),
		Diagnostics: emitter.Diagnostics(),
	}, err
}

func listInterfaces(reader *metadata.Reader, stdout io.Writer) error {
	component := reader.Component()
	for i := range component.Interfaces {
		iface := &component.Interfaces[i]
		kind := "declared"
		if iface.External {
			kind = "external"
		}
		fmt.Fprintf(stdout, "%-8s %s (%d methods)\n", kind, iface.FullName(), len(iface.Methods))
	}
	for i := range component.Sequenceables {
		fmt.Fprintf(stdout, "%-8s %s\n", "parcel", component.Sequenceables[i].FullName())
	}
	return nil
}

// prepareOutput creates the output directory. Existing files are overwritten
// in place unless clean is set.
func prepareOutput(path string, clean, force bool, stdin io.Reader, stdout io.Writer) error {
	err := os.MkdirAll(path, os.ModePerm)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	if !clean {
		return nil
	}
	return ClearDirectoryIfNotEmpty(path, force, stdin, stdout)
}

// ClearDirectoryIfNotEmpty empties path after asking for confirmation, unless
// silent is set. The directory itself is kept.
func ClearDirectoryIfNotEmpty(path string, silent bool, stdin io.Reader, stdout io.Writer) error {
	directory, err := os.Open(path)
	if err != nil {
		return err
	}
	defer directory.Close()

	names, err := directory.Readdirnames(-1)
	if err != nil && err != io.EOF {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	if !silent {
		var response string
		fmt.Fprint(stdout, "Output directory is not empty. Continuation will result in removing all output files. Proceed? [Y/n] ")
		fmt.Fscanln(stdin, &response)
		if strings.ToUpper(strings.TrimSpace(response)) != "Y" {
			return errors.New("explicit agreement was not given")
		}
	}

	fmt.Fprintln(stdout, "Cleaning output directory.")
	for _, name := range names {
		if err := os.RemoveAll(filepath.Join(path, name)); err != nil {
			return err
		}
	}
	return nil
}
