package cli

import (
	"fmt"
	"os"
	"regexp"

	"github.com/orgforge/orgforge/pkg/config"
	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/infra/iac"
	"github.com/orgforge/orgforge/pkg/logging"
	"github.com/orgforge/orgforge/pkg/provider/aws"
	"github.com/orgforge/orgforge/pkg/stack"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

type OrgforgeMain struct {
	Version string
}

var cfg struct {
	verbose   bool
	config    string
	outDir    string
	appName   string
	strict    bool
	jsonLogs  bool
	version   bool
	setOption map[string]string
}

var hadWarnings = atomic.NewBool(false)
var hadErrors = atomic.NewBool(false)

const (
	defaultConfig = "orgforge.yaml"
	defaultOutDir = "stacks"
)

var appNameRegexp = regexp.MustCompile(`^[\w-.:/]+$`)

func (om OrgforgeMain) Main() {
	var root = &cobra.Command{
		Use:  "orgforge [stack]",
		Args: cobra.MaximumNArgs(1),
		RunE: om.run,
	}

	om.setUpFlags(root.Flags())

	err := root.Execute()
	if err != nil {
		if !root.SilenceErrors {
			zap.S().Errorf("%v", err)
		}
		zap.S().Error("orgforge synthesis failed")
		os.Exit(1)
	}
	if hadWarnings.Load() && cfg.strict {
		os.Exit(1)
	}
}

func (om OrgforgeMain) setUpFlags(flags *pflag.FlagSet) {
	flags.BoolVarP(&cfg.verbose, "verbose", "v", false, "Verbose flag")
	flags.StringVarP(&cfg.config, "config", "c", defaultConfig, "Config file")
	flags.StringVarP(&cfg.outDir, "out-dir", "o", defaultOutDir, "Output directory")
	flags.StringVar(&cfg.appName, "app", "", "Application name")
	flags.BoolVar(&cfg.strict, "strict", false, "Fail synthesis on unresolved references and warnings")
	flags.BoolVar(&cfg.jsonLogs, "json-logs", false, "Emit logs as json")
	flags.BoolVar(&cfg.version, "version", false, "Print the version")
	flags.StringToStringVar(&cfg.setOption, "set-option", nil, "Override a top-level config value (key=value)")
}

func setupLogger() *zap.Logger {
	encoding := "console"
	if cfg.jsonLogs {
		encoding = "json"
	}
	return logging.LogOpts{
		Verbose:     cfg.verbose,
		Encoding:    encoding,
		HadWarnings: hadWarnings,
		HadErrors:   hadErrors,
	}.NewLogger()
}

func readConfig() (config.OrgConfig, error) {
	orgCfg, err := config.ReadConfig(cfg.config)
	if err != nil {
		return orgCfg, errors.Wrapf(err, "could not read config '%s'", cfg.config)
	}
	if err := orgCfg.ApplyOverrides(cfg.setOption); err != nil {
		return orgCfg, err
	}
	if cfg.appName != "" {
		orgCfg.AppName = cfg.appName
	}
	if orgCfg.OutDir == "" || cfg.outDir != defaultOutDir {
		orgCfg.OutDir = cfg.outDir
	}
	return orgCfg, nil
}

func (om OrgforgeMain) run(cmd *cobra.Command, args []string) (err error) {
	z := setupLogger()
	defer z.Sync() // nolint:errcheck
	zap.ReplaceGlobals(z)

	if cfg.version {
		zap.S().Infof("Version: %s", om.Version)
		return nil
	}

	errHandler := ErrorHandler{
		Verbose: cfg.verbose,
		PostPrintHook: func() {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
		},
	}

	if len(args) == 0 {
		return errors.New("'stack' required: foundation or one of the environments")
	}
	target, err := stack.ForName(args[0])
	if err != nil {
		return err
	}

	orgCfg, err := readConfig()
	if err != nil {
		return err
	}
	if orgCfg.AppName == "" {
		return errors.New("'app' required")
	}
	if !appNameRegexp.MatchString(orgCfg.AppName) {
		return fmt.Errorf("'app' can only contain alphanumeric, -, _, ., :, and /. 'app' was %s", orgCfg.AppName)
	}
	if err := orgCfg.Validate(); err != nil {
		errHandler.PrintErr(err)
		return errors.New("config validation failed")
	}

	plugin, err := om.pluginFor(target, &orgCfg)
	if err != nil {
		return err
	}

	dag := core.NewResourceGraph()
	zap.S().Infof("synthesizing stack %s", target.Name)
	if err := plugin.Translate(dag); err != nil || hadErrors.Load() {
		if err != nil {
			errHandler.PrintErr(err)
		} else {
			err = errors.New("failed run of orgforge invocation")
		}
		return err
	}

	outputs := stack.Project(target, dag)
	emitter := &iac.Emitter{OutDir: orgCfg.OutDir, AppName: orgCfg.AppName}
	if err := emitter.Emit(target, dag, outputs); err != nil {
		errHandler.PrintErr(err)
		return errors.New("writing artifacts failed")
	}

	zap.S().Infof("stack %s synthesized to %s", target.Name, orgCfg.OutDir)
	return nil
}

func (om OrgforgeMain) pluginFor(target stack.Stack, orgCfg *config.OrgConfig) (aws.StackPlugin, error) {
	if target.IsFoundation() {
		return &aws.FoundationStack{Config: orgCfg, Strict: cfg.strict}, nil
	}

	resolver := stack.NewResolver(orgCfg.OutDir)
	foundation, err := resolver.Resolve(stack.FoundationStackName)
	if err != nil {
		return nil, errors.Wrap(err, "the foundation stack must be applied first")
	}
	return &aws.EnvironmentStack{
		Config:      orgCfg,
		Environment: target.Environment,
		Foundation:  foundation,
		Strict:      cfg.strict,
	}, nil
}
