package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/reoring/modelcfg/agent"
	"github.com/reoring/modelcfg/models"
	"github.com/reoring/modelcfg/value"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	out     io.Writer
	verbose bool
	format  string
	logger  *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "modelcfg",
		Short:         "Decode and re-encode agent model configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	decodeCmd := &cobra.Command{
		Use:   "decode <file>",
		Short: "Load an agent config and print it as canonical JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runDecode,
	}
	encodeCmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Load an agent config and re-serialize it",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runEncode,
	}
	encodeCmd.Flags().StringVarP(&a.format, "format", "f", "yaml", "output format: yaml or json")
	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "List the known model_type discriminators",
		Args:  cobra.NoArgs,
		RunE:  a.runTypes,
	}

	root.AddCommand(decodeCmd, encodeCmd, typesCmd)
	return root
}

func (a *app) load(path string) (*agent.AgentCfg, *agent.Loader, error) {
	ld := agent.NewLoader(models.DefaultCodec(), agent.WithLogger(a.logger))
	cfg, res, err := ld.InspectFile(path)
	if err != nil {
		return nil, nil, err
	}
	if cfg.ModelCfg != nil {
		a.logger.Info("resolved model config",
			zap.String("file", path),
			zap.String("model_type", cfg.ModelCfg.ModelType()),
			zap.Stringer("tier", res.Tier),
		)
	}
	if len(res.Dropped) > 0 {
		a.logger.Warn("model_cfg fields ignored", zap.Strings("fields", res.Dropped))
	}
	return cfg, ld, nil
}

func (a *app) runDecode(cmd *cobra.Command, args []string) error {
	cfg, ld, err := a.load(args[0])
	if err != nil {
		return err
	}
	b, err := value.MarshalIndentJSON(value.ObjectOf(ld.Encode(cfg)), "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

func (a *app) runEncode(cmd *cobra.Command, args []string) error {
	cfg, ld, err := a.load(args[0])
	if err != nil {
		return err
	}
	obj := value.ObjectOf(ld.Encode(cfg))
	switch a.format {
	case "json":
		b, err := obj.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(a.out, string(b))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(obj); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown format %q (want yaml or json)", a.format)
}

func (a *app) runTypes(cmd *cobra.Command, args []string) error {
	codec := models.DefaultCodec()
	for _, d := range codec.Registry().Discriminators() {
		if _, err := fmt.Fprintf(a.out, "%s\tregistry\n", d); err != nil {
			return err
		}
	}
	for _, f := range codec.Fallbacks() {
		if _, err := fmt.Fprintf(a.out, "%s\tfallback\n", f.Discriminator); err != nil {
			return err
		}
	}
	return nil
}
