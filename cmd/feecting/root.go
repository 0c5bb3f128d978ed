package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-feecting"
	"github.com/goliatone/go-feecting/internal/documents"
)

var moduleBuilder = func(cfg feecting.Config) (*feecting.Module, error) {
	return feecting.New(cfg)
}

type rootOptions struct {
	configPath string
	format     string
	id         string
	params     []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "feecting",
		Short:         "Convert feecting markup to HTML and resolve talk directives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			opts.format = strings.ToLower(strings.TrimSpace(opts.format))
			return validateFormat(opts.format)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a config file (yaml, json or toml)")
	flags.StringVarP(&opts.format, "format", "f", formatText, "Output format: json, yaml, html or text")
	flags.String("responder", "echo", "Responder kind: echo or http")
	flags.String("endpoint", "", "Responder endpoint for the http responder")
	flags.Duration("timeout", 30*time.Second, "Deadline for answering every talk directive")
	flags.String("log-level", "info", "Enable logging at the given level")
	flags.StringVar(&opts.id, "id", "", "Job id (generated when empty)")
	flags.StringSliceVarP(&opts.params, "param", "p", nil, "Command params; the first one is the command name")

	root.AddCommand(newParseCmd(opts), newGetCmd(opts))
	return root
}

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse a markup document, reading stdin when no file or - is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			in := doc.Input()
			opts.apply(&in)

			return withModule(cmd, opts, func(ctx context.Context, module *feecting.Module) (*feecting.Result, error) {
				return module.Parse(ctx, in)
			})
		},
	}
}

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <url>",
		Short: "Fetch markup over http(s) and parse it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := feecting.Input{}
			opts.apply(&in)

			return withModule(cmd, opts, func(ctx context.Context, module *feecting.Module) (*feecting.Result, error) {
				return module.Get(ctx, args[0], in)
			})
		},
	}
}

func withModule(cmd *cobra.Command, opts *rootOptions, run func(context.Context, *feecting.Module) (*feecting.Result, error)) error {
	cfg, err := loadConfig(opts.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	module, err := moduleBuilder(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	defer module.Close()

	result, err := run(cmd.Context(), module)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), opts.format, result)
}

func readDocument(stdin io.Reader, args []string) (*documents.Document, error) {
	if len(args) == 0 || args[0] == "-" {
		source, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return documents.Parse(source)
	}
	return documents.Load(args[0])
}

// apply lets flags override what the document frontmatter set.
func (o *rootOptions) apply(in *feecting.Input) {
	if id := strings.TrimSpace(o.id); id != "" {
		in.ID = id
	}
	if len(o.params) > 0 {
		in.Meta.Params = append([]string(nil), o.params...)
	}
}
