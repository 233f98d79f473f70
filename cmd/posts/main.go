package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-posts/cmd/posts/internal/bootstrap"
	"github.com/goliatone/go-posts/internal/commands"
	postscmd "github.com/goliatone/go-posts/internal/commands/posts"
	"github.com/goliatone/go-posts/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

type cli struct {
	configFile string
	format     string
	module     *bootstrap.Module
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	state := &cli{}

	root := &cobra.Command{
		Use:           "posts",
		Short:         "Inspect a directory of Markdown posts",
		Long:          "posts lists, renders and summarises the Markdown posts of a static site, the same way the site build reads them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			module, err := moduleBuilder(bootstrap.Options{
				ConfigFile: state.configFile,
				Flags:      cmd.Flags(),
			})
			if err != nil {
				return err
			}
			state.module = module
			module.Logger.Debug("posts.cli.command", "name", cmd.Name())
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&state.configFile, "config", "", "config file (default is ./posts.yaml)")
	flags.StringVarP(&state.format, "format", "f", postscmd.FormatJSON, "output format (json|yaml)")
	flags.String("posts-dir", "", "directory holding the <id>.md posts (default \"posts\")")
	flags.String("log-level", "", "log level (trace|debug|info|warn|error)")
	flags.String("log-format", "", "go-logger output format (json|console|pretty)")
	flags.String("log-provider", "", "logging provider (console|gologger|none)")

	root.AddCommand(
		newIDsCommand(state),
		newShowCommand(state),
		newSummariesCommand(state),
		newCSSCommand(state),
	)
	return root
}

func newIDsCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "List the static path reference of every post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler := postscmd.NewListPostRefsHandler(state.module.Module, cmd.OutOrStdout(), state.logger())
			return handler.Execute(cmd.Context(), postscmd.ListPostRefsCommand{Format: state.format})
		},
	}
}

func newShowCommand(state *cli) *cobra.Command {
	var htmlOnly bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a single post with its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := postscmd.NewShowPostHandler(state.module.Module, cmd.OutOrStdout(), state.logger())
			return handler.Execute(cmd.Context(), postscmd.ShowPostCommand{
				ID:       args[0],
				Format:   state.format,
				HTMLOnly: htmlOnly,
			})
		},
	}
	cmd.Flags().BoolVar(&htmlOnly, "html", false, "print only the rendered HTML body")
	return cmd
}

func newSummariesCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "summaries",
		Short: "List the id and metadata of every post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler := postscmd.NewListSummariesHandler(state.module.Module, cmd.OutOrStdout(), state.logger())
			return handler.Execute(cmd.Context(), postscmd.ListSummariesCommand{Format: state.format})
		},
	}
}

func newCSSCommand(state *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "css",
		Short: "Print the stylesheet for highlighted code blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			handler := postscmd.NewStylesheetHandler(state.module.Module, cmd.OutOrStdout(), state.logger())
			return handler.Execute(cmd.Context(), postscmd.StylesheetCommand{})
		},
	}
}

func (c *cli) logger() interfaces.Logger {
	return commands.CommandLogger(c.module.Provider, "cli")
}
