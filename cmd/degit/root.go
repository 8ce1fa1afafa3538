package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gingerrexayers/degit-go/internal/degit/commands"
	"github.com/gingerrexayers/degit-go/internal/degit/lib"
)

func NewRootCommand() *cobra.Command {
	var opts commands.Options

	cmd := &cobra.Command{
		Use:   "degit <src>[#ref] [dest]",
		Short: "Fetch the files of a remote repository, without its history.",
		Long: `degit downloads a repository (or a sub-directory of one) straight into a
destination directory, as a tarball when the host serves one or as a
shallow git clone otherwise. Downloads are cached by commit hash under
~/.degit.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := "."
			if len(args) > 1 {
				dest = args[1]
			}

			if opts.Proxy == "" {
				opts.Proxy = os.Getenv("https_proxy")
			}
			if opts.Proxy == "" {
				opts.Proxy = os.Getenv("HTTPS_PROXY")
			}

			verbose := opts.Verbose
			opts.OnInfo = func(ev lib.Event) {
				switch {
				case ev.Code == lib.EvSuccess:
					fmt.Printf("✅ %s\n", ev.Message)
				case ev.Code == lib.EvRemovedFiles || verbose:
					fmt.Printf("• %s\n", ev.Message)
				}
			}
			opts.OnWarn = func(ev lib.Event) {
				fmt.Fprintf(os.Stderr, "⚠️  %s\n", ev.Message)
			}

			cloner, err := commands.NewCloner(args[0], opts)
			if err != nil {
				return err
			}
			return cloner.Clone(cmd.Context(), dest)
		},
	}

	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Allow a non-empty destination (its contents are cleared)")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", commands.ModeTar, "Retrieval mode: tar or git")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Print progress notifications")
	cmd.Flags().BoolVarP(&opts.DisableCache, "disable-cache", "D", false, "Always resolve and download fresh")
	cmd.Flags().BoolVar(&opts.OfflineMode, "offline-mode", false, "Only use locally cached tarballs")
	cmd.Flags().BoolVar(&opts.Subgroup, "subgroup", false, "Treat the path as a GitLab nested namespace")
	cmd.Flags().StringVar(&opts.SubDirectory, "sub-directory", "", "Sub-directory to extract (with --subgroup)")
	cmd.Flags().StringVar(&opts.Proxy, "proxy", "", "HTTPS proxy for downloads (defaults to https_proxy/HTTPS_PROXY)")

	return cmd
}
