package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/specialistvlad/modulegrid/internal/app"
	"github.com/specialistvlad/modulegrid/internal/registry"
	"github.com/specialistvlad/modulegrid/internal/version"
	"gopkg.in/yaml.v3"
)

func newRunCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [MANIFEST_PATH]",
		Short: "Build the modules a manifest asks for",
		Long: `Build the modules a manifest asks for.

MANIFEST_PATH is a single .hcl file or a directory containing .hcl files.
Each built module is printed with its instance ID.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				o.v.Set("manifest", args[0])
			}
			cfg, err := o.appConfig()
			if err != nil {
				return err
			}
			if cfg.ManifestPath == "" {
				return usageError("a manifest path is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.NewApp(o.outW, cfg)
			defer a.Close()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringP("manifest", "m", "", "Path to the manifest file or directory.")
	_ = o.v.BindPFlag("manifest", cmd.Flags().Lookup("manifest"))
	return cmd
}

// moduleInfo is one inventory row.
type moduleInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

type namespaceInfo struct {
	Namespace string       `json:"namespace" yaml:"namespace"`
	Modules   []moduleInfo `json:"modules" yaml:"modules"`
}

// inventory lists every namespace in name order, including empty ones.
func inventory(reg *registry.Registry) []namespaceInfo {
	registered := reg.RegisteredModules()
	namespaces := make([]string, 0, len(registered))
	for ns := range registered {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	out := make([]namespaceInfo, 0, len(namespaces))
	for _, ns := range namespaces {
		info := namespaceInfo{Namespace: ns, Modules: []moduleInfo{}}
		for _, name := range registered[ns] {
			f, ok := reg.Factory(name, ns)
			if !ok {
				continue
			}
			info.Modules = append(info.Modules, moduleInfo{Name: name, Version: f.Version.String()})
		}
		out = append(out, info)
	}
	return out
}

func writeInventory(w io.Writer, format string, inv []namespaceInfo) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(inv)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(inv); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAMESPACE\tMODULE\tVERSION")
		for _, ns := range inv {
			if len(ns.Modules) == 0 {
				fmt.Fprintf(tw, "%s\t-\t-\n", ns.Namespace)
			}
			for _, m := range ns.Modules {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", ns.Namespace, m.Name, m.Version)
			}
		}
		return tw.Flush()
	default:
		return usageError("invalid output format %q: must be 'text', 'json' or 'yaml'", format)
	}
}

func newModulesCommand(o *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "modules",
		Short: "List registered modules by namespace",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.appConfig()
			if err != nil {
				return err
			}
			a := app.NewApp(cmd.ErrOrStderr(), cfg)
			defer a.Close()
			return writeInventory(o.outW, output, inventory(a.Registry()))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format. Options: 'text', 'json' or 'yaml'.")
	return cmd
}

func newCheckVersionCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check-version VERSION",
		Short: "Check whether VERSION (MAJOR.MINOR.PATCH) is served by this release",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidate, err := version.Parse(args[0])
			if err != nil {
				return usageError("%v", err)
			}
			cfg, err := o.appConfig()
			if err != nil {
				return err
			}
			a := app.NewApp(cmd.ErrOrStderr(), cfg)
			defer a.Close()

			reg := a.Registry()
			if !reg.IsVersionCompatible(candidate.Components()) {
				return &ExitError{Code: 1, Message: fmt.Sprintf("%s is not compatible with release %s", candidate, reg.ReleaseVersion())}
			}
			fmt.Fprintf(o.outW, "%s is compatible with release %s\n", candidate, reg.ReleaseVersion())
			return nil
		},
	}
}

func newVersionCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the framework release",
		Args:  usageArgs(cobra.NoArgs),
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(o.outW, version.Current().String())
		},
	}
}
