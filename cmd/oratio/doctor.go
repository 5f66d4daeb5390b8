package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	shellconfig "github.com/oratioviva/desktop/internal/config"
	"github.com/oratioviva/desktop/internal/sidecar"
)

func newDoctorCmd(root *rootOptions) *cobra.Command {
	opts := &launchFlags{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Print backend resolution diagnostics without starting anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(os.Stdout, "config_path=%s\n", root.configPath)
			cfg, err := shellconfig.Load(root.configPath)
			if err != nil {
				fmt.Fprintf(os.Stdout, "config_error=%s\n", err.Error())
			}
			fmt.Fprintf(os.Stdout, "config_present=%t\n", cfg != nil)

			rep := sidecar.Diagnose(opts.shellInfo(cfg))
			for _, c := range rep.ScriptCandidates {
				fmt.Fprintf(os.Stdout, "script_candidate=%s exists=%t\n", c.Path, c.Exists)
			}
			if rep.Script == "" {
				fmt.Fprintln(os.Stdout, "script_found=false")
				return nil
			}
			fmt.Fprintf(os.Stdout, "script=%s\n", rep.Script)
			fmt.Fprintf(os.Stdout, "project_root=%s\n", rep.Root)
			for _, c := range rep.VenvCandidates {
				fmt.Fprintf(os.Stdout, "venv_candidate=%s exists=%t\n", c.Path, c.Exists)
			}
			if rep.Interpreter == "" {
				fmt.Fprintln(os.Stdout, "interpreter_found=false")
				fmt.Fprintf(os.Stdout, "PATH=%s\n", os.Getenv("PATH"))
			} else {
				fmt.Fprintf(os.Stdout, "interpreter=%s\n", rep.Interpreter)
			}
			fmt.Fprintf(os.Stdout, "host=%s\n", rep.Host)
			fmt.Fprintf(os.Stdout, "port=%d\n", rep.Port)
			fmt.Fprintf(os.Stdout, "data_dir=%s\n", rep.DataDir)
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}
