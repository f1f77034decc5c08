package cmd

import (
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/andreistan26/doltool/pkg/log"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

func RootCmd() *cobra.Command {
	opts := struct {
		Profile bool
		Debug   bool
	}{
		false,
		env.Bool("DOLTOOL_DEBUG"),
	}

	var profile *os.File

	rootCmd := &cobra.Command{
		Use:           "doltool",
		Short:         "Doltool wraps GameCube and Wii DOL executables in ELF files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Debug {
				log.Setup(os.Stderr, true)
			}

			if opts.Profile {
				file, err := os.Create("cpu.pprof")
				if err != nil {
					return err
				}

				profile = file
				return pprof.StartCPUProfile(file)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if profile != nil {
				pprof.StopCPUProfile()
				return profile.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.Profile, "profile", "p", false, "enable profiling")
	rootCmd.PersistentFlags().BoolVarP(&opts.Debug, "debug", "d", opts.Debug, "enable debugging ($DOLTOOL_DEBUG)")

	rootCmd.AddCommand(elfCmd())
	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(hexCmd())
	rootCmd.AddCommand(inspectCmd())

	return rootCmd
}

// Output path for input when none was given, ext replaces the input extension
func outputPath(input, output, ext string) string {
	if output != "" {
		return output
	}

	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
