package cmd

import (
	"fmt"
	"os"

	"github.com/andreistan26/doltool/pkg/converter"
	"github.com/andreistan26/doltool/pkg/log"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

func elfCmd() *cobra.Command {
	opts := struct {
		Output string
		BssFix string
	}{}

	elfCmd := &cobra.Command{
		Use:   "elf <input.dol>",
		Short: "Convert a DOL executable into an ELF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := converter.ParseBssFixMode(opts.BssFix)
			if err != nil {
				return err
			}

			input := args[0]
			dolFile, err := os.ReadFile(input)
			if err != nil {
				return err
			}

			result, err := converter.Convert(dolFile, converter.Options{BssFix: mode})
			if err != nil {
				return fmt.Errorf("convert %s: %w", input, err)
			}

			output := outputPath(input, opts.Output, ".elf")
			if err := os.WriteFile(output, result.Bytes, 0644); err != nil {
				return err
			}

			log.Infof("Wrote %s: %d program headers, %d section headers, bss fix %v",
				output, result.Image.Phnum, result.Image.Shnum, result.Image.BssFix)
			return nil
		},
	}

	elfCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: input with .elf extension)")
	elfCmd.Flags().StringVarP(&opts.BssFix, "bss-fix", "b", env.Str("DOLTOOL_BSS_FIX", string(converter.BssFixAuto)),
		"split bss around .sdata and .sdata2: auto, on or off ($DOLTOOL_BSS_FIX)")

	return elfCmd
}
