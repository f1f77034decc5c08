package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/andreistan26/doltool/pkg/converter"
	"github.com/andreistan26/doltool/pkg/dol"
	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.dol>",
		Short: "Print the segments of a DOL executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dolFile, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			header, err := dol.Parse(dolFile)
			if err != nil {
				return err
			}

			return printInfo(cmd.OutOrStdout(), header)
		},
	}
}

func printInfo(w io.Writer, header *dol.Header) error {
	fmt.Fprintf(w, "entry: 0x%08x\n", header.Entry)
	for _, segment := range header.Segments() {
		fmt.Fprintf(w, "%v\n", segment)
	}
	fmt.Fprintf(w, "bss: addr=0x%08x size=0x%x\n", header.BssAddress, header.BssSize)

	if !converter.DetectBssFix(header) {
		fmt.Fprintln(w, "bss fix: not applicable")
		return nil
	}

	regions, err := converter.BssRegions(header, true)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "bss fix: applicable")
	for _, region := range regions {
		fmt.Fprintf(w, "  %s: addr=0x%08x size=0x%x\n", region.SectionName(), region.Address, region.Size)
	}
	return nil
}
