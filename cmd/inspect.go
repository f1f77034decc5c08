package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yalue/elf_reader"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input.elf>",
		Short: "List the program and section headers of a 32-bit ELF file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			return printElf(cmd.OutOrStdout(), raw)
		},
	}
}

func printElf(w io.Writer, raw []byte) error {
	f, err := elf_reader.ParseELF32File(raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s, entry 0x%08x\n", f.Header.String(), f.Header.EntryPoint)

	fmt.Fprintln(w, "Program headers:")
	for i := range f.Segments {
		fmt.Fprintf(w, "  [%2d] %s\n", i, f.Segments[i].String())
	}

	fmt.Fprintln(w, "Section headers:")
	for i := range f.Sections {
		name := ""
		if i != 0 {
			if name, err = f.GetSectionName(uint16(i)); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "  [%2d] %-10s %s\n", i, name, f.Sections[i].String())
	}

	return nil
}
