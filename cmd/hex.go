package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/andreistan26/doltool/pkg/dol"
	"github.com/andreistan26/doltool/pkg/log"
	"github.com/marcinbor85/gohex"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

func hexCmd() *cobra.Command {
	opts := struct {
		Output  string
		LineLen int
	}{}

	hexCmd := &cobra.Command{
		Use:   "hex <input.dol>",
		Short: "Convert the loadable segments of a DOL executable to Intel HEX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineLen, err := hexLineLen(opts.LineLen)
			if err != nil {
				return err
			}

			input := args[0]
			dolFile, err := os.ReadFile(input)
			if err != nil {
				return err
			}

			output := outputPath(input, opts.Output, ".hex")
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := writeHex(file, dolFile, lineLen); err != nil {
				return err
			}

			log.Infof("Wrote %s", output)
			return file.Close()
		},
	}

	hexCmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: input with .hex extension)")
	hexCmd.Flags().IntVarP(&opts.LineLen, "line", "l", env.Int("DOLTOOL_HEX_LINE", 16), "data bytes per record ($DOLTOOL_HEX_LINE)")

	return hexCmd
}

// Intel HEX records carry a one byte data length
func hexLineLen(n int) (byte, error) {
	if n < 1 || n > 255 {
		return 0, fmt.Errorf("line length %d out of range 1..255", n)
	}

	return byte(n), nil
}

// Dump every text and data segment at its load address, bss is left out
func writeHex(w io.Writer, dolFile []byte, lineLen byte) error {
	header, err := dol.Parse(dolFile)
	if err != nil {
		return err
	}

	if err := header.Validate(len(dolFile)); err != nil {
		return err
	}

	mem := gohex.NewMemory()
	mem.SetStartAddress(header.Entry)
	for _, segment := range header.Segments() {
		log.Debugf("Adding %v", segment)
		if err := mem.AddBinary(segment.Address, header.SegmentData(dolFile, segment)); err != nil {
			return err
		}
	}

	return mem.DumpIntelHex(w, lineLen)
}
