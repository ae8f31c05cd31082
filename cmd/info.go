package cmd

import (
	"fmt"

	"github.com/sergev/dsk2dc/dc42"
	"github.com/sergev/dsk2dc/diskfile"
	"github.com/spf13/cobra"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show the headers of a Disk Copy 4.2 image",
		Long: `Show the headers of a Disk Copy 4.2 image, bare (.dc42) or
wrapped in MacBinary (.bin), and check its checksums.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			image, err := diskfile.Load(filename)
			if err != nil {
				return err
			}
			d, err := dc42.Decode(image)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", filename, err)
			}

			out := cmd.OutOrStdout()
			if m := d.MacBinary; m != nil {
				fmt.Fprintf(out, "MacBinary:\n")
				fmt.Fprintf(out, "  File Name: %s\n", m.Name)
				fmt.Fprintf(out, "  Type/Creator: %s/%s\n", m.FileType, m.FileCreator)
				fmt.Fprintf(out, "  Data Fork: %d bytes\n", m.DataForkLength)
				fmt.Fprintf(out, "  Created: %s\n", dc42.FromMacTime(m.Created).Format("2006-01-02 15:04:05 MST"))
				fmt.Fprintf(out, "  Modified: %s\n", dc42.FromMacTime(m.Modified).Format("2006-01-02 15:04:05 MST"))
				fmt.Fprintf(out, "  Header CRC: 0x%04X\n", m.CRC)
			}
			h := d.Header
			fmt.Fprintf(out, "Disk Copy 4.2:\n")
			fmt.Fprintf(out, "  Disk Name: %s\n", h.Name)
			fmt.Fprintf(out, "  Data Size: %d bytes\n", h.DataSize)
			fmt.Fprintf(out, "  Tag Size: %d bytes\n", h.TagSize)
			fmt.Fprintf(out, "  Encoding: %s\n", h.Encoding)
			fmt.Fprintf(out, "  Format Byte: 0x%02X\n", h.FormatByte)
			fmt.Fprintf(out, "  Data Checksum: 0x%08X\n", h.DataChecksum)

			if !d.Valid() {
				fmt.Fprintf(out, "  Checksum Status: MISMATCH (computed 0x%08X)\n", d.Checksum)
				return fmt.Errorf("%s: %w", filename, dc42.ErrChecksumMismatch)
			}
			fmt.Fprintf(out, "  Checksum Status: OK\n")
			return nil
		},
	}
}
