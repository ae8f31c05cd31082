package cmd

import (
	"fmt"
	"strings"

	"github.com/sergev/dsk2dc/dc42"
	"github.com/sergev/dsk2dc/diskfile"
	"github.com/spf13/cobra"
)

func newBlankCmd() *cobra.Command {
	opts := &outputOptions{}
	var size string

	blankCmd := &cobra.Command{
		Use:   "blank NAME",
		Short: "Create an empty Disk Copy 4.2 image",
		Long: `Create a Disk Copy 4.2 image named NAME whose data is all zeros.
The image is not formatted with any file system.
` + supportedSizesText(),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolve(cmd.Flags())
			diskType, ok := dc42.LookupLabel(strings.ToLower(size))
			if !ok {
				return fmt.Errorf("unknown disk size %q", size)
			}

			img, err := dc42.New(diskfile.ASCIIName(args[0]), make([]byte, diskType.Size))
			if err != nil {
				return err
			}
			filename, err := writeImage(img, opts)
			if err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s blank image %s\n", diskType.Label, filename)
			return nil
		},
	}
	opts.register(blankCmd.Flags())
	blankCmd.Flags().StringVarP(&size, "size", "s", "800k", "disk size: 400k, 720k, 800k or 1440k")
	return blankCmd
}
