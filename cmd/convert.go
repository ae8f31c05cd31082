package cmd

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/sergev/dsk2dc/config"
	"github.com/sergev/dsk2dc/dc42"
	"github.com/sergev/dsk2dc/diskfile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// outputOptions are shared by the commands that write an image.
type outputOptions struct {
	name      string
	output    string
	macBinary bool
	verify    bool
}

func (o *outputOptions) register(flags *pflag.FlagSet) {
	flags.StringVarP(&o.output, "output", "o", "", "override output file name")
	flags.BoolVar(&o.macBinary, "macbinary", false, "prepend MacBinary header to output")
	flags.BoolVar(&o.verify, "verify", false, "decode the output and check its checksums")
}

// resolve applies config defaults to flags the user did not set.
func (o *outputOptions) resolve(flags *pflag.FlagSet) {
	if !flags.Changed("macbinary") {
		o.macBinary = config.MacBinary
	}
	if !flags.Changed("verify") {
		o.verify = config.Verify
	}
}

// writeImage streams img into its output file and returns the filename.
func writeImage(img *dc42.DiskImage, opts *outputOptions) (string, error) {
	filename := opts.output
	if filename == "" {
		filename = diskfile.OutputFilename(img.Name, opts.macBinary, config.OutputDir)
	}

	timestamp := now()
	var written int64
	err := diskfile.Create(filename, func(w io.Writer) error {
		var err error
		written, err = dc42.WriteTo(w, img, opts.macBinary, timestamp)
		return err
	})
	if err != nil {
		return "", err
	}
	logger.Debug("wrote image", "file", filename, "name", img.Name, "encoding", img.Type.Encoding,
		"macbinary", opts.macBinary, "bytes", written)

	if opts.verify {
		if err := verifyImage(filename, img, opts.macBinary, timestamp); err != nil {
			return "", fmt.Errorf("verification of %s failed: %w", filename, err)
		}
	}
	return filename, nil
}

// verifyImage reads filename back and checks that it holds exactly the
// image Assemble produces, with valid checksums.
func verifyImage(filename string, img *dc42.DiskImage, macBinary bool, timestamp time.Time) error {
	onDisk, err := diskfile.Load(filename)
	if err != nil {
		return err
	}
	if size := img.OutputSize(macBinary); len(onDisk) != size {
		return fmt.Errorf("file has %d bytes, expected %d", len(onDisk), size)
	}
	want, err := dc42.Assemble(img, macBinary, timestamp)
	if err != nil {
		return err
	}
	if !bytes.Equal(onDisk, want) {
		return fmt.Errorf("file contents differ from the converted image")
	}
	d, err := dc42.Verify(onDisk)
	if err != nil {
		return err
	}
	logger.Debug("verified image", "file", filename, "checksum", fmt.Sprintf("0x%08X", d.Checksum))
	return nil
}

func newConvertCmd() *cobra.Command {
	opts := &outputOptions{}

	convertCmd := &cobra.Command{
		Use:   "convert SRC.EXT",
		Short: "Convert a raw disk image to Disk Copy 4.2",
		Long: `Convert a raw disk image to Disk Copy 4.2.
Reads contents of the SRC.EXT file and writes NAME.dc42, or NAME.bin
with --macbinary. NAME defaults to the source file name without extension.
Compressed sources (*.gz, *.zst) are decompressed first.
` + supportedSizesText(),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolve(cmd.Flags())
			srcFilename := args[0]

			switch diskfile.DetectFormat(srcFilename) {
			case diskfile.FormatDC42, diskfile.FormatMacBinary:
				return fmt.Errorf("%s is already a Disk Copy image", srcFilename)
			case diskfile.FormatUnknown:
				logger.Warn("unrecognized extension, treating as raw image", "file", srcFilename)
			}

			data, err := diskfile.Load(srcFilename)
			if err != nil {
				return err
			}
			logger.Debug("loaded source", "file", srcFilename, "bytes", len(data),
				"compression", diskfile.DetectCompression(srcFilename))

			name := diskfile.ASCIIName(opts.name)
			if !cmd.Flags().Changed("name") {
				name = diskfile.DiskName(srcFilename)
			}
			img, err := dc42.New(name, data)
			if err != nil {
				return fmt.Errorf("failed to convert %s: %w", srcFilename, err)
			}

			destFilename, err := writeImage(img, opts)
			if err != nil {
				return fmt.Errorf("failed to write image: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Successfully converted %s to %s\n", srcFilename, destFilename)
			return nil
		},
	}
	convertCmd.Flags().StringVar(&opts.name, "name", "", "disk name in image header (at most 63 bytes)")
	opts.register(convertCmd.Flags())
	return convertCmd
}

// supportedSizesText lists the recognized raw image sizes for help output.
func supportedSizesText() string {
	text := "Supported raw image sizes:\n"
	for _, t := range dc42.DiskTypes() {
		text += fmt.Sprintf("    %-6s - %7d bytes, %s\n", t.Label, t.Size, t.Encoding)
	}
	return text
}
