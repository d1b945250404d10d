package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var imagesOut string

var imagesCmd = &cobra.Command{
	Use:   "images [pdf]",
	Short: "Extract the images of a PDF as PNG files",
	Long: `Writes every DCT (JPEG) or Flate (raw RGBA) image XObject of a PDF to
page_<page>_<name>.png in the output directory. Other encodings are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImages,
}

func init() {
	imagesCmd.Flags().StringVarP(&imagesOut, "out", "o", "", "output directory (default output.image_dir)")
	rootCmd.AddCommand(imagesCmd)
}

func runImages(cmd *cobra.Command, args []string) error {
	if imageService == nil {
		return errors.New("image service not configured")
	}

	dir := imagesOut
	if dir == "" {
		dir = settingsOrDefaults().Output.ImageDir
	}

	report, err := imageService.ExtractImages(cmd.Context(), args[0], dir)
	if err != nil {
		return fmt.Errorf("image extraction failed: %w", err)
	}

	for _, path := range report.Written {
		cmd.Printf("  %s\n", path)
	}
	cmd.Printf("Wrote %d images to %s", len(report.Written), report.Dir)
	if report.Skipped > 0 {
		cmd.Printf(", skipped %d", report.Skipped)
	}
	cmd.Println()
	return nil
}
