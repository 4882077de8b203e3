package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/printdeck/printdeck/internal/config"
	"github.com/printdeck/printdeck/internal/printbox"
)

// newStatusCmd builds the one-shot status report, for scripting and for a
// quick check without entering the TUI.
func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print daemon, printer, and gallery state and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if flags.server != "" {
				cfg.Server = flags.server
			}
			client, err := printbox.NewClient(cfg.Server)
			if err != nil {
				return err
			}
			return runStatus(cmd.Context(), client)
		},
	}
}

func runStatus(ctx context.Context, client *printbox.Client) error {
	var (
		status *printbox.PrinterStatus
		cfg    *printbox.Config
		images []printbox.Image
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status, err = client.PrinterStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cfg, err = client.FetchConfig(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		images, err = client.ListImages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}

	printPrinterStatus(status, cfg)
	printGallery(images, cfg.ButtonAssignments)
	return nil
}

func printPrinterStatus(status *printbox.PrinterStatus, cfg *printbox.Config) {
	dot := color.RedString("●")
	label := "offline"
	if status.Online() {
		dot = color.GreenString("●")
		label = "online"
	}
	fmt.Printf("%s printer %s", dot, label)
	if status.ConnectionType != "" {
		fmt.Printf(" (%s/%s)", status.ConnectionType, status.Protocol)
	}
	if status.SimulationMode {
		fmt.Printf(" %s", color.YellowString("[simulation]"))
	}
	fmt.Println()

	if cfg.Printer.BluetoothMAC != "" {
		fmt.Printf("  paired: %s\n", cfg.Printer.BluetoothMAC)
	}
	fmt.Println()
}

func printGallery(images []printbox.Image, assignments printbox.Assignments) {
	if len(images) == 0 {
		fmt.Println("no images uploaded")
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header([]string{"ID", "Filename", "Size", "Mode", "Buttons"})
	for _, img := range images {
		dims := "-"
		if img.Width > 0 {
			dims = fmt.Sprintf("%dx%d", img.Width, img.Height)
		}
		var badges []string
		for _, b := range assignments.ButtonsFor(img.ID) {
			badges = append(badges, "BTN "+b)
		}
		table.Append([]string{
			img.ID,
			img.Filename,
			dims,
			img.ModeLabel(),
			strings.Join(badges, " "),
		})
	}
	table.Render()
}
