package ui

import (
	"bytes"
	"image"
	"sort"
	"time"

	_ "image/jpeg"
	_ "image/png"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/printdeck/printdeck/internal/printbox"
	"github.com/printdeck/printdeck/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// reconciledMsg delivers a freshly fetched config + gallery pair. Both views
// arrive in one message so they can never be applied half-updated.
type reconciledMsg struct {
	cfg    *printbox.Config
	images []printbox.Image
	err    error
}

type debounceFiredMsg struct {
	gen     uint64
	imageID string // captured at schedule time, never re-read at fire time
}

type processDoneMsg struct {
	imageID string
	img     *printbox.Image
	err     error
}

type previewMsg struct {
	imageID string
	size    int
	width   int
	height  int
	err     error
}

type uploadDoneMsg struct {
	img *printbox.Image
	err error
}

type deleteDoneMsg struct {
	imageID string
	err     error
}

type printDoneMsg struct {
	res *printbox.Result
	err error
}

type assignDoneMsg struct {
	err error
}

type scanDoneMsg struct {
	res *printbox.ScanResult
	err error
}

type switchDoneMsg struct {
	res *printbox.Result
	err error
}

type protocolDoneMsg struct {
	res *printbox.Result
	err error
}

type connectDoneMsg struct {
	res *printbox.Result
	err error
}

type reconnectDoneMsg struct {
	res *printbox.Result
	err error
}

// reconnectLabelMsg restores the reconnect control after its fixed display
// delay, independent of when (or whether) the request finished.
type reconnectLabelMsg struct{}

type disconnectDoneMsg struct {
	res *printbox.Result
	err error
}

type unpairDoneMsg struct {
	res *printbox.Result
	err error
}

type testPrintDoneMsg struct {
	res *printbox.Result
	err error
}

type gpioMsg struct {
	status *printbox.GPIOStatus
	err    error
}

type simulateDoneMsg struct {
	button int
	res    *printbox.Result
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func debounceCmd(d time.Duration, gen uint64, imageID string) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return debounceFiredMsg{gen: gen, imageID: imageID}
	})
}

func (m Model) fetchSnapshotCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		if store == nil {
			return snapshotMsg(state.Snapshot{})
		}
		return snapshotMsg(store.Snapshot())
	}
}

// pollNowCmd runs the shared status check immediately instead of waiting
// for the next scheduled poll tick.
func (m Model) pollNowCmd() tea.Cmd {
	refresh := m.refresh
	store := m.store
	ctx := m.ctx
	return func() tea.Msg {
		if refresh != nil {
			refresh(ctx)
		}
		if store == nil {
			return snapshotMsg(state.Snapshot{})
		}
		return snapshotMsg(store.Snapshot())
	}
}

// reconcileCmd re-fetches the authoritative config and image list. Every
// mutation that can change gallery membership, badges, or assignments funnels
// through this one command; there is no incremental patching.
func (m Model) reconcileCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		var cfg *printbox.Config
		var images []printbox.Image

		g, gctx := errgroup.WithContext(ctx)
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
			return reconciledMsg{err: err}
		}

		sort.SliceStable(images, func(i, j int) bool {
			if images[i].Timestamp != images[j].Timestamp {
				return images[i].Timestamp < images[j].Timestamp
			}
			return images[i].ID < images[j].ID
		})
		return reconciledMsg{cfg: cfg, images: images}
	}
}

func (m Model) processCmd(imageID string, req printbox.ProcessRequest) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		img, err := client.ProcessImage(ctx, imageID, req)
		return processDoneMsg{imageID: imageID, img: img, err: err}
	}
}

func (m Model) previewCmd(imageID string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		data, err := client.FetchPreview(ctx, imageID)
		if err != nil {
			return previewMsg{imageID: imageID, err: err}
		}
		msg := previewMsg{imageID: imageID, size: len(data)}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			msg.width, msg.height = cfg.Width, cfg.Height
		}
		return msg
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		img, err := client.Upload(ctx, path)
		return uploadDoneMsg{img: img, err: err}
	}
}

func (m Model) deleteCmd(imageID string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		return deleteDoneMsg{imageID: imageID, err: client.DeleteImage(ctx, imageID)}
	}
}

func (m Model) printCmd(imageID string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.PrintImage(ctx, imageID)
		return printDoneMsg{res: res, err: err}
	}
}

func (m Model) assignCmd(assignments printbox.Assignments) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		err := client.UpdateConfig(ctx, printbox.ConfigUpdate{ButtonAssignments: assignments})
		return assignDoneMsg{err: err}
	}
}

func (m Model) scanCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	seconds := int(m.scanTimeout / time.Second)
	return func() tea.Msg {
		res, err := client.ScanBluetooth(ctx, seconds)
		return scanDoneMsg{res: res, err: err}
	}
}

func (m Model) switchTypeCmd(connType string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.SwitchConnection(ctx, connType)
		return switchDoneMsg{res: res, err: err}
	}
}

func (m Model) switchProtocolCmd(protocol string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.SwitchProtocol(ctx, protocol)
		return protocolDoneMsg{res: res, err: err}
	}
}

func (m Model) connectCmd(mac string) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.ConnectBluetooth(ctx, mac)
		return connectDoneMsg{res: res, err: err}
	}
}

func (m Model) reconnectCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.Reconnect(ctx)
		return reconnectDoneMsg{res: res, err: err}
	}
}

const reconnectLabelDelay = 2 * time.Second

func reconnectLabelCmd() tea.Cmd {
	return tea.Tick(reconnectLabelDelay, func(time.Time) tea.Msg {
		return reconnectLabelMsg{}
	})
}

func (m Model) disconnectCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.DisconnectBluetooth(ctx)
		return disconnectDoneMsg{res: res, err: err}
	}
}

func (m Model) unpairCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.UnpairBluetooth(ctx)
		return unpairDoneMsg{res: res, err: err}
	}
}

func (m Model) testPrintCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.TestPrint(ctx)
		return testPrintDoneMsg{res: res, err: err}
	}
}

func (m Model) gpioCmd() tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		status, err := client.GPIOStatus(ctx)
		return gpioMsg{status: status, err: err}
	}
}

func (m Model) simulateCmd(button int) tea.Cmd {
	client := m.client
	ctx := m.ctx
	return func() tea.Msg {
		res, err := client.SimulateButton(ctx, button)
		return simulateDoneMsg{button: button, res: res, err: err}
	}
}
