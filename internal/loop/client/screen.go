package client

import (
	"fmt"
	"time"

	"github.com/tomz197/kunai/internal/draw"
	"github.com/tomz197/kunai/internal/loop/config"
	"github.com/tomz197/kunai/internal/loop/server"
)

// drawFrame draws the current frame.
func (v *Viewer) drawFrame() error {
	// On phase transitions, do a full terminal clear so lines from the
	// previous screen don't persist.
	if v.state.Phase != v.state.prevPhase {
		v.chunkWriter.WriteString("\033[H\033[2J")
		v.state.prevPhase = v.state.Phase
	}

	if v.state.Phase == PhaseShutdown {
		v.drawShutdownScreen()
		return v.chunkWriter.Flush()
	}

	snapshot := v.server.GetSnapshot()
	for i, line := range PanelLines(snapshot, v.state.Phase) {
		if i+1 > v.state.height {
			break
		}
		v.chunkWriter.WriteAt(1, i+1, line)
	}
	return v.chunkWriter.Flush()
}

// PanelLines renders a snapshot as the lines of the status panel.
func PanelLines(snap *server.Snapshot, phase Phase) []string {
	if snap == nil {
		return []string{"waiting for simulation..."}
	}

	lines := []string{
		fmt.Sprintf("KUNAI  %s  elapsed %s", snap.Display, snap.Elapsed.Truncate(100*time.Millisecond)),
		fmt.Sprintf("cycle %d  respawned %d/%d  kunais %d  viewers %d",
			snap.Cycle, snap.Respawned, len(snap.Slots), snap.TotalExpected, snap.Viewers),
		"",
	}

	for i, slot := range snap.Slots {
		frac := 0.0
		if snap.TravelLimit > 0 {
			frac = slot.Position / snap.TravelLimit
		}
		status := "travel"
		switch {
		case !slot.Visible:
			status = "spent"
			frac = 0
		case slot.Parked:
			status = "parked"
		}
		hit := " "
		if slot.Overlapping {
			hit = "*"
		}
		lines = append(lines, fmt.Sprintf("#%d %s[%s] z=%5.1f v=%4.1f turn %d/%d %s",
			i+1, hit, draw.Bar(frac, config.BarWidth), slot.Position, slot.Speed,
			slot.Turns, slot.MaxTurns, status))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("first third %d  second third %d  third third %d",
			snap.Buckets.FirstThird, snap.Buckets.SecondThird, snap.Buckets.ThirdThird),
	)

	switch {
	case phase == PhaseFinished && snap.ReportSent:
		lines = append(lines, "All cycles complete! Report sent.")
	case phase == PhaseFinished || snap.Finished:
		lines = append(lines, "All cycles complete! Sending report...")
	}
	lines = append(lines, "", "Press Q to quit")
	return lines
}

// drawShutdownScreen draws the server shutdown notification screen.
func (v *Viewer) drawShutdownScreen() {
	cw := v.chunkWriter
	centerY := v.state.height / 2

	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(draw.Center(title, v.state.width), centerY-1, title)

	remaining := int(v.state.shutdownTimer) + 1
	countdown := fmt.Sprintf("Disconnecting in %d seconds...", remaining)
	cw.WriteAt(draw.Center(countdown, v.state.width), centerY+1, countdown)

	hint := "Press Q to disconnect now"
	cw.WriteAt(draw.Center(hint, v.state.width), centerY+3, hint)
}
