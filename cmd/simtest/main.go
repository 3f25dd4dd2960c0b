// Command simtest runs a trajectory simulation on demo match data and
// prints the results.
package main

import (
	"flag"
	"fmt"
	"os"

	"tactics-board/internal/annotation"
	"tactics-board/internal/simulation"
	"tactics-board/internal/tracking"
	"tactics-board/pkg/geometry"
)

func main() {
	seconds := flag.Int("seconds", 60, "Demo match length per half in seconds")
	interval := flag.Float64("interval", 3.0, "Simulation interval in seconds")
	frame := flag.Int("frame", 0, "Start frame")
	flag.Parse()

	if *interval <= 0 {
		fmt.Println("Usage: simtest [-seconds 60] [-interval 3.0] [-frame 0]")
		os.Exit(1)
	}

	match := tracking.NewDemoMatch(*seconds)
	fmt.Printf("Demo match: %d players, %d frames at %d fps\n",
		len(match.PlayerIDs()), match.TotalFrames(), match.FPS())

	engine := simulation.NewEngine()
	mgr := annotation.NewManager(&annotation.ArrowBuilder{})

	// A run for H7 down the right flank.
	runArrow := buildArrow(mgr, annotation.StrokeDotted,
		geometry.Point2D{X: 70, Y: 55}, geometry.Point2D{X: 95, Y: 50})
	pos, _ := match.PlayerPosition("H7", *frame)
	fmt.Printf("H7 at (%.1f, %.1f)\n", pos.X, pos.Y)
	engine.Associate(runArrow, "H7", *frame)

	// A pass from H8 to H9.
	passArrow := buildArrow(mgr, annotation.StrokeSolid,
		geometry.Point2D{X: 55, Y: 34}, geometry.Point2D{X: 80, Y: 30})
	status := engine.Associate(passArrow, "H8", *frame)
	if status == simulation.StatusAwaitingReceiver {
		engine.SetPassReceiver("H9")
	}

	engine.CalculateTrajectories(*interval, *frame, match)

	fmt.Printf("\nSimulated trajectories (%.1fs window):\n", *interval)
	for id, pts := range engine.SimulatedPlayers() {
		if len(pts) == 0 {
			continue
		}
		first, last := pts[0], pts[len(pts)-1]
		dist := first.Pos.Distance(last.Pos)
		fmt.Printf("  %-4s %3d samples, (%.1f, %.1f) -> (%.1f, %.1f), %.1fm covered\n",
			id, len(pts), first.Pos.X, first.Pos.Y, last.Pos.X, last.Pos.Y, dist)
	}

	ball := engine.SimulatedBall()
	if len(ball) > 0 {
		first, last := ball[0], ball[len(ball)-1]
		fmt.Printf("  ball %3d samples, (%.1f, %.1f) -> (%.1f, %.1f)\n",
			len(ball), first.Pos.X, first.Pos.Y, last.Pos.X, last.Pos.Y)
	}

	fmt.Println("\nPossession chain:")
	for _, link := range engine.PossessionChain() {
		fmt.Printf("  %s -> %s\n", link.From, link.To)
	}
}

func buildArrow(mgr *annotation.Manager, stroke annotation.Stroke, pts ...geometry.Point2D) *annotation.Arrow {
	mgr.SetStroke(stroke)
	for _, p := range pts {
		mgr.AddPoint(p)
	}
	shape := mgr.TryFinishShape()
	if shape == nil {
		fmt.Fprintln(os.Stderr, "Failed to build arrow")
		os.Exit(1)
	}
	return shape.(*annotation.Arrow)
}
