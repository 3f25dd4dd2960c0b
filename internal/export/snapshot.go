package export

import (
	"tactics-board/internal/app"
)

// Snapshot renders the full board for the application's current frame and
// writes it to path as PNG: pitch, players, annotations, and any computed
// trajectories.
func Snapshot(path string, st *app.State, opts Options) error {
	r, err := NewRenderer(opts)
	if err != nil {
		return err
	}
	r.DrawPitch()
	r.DrawTrajectories(st.Simulation, st.Match)
	for _, m := range st.Managers() {
		for _, s := range m.Shapes() {
			r.DrawShape(s)
		}
	}
	r.DrawPlayers(st.Match, st.Frame())
	return r.SavePNG(path)
}
