// Package api exposes the board state over HTTP for companion tools:
// reading annotations and trajectories, triggering simulations, and
// driving playback remotely.
package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tactics-board/internal/app"
	"tactics-board/internal/simulation"
)

// SetRouter builds the gin engine for an application state.
func SetRouter(st *app.State) *gin.Engine {
	r := gin.Default()

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/annotations", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, st.Snapshot())
	})

	apiRoutes.GET("/possession", func(ctx *gin.Context) {
		chain := st.Simulation.PossessionChain()
		out := make([]gin.H, 0, len(chain))
		for _, link := range chain {
			out = append(out, gin.H{"from": link.From, "to": link.To})
		}
		ctx.JSON(http.StatusOK, out)
	})

	apiRoutes.GET("/trajectories", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, trajectoriesPayload(st.Simulation))
	})

	apiRoutes.POST("/simulate", func(ctx *gin.Context) {
		var req struct {
			IntervalSeconds float64 `json:"interval_seconds"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			return // BindJSON already wrote a 400
		}
		if req.IntervalSeconds <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "interval_seconds must be positive"})
			return
		}
		st.RunSimulation(req.IntervalSeconds)
		ctx.JSON(http.StatusOK, trajectoriesPayload(st.Simulation))
	})

	apiRoutes.POST("/clear", func(ctx *gin.Context) {
		st.ClearAnnotations()
		ctx.Status(http.StatusNoContent)
	})

	apiRoutes.GET("/playback", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"frame":   st.Frame(),
			"playing": st.IsPlaying(),
		})
	})

	apiRoutes.POST("/playback/frame", func(ctx *gin.Context) {
		var req struct {
			Frame int `json:"frame"`
		}
		if err := ctx.BindJSON(&req); err != nil {
			return
		}
		st.SetFrame(req.Frame)
		ctx.JSON(http.StatusOK, gin.H{"frame": st.Frame()})
	})

	return r
}

// trajectoriesPayload flattens the engine output into a JSON-friendly
// structure.
func trajectoriesPayload(engine *simulation.Engine) gin.H {
	players := gin.H{}
	for id, pts := range engine.SimulatedPlayers() {
		samples := make([]gin.H, 0, len(pts))
		for _, tp := range pts {
			samples = append(samples, gin.H{"x": tp.Pos.X, "y": tp.Pos.Y, "frame": tp.Frame})
		}
		players[id] = samples
	}
	ball := make([]gin.H, 0, len(engine.SimulatedBall()))
	for _, tp := range engine.SimulatedBall() {
		ball = append(ball, gin.H{"x": tp.Pos.X, "y": tp.Pos.Y, "frame": tp.Frame})
	}
	return gin.H{"players": players, "ball": ball}
}

// Run serves the API on addr, blocking until the server stops.
func Run(st *app.State, addr string) {
	if err := SetRouter(st).Run(addr); err != nil {
		log.Printf("api: server stopped: %v", err)
	}
}
