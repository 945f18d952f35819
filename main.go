package main

import (
	"github.com/qrdrop/qrdrop/config"
	"github.com/qrdrop/qrdrop/realtime"
	"github.com/qrdrop/qrdrop/routes"
	"github.com/qrdrop/qrdrop/store"
	"github.com/qrdrop/qrdrop/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	hub := realtime.NewHub()
	st := store.New(hub)

	r := routes.SetupRouter(st, hub)

	// Background reclamation of expired sessions and their files
	st.Start()

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, st.Stop, hub.Close); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
