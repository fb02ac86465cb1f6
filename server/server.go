package server

import (
	"os"
)

// Server runs the HTTP surface of the simulation host.
type Server struct{}

func (s *Server) Run(runner interface{ Run(addr ...string) error }) error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return runner.Run(":" + port)
}
