package model

// ServerTemplate is a process engine reachable through a docker container
type ServerTemplate struct {
	ID          string
	ContainerID string
	Name        string
	State       string
}
