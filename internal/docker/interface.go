package docker

import (
	"github.com/rusenback/bpmmon/internal/audit"
	"github.com/rusenback/bpmmon/internal/model"
)

// EngineClient interface mahdollistaa mockauksen testeissä
type EngineClient interface {
	ListServerTemplates() ([]model.ServerTemplate, error)
	StreamAuditEvents(server model.ServerTemplate) (<-chan audit.Event, <-chan error, func())
	Close() error
}

// Varmista että Client toteuttaa interfacen
var _ EngineClient = (*Client)(nil)
