package handlers

import (
	"github.com/rotostampa/pdf-handler/internal/service/split"
	"github.com/rotostampa/pdf-handler/pkg/logger"
)

// Handlers bundles all HTTP handlers for route registration.
type Handlers struct {
	Split *SplitHandler
}

func New(service split.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Split: NewSplitHandler(service, log.Named("handler")),
	}
}
