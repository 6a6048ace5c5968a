package inventory

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the inventory feature serving the table at location.
func NewFeature(svc *Service, location string) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc, location)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "inventory"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.handler.location != ""
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if _, err := ParseLocation(f.handler.location); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
