package app

import (
	"github.com/ferdiebergado/hrkit/internal/auth"
	"github.com/ferdiebergado/hrkit/internal/client"
	"github.com/ferdiebergado/hrkit/internal/costcenter"
	"github.com/ferdiebergado/hrkit/internal/employee"
	"github.com/ferdiebergado/hrkit/internal/location"
	"github.com/ferdiebergado/hrkit/internal/middleware"
	"github.com/ferdiebergado/hrkit/internal/outbox"
	"github.com/ferdiebergado/hrkit/internal/platform/jwt"
	"github.com/ferdiebergado/hrkit/internal/platform/router"
	"github.com/ferdiebergado/hrkit/internal/platform/validation"
)

type apiHandlers struct {
	clients     *client.Handler
	costCenters *costcenter.Handler
	locations   *location.Handler
	employees   *employee.Handler
	outbox      *outbox.Handler
}

func mountAuthRoutes(r router.Router, handler *auth.Handler, validator validation.Validator, maxBodyBytes int64) {
	r.Group("/auth", func(gr router.Router) {
		gr.Post("/login", handler.LoginUser,
			middleware.DecodePayload[auth.UserLoginRequest](maxBodyBytes),
			middleware.ValidateInput[auth.UserLoginRequest](validator))
		gr.Post("/refresh", handler.RefreshToken)
		gr.Post("/logout", handler.LogoutUser)
	})
}

func mountAPIRoutes(r router.Router, handlers *apiHandlers, validator validation.Validator, signer jwt.Signer, maxBodyBytes int64) {
	r.Group("/api/v1", func(api router.Router) {
		api.Group("/clients", func(gr router.Router) {
			gr.Post("/", handlers.clients.Create,
				middleware.DecodePayload[client.ClientRequest](maxBodyBytes),
				middleware.ValidateInput[client.ClientRequest](validator))
			gr.Get("/", handlers.clients.List)
			gr.Get("/{id}", handlers.clients.Find)
			gr.Put("/{id}", handlers.clients.Update,
				middleware.DecodePayload[client.ClientRequest](maxBodyBytes),
				middleware.ValidateInput[client.ClientRequest](validator))
			gr.Delete("/{id}", handlers.clients.Delete)
		})

		api.Group("/cost-centers", func(gr router.Router) {
			gr.Post("/", handlers.costCenters.Create,
				middleware.DecodePayload[costcenter.CostCenterRequest](maxBodyBytes),
				middleware.ValidateInput[costcenter.CostCenterRequest](validator))
			gr.Get("/", handlers.costCenters.List)
			gr.Get("/$lookup", handlers.costCenters.Lookup)
			gr.Get("/{id}", handlers.costCenters.Find)
			gr.Put("/{id}", handlers.costCenters.Update,
				middleware.DecodePayload[costcenter.CostCenterRequest](maxBodyBytes),
				middleware.ValidateInput[costcenter.CostCenterRequest](validator))
			gr.Delete("/{id}", handlers.costCenters.Delete)
		})

		api.Group("/locations", func(gr router.Router) {
			gr.Post("/", handlers.locations.Create,
				middleware.DecodePayload[location.LocationRequest](maxBodyBytes),
				middleware.ValidateInput[location.LocationRequest](validator))
			gr.Get("/", handlers.locations.List)
			gr.Get("/$lookup", handlers.locations.Lookup)
			gr.Get("/{id}", handlers.locations.Find)
			gr.Put("/{id}", handlers.locations.Update,
				middleware.DecodePayload[location.LocationRequest](maxBodyBytes),
				middleware.ValidateInput[location.LocationRequest](validator))
			gr.Delete("/{id}", handlers.locations.Delete)
		})

		api.Group("/employees", func(gr router.Router) {
			gr.Post("/", handlers.employees.Create,
				middleware.DecodePayload[employee.EmployeeRequest](maxBodyBytes),
				middleware.ValidateInput[employee.EmployeeRequest](validator))
			gr.Get("/", handlers.employees.List)
			gr.Get("/$export", handlers.employees.Export)
			gr.Get("/{id}", handlers.employees.Find)
			gr.Put("/{id}", handlers.employees.Update,
				middleware.DecodePayload[employee.EmployeeRequest](maxBodyBytes),
				middleware.ValidateInput[employee.EmployeeRequest](validator))
			gr.Delete("/{id}", handlers.employees.Delete)
		})

		api.Group("/endpoints", func(gr router.Router) {
			gr.Post("/", handlers.outbox.CreateEndpoint,
				middleware.DecodePayload[outbox.EndpointRequest](maxBodyBytes),
				middleware.ValidateInput[outbox.EndpointRequest](validator))
			gr.Get("/", handlers.outbox.ListEndpoints)
			gr.Get("/{id}", handlers.outbox.FindEndpoint)
			gr.Put("/{id}", handlers.outbox.UpdateEndpoint,
				middleware.DecodePayload[outbox.EndpointRequest](maxBodyBytes),
				middleware.ValidateInput[outbox.EndpointRequest](validator))
			gr.Delete("/{id}", handlers.outbox.DeleteEndpoint)
		})

		api.Get("/events", handlers.outbox.ListEvents)
	}, auth.RequireToken(signer))
}
