package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/mentorflow/mentorflow/internal/config"
	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MailPublisher is the part of *amqp.Channel the handlers need.
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// ChangeBroker publishes and relays table change notifications.
type ChangeBroker interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	Subscribe(ctx context.Context, table string) (<-chan domain.ChangeEvent, error)
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel MailPublisher
	broker      ChangeBroker

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh MailPublisher, broker ChangeBroker) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		broker:      broker,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/sign-up", h.SignUp)
		r.Post("/sign-in", h.SignIn)
		r.Post("/sign-out", h.SignOut)
		r.Get("/session", h.GetSession)
		r.With(h.auth, h.myInfo).Patch("/user", h.UpdateMyMetadata)
	})

	// everything below requires a session
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", h.GetAllProfiles)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor}), h.myInfo).Post("/", h.InviteProfile)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.profileInfo)
				r.Get("/", h.GetProfile)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor}), h.preventRemovingSelf).Delete("/", h.DeleteProfile)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.GetAllProjects)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.project)
				r.Get("/", h.GetProject)
				r.Patch("/status", h.UpdateProjectStatus)
				r.Put("/checklist", h.ReplaceProjectChecklist)
				r.Put("/comments", h.ReplaceProjectComments)
				r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/", h.DeleteProject)
			})
		})

		r.Get("/realtime/{table}", h.StreamChanges)
	})
}
