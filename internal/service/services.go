package service

import (
	"github.com/devhire/backend/internal/cache"
	"github.com/devhire/backend/internal/config"
	"github.com/devhire/backend/internal/mail"
	"github.com/devhire/backend/internal/realtime"
	"github.com/devhire/backend/internal/repository"
	"github.com/devhire/backend/internal/session"
	"github.com/devhire/backend/internal/storage"
	"github.com/devhire/backend/internal/token"
)

type Services struct {
	Auth     *AuthService
	User     *UserService
	JobOffer *JobOfferService
	Post     *PostService
	Comment  *CommentService
}

type Dependencies struct {
	Repos      *repository.Repositories
	Cache      cache.Cache
	Sessions   *session.Store
	Tokens     *token.Service
	Mailer     mail.Mailer
	ImageStore storage.ImageStore
	Hub        *realtime.Hub
	Config     *config.Config
}

func NewServices(deps Dependencies) *Services {
	return &Services{
		Auth:     NewAuthService(deps.Repos.User, deps.Sessions, deps.Tokens, deps.Mailer),
		User:     NewUserService(deps.Repos.User, deps.Cache, deps.Sessions, deps.ImageStore, deps.Config.EntityCacheTTL),
		JobOffer: NewJobOfferService(deps.Repos.JobOffer, deps.Cache, deps.ImageStore, deps.Hub, deps.Config.EntityCacheTTL),
		Post:     NewPostService(deps.Repos.Post, deps.Repos.Comment, deps.ImageStore),
		Comment:  NewCommentService(deps.Repos.Comment, deps.Repos.Post),
	}
}
