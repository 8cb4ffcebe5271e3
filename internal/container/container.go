package container

import (
	app "lychee-collector/internal/application"
	"lychee-collector/internal/domain/entity"
	"lychee-collector/internal/domain/port"
)

type Container struct {
	Session *app.SessionService
}

func New(repo port.SampleRepository, cameras map[entity.Channel]port.Camera) *Container {
	session := app.NewSessionService(repo, cameras)

	return &Container{
		Session: session,
	}
}
