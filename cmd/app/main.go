package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/config"
	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/db"
	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/service"
	"github.com/Rogue-Bear-Innovations/schoolhouse-back/internal/transport"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			NewLogger,
			db.NewClient,
			transport.NewSessionStore,
			transport.NewHTTPServer,
		),
		service.Module,
		fx.Invoke(func(server *transport.HTTPServer) {}),
	)

	app.Run()
}

func NewLogger() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
