//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"github.com/vikrampawar0411/daily-drop-ledger/internal/biz"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/conf"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/data"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/server"
	"github.com/vikrampawar0411/daily-drop-ledger/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Bootstrap, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(server.ProviderSet, data.ProviderSet, biz.ProviderSet, service.ProviderSet, newApp))
}
