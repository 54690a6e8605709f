package modules

import (
	"github.com/staffworx/recruiting/modules/recruitment"
	"github.com/staffworx/recruiting/pkg/application"
)

var BuiltInModules = []application.Module{
	recruitment.NewModule(),
}

func Load(app application.Application, externalModules ...application.Module) error {
	return app.RegisterModules(append(BuiltInModules, externalModules...)...)
}
