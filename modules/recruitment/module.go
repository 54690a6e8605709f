package recruitment

import (
	"embed"

	"github.com/staffworx/recruiting/modules/recruitment/infrastructure/persistence"
	"github.com/staffworx/recruiting/modules/recruitment/presentation/controllers"
	"github.com/staffworx/recruiting/modules/recruitment/services"
	"github.com/staffworx/recruiting/pkg/application"
)

//go:embed infrastructure/persistence/schema/recruitment-schema.sql
var migrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&migrationFiles)

	vacancyRepo := persistence.NewVacancyRepository()
	processRepo := persistence.NewProcessRepository()
	holidayRepo := persistence.NewHolidayRepository()

	app.RegisterServices(
		services.NewProcessService(processRepo, app.EventPublisher()),
		services.NewVacancyService(vacancyRepo, processRepo, holidayRepo, app.EventPublisher()),
		services.NewHolidayService(holidayRepo, vacancyRepo, app.EventPublisher()),
	)

	app.RegisterControllers(
		controllers.NewRecruitmentAPIController(app),
	)

	return nil
}

func (m *Module) Name() string {
	return "recruitment"
}
