package module

import (
	"os"

	"github.com/JannisHoch/conflict-model/constant"
	"github.com/JannisHoch/conflict-model/database"
	"github.com/JannisHoch/conflict-model/helper"
	"github.com/JannisHoch/conflict-model/processor"
)

type CoreModule struct {
	Database  database.Database
	Helper    helper.Helper
	Processor processor.Processor
	WebModule WebModule
}

func NewCoreModule() CoreModule {
	h := helper.NewHelper()
	db := database.NewDatabase(h.LoggerHelper)

	polygons := processor.NewCSVPolygonProvider(h.LoggerHelper, os.Getenv(constant.EnvPolygonFile))
	variables := processor.NewCSVVariableProvider(h.LoggerHelper, os.Getenv(constant.EnvInputDir))
	p := processor.NewProcessor(h, db.ConflictStore, polygons, variables)

	return CoreModule{
		Database:  db,
		Helper:    h,
		Processor: p,
		WebModule: NewWebModule(h.LoggerHelper, p),
	}
}
