package module

import (
	"fmt"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/JannisHoch/conflict-model/constant"
	"github.com/JannisHoch/conflict-model/helper"
	"github.com/JannisHoch/conflict-model/processor"
	"github.com/JannisHoch/conflict-model/utils"
)

type WebModule interface {
	Init()
	Serve()
}

type WebModuleImpl struct {
	e         *echo.Echo
	logger    helper.LoggerHelper
	Processor processor.Processor
}

func NewWebModule(l helper.LoggerHelper, p processor.Processor) WebModule {
	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(os.Getenv(constant.EnvCORSOrigins), ","),
		AllowMethods:     strings.Split(os.Getenv(constant.EnvCORSMethods), ","),
		AllowHeaders:     strings.Split(os.Getenv(constant.EnvCORSHeaders), ","),
		AllowCredentials: true,
		ExposeHeaders:    strings.Split(os.Getenv(constant.EnvCORSExposeHdrs), ","),
		MaxAge:           12 * 60 * 60,
	}))
	e.Renderer = utils.NewTemplate()
	return &WebModuleImpl{
		e:         e,
		logger:    l,
		Processor: p,
	}
}

func (m *WebModuleImpl) Init() {
	m.e.GET("/", m.Processor.WebViewProcessor.ServeIndexPage)
	m.e.POST("/run", m.Processor.WebProcessor.HandleReferenceRunRequest)
	m.e.POST("/project", m.Processor.WebProcessor.HandleProjectionRequest)
}

func (m *WebModuleImpl) Serve() {
	m.e.Start(fmt.Sprintf(":%s", os.Getenv(constant.EnvWebPort)))
}
