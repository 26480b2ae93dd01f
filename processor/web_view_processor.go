package processor

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JannisHoch/conflict-model/helper"
)

type WebViewProcessor interface {
	ServeIndexPage(c echo.Context) error
}

type WebViewProcessorImpl struct {
	logger helper.LoggerHelper
}

func NewWebViewProcessor(l helper.LoggerHelper) WebViewProcessor {
	return &WebViewProcessorImpl{
		logger: l,
	}
}

func (p *WebViewProcessorImpl) ServeIndexPage(c echo.Context) error {
	return c.Render(http.StatusOK, "index", map[string]interface{}{
		"Timestamp": time.Now().Unix(),
	})
}
