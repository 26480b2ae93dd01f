package utils

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Template Renderer
type Template struct {
	templ *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templ.ExecuteTemplate(w, name, data)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>conflict-model</title></head>
<body>
<h1>conflict-model</h1>
<p>POST /run to evaluate the reference model, POST /project to forecast.</p>
<form method="post" action="/run">
	<label>Scaler <input name="scaler" placeholder="MinMaxScaler"></label>
	<label>Model <input name="model" placeholder="KNeighborsClassifier"></label>
	<label>Runs <input name="n_runs" placeholder="10"></label>
	<label>Train Fraction <input name="train_fraction" placeholder="0.7"></label>
	<button type="submit">Run</button>
</form>
<p>Rendered at {{ .Timestamp }}</p>
</body>
</html>`

func NewTemplate() *Template {
	t := template.Must(template.New("index").Parse(indexHTML))
	return &Template{
		templ: t,
	}
}
