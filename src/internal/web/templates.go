package web

import (
	"embed"
	"fmt"
	"html/template"

	"pctracer-svc/src/internal/report"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"amount":  report.FormatAmount,
	"convert": report.ConvertDuration,
	"hours": func(seconds float64) string {
		return fmt.Sprintf("%.1f", seconds/3600)
	},
}

// Templates parses the embedded page templates. They are addressed by file name.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(files, "templates/*.html"))
}

func Install(router *gin.Engine) {
	router.SetHTMLTemplate(Templates())
}
