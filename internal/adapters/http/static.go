package http

import (
	"embed"
	"io/fs"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

//go:embed static
var staticFS embed.FS

// SetupStatic serves the map page at / and its assets under /static.
func SetupStatic(app *fiber.App) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("static assets: " + err.Error())
	}
	index, err := fs.ReadFile(sub, "index.html")
	if err != nil {
		panic("static index: " + err.Error())
	}

	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(index)
	})
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:   nethttp.FS(sub),
		MaxAge: 3600,
	}))
}
