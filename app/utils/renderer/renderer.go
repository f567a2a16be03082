package renderer

import (
	"github.com/unrolled/render"
)

// New returns the JSON renderer shared by every handler.
func New(isProduction bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    !isProduction,
		UnEscapeHTML:  true,
		StreamingJSON: false,
	})
}
