package calcapi

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router under
// the /calculator prefix.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/keys", a.PressKey)
		r.Get("/display", a.Display)
		r.Get("/sequences", a.Sequences)
		r.Post("/sequences", a.PlaySequence)
		r.Post("/sequences/{name}/play", a.PlayNamed)
	})
}
