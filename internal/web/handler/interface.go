package handler

// Service is embedded by every page handler service. A handler registers its
// routes in Init(app, cfg, collaborators...), where the trailing parameters
// are the small interfaces it needs, so tests can pass fakes.
type Service interface{}
