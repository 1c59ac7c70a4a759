// Package environment resolves the deployment environment of the automations
// service and carries it through context.Context, HTTP requests and logs.
//
// The environment is normally taken from APP_ENV. A process hosted by the
// Azure Functions runtime is always treated as production, matching how the
// service decides whether to fire a report run on startup.
//
//	env := environment.Resolve(cfg.Env)
//	if !env.IsProduction() {
//		// enqueue a run immediately
//	}
//
// Middleware attaches the value to each request context. Loggers pick it up
// once at construction through logger.WithEnvironment.
package environment
