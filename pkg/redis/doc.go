// Package redis connects to the optional Redis server that backs run
// history.
//
// Connect retries the initial ping so the service tolerates Redis starting
// a little later than the process; Healthcheck adapts a client to the
// readiness probe signature used by httpserver.ReadinessHandler.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
// Errors wrap the go-redis cause, so both the sentinel and the driver error
// match with errors.Is.
package redis
