// Package commands implements the automations CLI.
//
//	automations serve   # HTTP triggers, scheduler and worker
//	automations run     # one Bus Manifest Report run in the foreground
//
// Configuration comes from the environment; --env-file loads extra dotenv
// files first.
package commands
