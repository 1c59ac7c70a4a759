// Package busreport implements the Bus Manifest Report automation: it
// fetches the bus roster, runs today's boarding manifest for those buses,
// counts students per bus and emails the summary.
//
// A Service performs one run per call to Run with a fresh SchoolPass API,
// so runs never share session state. Handler adapts the service to the
// queue worker; the trigger of the task that started a run is read from
// the task context and recorded in run history.
package busreport
