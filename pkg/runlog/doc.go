// Package runlog keeps the outcome of recent automation runs so operators
// can see what happened without reading logs.
//
// Two stores implement Store: MemoryStore, the default, and RedisStore, a
// capped Redis list that survives restarts and is shared between replicas.
// Both keep at most the configured number of runs and return them newest
// first.
package runlog
