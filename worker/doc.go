// Package worker runs SDMX queries in parallel against a shared client.
//
// Two shapes are provided: FetchAll runs a fixed slice of queries and
// returns the results in input order, and Pool accepts jobs over time
// and delivers results on a channel. Both bound concurrency to a worker
// count, defaulting to the number of CPUs.
package worker
