// Package batch implements the single-or-many execution model shared by the
// task tools.
//
// A request is normalized once into an Input, which is a batch of one for
// single-item calls. Run executes every item concurrently with an optional
// concurrency cap and returns results in input order. One item's failure or
// panic never affects its siblings. The Envelope type renders the
// {success, summary, results} payload returned to the agent.
package batch
