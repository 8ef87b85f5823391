// Package fault classifies session failures and routes them to the owning session.
//
// Two fault sources exist:
//   - synchronous render failures, returned by the pipeline and captured at the
//     call site of Render
//   - asynchronous runtime faults (recovered panics, client-side errors), delivered
//     through the process-wide Hook
//
// Both reach the session as the same *Error value, so callers never need to know
// where a fault originated. Each session owns exactly one Reporter, which holds
// its single Hook subscription for the lifetime of the session.
package fault
