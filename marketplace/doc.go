// Package marketplace exposes one typed function per backend endpoint of
// the tripcart marketplace. The functions build paths and bodies and hand
// them to an apiclient.Executor; they validate nothing and keep no state.
// Failures are the executor's *errors.Error, already logged and notified.
//
//	mp := marketplace.New(exec)
//	reqs, err := mp.Requests.List(ctx)
//
// Every function accepts trailing apiclient.CallOption values, which are
// applied after the endpoint's own options.
package marketplace
