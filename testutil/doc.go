// Package testutil provides fakes shared by tripcart tests: a notification
// recorder, a manually advanced clock and a sleeper that records backoff
// delays instead of waiting.
//
//	rec := testutil.NewRecorder()
//	sleeps := testutil.NewSleepRecorder()
//	exec := apiclient.New(client, apiclient.WithNotifier(rec), apiclient.WithSleeper(sleeps.Sleep))
//
// The fakebackend subpackage runs an in-memory marketplace backend.
package testutil
