// Package async runs functions concurrently and collects their results
// through typed futures.
//
// Async starts fn in a goroutine and returns a *Future. Await blocks until the
// result is ready or the supplied context is done. WaitAll stops at the first
// error, while Settle waits for every future and reports each outcome, which is
// what a health probe needs: one failing backend must not hide the state of
// the others.
//
//	futures := []*async.Future[string]{
//		async.Async(ctx, "redis", probe),
//		async.Async(ctx, "postgres", probe),
//	}
//	for _, r := range async.Settle(ctx, futures...) {
//		if r.Err != nil {
//			// report r.Index
//		}
//	}
package async
