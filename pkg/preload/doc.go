// Package preload warms remote image assets ahead of rendering.
//
// A Scheduler accepts (url, priority) requests, keeps the ones it cannot
// start yet in a stable priority queue (higher priority first, arrival
// order among equals) and runs at most MaxConcurrent fetches at a time.
// A URL that already loaded resolves immediately without network access,
// and a URL that is queued or in flight is never fetched twice: later
// callers wait on the same fetch and receive the same Result.
//
// Every Preload call returns a Future that resolves exactly once to Ready
// or Failed. Failures free their slot, are not remembered as loaded, and a
// later Preload of the same URL fetches again.
package preload
