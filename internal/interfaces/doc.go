// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Remote Books Database
//
//   - Store: find, create and update book pages and append clippings
//     (internal/syncer/synchronizer.go), implemented by notion.Store.
//
// ## External Service Interfaces
//
//   - Finder: book cover lookup (internal/covers/covers.go), implemented by
//     GoogleBooksClient and OpenLibraryClient.
//
// ## Sync History
//
//   - Recorder: append one book outcome (internal/syncer/runner.go)
//   - HistoryReader, Pinger: read access for the HTTP API (internal/http/stores.go)
//
// ## Scheduling
//
//   - SyncTrigger: start a run and report status (internal/http/stores.go),
//     implemented by scheduler.SyncScheduler.
//
// # Adding a New Cover Provider
//
//  1. Implement Finder in internal/covers/
//
//     type ItunesClient struct {
//         httpClient *http.Client
//         limiter    *rate.Limiter
//     }
//
//     func (c *ItunesClient) LookupCover(ctx context.Context, title, author string) (string, error)
//
//  2. Add its name to config.Export.CoverProvider validation and to covers.NewFinder.
//
//  3. Add a compile-time check to checks.go:
//
//     var _ covers.Finder = (*covers.ItunesClient)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the current list.
package interfaces
