// Package preflight provides readiness checks for the filesystem paths,
// binaries and delivery endpoints that ssdwatch depends on.
//
// These checks run in two contexts:
//   - The run command calls RunAll before opening the browser. A failed check
//     aborts the run before any page is loaded.
//   - The CLI "ssdwatch check" command prints every result, including the
//     notification backend status, so a broken setup can be fixed up front.
//
// Checks that depend on a backend are skipped when that backend is not
// configured.
package preflight
