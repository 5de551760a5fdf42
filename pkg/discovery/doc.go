// Package discovery advertises mtimer web front-ends on the local network
// with mDNS/DNS-SD and browses for other instances.
//
// # Service type
//
// Instances register as _mtimer._tcp in the local domain. The instance name
// is user-chosen (default "mtimer"). TXT records carry:
//
//   - ver: the HTTP API version ("1")
//   - path: the API base path ("/api/v1")
//   - n: the number of timers currently shown
//
// A front-end calls Update as timers are added so browsers see a current
// count without re-registering the service.
package discovery
