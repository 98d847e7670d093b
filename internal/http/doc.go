// Package http serves the local dashboard JSON API started by `resama serve`.
//
// The router exposes the following endpoints:
//   - POST /session: signs in. Body: {"email","password"}. Response: the session
//     state with the signed-in user. GET /session reports the current state and
//     DELETE /session signs out (204 No Content).
//   - GET /teachers, POST /teachers, PUT /teachers/{id}, DELETE /teachers/{id}:
//     teacher management. Listing accepts `search` and `specialty`; writes are
//     reserved to responsables.
//   - GET /formations, POST /formations: formations, filtered by `search` and `level`.
//   - GET /rooms: room catalog filtered by `search`, `type`, `equipment` and
//     `minCapacity`. With `date`, `start` and `end` only the rooms free in that
//     range are listed.
//   - GET /equipment: available equipment filtered by `kind` and `search`, with
//     per kind counts.
//   - GET /reservations, POST /reservations, PATCH /reservations/{n}/confirm,
//     PATCH /reservations/{n}/cancel. Listing accepts `status`, `from`, `to`,
//     `teacher` and `search`. Creation answers with the overlaps detected
//     before submission.
//   - GET /planning?week=&room=, GET /planning/export?week=&room=: the weekly room
//     occupancy grid, as JSON or as an XLSX workbook.
//   - GET /recap?week=, GET /recap/export?week=&format=json|xlsx: the recap
//     horaire of the signed-in teacher.
//   - GET /stats: backend dashboard counters.
//
// Everything except /session requires a signed-in session (401 otherwise).
// Local validation failures answer 422 with per-field messages; backend
// failures keep the backend status, 5xx being reported as 502.
package http
