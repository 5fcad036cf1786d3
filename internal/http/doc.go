// Package http exposes the roomboard REST API on net/http.
//
// All routes live under a configurable prefix (default /api):
//   - POST /auth/register {"username","password","email","fullName"} -> 201 {"username"}.
//   - GET /auth/login with HTTP Basic credentials -> 200 {"username","token","expiresAt"}.
//     The token is also returned in the X-Session-Token header and a session_token cookie.
//   - GET /auth/check -> 200 {"username","expiresAt"} for a live session.
//   - POST /auth/logout revokes the presented session and clears the cookie.
//   - /profRoomBook/roomPost and /profRoomBook/roomRequest: POST, GET, GET /{id},
//     PUT /{id}, DELETE /{id}, GET /user/{username}. Owners come from the session.
//   - POST /BookedRoom/book {"roomPostId"} converts a post into a booking atomically.
//     GET /BookedRoom, GET /BookedRoom/{id}, GET /BookedRoom/user/{username},
//     DELETE /BookedRoom/{id}.
//   - POST /dashboard/add, GET /dashboard/user/{username}?day=, DELETE /dashboard/{id}.
//
// Sessions are read from "Authorization: Bearer", X-Session-Token or the cookie.
// Errors are {"error_code","message","errors"} with 400, 401, 403, 404, 409, 422
// or 500. Request and response DTOs live next to their handlers.
package http
