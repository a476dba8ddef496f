// Package models defines the BrainSwap data carried between the CLI and the
// REST API: profiles, posts, calls, skills and the request/response DTOs.
//
// Field names and JSON tags follow the backend's wire format, including its
// spelling of the auth response field ("accesToken").
package models
