// Package services contains the application services behind the terminal
// client: authentication, profile and balance, posts and calls, and the
// skill catalog.
//
// Services funnel every API failure through the session (HandleError), so a
// 401/403 anywhere ends the session. Failures reach the caller as *Error,
// whose Message is ready to show to the user.
package services
