// Package forms validates user input before any request is sent.
//
// Every failure is a *ValidationError whose Message is the text shown to the
// user. Struct-level rules run through go-playground/validator with a few
// custom tags registered by this package.
package forms
