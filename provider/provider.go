// Package provider defines remote translation backends.
package provider

import "github.com/ZaguanLabs/agrilingo"

// Provider is the interface for remote translation backends.
// This is an alias to the main package interface for convenience.
type Provider = agrilingo.Provider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = agrilingo.TranslateRequest

// sourceLang returns the request source language, defaulting to English.
func sourceLang(req TranslateRequest) string {
	if req.SourceLang == "" {
		return agrilingo.DefaultLanguage
	}
	return req.SourceLang
}

// format returns the request format, defaulting to plain text.
func format(req TranslateRequest) string {
	if req.Format == "" {
		return "text"
	}
	return req.Format
}
