// Package template manages newsletter templates.
//
// A template's source lives outside the database at Path. Writes read the
// source first and fail if it cannot be read; reads hydrate Body from a
// cached copy of the source.
//
// Repository implementations live in repository/postgres/ and repository/memory/.
package template
