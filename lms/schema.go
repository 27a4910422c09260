// Package lms is the typed client of the learning management system GraphQL API.
package lms

import (
	_ "embed"
)

// Schema is the SDL the operation documents are written against
//
//go:embed schema.graphql
var Schema string
