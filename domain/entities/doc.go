// Package entities provides the core domain types exchanged across the add-in
// boundary: the tagged host value, function metadata and structured error details.
// They carry no behaviour beyond construction and validation.
package entities
