// Package ports defines the interfaces the add-in needs from its
// surroundings: the spreadsheet host, the object store and the diagnostic log.
// Adapters implement them; the call path depends only on these abstractions.
package ports
